// Package service orchestrates the submission pipeline: validate, normalize,
// fan out attachment uploads, append the ledger row, notify.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthmatters-clinic/board-intake/internal/driveclient"
	"github.com/healthmatters-clinic/board-intake/internal/logging"
	"github.com/healthmatters-clinic/board-intake/internal/mailclient"
	"github.com/healthmatters-clinic/board-intake/internal/metrics"
	"github.com/healthmatters-clinic/board-intake/internal/models"
	"github.com/healthmatters-clinic/board-intake/internal/normalizer"
	"github.com/healthmatters-clinic/board-intake/internal/validator"
)

// ObjectStore stores attachment payloads and returns shareable links.
type ObjectStore interface {
	CreateFile(ctx context.Context, name, mimeType string, data []byte) (*driveclient.File, error)
}

// Ledger appends one row per submission to the external record of
// applications.
type Ledger interface {
	AppendRow(ctx context.Context, cells []string) error
}

// Mailer delivers notification email.
type Mailer interface {
	Send(ctx context.Context, msg mailclient.Message) error
}

// Options carries per-deployment pipeline settings.
type Options struct {
	FromEmail         string
	ToEmail           string
	OrientationURL    string
	UploadConcurrency int
}

// Result summarizes one processed submission for the caller. The HTTP
// surface never exposes these details; they exist for logging and tests.
type Result struct {
	SubmissionID string
	Discarded    bool
	Record       models.SubmissionRecord
	Uploads      []models.UploadResult
}

type IntakeService struct {
	store  ObjectStore
	ledger Ledger
	mailer Mailer
	check  *validator.Validator
	opts   Options
	logger *logging.Logger

	// now is injectable for deterministic ledger timestamps in tests.
	now func() time.Time
}

func NewIntakeService(store ObjectStore, ledger Ledger, mailer Mailer, check *validator.Validator, opts Options, logger *logging.Logger) *IntakeService {
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IntakeService{
		store:  store,
		ledger: ledger,
		mailer: mailer,
		check:  check,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Process runs the pipeline over one decoded submission.
//
// Validation runs before any outbound call. A honeypot hit returns a
// Result with Discarded set and no error: the caller reports success while
// nothing was uploaded, recorded, or mailed. A missing required field
// returns *validator.FieldError untouched so the handler can map it to 400.
//
// After validation the stages run in order: attachment fan-out, ledger
// append (fatal on failure), internal notification (fatal on failure — the
// organization's receipt of the lead is the system's purpose), applicant
// acknowledgment (best-effort, logged only). Per-file upload failures are
// recorded in the result sequence and never abort the submission.
func (s *IntakeService) Process(ctx context.Context, raw *models.RawSubmission) (*Result, error) {
	start := time.Now()
	submissionID := uuid.New().String()

	if err := s.check.Check(raw); err != nil {
		if errors.Is(err, validator.ErrAbuseDetected) {
			metrics.SpamDiscardedTotal.Inc()
			s.logger.InfoContext(ctx, "honeypot tripped, submission discarded",
				logging.SubmissionID(submissionID))
			return &Result{SubmissionID: submissionID, Discarded: true}, nil
		}
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	record := normalizer.Normalize(raw)

	uploads := s.uploadAttachments(ctx, submissionID, raw.Attachments)

	if err := s.appendLedgerRow(ctx, record, uploads); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		metrics.LedgerAppendFailures.Inc()
		s.logger.ErrorContext(ctx, "ledger append failed; uploads may be orphaned",
			logging.SubmissionID(submissionID), logging.Error(err))
		return nil, fmt.Errorf("append ledger row: %w", err)
	}

	if err := s.notifyOrganization(ctx, record, uploads); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		metrics.EmailFailures.WithLabelValues("internal").Inc()
		s.logger.ErrorContext(ctx, "internal notification failed",
			logging.SubmissionID(submissionID), logging.Error(err))
		return nil, fmt.Errorf("send internal notification: %w", err)
	}
	metrics.EmailsSentTotal.WithLabelValues("internal").Inc()

	// Best-effort: the submission is durably recorded by now, so a lost
	// acknowledgment only costs the applicant a confirmation email.
	if record.Email != "" {
		if err := s.acknowledgeApplicant(ctx, record); err != nil {
			metrics.EmailFailures.WithLabelValues("acknowledgment").Inc()
			s.logger.WarnContext(ctx, "applicant acknowledgment failed",
				logging.SubmissionID(submissionID),
				logging.Recipient(record.Email),
				logging.Error(err))
		} else {
			metrics.EmailsSentTotal.WithLabelValues("acknowledgment").Inc()
		}
	}

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "submission processed",
		logging.SubmissionID(submissionID),
		logging.Applicant(record.Email))

	return &Result{
		SubmissionID: submissionID,
		Record:       record,
		Uploads:      uploads,
	}, nil
}

// uploadAttachments transfers every attachment, bounded to the configured
// concurrency. Results are written by index so the output preserves input
// order regardless of completion order; a per-file failure is data, not an
// abort. Payloads are released once their transfer has been attempted.
func (s *IntakeService) uploadAttachments(ctx context.Context, submissionID string, attachments []models.Attachment) []models.UploadResult {
	results := make([]models.UploadResult, len(attachments))
	if len(attachments) == 0 {
		return results
	}

	sem := make(chan struct{}, s.opts.UploadConcurrency)
	var wg sync.WaitGroup

	for i, att := range attachments {
		wg.Add(1)
		go func(i int, att models.Attachment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			file, err := s.store.CreateFile(ctx, att.Filename, att.ContentType, att.Data)

			att.Data = nil // payload released after the attempt
			result := models.UploadResult{Attachment: att}
			if err != nil {
				metrics.AttachmentUploadFailures.Inc()
				s.logger.ErrorContext(ctx, "attachment upload failed",
					logging.SubmissionID(submissionID),
					logging.Attachment(att.Filename),
					logging.Error(err))
				result.Err = err
			} else {
				metrics.AttachmentUploadsTotal.Inc()
				result.FileID = file.ID
				result.Link = file.ViewLink
			}
			results[i] = result
		}(i, att)
	}

	wg.Wait()
	return results
}

func (s *IntakeService) appendLedgerRow(ctx context.Context, record models.SubmissionRecord, uploads []models.UploadResult) error {
	timestamp := s.now().UTC().Format(time.RFC3339)
	links := strings.Join(successfulLinks(uploads), ", ")
	return s.ledger.AppendRow(ctx, models.LedgerRow(record, timestamp, links))
}

func (s *IntakeService) notifyOrganization(ctx context.Context, record models.SubmissionRecord, uploads []models.UploadResult) error {
	role := record.Role
	if role == "" {
		role = "Board/CAB"
	}

	links := successfulLinks(uploads)
	fileList := "None"
	if len(links) > 0 {
		fileList = strings.Join(links, " | ")
	}

	location := record.City
	if record.State != "" {
		if location != "" {
			location += ", "
		}
		location += record.State
	}

	text := strings.Join([]string{
		"A new application was submitted.",
		"",
		"Name: " + record.Name,
		"Email: " + record.Email,
		"Role: " + record.Role,
		"Location: " + location,
		"Files: " + fileList,
	}, "\n")

	return s.mailer.Send(ctx, mailclient.Message{
		To:      s.opts.ToEmail,
		From:    s.opts.FromEmail,
		Subject: fmt.Sprintf("New %s application — %s", role, record.Name),
		Text:    text,
		HTML:    "<pre>" + text + "</pre>",
	})
}

func (s *IntakeService) acknowledgeApplicant(ctx context.Context, record models.SubmissionRecord) error {
	name := record.Name
	if name == "" {
		name = "Applicant"
	}
	role := record.Role
	if role == "" {
		role = "Board/CAB"
	}

	html := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;line-height:1.5">
<p>Dear %s,</p>
<p>Thank you for your interest in serving on our %s. Your application has been received.</p>
<p><strong>Next steps</strong></p>
<ol>
<li>Governance review and follow-up if anything is missing.</li>
<li>Invitation to the next Board/CAB meeting (calendar hold sent separately).</li>
<li>Self-paced orientation: <a href="%s">%s</a></li>
</ol>
<p>If you have questions, contact <a href="mailto:%s">%s</a>.</p>
<p>Sincerely,<br/>Health Matters Clinic</p>
</div>`, name, role, s.opts.OrientationURL, s.opts.OrientationURL, s.opts.ToEmail, s.opts.ToEmail)

	return s.mailer.Send(ctx, mailclient.Message{
		To:      record.Email,
		From:    s.opts.FromEmail,
		Subject: "We received your application — Health Matters Clinic",
		Text:    stripTags(html),
		HTML:    html,
	})
}

func successfulLinks(uploads []models.UploadResult) []string {
	links := make([]string, 0, len(uploads))
	for _, u := range uploads {
		if u.Succeeded() && u.Link != "" {
			links = append(links, u.Link)
		}
	}
	return links
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func stripTags(html string) string {
	return tagPattern.ReplaceAllString(html, "")
}
