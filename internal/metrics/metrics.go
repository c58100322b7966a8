package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submission pipeline metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of submissions processed, by outcome",
		},
		[]string{"status"},
	)

	SpamDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_spam_discarded_total",
			Help: "Total number of submissions discarded by the honeypot",
		},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intake_submission_duration_seconds",
			Help:    "End-to-end duration of submission processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Attachment fan-out metrics
	AttachmentUploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_attachment_uploads_total",
			Help: "Total number of attachments uploaded successfully",
		},
	)

	AttachmentUploadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_attachment_upload_failures_total",
			Help: "Total number of attachment uploads that failed",
		},
	)

	// Ledger metrics
	LedgerAppendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_ledger_append_failures_total",
			Help: "Total number of failed ledger row appends",
		},
	)

	// Notification metrics
	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_emails_sent_total",
			Help: "Total number of emails sent, by kind",
		},
		[]string{"kind"},
	)

	EmailFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_email_failures_total",
			Help: "Total number of email delivery failures, by kind",
		},
		[]string{"kind"},
	)
)
