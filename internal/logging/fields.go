package logging

import "log/slog"

// Common field names for consistent logging across the service.
const (
	FieldService      = "service"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatus       = "status"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldSubmissionID = "submission_id"
	FieldApplicant    = "applicant"
	FieldAttachment   = "attachment"
	FieldRecipient    = "recipient"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// SubmissionID returns a slog attribute for a submission ID.
func SubmissionID(id string) slog.Attr {
	return slog.String(FieldSubmissionID, id)
}

// Applicant returns a slog attribute for the applicant email.
func Applicant(email string) slog.Attr {
	return slog.String(FieldApplicant, email)
}

// Attachment returns a slog attribute for an attachment filename.
func Attachment(name string) slog.Attr {
	return slog.String(FieldAttachment, name)
}

// Recipient returns a slog attribute for an email recipient.
func Recipient(email string) slog.Attr {
	return slog.String(FieldRecipient, email)
}
