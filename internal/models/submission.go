package models

// Field names recognized on the application form. Anything else submitted
// is carried in RawSubmission but ignored by normalization.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldRole            = "role"
	FieldPhone           = "phone"
	FieldOccupation      = "occupation"
	FieldEmployer        = "employer"
	FieldCity            = "city"
	FieldState           = "state"
	FieldResume          = "resume"
	FieldBoardExperience = "board_experience"
	FieldSkills          = "skills"
	FieldFundraising     = "fundraising"
	FieldOfficerInterest = "officer_interest"
	FieldCommittees      = "committees"
	FieldConflict        = "conflict"
	FieldBio             = "bio"
	FieldRef1            = "ref1"
	FieldRef1Name        = "ref1_name"
	FieldRef1Email       = "ref1_email"
	FieldRef2            = "ref2"
	FieldRef2Name        = "ref2_name"
	FieldRef2Email       = "ref2_email"
)

// RawSubmission is the decoder's output: every text field of the multipart
// body, with repeated occurrences preserved in arrival order, plus the file
// parts in arrival order. Field names are not case-normalized.
type RawSubmission struct {
	Fields      map[string][]string
	Attachments []Attachment
}

// Field returns the first submitted value for name, or empty string.
// First-occurrence-wins is the documented policy for scalar fields.
func (r *RawSubmission) Field(name string) string {
	if vals := r.Fields[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Attachment is one fully drained file part. Data is released (set to nil)
// once an upload has been attempted for it.
type Attachment struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
	Size        int64
}

// Reference is one professional reference on the application.
type Reference struct {
	Name  string
	Email string
}

// SubmissionRecord is the canonical application record. It is immutable
// once built: name and email are non-empty (validation runs first), every
// other field defaults to the empty string, and multi-valued form controls
// are already flattened to comma-joined strings.
type SubmissionRecord struct {
	Name            string
	Email           string
	Role            string
	Phone           string
	Occupation      string
	Employer        string
	City            string
	State           string
	Resume          string
	BoardExperience string
	Skills          string
	Fundraising     string
	OfficerInterest string
	Committees      string
	Conflict        string
	Bio             string
	Ref1            Reference
	Ref2            Reference
}

// UploadResult records the outcome of one attachment transfer. The result
// slice for a submission is one-to-one and order-preserving with the
// attachment slice, so failures show up as holes rather than disappearing.
type UploadResult struct {
	Attachment Attachment
	FileID     string
	Link       string
	Err        error
}

// Succeeded reports whether the transfer produced a stored file.
func (u UploadResult) Succeeded() bool {
	return u.Err == nil
}

// LedgerColumnCount is the width of the ledger row contract below.
const LedgerColumnCount = 22

// LedgerRow builds the ordered cell values appended to the ledger for one
// submission. Column order is a fixed contract with the spreadsheet headers:
// timestamp, role, name, email, phone, occupation, employer, city, state,
// resume, board_experience, skills, fundraising, officer_interest,
// committees, conflict, ref1_name, ref1_email, ref2_name, ref2_email, bio,
// attachment links. Reordering is a breaking schema migration.
func LedgerRow(rec SubmissionRecord, timestamp string, links string) []string {
	return []string{
		timestamp,
		rec.Role,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.Occupation,
		rec.Employer,
		rec.City,
		rec.State,
		rec.Resume,
		rec.BoardExperience,
		rec.Skills,
		rec.Fundraising,
		rec.OfficerInterest,
		rec.Committees,
		rec.Conflict,
		rec.Ref1.Name,
		rec.Ref1.Email,
		rec.Ref2.Name,
		rec.Ref2.Email,
		rec.Bio,
		links,
	}
}
