// Package normalizer converts the decoder's raw field mapping into the
// canonical SubmissionRecord. It is a pure, total function: it never fails,
// missing fields become empty strings, and running it twice over the same
// input yields an identical record.
package normalizer

import (
	"strings"

	"github.com/healthmatters-clinic/board-intake/internal/models"
)

// Normalize builds the canonical record from raw form fields.
//
// Scalar fields use the first submitted occurrence, trimmed. Multi-valued
// controls (skills, committees) join every non-empty occurrence with ", "
// in declaration order, never sorted. References accept either split
// fields (refN_name/refN_email) or the legacy combined refN field; the
// split name wins when non-empty.
func Normalize(raw *models.RawSubmission) models.SubmissionRecord {
	return models.SubmissionRecord{
		Name:            scalar(raw, models.FieldName),
		Email:           scalar(raw, models.FieldEmail),
		Role:            scalar(raw, models.FieldRole),
		Phone:           scalar(raw, models.FieldPhone),
		Occupation:      scalar(raw, models.FieldOccupation),
		Employer:        scalar(raw, models.FieldEmployer),
		City:            scalar(raw, models.FieldCity),
		State:           scalar(raw, models.FieldState),
		Resume:          scalar(raw, models.FieldResume),
		BoardExperience: scalar(raw, models.FieldBoardExperience),
		Skills:          joined(raw, models.FieldSkills),
		Fundraising:     scalar(raw, models.FieldFundraising),
		OfficerInterest: scalar(raw, models.FieldOfficerInterest),
		Committees:      joined(raw, models.FieldCommittees),
		Conflict:        scalar(raw, models.FieldConflict),
		Bio:             scalar(raw, models.FieldBio),
		Ref1:            reference(raw, models.FieldRef1Name, models.FieldRef1Email, models.FieldRef1),
		Ref2:            reference(raw, models.FieldRef2Name, models.FieldRef2Email, models.FieldRef2),
	}
}

func scalar(raw *models.RawSubmission, name string) string {
	return strings.TrimSpace(raw.Field(name))
}

func joined(raw *models.RawSubmission, name string) string {
	values := raw.Fields[name]
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func reference(raw *models.RawSubmission, nameField, emailField, combinedField string) models.Reference {
	name := scalar(raw, nameField)
	if name == "" {
		name = scalar(raw, combinedField)
	}
	return models.Reference{
		Name:  name,
		Email: scalar(raw, emailField),
	}
}
