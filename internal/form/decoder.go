package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/healthmatters-clinic/board-intake/internal/models"
)

// ErrPayloadTooLarge is returned when any single file part exceeds the
// configured size cap. The whole submission fails; there is no partial parse.
var ErrPayloadTooLarge = errors.New("payload too large")

// maxFieldBytes bounds a single text field value to keep memory predictable
// even for hostile bodies.
const maxFieldBytes = 1 << 20

// Parse streams the multipart body of r into a RawSubmission. Parts are
// consumed in a single pass in arrival order: text fields accumulate under
// their name (repeats preserved in order), file parts are drained fully into
// memory. Zero-byte file parts are dropped silently. Parse returns only
// once every part has been drained, so callers always observe the complete
// field mapping.
func Parse(r *http.Request, maxFileBytes int64) (*models.RawSubmission, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("read multipart body: %w", err)
	}

	raw := &models.RawSubmission{
		Fields: make(map[string][]string),
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart part: %w", err)
		}

		if part.FileName() == "" {
			value, err := readField(part)
			part.Close()
			if err != nil {
				return nil, err
			}
			name := part.FormName()
			raw.Fields[name] = append(raw.Fields[name], value)
			continue
		}

		att, err := readFile(part, maxFileBytes)
		part.Close()
		if err != nil {
			return nil, err
		}
		if att.Size == 0 {
			// Browsers send an empty part for unused file inputs.
			continue
		}
		raw.Attachments = append(raw.Attachments, att)
	}

	return raw, nil
}

func readField(part *multipart.Part) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(part, maxFieldBytes+1)); err != nil {
		return "", fmt.Errorf("read field %q: %w", part.FormName(), err)
	}
	if buf.Len() > maxFieldBytes {
		return "", ErrPayloadTooLarge
	}
	return buf.String(), nil
}

func readFile(part *multipart.Part, maxFileBytes int64) (models.Attachment, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, maxFileBytes+1))
	if err != nil {
		return models.Attachment{}, fmt.Errorf("read file %q: %w", part.FileName(), err)
	}
	if n > maxFileBytes {
		return models.Attachment{}, ErrPayloadTooLarge
	}

	contentType := part.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return models.Attachment{
		FieldName:   part.FormName(),
		Filename:    part.FileName(),
		ContentType: contentType,
		Data:        buf.Bytes(),
		Size:        n,
	}, nil
}
