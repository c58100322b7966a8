// Package driveclient uploads attachment payloads to Google Drive under a
// fixed parent folder and returns shareable view links.
package driveclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

// TokenSource supplies OAuth2 bearer tokens for API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	uploadURL  string
	folderID   string
	tokens     TokenSource
	httpClient *http.Client
}

// File is the stored-file descriptor returned by a successful upload.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ViewLink string `json:"webViewLink"`
}

func New(uploadURL, folderID string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		uploadURL: uploadURL,
		folderID:  folderID,
		tokens:    tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateFile uploads one attachment via the multipart/related upload
// protocol: a JSON metadata part naming the file and its parent folder,
// followed by the media part. Any non-2xx response is an error; callers
// treat upload errors as per-file failures.
func (c *Client) CreateFile(ctx context.Context, name, mimeType string, data []byte) (*File, error) {
	if c == nil {
		return nil, fmt.Errorf("drive client not configured")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("drive token: %w", err)
	}

	body, contentType, err := buildRelatedBody(name, mimeType, c.folderID, data)
	if err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}

	uploadURL := c.uploadURL + "?uploadType=multipart&fields=id,name,webViewLink"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("send upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("drive upload status %d: %s", resp.StatusCode, bytes.TrimSpace(excerpt))
	}

	var file File
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if file.ViewLink == "" && file.ID != "" {
		file.ViewLink = fmt.Sprintf("https://drive.google.com/file/d/%s/view", file.ID)
	}

	return &file, nil
}

func buildRelatedBody(name, mimeType, folderID string, data []byte) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	metadata := map[string]any{
		"name":    name,
		"parents": []string{folderID},
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", err
	}

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return nil, "", err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	mediaPart, err := w.CreatePart(mediaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := mediaPart.Write(data); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	contentType := fmt.Sprintf("multipart/related; boundary=%s", w.Boundary())
	return &body, contentType, nil
}
