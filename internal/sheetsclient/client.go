// Package sheetsclient appends submission rows to the application ledger
// spreadsheet through the Google Sheets values API.
package sheetsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TokenSource supplies OAuth2 bearer tokens for API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	baseURL       string
	spreadsheetID string
	sheetRange    string
	tokens        TokenSource
	httpClient    *http.Client
}

func New(baseURL, spreadsheetID, sheetRange string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL:       baseURL,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
		tokens:        tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type appendRequest struct {
	Values [][]string `json:"values"`
}

// AppendRow appends one row of cells to the configured sheet range. The
// service assigns the row position. A failure here is fatal to the
// submission: the ledger is the system of record.
func (c *Client) AppendRow(ctx context.Context, cells []string) error {
	if c == nil {
		return fmt.Errorf("sheets client not configured")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("sheets token: %w", err)
	}

	bodyBytes, err := json.Marshal(appendRequest{Values: [][]string{cells}})
	if err != nil {
		return fmt.Errorf("marshal append request: %w", err)
	}

	appendURL := fmt.Sprintf(
		"%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(c.sheetRange),
	)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, appendURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("build append request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("send append request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("ledger append status %d: %s", resp.StatusCode, bytes.TrimSpace(excerpt))
	}

	return nil
}
