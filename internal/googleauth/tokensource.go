// Package googleauth exchanges a Google service account key for short-lived
// OAuth2 access tokens used by the Drive and Sheets clients.
package googleauth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// Scopes requested for every token; the service only touches Drive uploads
// and Sheets appends.
var Scopes = []string{
	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/spreadsheets",
}

type credentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// TokenSource mints and caches service-account access tokens. It is safe
// for concurrent use and holds no per-submission state.
type TokenSource struct {
	clientEmail string
	privateKey  *rsa.PrivateKey
	tokenURI    string
	scopes      string
	httpClient  *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// New decodes a base64-encoded service account JSON key and prepares a
// token source. tokenURI, when non-empty, overrides the key's token_uri
// (used by tests).
func New(serviceAccountBase64 string, tokenURI string, timeout time.Duration) (*TokenSource, error) {
	keyJSON, err := base64.StdEncoding.DecodeString(serviceAccountBase64)
	if err != nil {
		return nil, fmt.Errorf("decode service account key: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(keyJSON, &creds); err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("service account key missing client_email or private_key")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse service account private key: %w", err)
	}

	uri := creds.TokenURI
	if tokenURI != "" {
		uri = tokenURI
	}
	if uri == "" {
		uri = "https://oauth2.googleapis.com/token"
	}

	return &TokenSource{
		clientEmail: creds.ClientEmail,
		privateKey:  privateKey,
		tokenURI:    uri,
		scopes:      strings.Join(Scopes, " "),
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

// Token returns a valid access token, minting a new one when the cached
// token is within a minute of expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expiresAt.Add(-time.Minute)) {
		return ts.token, nil
	}

	assertion, err := ts.signAssertion()
	if err != nil {
		return "", err
	}

	token, expiresIn, err := ts.exchange(ctx, assertion)
	if err != nil {
		return "", err
	}

	ts.token = token
	ts.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return token, nil
}

func (ts *TokenSource) signAssertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   ts.clientEmail,
		"scope": ts.scopes,
		"aud":   ts.tokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(ts.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token assertion: %w", err)
	}
	return signed, nil
}

func (ts *TokenSource) exchange(ctx context.Context, assertion string) (string, int, error) {
	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", 0, fmt.Errorf("token endpoint returned empty access_token")
	}

	return result.AccessToken, result.ExpiresIn, nil
}
