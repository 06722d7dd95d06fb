// Package paypal implements the slice of the PayPal REST API the service
// needs: OAuth2 client-credentials tokens, webhook listing (to resolve the
// registered webhook id at startup) and webhook signature verification.
package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// LiveAPIBase is the production REST endpoint; sandbox deployments
	// configure api-m.sandbox.paypal.com instead.
	LiveAPIBase = "https://api-m.paypal.com"

	tokenPath = "/v1/oauth2/token"
)

type Client struct {
	httpClient *http.Client
	apiBase    string
	clientID   string
	secret     string
}

func NewClient(apiBase, clientID, secret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiBase:    strings.TrimRight(apiBase, "/"),
		clientID:   clientID,
		secret:     secret,
	}
}

// accessToken fetches a fresh client-credentials token. Verification calls
// are rare enough (one per inbound webhook) that no token cache is kept.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+tokenPath, strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access_token")
	}

	return payload.AccessToken, nil
}

// doJSON performs an authenticated request and decodes the response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s returned %d", method, path, resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
