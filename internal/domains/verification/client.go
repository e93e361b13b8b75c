// Package verification talks to the external eligibility authority. The
// authority owns the actual policy (GitHub account checks, rate limits);
// this client only transports its verdict.
package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tbnb-faucet/go-gateway/pkg/models"
)

const (
	DefaultVerifyTimeout = 30 * time.Second
	DefaultRecordTimeout = 10 * time.Second
)

type Client struct {
	verifyURL     string
	recordURL     string
	verifyTimeout time.Duration
	recordTimeout time.Duration
	httpClient    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeouts(verify, record time.Duration) Option {
	return func(c *Client) {
		if verify > 0 {
			c.verifyTimeout = verify
		}
		if record > 0 {
			c.recordTimeout = record
		}
	}
}

// NewClient builds a client for the authority's verify endpoint. The
// record-payout endpoint lives next to it: <base>/record-payout, where base
// is the verify URL without its trailing /verify segment.
func NewClient(verifyURL string, opts ...Option) *Client {
	base := strings.TrimSuffix(strings.TrimRight(verifyURL, "/"), "/verify")
	c := &Client{
		verifyURL:     verifyURL,
		recordURL:     base + "/record-payout",
		verifyTimeout: DefaultVerifyTimeout,
		recordTimeout: DefaultRecordTimeout,
		httpClient:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type verifyPayload struct {
	WalletAddress  string `json:"wallet_address"`
	GithubUsername string `json:"github_username"`
	RequesterID    string `json:"requester_id"`
	Channel        string `json:"channel"`
}

// Verify asks the authority whether the request is eligible. Any transport
// or status failure is returned as an error; it is never interpreted as a
// "not verified" verdict.
func (c *Client) Verify(ctx context.Context, req models.DisbursementRequest) (models.VerificationResult, error) {
	payload := verifyPayload{
		WalletAddress:  req.WalletAddress,
		GithubUsername: req.GithubUsername,
		RequesterID:    req.BuilderID,
		Channel:        req.Channel,
	}
	var result models.VerificationResult
	if err := c.post(ctx, c.verifyURL, c.verifyTimeout, payload, &result); err != nil {
		return models.VerificationResult{}, fmt.Errorf("verification service: %w", err)
	}
	return result, nil
}

// RecordPayout notifies the authority that a payout completed on-chain so it
// can update its rate-limit bookkeeping. Callers treat failures as
// non-critical; the money has already moved.
func (c *Client) RecordPayout(ctx context.Context, githubUserID int64) error {
	payload := struct {
		GithubUserID int64 `json:"github_user_id"`
	}{GithubUserID: githubUserID}
	if err := c.post(ctx, c.recordURL, c.recordTimeout, payload, nil); err != nil {
		return fmt.Errorf("record payout: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, timeout time.Duration, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
