// pkg/apiclient/client.go

// Package apiclient talks to the AI-Ops insights API: POST to create,
// GET to list, DELETE to clear. Per-request failures are reported as
// failed operations rather than raised, so a flaky endpoint cannot halt a
// generation run.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/insight"
)

// Client is an insights API client for one tenant domain.
type Client struct {
	cfg      *Config
	endpoint string
	http     *http.Client
}

// NewClient validates the configuration and builds a client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, cerr.Wrap(err, "invalid insights client config")
	}

	return &Client{
		cfg:      cfg,
		endpoint: cfg.Domain + insightsPath,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg),
		},
	}, nil
}

// Endpoint returns the composed insights URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HasToken reports whether the client sends bearer auth.
func (c *Client) HasToken() bool {
	return c.cfg.Token != ""
}

// TokenPreview renders a safe preview of the configured token.
func (c *Client) TokenPreview() string {
	if c.cfg.Token == "" {
		return "None"
	}
	if len(c.cfg.Token) <= 10 {
		return c.cfg.Token + "..."
	}
	return c.cfg.Token[:10] + "..."
}

// HTTPClient exposes the underlying transport for sibling API calls that
// share the same timeout policy (the device inventory fetch).
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Post sends one insight. It returns whether the post succeeded; errors
// are logged with the insight's display name, never propagated. In
// dry-run mode the payload is logged and counted as a success.
func (c *Client) Post(rc *aiops_io.RuntimeContext, rec insight.Record, label string) bool {
	log := otelzap.Ctx(rc.Ctx)

	if c.cfg.DryRun {
		payload, err := json.Marshal(rec)
		if err != nil {
			payload = []byte(fmt.Sprintf("unserializable insight: %v", err))
		}
		log.Info("[DRY RUN] Would post insight",
			zap.String("window", label),
			zap.String("title", rec.Title()),
			zap.String("uid", rec.UID()),
			zap.ByteString("payload", payload))
		return true
	}

	body, err := json.Marshal(rec)
	if err != nil {
		log.Error("Failed to serialize insight",
			zap.String("window", label),
			zap.String("title", rec.Title()),
			zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(rc.Ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("Failed to build insight request", zap.Error(err))
		return false
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("Error posting insight",
			zap.String("window", label),
			zap.String("title", rec.Title()),
			zap.String("uid", rec.UID()),
			zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("Failed to post insight",
			zap.String("window", label),
			zap.String("title", rec.Title()),
			zap.String("uid", rec.UID()),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", detail))
		return false
	}

	log.Info("Posted insight",
		zap.String("window", label),
		zap.String("title", rec.Title()),
		zap.String("uid", rec.UID()))
	return true
}

// List fetches up to limit insights from the tenant, in API order. A
// failed fetch is returned as an error: callers decide whether it is
// fatal (the tenant loader treats it so).
func (c *Client) List(rc *aiops_io.RuntimeContext, limit int) ([]insight.Record, error) {
	url := c.endpoint
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(rc.Ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, cerr.Wrap(err, "failed to build list request")
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cerr.Wrap(err, "insights list request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, cerr.Newf("insights API returned %d: %s", resp.StatusCode, string(detail))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerr.Wrap(err, "failed to read insights response")
	}

	// The API has returned both a bare array and an items wrapper across
	// versions; accept either.
	var records []insight.Record
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapper struct {
			Items []insight.Record `json:"items"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, cerr.Wrap(err, "failed to decode insights response")
		}
		records = wrapper.Items
	}
	return records, nil
}

// DeleteAll clears every insight on the tenant. A 404 counts as success:
// there was nothing to clear.
func (c *Client) DeleteAll(rc *aiops_io.RuntimeContext) bool {
	log := otelzap.Ctx(rc.Ctx)

	if c.cfg.DryRun {
		log.Info("[DRY RUN] Would delete all insights",
			zap.String("endpoint", c.endpoint))
		return true
	}

	req, err := http.NewRequestWithContext(rc.Ctx, http.MethodDelete, c.endpoint, nil)
	if err != nil {
		log.Error("Failed to build delete request", zap.Error(err))
		return false
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("Error clearing insights", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		log.Info("Cleared all insights", zap.String("endpoint", c.endpoint))
		return true
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("Failed to clear insights",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", detail))
		return false
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}
