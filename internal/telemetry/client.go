// Package telemetry fetches sensor readings from the telemetry endpoint and
// polls it on an interval.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// DefaultEndpoint serves the newest-first reading history.
const DefaultEndpoint = "https://iot25.vercel.app/api/data"

// ClientOption configures the telemetry client.
type ClientOption func(*Client)

// WithHTTPTimeout sets the HTTP client timeout for fetches.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// Client reads the telemetry endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a client for endpoint. An empty endpoint uses
// DefaultEndpoint.
func NewClient(endpoint string, log *logger.Logger, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL being polled.
func (c *Client) Endpoint() string { return c.endpoint }

// wireReading accepts ids sent as either strings or numbers.
type wireReading struct {
	ID          json.RawMessage `json:"id"`
	Temperature float64         `json:"temperature"`
	HeartRate   float64         `json:"heart_rate"`
	Humidity    float64         `json:"humidity"`
	Timestamp   string          `json:"timestamp"`
}

func (w wireReading) reading() domain.Reading {
	id := string(w.ID)
	var s string
	if err := json.Unmarshal(w.ID, &s); err == nil {
		id = s
	}
	if id == "null" {
		id = ""
	}
	return domain.Reading{
		ID:          id,
		Temperature: w.Temperature,
		HeartRate:   w.HeartRate,
		Humidity:    w.Humidity,
		Timestamp:   w.Timestamp,
	}
}

// Fetch returns the current readings, newest first. A payload that is not
// a non-empty JSON array yields domain.ErrInvalidPayload.
func (c *Client) Fetch(ctx context.Context) ([]domain.Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "VitalsVoice/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telemetry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch data: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading telemetry body: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return nil, domain.ErrInvalidPayload
	}

	var raw []wireReading
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrInvalidPayload
	}

	readings := make([]domain.Reading, 0, len(raw))
	for _, w := range raw {
		readings = append(readings, w.reading())
	}

	c.log.Debug("telemetry: fetched %d readings", len(readings))
	return readings, nil
}
