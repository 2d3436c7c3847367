package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UpstreamError reports a non-success response from the model service. The
// body is carried for diagnostics; calls are not retried here.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model service returned %d: %s", e.Status, e.Body)
}

// BoundingBox is an axis-aligned box in image coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DetectedObject is one raw detection from the model service.
type DetectedObject struct {
	ClassID     string      `json:"classId"`
	ClassName   string      `json:"className"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"boundingBox"`
}

// Response is the model service's detection result for one data item.
// Confidence is the aggregate confidence; some model versions omit it.
type Response struct {
	ID         int64            `json:"id"`
	Confidence *float64         `json:"confidence,omitempty"`
	Objects    []DetectedObject `json:"objects"`
}

// Request is one detection call: the image to run on plus model parameters.
type Request struct {
	DataID   int64          `json:"id"`
	ImageURL string         `json:"imageUrl"`
	Params   map[string]any `json:"params,omitempty"`
}

// Client calls the external object-detection model service over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a Client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		url:        url,
	}
}

// Detect runs the model on one data item. Any non-2xx response is returned
// as an *UpstreamError wrapping the status and body.
func (c *Client) Detect(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode detection request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build detection request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("model service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode detection response: %w", err)
	}
	return &out, nil
}
