package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LayoutClient talks to the layout-analysis REST service: one call starts an
// asynchronous job with the prebuilt layout profile, a second polls the
// returned operation until it finishes.
type LayoutClient struct {
	endpoint     string
	key          string
	pollInterval time.Duration
	httpClient   *http.Client
}

const layoutProfile = "prebuilt-layout"

func NewLayoutClient(endpoint, key string, pollInterval time.Duration) *LayoutClient {
	return &LayoutClient{
		endpoint:     endpoint,
		key:          key,
		pollInterval: pollInterval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Submit starts an analysis job and returns the operation URL to poll.
func (c *LayoutClient) Submit(ctx context.Context, content []byte) (string, error) {
	u := fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?api-version=2023-07-31", c.endpoint, layoutProfile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit layout job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("submit layout job: status %d: %s", resp.StatusCode, string(body))
	}
	op := resp.Header.Get("Operation-Location")
	if op == "" {
		return "", fmt.Errorf("submit layout job: missing Operation-Location header")
	}
	return op, nil
}

// AwaitResult polls the operation until it succeeds, fails, or the deadline
// elapses. Exceeding the deadline is a TimeoutError; the pipeline run aborts
// with nothing persisted.
func (c *LayoutClient) AwaitResult(ctx context.Context, operationURL string, deadline time.Duration) (*LayoutResult, error) {
	timer := time.NewTimer(deadline)
	defer timer.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, result, err := c.poll(ctx, operationURL)
		if err != nil {
			return nil, err
		}
		switch status {
		case "succeeded":
			return result, nil
		case "failed":
			return nil, fmt.Errorf("layout job failed")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, &TimeoutError{Deadline: deadline}
		case <-ticker.C:
		}
	}
}

func (c *LayoutClient) poll(ctx context.Context, operationURL string) (string, *LayoutResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("create poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("poll layout job: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", nil, fmt.Errorf("read poll response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("poll layout job: status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var op struct {
		Status        string        `json:"status"`
		AnalyzeResult *LayoutResult `json:"analyzeResult"`
	}
	if err := json.Unmarshal(body, &op); err != nil {
		return "", nil, fmt.Errorf("decode poll response: %w", err)
	}
	return op.Status, op.AnalyzeResult, nil
}

// LayoutResult is the service's native analysis payload, kept close to the
// wire shape. The mapping into the normalized content model happens in
// LayoutExtractor.
type LayoutResult struct {
	Content    string            `json:"content"`
	Pages      []LayoutPage      `json:"pages"`
	Tables     []LayoutTable     `json:"tables"`
	Paragraphs []LayoutParagraph `json:"paragraphs"`
	Languages  []LayoutLanguage  `json:"languages"`
}

type LayoutPage struct {
	PageNumber int          `json:"pageNumber"`
	Angle      float64      `json:"angle"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	Unit       string       `json:"unit"`
	Lines      []LayoutLine `json:"lines"`
}

type LayoutLine struct {
	Content    string            `json:"content"`
	Polygon    []float64         `json:"polygon"`
	Appearance *LayoutAppearance `json:"appearance,omitempty"`
}

// LayoutAppearance is per-line style metadata the service reports only for
// some documents.
type LayoutAppearance struct {
	Style LayoutStyleAttrs `json:"style"`
}

type LayoutStyleAttrs struct {
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	IsBold      *bool   `json:"isBold,omitempty"`
	IsItalic    *bool   `json:"isItalic,omitempty"`
	IsUnderline *bool   `json:"isUnderline,omitempty"`
}

type LayoutTable struct {
	RowCount    int          `json:"rowCount"`
	ColumnCount int          `json:"columnCount"`
	Cells       []LayoutCell `json:"cells"`
}

type LayoutCell struct {
	RowIndex        int                    `json:"rowIndex"`
	ColumnIndex     int                    `json:"columnIndex"`
	Content         string                 `json:"content"`
	BoundingRegions []LayoutBoundingRegion `json:"boundingRegions,omitempty"`
}

type LayoutBoundingRegion struct {
	PageNumber int       `json:"pageNumber"`
	Polygon    []float64 `json:"polygon"`
}

type LayoutParagraph struct {
	Content string `json:"content"`
}

type LayoutLanguage struct {
	Locale     string  `json:"locale"`
	Confidence float64 `json:"confidence"`
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
