package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPQuoter calls the price computation API with a JSON POST.
type HTTPQuoter struct {
	url    string
	client *http.Client
}

func NewHTTPQuoter(url string, timeout time.Duration) *HTTPQuoter {
	return &HTTPQuoter{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (q *HTTPQuoter) Quote(ctx context.Context, req QuoteRequest) (*ServerBreakdown, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal quote request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, q.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := q.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send quote request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("quote API returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out ServerBreakdown
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	return &out, nil
}

var _ Quoter = (*HTTPQuoter)(nil)
