package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/justsurfingit/Job-Search-Agent/internal/config"
	"github.com/justsurfingit/Job-Search-Agent/internal/contract"
	"github.com/justsurfingit/Job-Search-Agent/internal/retry"
)

const serperURL = "https://google.serper.dev/search"

// Doer lets tests inject an http.Client (or a fake) with their own timeouts.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// SearchMeta is the per-call metadata for one search round trip.
type SearchMeta struct {
	Query       string        `json:"query"`
	ResultCount int           `json:"result_count"`
	Duration    time.Duration `json:"-"`
	DurationMs  int64         `json:"duration_ms"`
}

type SearchService struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Client     Doer
	Policy     retry.Policy
}

func NewSearchService(cfg config.Settings) *SearchService {
	return &SearchService{
		APIKey:     cfg.SerperAPIKey,
		BaseURL:    serperURL,
		MaxResults: cfg.SerperMaxResults,
		Client:     &http.Client{Timeout: cfg.SerperTimeout},
		Policy:     retry.DefaultPolicy(),
	}
}

// Search runs one composed query against the provider and returns the
// validated organic results. numResults <= 0 falls back to the configured
// maximum.
func (s *SearchService) Search(ctx context.Context, query string, numResults int) (*contract.SearchResultSet, *SearchMeta, error) {
	if numResults <= 0 {
		numResults = s.MaxResults
	}

	meta := &SearchMeta{Query: query}
	started := time.Now()

	raw, err := retry.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return s.doSearch(ctx, query, numResults)
	}, s.Policy)

	meta.Duration = time.Since(started)
	meta.DurationMs = meta.Duration.Milliseconds()

	if err != nil {
		return nil, meta, err
	}

	results, err := contract.ValidateSearchResults(raw)
	if err != nil {
		log.Printf("❌ Search provider returned unusable payload: %v", err)
		return nil, meta, err
	}

	meta.ResultCount = len(results.Items)
	log.Printf("✅ Search completed. Found %d results", meta.ResultCount)
	return results, meta, nil
}

// doSearch performs exactly one round trip and classifies every failure
// mode so the retry executor can tell transient from fatal.
func (s *SearchService) doSearch(ctx context.Context, query string, numResults int) ([]byte, error) {
	payload, _ := json.Marshal(map[string]any{
		"q":   query,
		"num": numResults,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, retry.Fatal("building search request failed", 0, err)
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.Transient("reading search response failed", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, retry.RateLimited("search provider rate limit exceeded", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, &retry.Error{
			Kind:       retry.KindTransientNetwork,
			Message:    fmt.Sprintf("search provider returned %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, retry.Fatal(
			fmt.Sprintf("search provider returned %d: %s", resp.StatusCode, truncate(string(body), 300)),
			resp.StatusCode, nil)
	}

	return body, nil
}

// classifyTransportError maps net/http failures to the retry taxonomy.
// Timeouts and connection drops are transient; a cancelled context is the
// caller's decision and passes through untouched.
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return retry.Transient("search request timed out", err)
	}
	return retry.Transient("search request failed", err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
