package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Job-Search-Agent/internal/retry"
)

func testSearchService(url string) *SearchService {
	return &SearchService{
		APIKey:     "test-key",
		BaseURL:    url,
		MaxResults: 10,
		Client:     &http.Client{Timeout: 5 * time.Second},
		Policy: retry.Policy{
			MaxAttempts:    3,
			BaseDelay:      time.Millisecond,
			MaxDelay:       5 * time.Millisecond,
			Multiplier:     2.0,
			RetryableKinds: map[retry.Kind]bool{retry.KindTransientNetwork: true},
		},
	}
}

func TestSearchService_Success(t *testing.T) {
	var gotBody map[string]any
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic":[{"position":1,"title":"Go Engineer","link":"https://jobs.example/1","snippet":"remote"}]}`))
	}))
	defer srv.Close()

	svc := testSearchService(srv.URL)
	set, meta, err := svc.Search(context.Background(), "site:a.com Q", 5)
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "site:a.com Q", gotBody["q"])
	assert.Equal(t, float64(5), gotBody["num"])

	require.Len(t, set.Items, 1)
	assert.Equal(t, "Go Engineer", set.Items[0].Title)
	assert.Equal(t, 1, meta.ResultCount)
}

func TestSearchService_DefaultsResultCount(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"organic":[]}`))
	}))
	defer srv.Close()

	svc := testSearchService(srv.URL)
	_, _, err := svc.Search(context.Background(), "Q", 0)
	require.NoError(t, err)
	assert.Equal(t, float64(10), gotBody["num"], "num_results <= 0 falls back to the configured maximum")
}

func TestSearchService_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"organic":[{"title":"t","link":"l"}]}`))
	}))
	defer srv.Close()

	svc := testSearchService(srv.URL)
	set, _, err := svc.Search(context.Background(), "Q", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls)
	assert.Len(t, set.Items, 1)
}

func TestSearchService_RateLimitSurfacesWithoutRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := testSearchService(srv.URL)
	_, _, err := svc.Search(context.Background(), "Q", 1)
	require.Error(t, err)
	assert.Equal(t, retry.KindRateLimited, retry.KindOf(err))
	assert.Equal(t, int32(1), calls, "429 must not burn the retry budget")
}

func TestSearchService_ClientErrorIsFatal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer srv.Close()

	svc := testSearchService(srv.URL)
	_, _, err := svc.Search(context.Background(), "Q", 1)
	require.Error(t, err)
	assert.Equal(t, retry.KindFatalProvider, retry.KindOf(err))
	assert.Equal(t, int32(1), calls)
}

func TestSearchService_MalformedPayloadNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`<html>totally not json</html>`))
	}))
	defer srv.Close()

	svc := testSearchService(srv.URL)
	_, _, err := svc.Search(context.Background(), "Q", 1)
	require.Error(t, err)
	assert.Equal(t, retry.KindMalformedResponse, retry.KindOf(err))
	assert.Equal(t, int32(1), calls, "content failures sit outside the retry loop")
}

func TestSearchService_ExhaustsRetriesOnPersistentOutage(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := testSearchService(srv.URL)
	_, _, err := svc.Search(context.Background(), "Q", 1)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls)
	assert.Equal(t, retry.KindTransientNetwork, retry.KindOf(err), "exhaustion keeps the original kind")
}
