package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/justsurfingit/Job-Search-Agent/internal/retry"
)

func TestRespondUpstreamError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "rate limited maps to 429",
			err:        retry.RateLimited("too many requests", 429),
			wantStatus: http.StatusTooManyRequests,
			wantError:  "rate_limited",
		},
		{
			name:       "schema violation maps to 502",
			err:        retry.Violation("query_string", "missing"),
			wantStatus: http.StatusBadGateway,
			wantError:  "bad_upstream_response",
		},
		{
			name:       "malformed payload maps to 502",
			err:        retry.Malformed("not json", nil),
			wantStatus: http.StatusBadGateway,
			wantError:  "bad_upstream_response",
		},
		{
			name:       "transient exhaustion maps to 502",
			err:        retry.Transient("timeout", nil),
			wantStatus: http.StatusBadGateway,
			wantError:  "upstream_unavailable",
		},
		{
			name:       "fatal provider maps to 502",
			err:        retry.Fatal("bad key", 401, nil),
			wantStatus: http.StatusBadGateway,
			wantError:  "upstream_unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondUpstreamError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("valid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: "42"}}

		id, ok := parseIDParam(c)
		assert.True(t, ok)
		assert.Equal(t, uint(42), id)
	})

	t.Run("garbage id rejected with 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: "not-a-number"}}

		_, ok := parseIDParam(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
