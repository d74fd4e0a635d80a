package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justsurfingit/Job-Search-Agent/internal/contract"
	"github.com/justsurfingit/Job-Search-Agent/internal/dtos"
	"github.com/justsurfingit/Job-Search-Agent/internal/retry"
	"github.com/justsurfingit/Job-Search-Agent/internal/services"
	"github.com/justsurfingit/Job-Search-Agent/internal/utils"
)

// QueryHandler owns the formatting and search endpoints.
// Dependency injection - same pattern everywhere.
type QueryHandler struct {
	LLMService          *services.LLMService
	SearchService       *services.SearchService
	QueryService        *services.QueryService
	PlatformService     *services.PlatformService
	SearchResultService *services.SearchResultService
}

func NewQueryHandler(
	llm *services.LLMService,
	search *services.SearchService,
	query *services.QueryService,
	platform *services.PlatformService,
	searchResult *services.SearchResultService,
) *QueryHandler {
	return &QueryHandler{
		LLMService:          llm,
		SearchService:       search,
		QueryService:        query,
		PlatformService:     platform,
		SearchResultService: searchResult,
	}
}

// FormatQuery is the POST /format-query endpoint: format via the model,
// persist the history row, return the structured result.
func (h *QueryHandler) FormatQuery(c *gin.Context) {
	var req dtos.FormatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	result, meta, err := h.LLMService.FormatQuery(c.Request.Context(), req.Query)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	if _, err := h.QueryService.SaveFormatting(req.Query, result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save query: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dtos.FormatQueryResponse{
		OriginalQuery: req.Query,
		QueryString:   result.QueryString,
		Locations:     result.Locations,
		Duration: dtos.DurationResponse{
			From: result.DateFrom.Format(contract.DateLayout),
			To:   result.DateTo.Format(contract.DateLayout),
		},
		Metadata: meta,
	})
}

// SearchQuery is the POST /search-query endpoint: format, fan out one
// composed query per active platform, run the search, persist everything.
func (h *QueryHandler) SearchQuery(c *gin.Context) {
	var req dtos.SearchQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	ctx := c.Request.Context()

	result, meta, err := h.LLMService.FormatQuery(ctx, req.Query)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	history, err := h.QueryService.SaveFormatting(req.Query, result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save query: " + err.Error()})
		return
	}

	// Read-only snapshot of active targets; the composer trusts this list
	platforms, err := h.PlatformService.GetActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load platforms: " + err.Error()})
		return
	}

	composed := utils.BuildPlatformQueries(result.QueryString, result.Locations, platforms)
	searchID := uuid.NewString()

	type platformResults struct {
		utils.ComposedQuery
		Results any    `json:"results"`
		Error   string `json:"error,omitempty"`
	}

	out := make([]platformResults, 0, len(composed))
	for _, q := range composed {
		entry := platformResults{ComposedQuery: q}

		set, _, err := h.SearchService.Search(ctx, q.QueryText, req.NumResults)
		if err != nil {
			// One bad platform shouldn't sink the whole fan-out
			log.Printf("❌ Search failed for %s: %v", q.PlatformDomain, err)
			entry.Error = err.Error()
			out = append(out, entry)
			continue
		}

		platformID := q.PlatformID
		rows, err := h.SearchResultService.SaveBulk(history.ID, &platformID, searchID, set)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save results: " + err.Error()})
			return
		}
		entry.Results = rows
		out = append(out, entry)
	}

	if err := h.QueryService.TouchLastRun(history.ID); err != nil {
		log.Printf("⚠️ Failed to update last_run_at for query %d: %v", history.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"query_history_id": history.ID,
		"search_id":        searchID,
		"query_string":     result.QueryString,
		"locations":        result.Locations,
		"platforms":        out,
		"metadata":         meta,
	})
}

// GetQueryHistory is the GET /query-history endpoint.
func (h *QueryHandler) GetQueryHistory(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	histories, err := h.QueryService.GetAll(skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch query history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, histories)
}

// GetQueryHistoryByID is the GET /query-history/:id endpoint.
func (h *QueryHandler) GetQueryHistoryByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	history, err := h.QueryService.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Query history not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch query history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

// UpdateQueryHistory is the PUT /query-history/:id endpoint.
func (h *QueryHandler) UpdateQueryHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dtos.QueryHistoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	history, err := h.QueryService.Update(id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Query history not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update query history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

// respondUpstreamError maps the outbound-call error taxonomy onto HTTP.
// Two user-visible failure families: "upstream throttled us" (429) and
// "upstream unavailable or returned something we can't use" (502).
func respondUpstreamError(c *gin.Context, err error) {
	switch retry.KindOf(err) {
	case retry.KindRateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limited",
			"message": "Upstream provider rate limit exceeded. Please try again later.",
		})
	case retry.KindMalformedResponse, retry.KindSchemaViolation:
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "bad_upstream_response",
			"message": "Upstream provider returned something we can't use: " + err.Error(),
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream_unavailable",
			"message": "Upstream provider unavailable, retry later: " + err.Error(),
		})
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID: " + c.Param("id")})
		return 0, false
	}
	return uint(id), true
}
