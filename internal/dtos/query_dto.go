package dtos

type FormatQueryRequest struct {
	Query string `json:"query" binding:"required,min=1,max=1000"`
}

type SearchQueryRequest struct {
	Query      string `json:"query" binding:"required,min=1,max=1000"`
	NumResults int    `json:"num_results" binding:"omitempty,min=1,max=100"`
}

type DurationResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type FormatQueryResponse struct {
	OriginalQuery string           `json:"original_query"`
	QueryString   string           `json:"query_string"`
	Locations     []string         `json:"locations"`
	Duration      DurationResponse `json:"duration"`
	Metadata      any              `json:"metadata,omitempty"`
}

type QueryHistoryUpdateRequest struct {
	OriginalQuery *string   `json:"original_query" binding:"omitempty,min=1,max=1000"`
	QueryString   *string   `json:"query_string" binding:"omitempty,min=1"`
	Locations     *[]string `json:"locations"`
	DurationFrom  *string   `json:"duration_from" binding:"omitempty,len=10"`
	DurationTo    *string   `json:"duration_to" binding:"omitempty,len=10"`
}
