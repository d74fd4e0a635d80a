package models

import (
	"time"

	"gorm.io/gorm"
)

type QueryHistory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OriginalQuery string   `gorm:"type:text;not null" json:"original_query"`
	QueryString   string   `gorm:"type:text;not null" json:"query_string"`
	Locations     []string `gorm:"serializer:json" json:"locations"`

	// Dates stay in the DD/MM/YYYY wire format the LLM returns
	DurationFrom string `gorm:"size:10" json:"duration_from"`
	DurationTo   string `gorm:"size:10" json:"duration_to"`

	// Old column kept for backwards compatibility with early clients
	FormattedQuery string    `gorm:"type:text" json:"formatted_query,omitempty"`
	LastRunAt      time.Time `json:"last_run_at"`

	// 'omitempty' prevents huge payloads when results aren't preloaded
	SearchResults []SearchResult `json:"search_results,omitempty"`
}

type PlatformURL struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Platform string `gorm:"size:255;not null" json:"platform"`
	URL      string `gorm:"size:2048;not null" json:"url"`
	Status   int    `gorm:"default:1" json:"status"` // 0 = inactive, 1 = active
}

type SearchResult struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Foreign Keys
	QueryHistoryID uint  `json:"query_history_id"`
	PlatformID     *uint `json:"platform_id"`

	SearchID         string   `gorm:"size:255" json:"search_id"`
	Position         int      `json:"position"`
	Title            string   `gorm:"type:text;not null" json:"title"`
	Link             string   `gorm:"size:2048;not null" json:"link"`
	Snippet          string   `gorm:"type:text" json:"snippet"`
	Source           string   `gorm:"size:255" json:"source"`
	RedirectLink     string   `gorm:"size:2048" json:"redirect_link"`
	DisplayedLink    string   `gorm:"size:2048" json:"displayed_link"`
	Favicon          string   `gorm:"size:2048" json:"favicon"`
	HighlightedWords []string `gorm:"serializer:json" json:"snippet_highlighted_words"`
}
