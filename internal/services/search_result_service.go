package services

import (
	"github.com/justsurfingit/Job-Search-Agent/internal/contract"
	"github.com/justsurfingit/Job-Search-Agent/internal/models"
	"gorm.io/gorm"
)

type SearchResultService struct {
	DB *gorm.DB
}

func NewSearchResultService(db *gorm.DB) *SearchResultService {
	return &SearchResultService{
		DB: db,
	}
}

// SaveBulk persists one provider result set against its history row and
// platform. searchID tags all rows from the same provider call.
func (s *SearchResultService) SaveBulk(queryHistoryID uint, platformID *uint, searchID string, set *contract.SearchResultSet) ([]models.SearchResult, error) {
	if len(set.Items) == 0 {
		return []models.SearchResult{}, nil
	}

	rows := make([]models.SearchResult, 0, len(set.Items))
	for _, item := range set.Items {
		rows = append(rows, models.SearchResult{
			QueryHistoryID:   queryHistoryID,
			PlatformID:       platformID,
			SearchID:         searchID,
			Position:         item.Position,
			Title:            item.Title,
			Link:             item.Link,
			Snippet:          item.Snippet,
			Source:           item.Source,
			RedirectLink:     item.RedirectLink,
			DisplayedLink:    item.DisplayedLink,
			Favicon:          item.Favicon,
			HighlightedWords: item.HighlightedWords,
		})
	}

	if err := s.DB.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SearchResultService) GetByQueryHistory(queryHistoryID uint) ([]models.SearchResult, error) {
	var rows []models.SearchResult
	err := s.DB.Where("query_history_id = ?", queryHistoryID).
		Order("position").Find(&rows).Error
	return rows, err
}
