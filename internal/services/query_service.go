package services

import (
	"time"

	"github.com/justsurfingit/Job-Search-Agent/internal/contract"
	"github.com/justsurfingit/Job-Search-Agent/internal/dtos"
	"github.com/justsurfingit/Job-Search-Agent/internal/models"
	"gorm.io/gorm"
)

type QueryService struct {
	DB *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{
		DB: db,
	}
}

// SaveFormatting persists one successful formatting call as a history row.
func (s *QueryService) SaveFormatting(originalQuery string, result *contract.FormattingResult) (*models.QueryHistory, error) {
	history := &models.QueryHistory{
		OriginalQuery: originalQuery,
		QueryString:   result.QueryString,
		Locations:     result.Locations,
		DurationFrom:  result.DateFrom.Format(contract.DateLayout),
		DurationTo:    result.DateTo.Format(contract.DateLayout),
		// legacy column, early clients read the plain string from here
		FormattedQuery: result.QueryString,
		LastRunAt:      time.Now().UTC(),
	}
	if err := s.DB.Create(history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (s *QueryService) GetByID(id uint) (*models.QueryHistory, error) {
	var history models.QueryHistory
	err := s.DB.First(&history, id).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (s *QueryService) GetAll(skip, limit int) ([]models.QueryHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	var histories []models.QueryHistory
	err := s.DB.Order("created_at DESC").Offset(skip).Limit(limit).Find(&histories).Error
	return histories, err
}

// Update applies a partial update. Only non-nil fields change.
func (s *QueryService) Update(id uint, req *dtos.QueryHistoryUpdateRequest) (*models.QueryHistory, error) {
	history, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.OriginalQuery != nil {
		history.OriginalQuery = *req.OriginalQuery
	}
	if req.QueryString != nil {
		history.QueryString = *req.QueryString
		history.FormattedQuery = *req.QueryString
	}
	if req.Locations != nil {
		history.Locations = *req.Locations
	}
	if req.DurationFrom != nil {
		history.DurationFrom = *req.DurationFrom
	}
	if req.DurationTo != nil {
		history.DurationTo = *req.DurationTo
	}

	if err := s.DB.Save(history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// TouchLastRun bumps last_run_at after a search pass over this query.
func (s *QueryService) TouchLastRun(id uint) error {
	return s.DB.Model(&models.QueryHistory{}).
		Where("id = ?", id).
		Update("last_run_at", time.Now().UTC()).Error
}
