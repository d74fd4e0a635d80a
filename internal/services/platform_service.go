package services

import (
	"github.com/justsurfingit/Job-Search-Agent/internal/dtos"
	"github.com/justsurfingit/Job-Search-Agent/internal/models"
	"gorm.io/gorm"
)

const (
	PlatformInactive = 0
	PlatformActive   = 1
)

type PlatformService struct {
	DB *gorm.DB
}

func NewPlatformService(db *gorm.DB) *PlatformService {
	return &PlatformService{
		DB: db,
	}
}

func (s *PlatformService) Create(req *dtos.PlatformURLCreateRequest) (*models.PlatformURL, error) {
	platform := &models.PlatformURL{
		Platform: req.Platform,
		URL:      req.URL,
		Status:   PlatformActive,
	}
	if req.Status != nil {
		platform.Status = *req.Status
	}
	if err := s.DB.Create(platform).Error; err != nil {
		return nil, err
	}
	return platform, nil
}

func (s *PlatformService) GetByID(id uint, includeDeleted bool) (*models.PlatformURL, error) {
	var platform models.PlatformURL
	query := s.DB
	if includeDeleted {
		query = query.Unscoped()
	}
	if err := query.First(&platform, id).Error; err != nil {
		return nil, err
	}
	return &platform, nil
}

func (s *PlatformService) GetAll(skip, limit int, includeDeleted bool) ([]models.PlatformURL, error) {
	if limit <= 0 {
		limit = 100
	}
	query := s.DB
	if includeDeleted {
		query = query.Unscoped()
	}
	var platforms []models.PlatformURL
	err := query.Order("id").Offset(skip).Limit(limit).Find(&platforms).Error
	return platforms, err
}

// GetActive returns the active, non-deleted targets in stable order. This is
// the snapshot the query composer runs over.
func (s *PlatformService) GetActive() ([]models.PlatformURL, error) {
	var platforms []models.PlatformURL
	err := s.DB.Where("status = ?", PlatformActive).Order("id").Find(&platforms).Error
	return platforms, err
}

func (s *PlatformService) Update(id uint, req *dtos.PlatformURLUpdateRequest) (*models.PlatformURL, error) {
	platform, err := s.GetByID(id, false)
	if err != nil {
		return nil, err
	}

	if req.Platform != nil {
		platform.Platform = *req.Platform
	}
	if req.URL != nil {
		platform.URL = *req.URL
	}
	if req.Status != nil {
		platform.Status = *req.Status
	}

	if err := s.DB.Save(platform).Error; err != nil {
		return nil, err
	}
	return platform, nil
}

// Delete soft-deletes the row (gorm sets deleted_at, the row stays around).
func (s *PlatformService) Delete(id uint) (*models.PlatformURL, error) {
	platform, err := s.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Delete(platform).Error; err != nil {
		return nil, err
	}
	return platform, nil
}
