package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justsurfingit/Job-Search-Agent/internal/dtos"
	"github.com/justsurfingit/Job-Search-Agent/internal/services"
)

type PlatformHandler struct {
	PlatformService *services.PlatformService
}

func NewPlatformHandler(platform *services.PlatformService) *PlatformHandler {
	return &PlatformHandler{PlatformService: platform}
}

// Create is the POST /platform-urls endpoint.
func (h *PlatformHandler) Create(c *gin.Context) {
	var req dtos.PlatformURLCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	platform, err := h.PlatformService.Create(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create platform URL: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, platform)
}

// GetAll is the GET /platform-urls endpoint with skip/limit paging.
func (h *PlatformHandler) GetAll(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	includeDeleted := c.DefaultQuery("include_deleted", "false") == "true"

	platforms, err := h.PlatformService.GetAll(skip, limit, includeDeleted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch platform URLs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, platforms)
}

// GetByID is the GET /platform-urls/:id endpoint.
func (h *PlatformHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	platform, err := h.PlatformService.GetByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Platform URL not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch platform URL: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, platform)
}

// Update is the PUT /platform-urls/:id endpoint.
func (h *PlatformHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dtos.PlatformURLUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	platform, err := h.PlatformService.Update(id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Platform URL not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update platform URL: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, platform)
}

// Delete is the DELETE /platform-urls/:id endpoint (soft delete).
func (h *PlatformHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	platform, err := h.PlatformService.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Platform URL not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete platform URL: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, platform)
}
