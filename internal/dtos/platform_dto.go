package dtos

type PlatformURLCreateRequest struct {
	Platform string `json:"platform" binding:"required,min=1,max=255"`
	URL      string `json:"url" binding:"required,min=1,max=2048"`
	// Optional, defaults to active (1)
	Status *int `json:"status" binding:"omitempty,min=0,max=1"`
}

type PlatformURLUpdateRequest struct {
	Platform *string `json:"platform" binding:"omitempty,min=1,max=255"`
	URL      *string `json:"url" binding:"omitempty,min=1,max=2048"`
	Status   *int    `json:"status" binding:"omitempty,min=0,max=1"`
}
