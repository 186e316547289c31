package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title              string `json:"title"`
	Description        string `json:"description"`
	Author             string `json:"author"`
	Status             string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL       string `json:"thumbnail_url"`
	IsPublished        bool   `json:"is_published" gorm:"default:false"`
	RequiresSequential bool   `json:"requires_sequential" gorm:"default:false"` // topics/content must be consumed in order
	IsDeleted          bool   `gorm:"default:false"`
}

// Course status values
const (
	CourseStatusDraft    = "DRAFT"
	CourseStatusActive   = "ACTIVE"
	CourseStatusInactive = "INACTIVE"
)
