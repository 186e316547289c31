package course

import "gorm.io/gorm"

// Topic represents an ordered section within a course
type Topic struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"` // Topic order in course
	UnlockCondition string `json:"unlock_condition" gorm:"default:'IMMEDIATE'"` // IMMEDIATE, AFTER_PREVIOUS
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `gorm:"default:false"`
}

// Topic unlock conditions
const (
	UnlockImmediate     = "IMMEDIATE"      // available as soon as the course is
	UnlockAfterPrevious = "AFTER_PREVIOUS" // gated on the prior topic being fully completed
)
