package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionBank is a shared pool of questions referenced by quiz items.
// Banks are shared across courses and are never copied by catalog duplication.
type QuestionBank struct {
	gorm.Model
	Title     string `json:"title"`
	IsDeleted bool   `gorm:"default:false"`
}

// Question belongs to a question bank. Options is a JSON array of
// {id, text, is_correct}; correct flags are stripped before student delivery.
type Question struct {
	gorm.Model
	QuestionBankID uint           `json:"question_bank_id" gorm:"index;not null"`
	Text           string         `json:"text"`
	Points         float64        `json:"points" gorm:"default:1"`
	Options        datatypes.JSON `json:"options"` // []QuestionOption
	IsDeleted      bool           `gorm:"default:false"`
}

// QuestionOption is one selectable answer inside Question.Options.
type QuestionOption struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}
