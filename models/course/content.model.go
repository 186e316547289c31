package course

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content types
const (
	ContentTypeVideo       = "VIDEO"
	ContentTypeReading     = "READING"
	ContentTypeQuiz        = "QUIZ"
	ContentTypeHomework    = "HOMEWORK"
	ContentTypeLiveSession = "LIVE_SESSION"
)

// Completion criteria
const (
	CriteriaView           = "VIEW"            // completed on a full view
	CriteriaPassAssessment = "PASS_ASSESSMENT" // completed on a passing attempt
	CriteriaAttendance     = "ATTENDANCE"      // completed from the live-session attendance result
)

// Consolidated passing-score defaults. These are the single source for
// path-independent defaults; nothing else hardcodes a threshold.
const (
	DefaultQuizPassingScore     = 60.0
	DefaultHomeworkPassingScore = 0.0 // homework counts as passed on submission unless a threshold is set
	DefaultQuizMaxAttempts      = 0   // 0 = unlimited
)

// ContentItem represents one unit of learning material within a topic.
// The Settings column holds the variant settings for the content type;
// exactly one of the typed accessors below applies, selected by ContentType.
type ContentItem struct {
	gorm.Model
	CourseID           uint           `json:"course_id" gorm:"index;not null"`
	TopicID            uint           `json:"topic_id" gorm:"index;not null"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	ContentType        string         `json:"content_type" gorm:"default:'READING'"`
	CompletionCriteria string         `json:"completion_criteria" gorm:"default:'VIEW'"`
	OrderIndex         int            `json:"order_index" gorm:"default:0"`
	IsRequired         bool           `json:"is_required" gorm:"default:true"`
	IsPublished        bool           `json:"is_published" gorm:"default:false"`
	Prerequisites      datatypes.JSON `json:"prerequisites"` // []uint of content item IDs in the same course
	Dependencies       datatypes.JSON `json:"dependencies"`  // []uint of content item IDs in the same course
	Settings           datatypes.JSON `json:"settings"`      // variant settings, see typed accessors
	IsDeleted          bool           `gorm:"default:false"`
}

// VideoSettings applies when ContentType == VIDEO
type VideoSettings struct {
	VideoURL        string `json:"video_url"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ReadingSettings applies when ContentType == READING
type ReadingSettings struct {
	Body        string `json:"body"`
	DocumentURL string `json:"document_url"`
}

// QuizSettings applies when ContentType == QUIZ
type QuizSettings struct {
	PassingScore     float64 `json:"passing_score"`
	MaxAttempts      int     `json:"max_attempts"` // 0 = unlimited
	ShuffleQuestions bool    `json:"shuffle_questions"`
	ShuffleOptions   bool    `json:"shuffle_options"`
	QuestionBankID   uint    `json:"question_bank_id"` // shared reference, never remapped on duplication
}

// HomeworkSettings applies when ContentType == HOMEWORK
type HomeworkSettings struct {
	Instructions string  `json:"instructions"`
	PassingScore float64 `json:"passing_score"`
	MaxAttempts  int     `json:"max_attempts"`
}

// LiveSessionSettings applies when ContentType == LIVE_SESSION
type LiveSessionSettings struct {
	SessionID uint `json:"session_id"` // reference to a LiveSession record
}

// PrerequisiteIDs decodes the prerequisites column. A missing column is an empty set.
func (ci *ContentItem) PrerequisiteIDs() []uint {
	return decodeIDList(ci.Prerequisites)
}

// DependencyIDs decodes the dependencies column. A missing column is an empty set.
func (ci *ContentItem) DependencyIDs() []uint {
	return decodeIDList(ci.Dependencies)
}

// SetPrerequisiteIDs encodes the prerequisites column.
func (ci *ContentItem) SetPrerequisiteIDs(ids []uint) {
	ci.Prerequisites = encodeIDList(ids)
}

// SetDependencyIDs encodes the dependencies column.
func (ci *ContentItem) SetDependencyIDs(ids []uint) {
	ci.Dependencies = encodeIDList(ids)
}

// QuizSettings decodes the settings column for a QUIZ item with documented defaults.
func (ci *ContentItem) QuizSettings() (QuizSettings, error) {
	s := QuizSettings{PassingScore: DefaultQuizPassingScore, MaxAttempts: DefaultQuizMaxAttempts}
	if ci.ContentType != ContentTypeQuiz {
		return s, fmt.Errorf("content %d is not a quiz", ci.ID)
	}
	if len(ci.Settings) > 0 {
		if err := json.Unmarshal(ci.Settings, &s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// HomeworkSettings decodes the settings column for a HOMEWORK item with documented defaults.
func (ci *ContentItem) HomeworkSettings() (HomeworkSettings, error) {
	s := HomeworkSettings{PassingScore: DefaultHomeworkPassingScore}
	if ci.ContentType != ContentTypeHomework {
		return s, fmt.Errorf("content %d is not a homework", ci.ID)
	}
	if len(ci.Settings) > 0 {
		if err := json.Unmarshal(ci.Settings, &s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// LiveSessionSettings decodes the settings column for a LIVE_SESSION item.
func (ci *ContentItem) LiveSessionSettings() (LiveSessionSettings, error) {
	var s LiveSessionSettings
	if ci.ContentType != ContentTypeLiveSession {
		return s, fmt.Errorf("content %d is not a live session", ci.ID)
	}
	if len(ci.Settings) > 0 {
		if err := json.Unmarshal(ci.Settings, &s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// PassingRule returns the configured passing score and attempt limit for an
// assessable item, falling back to the consolidated defaults per type.
func (ci *ContentItem) PassingRule() (passingScore float64, maxAttempts int) {
	switch ci.ContentType {
	case ContentTypeQuiz:
		s, err := ci.QuizSettings()
		if err != nil {
			return DefaultQuizPassingScore, DefaultQuizMaxAttempts
		}
		return s.PassingScore, s.MaxAttempts
	case ContentTypeHomework:
		s, err := ci.HomeworkSettings()
		if err != nil {
			return DefaultHomeworkPassingScore, 0
		}
		return s.PassingScore, s.MaxAttempts
	}
	return 0, 0
}

func decodeIDList(raw datatypes.JSON) []uint {
	if len(raw) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}

func encodeIDList(ids []uint) datatypes.JSON {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	return raw
}
