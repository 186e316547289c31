package progress

import (
	"errors"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Aggregator rolls per-item completion states up into topic and course
// percentages and cross-student statistics. It always recomputes from
// ContentProgress; the cached Enrollment.Progress field is a hint it refreshes
// but never reads.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// TopicProgress is one student's rollup for a topic.
type TopicProgress struct {
	TopicID        uint    `json:"topic_id"`
	CompletedCount int     `json:"completed_count"`
	TotalCount     int     `json:"total_count"`
	Percentage     float64 `json:"percentage"`
}

// ContentState is the per-item slice of a progress summary.
type ContentState struct {
	ContentItemID    uint    `json:"content_item_id"`
	Title            string  `json:"title"`
	ContentType      string  `json:"content_type"`
	CompletionStatus string  `json:"completion_status"`
	BestScore        float64 `json:"best_score"`
}

// TopicSummary is one topic inside a course summary.
type TopicSummary struct {
	TopicID        uint           `json:"topic_id"`
	Title          string         `json:"title"`
	CompletedCount int            `json:"completed_count"`
	TotalCount     int            `json:"total_count"`
	Percentage     float64        `json:"percentage"`
	Contents       []ContentState `json:"contents"`
}

// CourseSummary is the full progress summary for (student, course).
type CourseSummary struct {
	CourseID       uint           `json:"course_id"`
	CourseProgress float64        `json:"course_progress"`
	CompletedCount int            `json:"completed_count"`
	TotalCount     int            `json:"total_count"`
	Topics         []TopicSummary `json:"topics"`
}

// ContentStats is the cross-student rollup for one content item.
// AverageScore is nil when nobody has attempted, distinguishing "no data"
// from "scored zero".
type ContentStats struct {
	ContentItemID uint     `json:"content_item_id"`
	Title         string   `json:"title"`
	ContentType   string   `json:"content_type"`
	Viewers       int      `json:"viewers"`
	Completions   int      `json:"completions"`
	AverageScore  *float64 `json:"average_score"`
	PassRate      float64  `json:"pass_rate"`
	BestUserID    uint     `json:"best_user_id,omitempty"`
	BestScore     float64  `json:"best_score,omitempty"`
}

// TopicProgress recomputes one student's completion rollup for a topic.
// An unknown topic id is ErrNotFound; a topic with no published content
// reports 0%.
func (a *Aggregator) TopicProgress(userID, topicID uint) (TopicProgress, error) {
	res := TopicProgress{TopicID: topicID}

	var topic courseModels.Topic
	if err := a.db.Where("id = ? AND is_deleted = ?", topicID, false).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, ErrNotFound
		}
		return res, err
	}

	items, err := a.publishedItems("topic_id = ?", topicID)
	if err != nil {
		return res, err
	}
	if len(items) == 0 {
		return res, nil
	}

	completed, err := completedSet(a.db, userID, topic.CourseID)
	if err != nil {
		return res, err
	}

	res.TotalCount = len(items)
	for _, it := range items {
		if completed[it.ID] {
			res.CompletedCount++
		}
	}
	res.Percentage = percentage(res.CompletedCount, res.TotalCount)
	return res, nil
}

// CourseProgress recomputes the full per-topic summary for one enrollment.
func (a *Aggregator) CourseProgress(userID, courseID uint) (*CourseSummary, error) {
	var topics []courseModels.Topic
	err := a.db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&topics).Error
	if err != nil {
		return nil, err
	}

	var entries []courseModels.ContentProgress
	err = a.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	byItem := make(map[uint]courseModels.ContentProgress, len(entries))
	for _, e := range entries {
		byItem[e.ContentItemID] = e
	}

	summary := &CourseSummary{CourseID: courseID}
	for _, topic := range topics {
		items, err := a.publishedItems("topic_id = ?", topic.ID)
		if err != nil {
			return nil, err
		}

		ts := TopicSummary{TopicID: topic.ID, Title: topic.Title, TotalCount: len(items)}
		for _, it := range items {
			state := ContentState{
				ContentItemID:    it.ID,
				Title:            it.Title,
				ContentType:      it.ContentType,
				CompletionStatus: courseModels.StatusNotStarted,
			}
			if e, ok := byItem[it.ID]; ok {
				state.CompletionStatus = e.CompletionStatus
				state.BestScore = e.BestScore
				if e.CompletionStatus == courseModels.StatusCompleted {
					ts.CompletedCount++
				}
			}
			ts.Contents = append(ts.Contents, state)
		}
		ts.Percentage = percentage(ts.CompletedCount, ts.TotalCount)

		summary.CompletedCount += ts.CompletedCount
		summary.TotalCount += ts.TotalCount
		summary.Topics = append(summary.Topics, ts)
	}

	summary.CourseProgress = percentage(summary.CompletedCount, summary.TotalCount)
	return summary, nil
}

// RefreshEnrollment opportunistically rewrites the denormalized progress field
// on the enrollment. Failures are swallowed; the cache is best-effort only.
func (a *Aggregator) RefreshEnrollment(userID, courseID uint) {
	summary, err := a.CourseProgress(userID, courseID)
	if err != nil {
		return
	}

	var enrollment courseModels.Enrollment
	err = a.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error
	if err != nil {
		return
	}

	enrollment.Progress = summary.CourseProgress
	now := time.Now()
	enrollment.LastAccessed = &now
	if summary.TotalCount > 0 && summary.CompletedCount == summary.TotalCount {
		if enrollment.Status == courseModels.EnrollmentActive {
			enrollment.Status = courseModels.EnrollmentCompleted
			if enrollment.CompletedAt == nil {
				enrollment.CompletedAt = &now
			}
		}
	}
	a.db.Save(&enrollment)
}

// ContentStats recomputes the cross-student statistics for one content item.
// PassRate is the share of attempting students whose latest attempt passed.
func (a *Aggregator) ContentStats(contentID uint) (*ContentStats, error) {
	var item courseModels.ContentItem
	err := a.db.Where("id = ? AND is_deleted = ?", contentID, false).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	stats := &ContentStats{ContentItemID: item.ID, Title: item.Title, ContentType: item.ContentType}

	var entries []courseModels.ContentProgress
	err = a.db.Where("content_item_id = ? AND is_deleted = ?", contentID, false).Find(&entries).Error
	if err != nil {
		return nil, err
	}

	stats.Viewers = len(entries)
	var scoreSum float64
	var attempted, passedLatest int

	for _, e := range entries {
		if e.CompletionStatus == courseModels.StatusCompleted {
			stats.Completions++
		}
		if e.AttemptCount == 0 {
			continue
		}
		attempted++
		scoreSum += e.BestScore
		if e.BestScore > stats.BestScore || stats.BestUserID == 0 {
			stats.BestScore = e.BestScore
			stats.BestUserID = e.UserID
		}

		var latest courseModels.Attempt
		err := a.db.Where("content_progress_id = ? AND is_deleted = ?", e.ID, false).
			Order("attempt_number desc").First(&latest).Error
		if err == nil && latest.Passed {
			passedLatest++
		}
	}

	if attempted > 0 {
		avg := scoreSum / float64(attempted)
		stats.AverageScore = &avg
		stats.PassRate = float64(passedLatest) / float64(attempted)
	}
	return stats, nil
}

// TopicStats recomputes cross-student statistics for every published item of a
// topic. An unknown topic id is ErrNotFound.
func (a *Aggregator) TopicStats(topicID uint) ([]ContentStats, error) {
	var topic courseModels.Topic
	if err := a.db.Where("id = ? AND is_deleted = ?", topicID, false).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := a.publishedItems("topic_id = ?", topicID)
	if err != nil {
		return nil, err
	}

	out := make([]ContentStats, 0, len(items))
	for _, it := range items {
		s, err := a.ContentStats(it.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// CourseStats is the admin dashboard rollup for one course.
type CourseStats struct {
	CourseID        uint    `json:"course_id"`
	Enrollments     int     `json:"enrollments"`
	Completions     int     `json:"completions"`
	CompletionRate  float64 `json:"completion_rate"`
	AverageProgress float64 `json:"average_progress"`
}

// CourseStatistics recomputes enrollment-level statistics for one course.
// Averages come from the recomputed per-student aggregate, not the cache.
func (a *Aggregator) CourseStatistics(courseID uint) (*CourseStats, error) {
	var enrollments []courseModels.Enrollment
	err := a.db.Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	stats := &CourseStats{CourseID: courseID, Enrollments: len(enrollments)}
	if len(enrollments) == 0 {
		return stats, nil
	}

	var progressSum float64
	for _, e := range enrollments {
		summary, err := a.CourseProgress(e.UserID, courseID)
		if err != nil {
			return nil, err
		}
		progressSum += summary.CourseProgress
		if summary.TotalCount > 0 && summary.CompletedCount == summary.TotalCount {
			stats.Completions++
		}
	}
	stats.AverageProgress = progressSum / float64(len(enrollments))
	stats.CompletionRate = float64(stats.Completions) / float64(len(enrollments))
	return stats, nil
}

func (a *Aggregator) publishedItems(cond string, args ...interface{}) ([]courseModels.ContentItem, error) {
	var items []courseModels.ContentItem
	err := a.db.Where(cond, args...).
		Where("is_published = ? AND is_deleted = ?", true, false).
		Order("order_index asc").Find(&items).Error
	return items, err
}

func completedSet(db *gorm.DB, userID, courseID uint) (map[uint]bool, error) {
	var entries []courseModels.ContentProgress
	err := db.Where("user_id = ? AND course_id = ? AND completion_status = ? AND is_deleted = ?",
		userID, courseID, courseModels.StatusCompleted, false).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(entries))
	for _, e := range entries {
		done[e.ContentItemID] = true
	}
	return done, nil
}

func percentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
