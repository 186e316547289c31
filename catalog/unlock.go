// Package catalog implements the content catalog rules that sit on top of the
// raw models: unlock evaluation, prerequisite validation, and subtree
// duplication with id remapping.
package catalog

import (
	"errors"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ItemUnlocked reports whether a student may interact with a content item.
// An item is unlocked when every prerequisite is completed, its topic's unlock
// condition is met, and, for sequential courses, every prior required item is
// completed.
func ItemUnlocked(db *gorm.DB, userID uint, item *courseModels.ContentItem) (bool, error) {
	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", item.CourseID, false).First(&crs).Error; err != nil {
		return false, err
	}

	completed, err := completedItemIDs(db, userID, item.CourseID)
	if err != nil {
		return false, err
	}

	for _, prereqID := range item.PrerequisiteIDs() {
		if !completed[prereqID] {
			return false, nil
		}
	}
	for _, depID := range item.DependencyIDs() {
		if !completed[depID] {
			return false, nil
		}
	}

	var topic courseModels.Topic
	if err := db.Where("id = ? AND is_deleted = ?", item.TopicID, false).First(&topic).Error; err != nil {
		return false, err
	}
	if topic.UnlockCondition == courseModels.UnlockAfterPrevious {
		ok, err := previousTopicCompleted(db, userID, &topic, completed)
		if err != nil || !ok {
			return ok, err
		}
	}

	if crs.RequiresSequential {
		return priorItemsCompleted(db, item, &topic, completed)
	}
	return true, nil
}

// completedItemIDs returns the set of content item ids the student has completed
// in a course.
func completedItemIDs(db *gorm.DB, userID, courseID uint) (map[uint]bool, error) {
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

// previousTopicCompleted checks that every published item of the preceding
// topic is completed. The first topic of a course is always unlocked.
func previousTopicCompleted(db *gorm.DB, userID uint, topic *courseModels.Topic, completed map[uint]bool) (bool, error) {
	var prev courseModels.Topic
	err := db.Where("course_id = ? AND order_index < ? AND is_deleted = ?", topic.CourseID, topic.OrderIndex, false).
		Order("order_index desc").First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	var items []courseModels.ContentItem
	if err := db.Where("topic_id = ? AND is_published = ? AND is_deleted = ?", prev.ID, true, false).Find(&items).Error; err != nil {
		return false, err
	}
	for _, it := range items {
		if !completed[it.ID] {
			return false, nil
		}
	}
	return true, nil
}

// priorItemsCompleted enforces sequential consumption: every required published
// item that sorts before this one (topic order, then item order) must be done.
func priorItemsCompleted(db *gorm.DB, item *courseModels.ContentItem, topic *courseModels.Topic, completed map[uint]bool) (bool, error) {
	var topics []courseModels.Topic
	if err := db.Where("course_id = ? AND is_deleted = ?", item.CourseID, false).Find(&topics).Error; err != nil {
		return false, err
	}
	topicOrder := make(map[uint]int, len(topics))
	for _, t := range topics {
		topicOrder[t.ID] = t.OrderIndex
	}

	var items []courseModels.ContentItem
	err := db.Where("course_id = ? AND is_required = ? AND is_published = ? AND is_deleted = ?",
		item.CourseID, true, true, false).Find(&items).Error
	if err != nil {
		return false, err
	}

	for _, other := range items {
		if other.ID == item.ID {
			continue
		}
		otherOrder, ok := topicOrder[other.TopicID]
		if !ok {
			continue
		}
		before := otherOrder < topic.OrderIndex ||
			(otherOrder == topic.OrderIndex && other.OrderIndex < item.OrderIndex)
		if before && !completed[other.ID] {
			return false, nil
		}
	}
	return true, nil
}
