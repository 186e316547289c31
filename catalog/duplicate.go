package catalog

import (
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// DuplicationResult describes one completed duplication.
type DuplicationResult struct {
	NewCourseID uint          `json:"new_course_id,omitempty"`
	NewTopicIDs []uint        `json:"new_topic_ids,omitempty"`
	IDMap       map[uint]uint `json:"id_map"` // old content item id -> new id, copied items only
	// Live-session items are never duplicated; these source ids are reported
	// back for manual recreation.
	SkippedLiveSessions []uint `json:"skipped_live_sessions"`
}

// DuplicateCourse deep-copies a course with all topics and content items in a
// single transaction. The clone is created in DRAFT status with every topic
// unpublished. Content items are copied in a first pass building the id map;
// a second pass rewrites prerequisite/dependency references through the map,
// dropping any reference whose target was not copied. The two passes are
// required because items may reference targets copied later in iteration order.
func DuplicateCourse(db *gorm.DB, courseID uint) (*DuplicationResult, error) {
	res := &DuplicationResult{IDMap: make(map[uint]uint)}

	err := db.Transaction(func(tx *gorm.DB) error {
		var src courseModels.Course
		if err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&src).Error; err != nil {
			return err
		}

		clone := src
		clone.Model = gorm.Model{}
		clone.Status = courseModels.CourseStatusDraft
		clone.IsPublished = false
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}
		res.NewCourseID = clone.ID

		var topics []courseModels.Topic
		if err := tx.Where("course_id = ? AND is_deleted = ?", courseID, false).
			Order("order_index asc").Find(&topics).Error; err != nil {
			return err
		}

		for _, topic := range topics {
			topicClone := topic
			topicClone.Model = gorm.Model{}
			topicClone.CourseID = clone.ID
			topicClone.IsPublished = false
			if err := tx.Create(&topicClone).Error; err != nil {
				return err
			}
			res.NewTopicIDs = append(res.NewTopicIDs, topicClone.ID)

			if err := copyTopicItems(tx, topic.ID, clone.ID, topicClone.ID, res); err != nil {
				return err
			}
		}

		return remapReferences(tx, res.IDMap)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DuplicateTopic deep-copies one topic within its own course, appended after
// the course's last topic and created unpublished. Same two-pass copy/remap as
// DuplicateCourse; references to items outside the copied topic are dropped.
func DuplicateTopic(db *gorm.DB, topicID uint) (*DuplicationResult, error) {
	res := &DuplicationResult{IDMap: make(map[uint]uint)}

	err := db.Transaction(func(tx *gorm.DB) error {
		var src courseModels.Topic
		if err := tx.Where("id = ? AND is_deleted = ?", topicID, false).First(&src).Error; err != nil {
			return err
		}

		var maxOrder int
		row := tx.Model(&courseModels.Topic{}).
			Where("course_id = ? AND is_deleted = ?", src.CourseID, false).
			Select("COALESCE(MAX(order_index), 0)").Row()
		if err := row.Scan(&maxOrder); err != nil {
			return err
		}

		clone := src
		clone.Model = gorm.Model{}
		clone.OrderIndex = maxOrder + 1
		clone.IsPublished = false
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}
		res.NewTopicIDs = []uint{clone.ID}

		if err := copyTopicItems(tx, src.ID, src.CourseID, clone.ID, res); err != nil {
			return err
		}
		return remapReferences(tx, res.IDMap)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// copyTopicItems copies every non-live-session item of a topic into the target
// topic, recording old->new ids. References are rewritten later in a second pass.
func copyTopicItems(tx *gorm.DB, srcTopicID, dstCourseID, dstTopicID uint, res *DuplicationResult) error {
	var items []courseModels.ContentItem
	if err := tx.Where("topic_id = ? AND is_deleted = ?", srcTopicID, false).
		Order("order_index asc").Find(&items).Error; err != nil {
		return err
	}

	for _, item := range items {
		if item.ContentType == courseModels.ContentTypeLiveSession {
			res.SkippedLiveSessions = append(res.SkippedLiveSessions, item.ID)
			continue
		}
		itemClone := item
		itemClone.Model = gorm.Model{}
		itemClone.CourseID = dstCourseID
		itemClone.TopicID = dstTopicID
		if err := tx.Create(&itemClone).Error; err != nil {
			return err
		}
		res.IDMap[item.ID] = itemClone.ID
	}
	return nil
}

// remapReferences rewrites prerequisites/dependencies of every copied item
// through the id map. A reference whose target was not copied (a live-session
// item, or an item outside the duplicated subtree) is dropped rather than left
// dangling. Question-bank references inside settings are shared and untouched.
func remapReferences(tx *gorm.DB, idMap map[uint]uint) error {
	for _, newID := range idMap {
		var item courseModels.ContentItem
		if err := tx.First(&item, newID).Error; err != nil {
			return err
		}

		item.SetPrerequisiteIDs(remapIDs(item.PrerequisiteIDs(), idMap))
		item.SetDependencyIDs(remapIDs(item.DependencyIDs(), idMap))

		if err := tx.Model(&courseModels.ContentItem{}).Where("id = ?", newID).
			Updates(map[string]interface{}{
				"prerequisites": item.Prerequisites,
				"dependencies":  item.Dependencies,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func remapIDs(ids []uint, idMap map[uint]uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if mapped, ok := idMap[id]; ok {
			out = append(out, mapped)
		}
	}
	return out
}
