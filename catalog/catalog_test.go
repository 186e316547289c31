package catalog

import (
	"testing"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, sequential bool) courseModels.Course {
	t.Helper()
	crs := courseModels.Course{
		Title:              "Data Structures",
		Status:             courseModels.CourseStatusActive,
		IsPublished:        true,
		RequiresSequential: sequential,
	}
	require.NoError(t, db.Create(&crs).Error)
	return crs
}

func seedTopic(t *testing.T, db *gorm.DB, courseID uint, order int, unlock string) courseModels.Topic {
	t.Helper()
	topic := courseModels.Topic{
		CourseID:        courseID,
		Title:           "Topic",
		OrderIndex:      order,
		UnlockCondition: unlock,
		IsPublished:     true,
	}
	require.NoError(t, db.Create(&topic).Error)
	return topic
}

func seedItem(t *testing.T, db *gorm.DB, topic courseModels.Topic, contentType string, order int) courseModels.ContentItem {
	t.Helper()
	item := courseModels.ContentItem{
		CourseID:           topic.CourseID,
		TopicID:            topic.ID,
		Title:              "Item",
		ContentType:        contentType,
		CompletionCriteria: courseModels.CriteriaView,
		OrderIndex:         order,
		IsRequired:         true,
		IsPublished:        true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func markCompleted(t *testing.T, db *gorm.DB, userID uint, item courseModels.ContentItem) {
	t.Helper()
	now := time.Now()
	require.NoError(t, db.Create(&courseModels.ContentProgress{
		UserID:             userID,
		CourseID:           item.CourseID,
		ContentItemID:      item.ID,
		CompletionStatus:   courseModels.StatusCompleted,
		ProgressPercentage: 100,
		CompletedAt:        &now,
	}).Error)
}
