package catalog

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const student uint = 1

func TestItemUnlockedNoConstraints(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)
	item := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)

	ok, err := ItemUnlocked(db, student, &item)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestItemUnlockedPrerequisiteGate(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)

	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)
	b := seedItem(t, db, topic, courseModels.ContentTypeReading, 2)
	b.SetPrerequisiteIDs([]uint{a.ID})
	require.NoError(t, db.Save(&b).Error)

	ok, err := ItemUnlocked(db, student, &b)
	require.NoError(t, err)
	assert.False(t, ok)

	markCompleted(t, db, student, a)

	ok, err = ItemUnlocked(db, student, &b)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestItemUnlockedDependencyGate(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)

	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)
	b := seedItem(t, db, topic, courseModels.ContentTypeReading, 2)
	b.SetDependencyIDs([]uint{a.ID})
	require.NoError(t, db.Save(&b).Error)

	ok, err := ItemUnlocked(db, student, &b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestItemUnlockedAfterPreviousTopic(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic1 := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)
	topic2 := seedTopic(t, db, crs.ID, 2, courseModels.UnlockAfterPrevious)

	first := seedItem(t, db, topic1, courseModels.ContentTypeVideo, 1)
	gated := seedItem(t, db, topic2, courseModels.ContentTypeReading, 1)

	ok, err := ItemUnlocked(db, student, &gated)
	require.NoError(t, err)
	assert.False(t, ok)

	markCompleted(t, db, student, first)

	ok, err = ItemUnlocked(db, student, &gated)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestItemUnlockedFirstTopicAlwaysOpen(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockAfterPrevious)
	item := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)

	ok, err := ItemUnlocked(db, student, &item)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestItemUnlockedSequentialCourse(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, true)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)

	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)
	b := seedItem(t, db, topic, courseModels.ContentTypeReading, 2)

	ok, err := ItemUnlocked(db, student, &b)
	require.NoError(t, err)
	assert.False(t, ok)

	markCompleted(t, db, student, a)

	ok, err = ItemUnlocked(db, student, &b)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestItemUnlockedSequentialSkipsOptionalItems(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, true)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)

	optional := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)
	require.NoError(t, db.Model(&optional).Update("is_required", false).Error)
	b := seedItem(t, db, topic, courseModels.ContentTypeReading, 2)

	// Optional prior items never block sequential consumption.
	ok, err := ItemUnlocked(db, student, &b)
	require.NoError(t, err)
	assert.True(t, ok)
}
