package catalog

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReferencesAcceptsChain(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)

	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)
	b := seedItem(t, db, topic, courseModels.ContentTypeReading, 2)
	c := seedItem(t, db, topic, courseModels.ContentTypeQuiz, 3)

	b.SetPrerequisiteIDs([]uint{a.ID})
	require.NoError(t, db.Save(&b).Error)

	assert.NoError(t, ValidateReferences(db, crs.ID, c.ID, []uint{b.ID}, nil))
}

func TestValidateReferencesUnknownItem(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)
	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)

	err := ValidateReferences(db, crs.ID, a.ID, []uint{9999}, nil)
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestValidateReferencesCrossCourseRejected(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)
	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)

	other := seedCourse(t, db, false)
	otherTopic := seedTopic(t, db, other.ID, 1, courseModels.UnlockImmediate)
	foreign := seedItem(t, db, otherTopic, courseModels.ContentTypeVideo, 1)

	err := ValidateReferences(db, crs.ID, a.ID, []uint{foreign.ID}, nil)
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestValidateReferencesSelfReference(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)
	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)

	err := ValidateReferences(db, crs.ID, a.ID, []uint{a.ID}, nil)
	assert.ErrorIs(t, err, ErrPrerequisiteCycle)
}

func TestValidateReferencesDirectCycle(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)

	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)
	b := seedItem(t, db, topic, courseModels.ContentTypeReading, 2)

	a.SetPrerequisiteIDs([]uint{b.ID})
	require.NoError(t, db.Save(&a).Error)

	// b -> a would close the loop a -> b -> a.
	err := ValidateReferences(db, crs.ID, b.ID, []uint{a.ID}, nil)
	assert.ErrorIs(t, err, ErrPrerequisiteCycle)
}

func TestValidateReferencesTransitiveCycleAcrossEdgeKinds(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)

	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)
	b := seedItem(t, db, topic, courseModels.ContentTypeReading, 2)
	c := seedItem(t, db, topic, courseModels.ContentTypeQuiz, 3)

	b.SetPrerequisiteIDs([]uint{a.ID})
	require.NoError(t, db.Save(&b).Error)
	c.SetDependencyIDs([]uint{b.ID})
	require.NoError(t, db.Save(&c).Error)

	// a -> c closes a -> c -> b -> a through mixed prerequisite/dependency edges.
	err := ValidateReferences(db, crs.ID, a.ID, nil, []uint{c.ID})
	assert.ErrorIs(t, err, ErrPrerequisiteCycle)
}

func TestValidateReferencesReplacingEdgeBreaksOldCycle(t *testing.T) {
	db := testDB(t)
	crs := seedCourse(t, db, false)
	topic := seedTopic(t, db, crs.ID, 1, courseModels.UnlockImmediate)

	a := seedItem(t, db, topic, courseModels.ContentTypeVideo, 1)
	b := seedItem(t, db, topic, courseModels.ContentTypeReading, 2)

	a.SetPrerequisiteIDs([]uint{b.ID})
	require.NoError(t, db.Save(&a).Error)

	// The proposed edit replaces a's references entirely, so a -> b no longer
	// exists and pointing a at nothing is fine.
	assert.NoError(t, ValidateReferences(db, crs.ID, a.ID, nil, nil))
}
