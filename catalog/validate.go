package catalog

import (
	"errors"
	"fmt"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

var (
	ErrUnknownReference  = errors.New("reference to unknown content item")
	ErrPrerequisiteCycle = errors.New("prerequisite graph contains a cycle")
)

// ValidateReferences checks a proposed prerequisite/dependency edit for item
// itemID in a course: every referenced id must exist (non-deleted) in the same
// course, an item may not reference itself, and the resulting graph must stay
// acyclic. Runs before any mutation.
func ValidateReferences(db *gorm.DB, courseID, itemID uint, prereqIDs, depIDs []uint) error {
	var items []courseModels.ContentItem
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&items).Error; err != nil {
		return err
	}

	exists := make(map[uint]bool, len(items))
	for _, it := range items {
		exists[it.ID] = true
	}

	refs := append(append([]uint{}, prereqIDs...), depIDs...)
	for _, id := range refs {
		if id == itemID {
			return fmt.Errorf("%w: item %d references itself", ErrPrerequisiteCycle, itemID)
		}
		if !exists[id] {
			return fmt.Errorf("%w: content item %d", ErrUnknownReference, id)
		}
	}

	// Build the edge set with the proposed edit applied, then walk for cycles.
	edges := make(map[uint][]uint, len(items))
	for _, it := range items {
		if it.ID == itemID {
			continue
		}
		edges[it.ID] = append(it.PrerequisiteIDs(), it.DependencyIDs()...)
	}
	edges[itemID] = refs

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[uint]int, len(edges))

	var visit func(id uint) bool
	visit = func(id uint) bool {
		switch state[id] {
		case visiting:
			return false
		case done:
			return true
		}
		state[id] = visiting
		for _, next := range edges[id] {
			if !visit(next) {
				return false
			}
		}
		state[id] = done
		return true
	}

	if !visit(itemID) {
		return ErrPrerequisiteCycle
	}
	return nil
}
