package progress

import (
	"encoding/json"
	"fmt"

	courseModels "lms/models/course"
)

// QuizAnswer is one student answer in a quiz submission.
type QuizAnswer struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
}

// GradeResult is the outcome of grading one quiz submission.
type GradeResult struct {
	Score        float64 // percentage 0-100
	EarnedPoints float64
	TotalPoints  float64
	CorrectCount int
	TotalCount   int
}

// GradeQuiz grades a submission against the configured question set. A question
// counts as correct only when exactly the correct options are selected. An
// answer referencing a question outside the set is rejected before any grading
// result is produced.
func GradeQuiz(questions []courseModels.Question, answers []QuizAnswer) (GradeResult, error) {
	res := GradeResult{TotalCount: len(questions)}

	byID := make(map[uint]courseModels.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
		res.TotalPoints += q.Points
	}

	answered := make(map[uint]bool, len(answers))
	for _, ans := range answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			return GradeResult{}, fmt.Errorf("%w: question %d is not part of this quiz", ErrInvalidSignal, ans.QuestionID)
		}
		if answered[ans.QuestionID] {
			return GradeResult{}, fmt.Errorf("%w: duplicate answer for question %d", ErrInvalidSignal, ans.QuestionID)
		}
		answered[ans.QuestionID] = true

		if answerCorrect(q, ans.SelectedOptionIDs) {
			res.CorrectCount++
			res.EarnedPoints += q.Points
		}
	}

	if res.TotalPoints > 0 {
		res.Score = res.EarnedPoints / res.TotalPoints * 100
	}
	return res, nil
}

// answerCorrect reports whether the selection matches the correct option set exactly.
func answerCorrect(q courseModels.Question, selected []uint) bool {
	var options []courseModels.QuestionOption
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return false
	}

	correct := make(map[uint]bool)
	for _, opt := range options {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}
	if len(correct) == 0 || len(selected) != len(correct) {
		return false
	}
	seen := make(map[uint]bool, len(selected))
	for _, id := range selected {
		if !correct[id] || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}
