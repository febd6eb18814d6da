package quiz

import (
	"errors"
	"math"

	"learnhub/internal/models"
)

var (
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	ErrAnswerOutOfRange    = errors.New("answer index out of range for question")
	ErrNoQuestions         = errors.New("quiz has no questions")
)

// Verdict is the outcome of scoring one attempt.
type Verdict struct {
	Score   int
	Perfect bool
}

// Evaluate scores submitted answers against a question set. Answers are
// option indices, one per question in order. The score is weighted by
// question point values, scaled to 0-100. Pure: no side effects, prior
// attempts are never consulted or mutated.
func Evaluate(questions []models.Question, answers []int) (Verdict, error) {
	if len(questions) == 0 {
		return Verdict{}, ErrNoQuestions
	}
	if len(answers) != len(questions) {
		return Verdict{}, ErrAnswerCountMismatch
	}

	totalPoints := 0
	earnedPoints := 0
	for i, q := range questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		totalPoints += points

		idx := answers[i]
		if idx < 0 || idx >= len(q.Options) {
			return Verdict{}, ErrAnswerOutOfRange
		}
		if q.Options[idx].IsCorrect {
			earnedPoints += points
		}
	}

	score := int(math.Round(float64(earnedPoints) / float64(totalPoints) * 100))
	return Verdict{
		Score:   score,
		Perfect: earnedPoints == totalPoints,
	}, nil
}
