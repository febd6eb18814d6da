package progress

import (
	"context"

	"learnhub/internal/models"
)

// CompletionState is the outcome of re-deriving a user's standing in a
// course from persisted facts.
type CompletionState struct {
	Completed  bool
	Percentage float64
	// Module whose final quiz still lacks a passing attempt, when that is
	// all that stands between the user and completion.
	PendingModuleID uint
}

// EvaluateCompletion decides course completion from counts and quiz
// verdicts. Pure with respect to its inputs; safe to re-invoke on every
// event, which is what the idempotence of the surrounding pipeline rests on.
func EvaluateCompletion(totalLessons, completedLessons int, finalQuizzes []models.ModuleStructure, passedQuizzes map[uint]bool) CompletionState {
	state := CompletionState{}
	if totalLessons == 0 {
		// An empty course is never completable.
		return state
	}

	state.Percentage = float64(completedLessons) / float64(totalLessons) * 100
	if completedLessons < totalLessons {
		return state
	}

	for _, m := range finalQuizzes {
		if !passedQuizzes[m.FinalQuizID] {
			state.PendingModuleID = m.ModuleID
			return state
		}
	}

	state.Completed = true
	return state
}

type structureProvider interface {
	Structure(ctx context.Context, courseID uint) (*models.CourseStructure, error)
}

type completionCounter interface {
	CountCompletedLessons(ctx context.Context, userID, courseID uint) (int, error)
}

type passingAttemptSource interface {
	PassedQuizIDs(ctx context.Context, userID uint, quizIDs []uint) (map[uint]bool, error)
}

// Evaluator wires the pure detector to the stores. The certificate issuer
// reuses it to re-verify completion before issuing.
type Evaluator struct {
	structures  structureProvider
	completions completionCounter
	attempts    passingAttemptSource
}

func NewEvaluator(structures structureProvider, completions completionCounter, attempts passingAttemptSource) *Evaluator {
	return &Evaluator{
		structures:  structures,
		completions: completions,
		attempts:    attempts,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, userID, courseID uint) (CompletionState, *models.CourseStructure, error) {
	cs, err := e.structures.Structure(ctx, courseID)
	if err != nil {
		return CompletionState{}, nil, err
	}

	completed, err := e.completions.CountCompletedLessons(ctx, userID, courseID)
	if err != nil {
		return CompletionState{}, nil, err
	}

	finalQuizzes := cs.FinalQuizzes()
	passed := map[uint]bool{}
	if completed >= cs.TotalLessons && len(finalQuizzes) > 0 {
		ids := make([]uint, 0, len(finalQuizzes))
		for _, m := range finalQuizzes {
			ids = append(ids, m.FinalQuizID)
		}
		if passed, err = e.attempts.PassedQuizIDs(ctx, userID, ids); err != nil {
			return CompletionState{}, nil, err
		}
	}

	return EvaluateCompletion(cs.TotalLessons, completed, finalQuizzes, passed), cs, nil
}

// IsCompleted satisfies the certificate issuer's completion check.
func (e *Evaluator) IsCompleted(ctx context.Context, userID, courseID uint) (bool, error) {
	state, _, err := e.Evaluate(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	return state.Completed, nil
}
