package progress

import (
	"testing"

	"learnhub/internal/models"
)

func TestEvaluateCompletionNoQuiz(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		completed int
		wantDone  bool
		wantPct   float64
	}{
		{"untouched", 10, 0, false, 0},
		{"halfway", 10, 5, false, 50},
		{"one short", 10, 9, false, 90},
		{"all done", 10, 10, true, 100},
		{"single lesson", 1, 1, true, 100},
		{"empty course never completes", 0, 0, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := EvaluateCompletion(tc.total, tc.completed, nil, nil)
			if state.Completed != tc.wantDone {
				t.Errorf("Completed = %v, want %v", state.Completed, tc.wantDone)
			}
			if state.Percentage != tc.wantPct {
				t.Errorf("Percentage = %v, want %v", state.Percentage, tc.wantPct)
			}
		})
	}
}

func TestEvaluateCompletionWithFinalQuiz(t *testing.T) {
	finalQuizzes := []models.ModuleStructure{{ModuleID: 3, FinalQuizID: 7}}

	state := EvaluateCompletion(5, 5, finalQuizzes, map[uint]bool{})
	if state.Completed {
		t.Error("should not complete without a passing attempt")
	}
	if state.PendingModuleID != 3 {
		t.Errorf("PendingModuleID = %d, want 3", state.PendingModuleID)
	}

	state = EvaluateCompletion(5, 5, finalQuizzes, map[uint]bool{7: true})
	if !state.Completed {
		t.Error("should complete once the final quiz is passed")
	}

	// Lessons outstanding: the quiz doesn't matter yet.
	state = EvaluateCompletion(5, 4, finalQuizzes, map[uint]bool{7: true})
	if state.Completed || state.PendingModuleID != 0 {
		t.Errorf("got %+v, want in-progress", state)
	}
}

func TestEvaluateCompletionMultipleFinalQuizzes(t *testing.T) {
	finalQuizzes := []models.ModuleStructure{
		{ModuleID: 1, FinalQuizID: 10},
		{ModuleID: 2, FinalQuizID: 20},
	}

	state := EvaluateCompletion(4, 4, finalQuizzes, map[uint]bool{10: true})
	if state.Completed {
		t.Error("second module's quiz still unpassed")
	}
	if state.PendingModuleID != 2 {
		t.Errorf("PendingModuleID = %d, want 2", state.PendingModuleID)
	}

	state = EvaluateCompletion(4, 4, finalQuizzes, map[uint]bool{10: true, 20: true})
	if !state.Completed {
		t.Error("all quizzes passed, should be complete")
	}
}
