package quiz

import (
	"errors"
	"testing"

	"learnhub/internal/models"
)

func question(points int, correctIdx int, optionCount int) models.Question {
	q := models.Question{Points: points}
	for i := 0; i < optionCount; i++ {
		q.Options = append(q.Options, models.Option{IsCorrect: i == correctIdx})
	}
	return q
}

func TestEvaluateWeightedScore(t *testing.T) {
	// 1 + 1 + 3 points; answering only the 3-pointer correctly is 60, not
	// the 33 a plain count would give.
	questions := []models.Question{
		question(1, 0, 3),
		question(1, 0, 3),
		question(3, 2, 3),
	}

	verdict, err := Evaluate(questions, []int{1, 1, 2})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.Score != 60 {
		t.Errorf("score = %d, want 60", verdict.Score)
	}
	if verdict.Perfect {
		t.Error("verdict should not be perfect")
	}
}

func TestEvaluatePerfect(t *testing.T) {
	questions := []models.Question{
		question(2, 1, 4),
		question(5, 0, 2),
	}

	verdict, err := Evaluate(questions, []int{1, 0})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.Score != 100 || !verdict.Perfect {
		t.Errorf("got score=%d perfect=%v, want 100/true", verdict.Score, verdict.Perfect)
	}
}

func TestEvaluateAllWrong(t *testing.T) {
	questions := []models.Question{question(1, 0, 2), question(1, 0, 2)}

	verdict, err := Evaluate(questions, []int{1, 1})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.Score != 0 {
		t.Errorf("score = %d, want 0", verdict.Score)
	}
}

func TestEvaluateZeroPointQuestionCountsAsOne(t *testing.T) {
	questions := []models.Question{question(0, 0, 2), question(1, 0, 2)}

	verdict, err := Evaluate(questions, []int{0, 1})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.Score != 50 {
		t.Errorf("score = %d, want 50", verdict.Score)
	}
}

func TestEvaluateCallerErrors(t *testing.T) {
	questions := []models.Question{question(1, 0, 2)}

	if _, err := Evaluate(questions, []int{0, 1}); !errors.Is(err, ErrAnswerCountMismatch) {
		t.Errorf("count mismatch: got %v", err)
	}
	if _, err := Evaluate(questions, []int{5}); !errors.Is(err, ErrAnswerOutOfRange) {
		t.Errorf("out of range: got %v", err)
	}
	if _, err := Evaluate(nil, nil); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("no questions: got %v", err)
	}
}
