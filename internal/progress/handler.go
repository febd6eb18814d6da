package progress

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"learnhub/internal/course"
	"learnhub/internal/models"
	"learnhub/internal/quiz"
	"learnhub/pkg/logger"
)

type Handler struct {
	service *Service
	log     *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

type completeLessonRequest struct {
	CourseID uint `json:"course_id"`
}

func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	lessonID, err := strconv.ParseUint(vars["lessonID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid lesson id", http.StatusBadRequest)
		return
	}

	var req completeLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.RecordLessonCompleted(r.Context(), userID, uint(lessonID), req.CourseID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(result)
}

type submitAttemptRequest struct {
	Answers []int `json:"answers"`
}

func (h *Handler) SubmitQuizAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	moduleID, err := strconv.ParseUint(vars["moduleID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid module id", http.StatusBadRequest)
		return
	}

	var req submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.SubmitQuizAttempt(r.Context(), userID, uint(moduleID), req.Answers)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	courseID, err := strconv.ParseUint(vars["courseID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}

	result, err := h.service.CourseProgress(r.Context(), userID, uint(courseID))
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetQuizAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	moduleID, err := strconv.ParseUint(vars["moduleID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid module id", http.StatusBadRequest)
		return
	}

	best, latestPassing, err := h.service.BestAndLatestAttempts(r.Context(), userID, uint(moduleID))
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]*models.QuizAttempt{
		"best":           best,
		"latest_passing": latestPassing,
	})
}

// writeError maps the error taxonomy: caller errors to 4xx with a specific
// reason, everything else to a retryable 5xx.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrLessonNotInCourse):
		http.Error(w, "Lesson does not belong to course", http.StatusBadRequest)
	case errors.Is(err, course.ErrCourseNotFound):
		http.Error(w, "Course not found", http.StatusNotFound)
	case errors.Is(err, quiz.ErrQuizNotFound):
		http.Error(w, "Quiz not found", http.StatusNotFound)
	case errors.Is(err, quiz.ErrAnswerCountMismatch):
		http.Error(w, "Answer count does not match question count", http.StatusBadRequest)
	case errors.Is(err, quiz.ErrAnswerOutOfRange):
		http.Error(w, "Answer index out of range", http.StatusBadRequest)
	case errors.Is(err, quiz.ErrNoQuestions):
		http.Error(w, "Quiz has no questions", http.StatusUnprocessableEntity)
	default:
		h.log.Error("progress operation failed", "error", err)
		http.Error(w, "Temporary failure, please retry", http.StatusServiceUnavailable)
	}
}
