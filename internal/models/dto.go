package models

import "time"

// ProgressStatus values returned by the progress facade.
const (
	StatusLessonRecorded   = "LESSON_RECORDED"
	StatusCourseInProgress = "COURSE_IN_PROGRESS"
	StatusNeedsFinalQuiz   = "NEEDS_FINAL_QUIZ"
	StatusCourseCompleted  = "COURSE_COMPLETED"
)

// ProgressResult is the unified response for any qualifying event: the
// terminal state plus machine-readable deltas for the caller to present.
type ProgressResult struct {
	Status        string           `json:"status"`
	Percentage    float64          `json:"percentage"`
	PendingQuiz   uint             `json:"pending_quiz_module_id,omitempty"`
	XPGained      int              `json:"xp_gained"`
	NewTotalXP    int              `json:"new_total_xp"`
	NewLevel      int              `json:"new_level"`
	AwardedBadges []AwardedBadge   `json:"awarded_badges"`
	Certificate   *CertificateInfo `json:"certificate,omitempty"`
}

type AwardedBadge struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	RewardXP int    `json:"reward_xp"`
}

type CertificateInfo struct {
	Number   string    `json:"number"`
	IssuedAt time.Time `json:"issued_at"`
}

// QuizResult is returned from a quiz attempt submission.
type QuizResult struct {
	Score         int             `json:"score"`
	Passed        bool            `json:"passed"`
	AttemptNumber int             `json:"attempt_number"`
	Progress      *ProgressResult `json:"progress,omitempty"`
}

// CourseStructure is the read-only structural snapshot the engine evaluates
// completion against. It is what gets cached in redis.
type CourseStructure struct {
	CourseID       uint              `json:"course_id"`
	Title          string            `json:"title"`
	InstructorName string            `json:"instructor_name"`
	PassingScore   int               `json:"passing_score"`
	TotalLessons   int               `json:"total_lessons"`
	Modules        []ModuleStructure `json:"modules"`
}

type ModuleStructure struct {
	ModuleID    uint   `json:"module_id"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	LessonIDs   []uint `json:"lesson_ids"`
	FinalQuizID uint   `json:"final_quiz_id,omitempty"`
}

// FinalQuizzes lists every module that carries a final quiz, in module order.
func (cs *CourseStructure) FinalQuizzes() []ModuleStructure {
	var out []ModuleStructure
	for _, m := range cs.Modules {
		if m.FinalQuizID != 0 {
			out = append(out, m)
		}
	}
	return out
}

// ContainsLesson reports whether the lesson belongs to this course.
func (cs *CourseStructure) ContainsLesson(lessonID uint) bool {
	for _, m := range cs.Modules {
		for _, id := range m.LessonIDs {
			if id == lessonID {
				return true
			}
		}
	}
	return false
}

// StructureFromCourse flattens a preloaded Course into its snapshot form.
func StructureFromCourse(course *Course) *CourseStructure {
	cs := &CourseStructure{
		CourseID:       course.ID,
		Title:          course.Title,
		InstructorName: course.InstructorName,
		PassingScore:   course.PassingScore,
	}
	for _, mod := range course.Modules {
		ms := ModuleStructure{
			ModuleID: mod.ID,
			Title:    mod.Title,
			Position: mod.Position,
		}
		for _, lesson := range mod.Lessons {
			ms.LessonIDs = append(ms.LessonIDs, lesson.ID)
		}
		if mod.FinalQuiz != nil {
			ms.FinalQuizID = mod.FinalQuiz.ID
		}
		cs.TotalLessons += len(ms.LessonIDs)
		cs.Modules = append(cs.Modules, ms)
	}
	return cs
}
