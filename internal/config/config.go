package config

import (
	"os"
	"strconv"
)

// XPRules holds the XP amount granted per event type. Values come from the
// environment with hard-coded fallbacks so the engine works unconfigured.
type XPRules struct {
	LessonCompleted int
	CourseCompleted int
	QuizPassed      int
	PerfectScore    int
	StreakBonus     int
	DailyLogin      int
}

type LevelRules struct {
	MaxLevel int
}

type Config struct {
	Port      string
	LogMode   string
	JWTSecret string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr string

	XP     XPRules
	Levels LevelRules

	// IANA timezone that governs streak-day boundaries when the user has
	// none set. Explicit so streak behavior is testable, never server-local.
	StreakTimezone string

	// Default final-quiz passing score for courses that don't override it.
	DefaultPassingScore int
}

func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		LogMode:   getEnv("LOG_MODE", "dev"),
		JWTSecret: getEnv("JWT_SECRET", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "learnhub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		XP: XPRules{
			LessonCompleted: getEnvInt("XP_LESSON_COMPLETED", 10),
			CourseCompleted: getEnvInt("XP_COURSE_COMPLETED", 50),
			QuizPassed:      getEnvInt("XP_QUIZ_PASSED", 20),
			PerfectScore:    getEnvInt("XP_PERFECT_SCORE", 10),
			StreakBonus:     getEnvInt("XP_STREAK_BONUS", 5),
			DailyLogin:      getEnvInt("XP_DAILY_LOGIN", 5),
		},
		Levels: LevelRules{
			MaxLevel: getEnvInt("LEVEL_MAX", 100),
		},

		StreakTimezone:      getEnv("STREAK_TIMEZONE", "UTC"),
		DefaultPassingScore: getEnvInt("QUIZ_PASSING_SCORE", 70),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
