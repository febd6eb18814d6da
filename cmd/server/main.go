package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"learnhub/internal/auth"
	"learnhub/internal/certificate"
	"learnhub/internal/config"
	"learnhub/internal/course"
	"learnhub/internal/gamification"
	"learnhub/internal/models"
	"learnhub/internal/progress"
	"learnhub/internal/quiz"
	"learnhub/pkg/cache"
	"learnhub/pkg/database"
	"learnhub/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg := config.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.NewPostgresDB(&database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseModule{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.LessonCompletion{},
		&models.QuizAttempt{},
		&models.GamificationStats{},
		&models.XPEvent{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Certificate{},
	)
	if err != nil {
		appLog.Fatal("failed to migrate database", "error", err)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr)

	// Repositories
	authRepo := auth.NewRepository(db)
	courseRepo := course.NewRepository(db)
	quizRepo := quiz.NewRepository(db)
	progressRepo := progress.NewRepository(db)
	gamRepo := gamification.NewRepository(db, cfg.Levels.MaxLevel)
	certRepo := certificate.NewRepository(db)

	// Services
	authService := auth.NewService(authRepo, cfg.JWTSecret)
	courseService := course.NewService(courseRepo, redisCache, appLog)
	gamService := gamification.NewService(gamRepo, redisCache, cfg.XP, cfg.StreakTimezone, appLog)

	evaluator := progress.NewEvaluator(courseService, progressRepo, quizRepo)
	certService := certificate.NewService(certRepo, evaluator, courseService, appLog)
	progressService := progress.NewService(
		courseService, progressRepo, quizRepo, gamService, certService,
		cfg.DefaultPassingScore, appLog,
	)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := gamRepo.SeedBadges(seedCtx, gamification.DefaultBadges()); err != nil {
		appLog.Fatal("failed to seed badges", "error", err)
	}
	cancelSeed()

	// Handlers
	authHandler := auth.NewHandler(authService, progressService, appLog)
	courseHandler := course.NewHandler(courseService)
	progressHandler := progress.NewHandler(progressService, appLog)
	gamHandler := gamification.NewHandler(gamService)
	certHandler := certificate.NewHandler(certService)

	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Public routes
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/certificates/{number}", certHandler.VerifyCertificate).Methods("GET", "OPTIONS")

	// JWT-protected routes
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(cfg.JWTSecret))

	apiRouter.HandleFunc("/courses/{courseID}", courseHandler.GetCourse).Methods("GET")
	apiRouter.HandleFunc("/courses/{courseID}/progress", progressHandler.GetCourseProgress).Methods("GET")
	apiRouter.HandleFunc("/lessons/{lessonID}/complete", progressHandler.CompleteLesson).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/modules/{moduleID}/quiz/attempts", progressHandler.SubmitQuizAttempt).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/modules/{moduleID}/quiz/attempts", progressHandler.GetQuizAttempts).Methods("GET")
	apiRouter.HandleFunc("/gamification/me", gamHandler.GetMyStats).Methods("GET")
	apiRouter.HandleFunc("/gamification/leaderboard", gamHandler.GetLeaderboard).Methods("GET")
	apiRouter.HandleFunc("/certificates", certHandler.GetMyCertificates).Methods("GET")
	apiRouter.HandleFunc("/admin/users/{userID}/xp", gamHandler.AdjustXP).Methods("POST", "OPTIONS")

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		appLog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("failed to start server", "error", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}

	appLog.Info("server shutdown gracefully")
}
