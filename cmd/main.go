package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/config"
	"github.com/haimq/examhub/database"
	_ "github.com/haimq/examhub/docs" // Swagger docs - auto-generated
	adminctrl "github.com/haimq/examhub/internal/controller/admin"
	authctrl "github.com/haimq/examhub/internal/controller/auth"
	studentctrl "github.com/haimq/examhub/internal/controller/student"
	"github.com/haimq/examhub/internal/logger"
	"github.com/haimq/examhub/internal/middleware"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/haimq/examhub/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title ExamHub API
// @version 1.0
// @description Exam management API: admins author exams and manage groups, students take exams and track results.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewUserGroupRepository,
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewSubmissionRepository,
		),

		// Services layer
		fx.Provide(
			service.NewAuthService,
			service.NewAdminExamService,
			service.NewQuestionImportService,
			service.NewResultExportService,
			service.NewStudentExamService,
			service.NewUserGroupService,
			service.NewUserService,
			service.NewDashboardService,
			service.NewGeminiQuestionService,
		),

		// API controllers layer
		fx.Provide(
			authctrl.NewAuthController,
			adminctrl.NewAdminExamController,
			adminctrl.NewAdminGroupController,
			adminctrl.NewAdminUserController,
			adminctrl.NewAdminDashboardController,
			studentctrl.NewStudentController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedData),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	userRepo repository.UserRepository,
	authController *authctrl.AuthController,
	examController *adminctrl.AdminExamController,
	groupController *adminctrl.AdminGroupController,
	userController *adminctrl.AdminUserController,
	dashboardController *adminctrl.AdminDashboardController,
	studentController *studentctrl.StudentController,
) {
	api := router.Group("/api")

	api.POST("/login", authController.Login)
	api.POST("/register", authController.Register)

	authenticated := api.Group("")
	authenticated.Use(middleware.Authenticate(authService, userRepo))
	{
		admin := authenticated.Group("/admin")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/dashboard", dashboardController.Stats)

			admin.GET("/exams", examController.ListExams)
			admin.POST("/exams", examController.CreateExam)
			admin.GET("/exams/:id", examController.GetExam)
			admin.PUT("/exams/:id", examController.UpdateExam)
			admin.DELETE("/exams/:id", examController.DeleteExam)
			admin.GET("/exams/:id/results", examController.GetExamResults)
			admin.GET("/exams/:id/export", examController.ExportResults)
			admin.POST("/exams/:id/import", examController.ImportQuestions)

			admin.GET("/questions/template", examController.DownloadTemplate)
			admin.POST("/questions/generate", examController.GenerateQuestions)

			admin.GET("/groups", groupController.ListGroups)
			admin.POST("/groups", groupController.CreateGroup)
			admin.GET("/groups/:id", groupController.GetGroup)
			admin.PUT("/groups/:id", groupController.UpdateGroup)
			admin.DELETE("/groups/:id", groupController.DeleteGroup)
			admin.POST("/groups/:id/students", groupController.AddStudent)
			admin.DELETE("/groups/:id/students/:studentId", groupController.RemoveStudent)

			admin.GET("/students", userController.ListStudents)
			admin.GET("/users", userController.ListUsers)
			admin.POST("/users", userController.CreateUser)
			admin.POST("/users/import", userController.ImportUsers)
		}

		student := authenticated.Group("/student")
		student.Use(middleware.RequireRole(model.RoleStudent))
		{
			student.GET("/exams/available", studentController.AvailableExams)
			student.GET("/exam/:id/take", studentController.TakeExam)
			student.POST("/exam/:id/submit", studentController.SubmitExam)
			student.GET("/dashboard", studentController.Dashboard)
			student.GET("/profile", studentController.Profile)
			student.PUT("/profile", studentController.EditProfile)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("ExamHub API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.UserGroup{},
		&model.Exam{},
		&model.Question{},
		&model.ExamSubmission{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// SeedData provisions default accounts and a sample exam on an empty
// database so a fresh install is immediately usable.
func SeedData(db *gorm.DB, userRepo repository.UserRepository, examRepo repository.ExamRepository) error {
	if _, err := userRepo.FindByUsername("admin"); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := model.User{Username: "admin", Role: model.RoleAdmin}
	if err := admin.SetPassword("admin123"); err != nil {
		return err
	}
	if err := userRepo.Create(&admin); err != nil {
		return err
	}

	student := model.User{Username: "student", Role: model.RoleStudent}
	if err := student.SetPassword("student123"); err != nil {
		return err
	}
	if err := userRepo.Create(&student); err != nil {
		return err
	}

	var examCount int64
	if err := db.Model(&model.Exam{}).Count(&examCount).Error; err != nil {
		return err
	}
	if examCount == 0 {
		duration := 30
		sample := model.Exam{
			Name:            "General Knowledge Quiz",
			Subject:         "General Knowledge",
			Duration:        &duration,
			Status:          model.ExamStatusPublished,
			AllowedAttempts: 3,
			Questions: []model.Question{
				{
					Text:          "What is the capital of France?",
					Options:       model.OptionList{"Paris", "London", "Rome", "Berlin"},
					CorrectAnswer: "Paris",
				},
				{
					Text:          "Which planet is known as the Red Planet?",
					Options:       model.OptionList{"Venus", "Mars", "Jupiter", "Saturn"},
					CorrectAnswer: "Mars",
				},
			},
		}
		if err := examRepo.Create(&sample); err != nil {
			return err
		}
	}

	log.Info().Msg("Seeded default accounts and sample exam.")
	return nil
}
