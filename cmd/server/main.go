package main

import (
	"database/sql"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/yasaga2k/explore-with-me/config"
	_ "github.com/yasaga2k/explore-with-me/docs"
	deliveryhttp "github.com/yasaga2k/explore-with-me/internal/delivery/http"
	"github.com/yasaga2k/explore-with-me/internal/delivery/http/controllers"
	"github.com/yasaga2k/explore-with-me/internal/delivery/http/middleware"

	"github.com/yasaga2k/explore-with-me/internal/adapters/email"
	"github.com/yasaga2k/explore-with-me/internal/adapters/stats"
	"github.com/yasaga2k/explore-with-me/internal/repository/postgres"
	"github.com/yasaga2k/explore-with-me/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title Explore With Me API
// @version 1.0
// @description Event publication and participation service with admission control.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(cfg.DBUrl, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	txManager := postgres.NewTxManager(db)
	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	compilationRepo := postgres.NewCompilationRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	statsClient := stats.NewHTTPClient(&http.Client{Timeout: cfg.StatsTimeout}, cfg.StatsServerURL, cfg.AppName)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	eventSvc := services.NewEventService(txManager, eventRepo, userRepo, categoryRepo, statsClient, logger, serviceTimeout)
	requestSvc := services.NewRequestService(txManager, requestRepo, eventRepo, userRepo, emailSvc, logger, serviceTimeout)
	categorySvc := services.NewCategoryService(categoryRepo, eventRepo, serviceTimeout)
	userSvc := services.NewUserService(userRepo, serviceTimeout)
	compilationSvc := services.NewCompilationService(txManager, compilationRepo, eventRepo, serviceTimeout)
	commentSvc := services.NewCommentService(commentRepo, eventRepo, userRepo, serviceTimeout)

	router := deliveryhttp.NewRouter(
		controllers.NewEventController(logger, eventSvc),
		controllers.NewRequestController(logger, requestSvc),
		controllers.NewCategoryController(logger, categorySvc),
		controllers.NewUserController(logger, userSvc),
		controllers.NewCompilationController(logger, compilationSvc),
		controllers.NewCommentController(logger, commentSvc),
	)

	var handler http.Handler = router
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		handler = middleware.CORS(strings.Split(origins, ","), handler)
	}
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
