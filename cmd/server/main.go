package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/config"
	"github.com/iliyamo/save-n-serve/internal/database"
	"github.com/iliyamo/save-n-serve/internal/handler"
	"github.com/iliyamo/save-n-serve/internal/mailer"
	"github.com/iliyamo/save-n-serve/internal/middleware"
	"github.com/iliyamo/save-n-serve/internal/model"
	"github.com/iliyamo/save-n-serve/internal/queue"
	"github.com/iliyamo/save-n-serve/internal/repository"
	"github.com/iliyamo/save-n-serve/internal/router"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(database.Config{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Mail: deliver inline over SMTP, or through RabbitMQ when a broker is
	// configured. The consumer performs the SMTP delivery in the background.
	smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	var mail mailer.Mailer = smtp
	if cfg.RabbitURL != "" {
		mail = mailer.NewQueue(cfg.RabbitURL)
		go queue.StartEmailConsumer(cfg.RabbitURL, smtp)
	}

	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	buyers := repository.NewBuyerRepo(db)
	sellers := repository.NewSellerRepo(db)
	admins := repository.NewAdminRepo(db)

	buyerAuth := auth.NewService(auth.RoleSpec{
		Role:          model.RoleBuyer,
		IncludeUserID: true,
		ResetPath:     "/reset-password",
	}, buyers, hasher, tokens, mail, cfg.AppBaseURL)

	sellerAuth := auth.NewService(auth.RoleSpec{
		Role:             model.RoleSeller,
		RequiresApproval: true,
		IncludeUserID:    true,
		ResetPath:        "/sreset-password",
	}, sellers, hasher, tokens, mail, cfg.AppBaseURL)

	adminAuth := auth.NewService(auth.RoleSpec{
		Role:      model.RoleAdmin,
		ResetPath: "/areset-password",
	}, admins, hasher, tokens, mail, cfg.AppBaseURL)

	// Redis-backed limiter on the credential endpoints; pass-through when
	// Redis is unavailable.
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())

	e := echo.New()
	e.Use(middleware.Authenticate(tokens))

	router.RegisterRoutes(e)
	router.RegisterBuyer(e, handler.NewBuyerHandler(buyers, buyerAuth), limiter)
	router.RegisterSeller(e, handler.NewSellerHandler(sellers, sellerAuth), limiter)
	router.RegisterAdmin(e, handler.NewAdminHandler(admins, sellers, buyers, adminAuth), limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
