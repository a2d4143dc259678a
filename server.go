package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"

	"emberveil_backend/config"
	"emberveil_backend/handler"
	"emberveil_backend/repository"
	"emberveil_backend/service"
)

func StartServer() {
	cfg, errRead := config.Read("./cfg.json")
	if errRead != nil {
		log.Fatalf("error reading cfg.json: %v", errRead)
	}

	logFileName := "log_" + time.Now().Format("2006-01-02_15-04-05") + ".log"
	loggerService, err := service.NewLoggerService(logFileName, cfg.Version)
	if err != nil {
		log.Fatalf("error creating logger: %v", err)
	}
	defer loggerService.Shutdown()

	storage, errRepo := repository.New(cfg.Driver, cfg.Dsn)
	if errRepo != nil {
		log.Fatalf("error creating repository: %v", errRepo)
		return
	}
	defer storage.Close()

	if err = storage.CreateSchema(); err != nil {
		log.Fatalf("error creating schema: %v", err)
	}

	// Stale entries survive a crash; the list only means anything for the
	// current process.
	if err = storage.ClearOnlineList(); err != nil {
		loggerService.Warning(fmt.Sprintf("error clearing online list: %v", err))
	}

	userService := service.NewUserService(storage)
	charService := service.NewCharacterService(storage)
	emailService := service.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	authService := service.NewAuthService(session.New(session.Config{
		CookieSecure:   true,
		CookieHTTPOnly: true,
		CookieSameSite: "Strict",
	}))
	authMiddleware := service.NewMiddleware(authService)

	flushWorker := service.NewFlushWorker(storage, loggerService, 256)
	defer flushWorker.Shutdown()

	apiHandler := handler.New(userService, charService, authService, loggerService, emailService)

	fiberConfig := fiber.Config{
		BodyLimit:               4 * 1024 * 10,
		Concurrency:             1024,
		ReadTimeout:             5 * time.Second,
		WriteTimeout:            5 * time.Second,
		ReadBufferSize:          4 * 1024 * 10,
		WriteBufferSize:         4 * 1024 * 10,
		Prefork:                 false,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"127.0.0.1", "::1"},
	}
	app := fiber.New(fiberConfig)
	app.Use(logger.New(), compress.New())

	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowOrigins: "https://play.emberveil.net",
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        500,
		Expiration: 1 * time.Hour,
		KeyGenerator: func(ctx *fiber.Ctx) string {
			realIP := ctx.Get("X-Real-IP")
			if realIP == "" {
				realIP = ctx.IP()
			}
			return realIP
		},
		LimitReached: func(ctx *fiber.Ctx) error {
			ip := ctx.Get("X-Real-IP")
			if ip == "" {
				ip = ctx.IP()
			}
			loggerService.Info(fmt.Sprintf("Rate limit reached for IP: %s", ip))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   true,
				"message": "You've reached the limit of HTTP requests. Try again later.",
			})
		},
	}))

	SetupRoutes(app, authMiddleware, apiHandler)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	loggerService.Info(fmt.Sprintf("Starting server on %s\n", cfg.Port))
	go func() {
		if err = app.Listen(cfg.Port); err != nil {
			loggerService.Exception(fmt.Sprintf("error starting server: %v", err))
			os.Exit(1)
		}
	}()

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(time.Duration(cfg.BanSweepInterval) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err = userService.SweepBans(); err != nil {
					loggerService.Exception(fmt.Sprintf("Error sweeping expired bans: %v", err))
				}
			case <-done:
				loggerService.Info("Stopping ban sweep ticker.")
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Duration(cfg.FlushInterval) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				online, errOnline := storage.GetOnlineCharacters()
				if errOnline != nil {
					loggerService.Exception(fmt.Sprintf("Error listing online characters: %v", errOnline))
					continue
				}

				for _, charID := range online {
					c, errChar := storage.GetCharacterByID(charID)
					if errChar != nil {
						loggerService.Exception(fmt.Sprintf("Error loading character %d for flush: %v", charID, errChar))
						continue
					}
					c.Update()
					flushWorker.Enqueue(c.Snapshot())
				}
			case <-done:
				loggerService.Info("Stopping scheduled flush ticker.")
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				retentionPeriod := 7 * 24 * time.Hour
				if err = loggerService.ClearOldLogs(retentionPeriod); err != nil {
					loggerService.Exception(fmt.Sprintf("Error cleaning old logs: %v\n", err))
				}
			case <-done:
				loggerService.Info("Stopping log cleanup ticker.")
				return
			}
		}
	}()

	<-stop

	loggerService.Info("Shutting down server...")
	if err = app.Shutdown(); err != nil {
		loggerService.Exception(fmt.Sprintf("error during shutdown: %v", err))
	}

	close(done)
}

func SetupRoutes(app *fiber.App, authMiddleware *service.Middleware, apiHandler *handler.UserHandler) {
	api := app.Group("api")

	v1 := api.Group("v1")

	v1.Use("/register", authMiddleware.EnsureLoggedOut)
	v1.Post("/register", apiHandler.Register)

	v1.Use("/confirm", authMiddleware.EnsureLoggedOut)
	v1.Get("/confirm", apiHandler.Confirm)

	v1.Use("/reset-request", authMiddleware.EnsureLoggedOut)
	v1.Get("/reset-request", apiHandler.ResetRequest)

	v1.Use("/confirm-reset", authMiddleware.EnsureLoggedOut)
	v1.Get("/confirm-reset", apiHandler.ConfirmReset)

	v1.Use("/update-password", authMiddleware.EnsureLoggedOut)
	v1.Post("/update-password", apiHandler.UpdatePassword)

	v1.Use("/login", authMiddleware.EnsureLoggedOut)
	v1.Post("/login", apiHandler.Login)

	v1.Use("/logout", authMiddleware.EnsureAuthenticated)
	v1.Post("/logout", apiHandler.Logout)

	v1.Use("/check-auth", authMiddleware.EnsureAuthenticated)
	v1.Get("/check-auth", apiHandler.CheckAuth)

	v1.Use("/get-data", authMiddleware.EnsureAuthenticated)
	v1.Get("/get-data", apiHandler.GetStats)

	v1.Get("/server-stats", apiHandler.ServerStats)

	v1.Use("/create-character", authMiddleware.EnsureAuthenticated)
	v1.Post("/create-character", apiHandler.CreateCharacter)

	v1.Use("/delete-character", authMiddleware.EnsureAuthenticated)
	v1.Post("/delete-character", apiHandler.DeleteCharacter)

	v1.Use("/restricted", func(ctx *fiber.Ctx) error {
		return authMiddleware.EnsurePrivilege(ctx)
	})

	v1.Get("/restricted/check", apiHandler.CheckPrivilege)
	v1.Post("/restricted/ban", apiHandler.Ban)
	v1.Post("/restricted/unban", apiHandler.Unban)
}
