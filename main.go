package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"

	"mamamire_backend/internals/configs"
	database "mamamire_backend/internals/databases"
	notifScheduler "mamamire_backend/internals/features/notifications/scheduler"
	notifService "mamamire_backend/internals/features/notifications/service"
	authScheduler "mamamire_backend/internals/features/users/auth/scheduler"
	helper "mamamire_backend/internals/helpers"
	middlewares "mamamire_backend/internals/middlewares"
	"mamamire_backend/internals/middlewares/logger"
	routes "mamamire_backend/internals/route"
	"mamamire_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.ErrorHandler,
		BodyLimit:               8 * 1024 * 1024, // ikon fasilitas
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR proxy jika perlu
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timeout guard (selaras dengan statement_timeout di DB)
	app.Use(middlewares.RequestID(5 * time.Second))
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(middlewares.GlobalRateLimiter())

	// 🔌 DB connect + pool + migrasi + warm-up
	database.ConnectDB()
	database.TunePool()
	if configs.GetEnvBool("DB_AUTO_MIGRATE", true) {
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}
	seeds.RunAllSeeds(database.DB)
	database.WarmUpQueries()

	// ⏱ scheduler setelah DB siap (jadwal dalam zona waktu operasional)
	sched := cron.New(cron.WithLocation(configs.AppLocation))
	notifier := notifService.NewNotifier(database.DB, configs.AppLocation)
	if _, err := notifScheduler.RegisterMonthlyReminder(sched, notifier); err != nil {
		log.Fatalf("❌ Gagal daftar cron reminder: %v", err)
	}
	if _, err := authScheduler.RegisterBlacklistCleanup(sched, database.DB); err != nil {
		log.Fatalf("❌ Gagal daftar cron cleanup: %v", err)
	}
	sched.Start()

	// ✅ Routes
	routes.SetupRoutes(app, database.DB)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: cron → HTTP → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	cronCtx := sched.Stop()
	select {
	case <-cronCtx.Done():
	case <-time.After(10 * time.Second):
		log.Println("[WARN] cron job belum selesai, lanjut shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
