package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eatprofile/internal/cache"
	"eatprofile/internal/config"
	"eatprofile/internal/mailer"
	"eatprofile/internal/questionnaire"
	"eatprofile/internal/repository"
	"eatprofile/internal/scoring"
	"eatprofile/internal/service"
	"eatprofile/internal/transport/rest"
	"eatprofile/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Questionnaire table
	q, err := questionnaire.Load(cfg.QuestionnairePath)
	if err != nil {
		log.Fatal("Failed to load questionnaire:", err)
	}
	engine, err := scoring.NewEngine(q)
	if err != nil {
		log.Fatal("Failed to build scoring engine:", err)
	}
	log.Printf("Questionnaire %q loaded (%d items)", q.ID, len(q.Items))

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(pingCtx, db); err != nil {
		log.Printf("Warning: could not create indexes: %v", err)
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Mail transport
	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTP.Enabled() {
		m = mailer.NewSMTPMailer(cfg.SMTP)
		log.Printf("SMTP:  %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	} else {
		log.Println("SMTP:  NOT SET (reports are logged, not sent)")
	}
	if cfg.AdminPassword == "" {
		log.Println("Warning: ADMIN_PASSWORD not set, admin login disabled")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	defer wsHub.Close()

	// Initialize repositories and caches
	deliveryRepo := repository.NewDeliveryRepo(db)
	results := cache.NewResultCache(rdb, cfg.ResultTTL)
	tally := cache.NewSubtypeTally(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret, cfg.TokenTTL)
	deliverySvc := service.NewDeliveryService(m, deliveryRepo, results, q.Title)
	assessmentSvc := service.NewAssessmentService(engine, results, tally, deliverySvc)
	statsSvc := service.NewStatsService(tally, deliveryRepo)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	assessmentSvc.SetBroadcaster(wsHub)
	deliverySvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		AssessmentService: assessmentSvc,
		DeliveryService:   deliverySvc,
		StatsService:      statsSvc,
		WSHub:             wsHub,
		CORS: rest.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  GET  /v1/questionnaire")
		log.Println("  POST /v1/assessments")
		log.Println("  GET  /v1/assessments/{id}")
		log.Println("  POST /v1/assessments/{id}/delivery")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/admin/stats")
		log.Println("  GET  /v1/admin/deliveries")
		log.Println("  WS   /v1/ws/admin")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
