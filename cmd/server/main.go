package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/solo-system/internal/config"
	"github.com/Dias221467/solo-system/internal/database"
	"github.com/Dias221467/solo-system/internal/handlers"
	"github.com/Dias221467/solo-system/internal/jobs"
	"github.com/Dias221467/solo-system/internal/realtime"
	"github.com/Dias221467/solo-system/internal/repository"
	cron "github.com/Dias221467/solo-system/internal/scheduler"
	"github.com/Dias221467/solo-system/internal/services"
	"github.com/Dias221467/solo-system/pkg/carrier"
	"github.com/Dias221467/solo-system/pkg/logger"
	"github.com/Dias221467/solo-system/pkg/webpush"
	"github.com/rs/cors"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "solo-server",
		Usage: "Realtime chat, activity feed and push relay for Solo System",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file to load before reading the environment",
				Value: ".env",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP and WebSocket server",
				Action: serve,
			},
			{
				Name:   "vapid-keys",
				Usage:  "Generate a VAPID key pair for web push",
				Action: generateVAPIDKeys,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	// Load configuration from .env file
	cfg := config.LoadConfig(cmd.String("env-file"))

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Realtime hub ---
	hub := realtime.NewHub()
	go hub.Run(ctx)

	// --- Push subscriptions, optionally persisted in MongoDB ---
	var store services.SubscriptionStore
	if cfg.MongoURI != "" {
		db, err := database.ConnectDB(ctx, cfg)
		if err != nil {
			return fmt.Errorf("database connection error: %w", err)
		}
		defer db.Client().Disconnect(context.Background())
		store = repository.NewSubscriptionRepository(db)
	}
	registry := services.NewSubscriptionRegistry(store)
	if err := registry.Load(ctx); err != nil {
		logger.Log.Warnf("Starting with empty push registry: %v", err)
	}

	var (
		sender         services.PushSender
		vapidPublicKey string
	)
	if cfg.PushEnabled() {
		pushClient, err := webpush.NewClient(webpush.Options{
			Keys:    webpush.VAPIDKeys{PublicKey: cfg.VAPIDPublicKey, PrivateKey: cfg.VAPIDPrivateKey},
			Subject: cfg.VAPIDSubject,
			TTL:     cfg.PushTTL,
		})
		if err != nil {
			return fmt.Errorf("web push setup: %w", err)
		}
		sender = pushClient
		vapidPublicKey = pushClient.PublicKey()
	} else {
		logger.Log.Warn("VAPID keys not configured, push notifications disabled")
	}

	var textCarrier services.Carrier
	if cfg.CarrierEnabled() {
		textCarrier = carrier.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	} else {
		logger.Log.Warn("Twilio credentials not configured, outbound messages are simulated")
	}

	// --- Services ---
	chatService := services.NewChatService(hub, cfg.ChatFeedCapacity, cfg.ChatHistorySize)
	activityService := services.NewActivityService(hub, cfg.ActivityFeedCapacity)
	notificationService := services.NewNotificationService(registry, sender, cfg.PushConcurrency)
	messagingService := services.NewMessagingService(textCarrier, services.MessagingConfig{
		From:               cfg.TwilioFrom,
		Transport:          cfg.TwilioTransport,
		DefaultCountryCode: cfg.DefaultCountryCode,
	})

	if cfg.ReminderCron != "" && sender != nil {
		c, err := cron.StartNotificationCronJobs(cfg.ReminderCron, jobs.NewQuestReminder(notificationService, cfg.ReminderTitle, cfg.ReminderBody))
		if err != nil {
			return err
		}
		defer c.Stop()
	}

	// --- Handlers ---
	router := handlers.NewRouter(handlers.Handlers{
		Chat:         handlers.NewChatHandler(chatService, hub, cfg.ChatRateLimit, cfg.ChatRateBurst),
		Activity:     handlers.NewActivityHandler(activityService, cfg.ActivityPageSize),
		Notification: handlers.NewNotificationHandler(registry, notificationService, vapidPublicKey),
		Messaging:    handlers.NewMessagingHandler(messagingService),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server running on port %s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func generateVAPIDKeys(ctx context.Context, cmd *cli.Command) error {
	keys, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return err
	}
	fmt.Printf("VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\n", keys.PublicKey, keys.PrivateKey)
	return nil
}
