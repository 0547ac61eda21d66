package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/vote-ledger/auth"
	"github.com/danielhkuo/vote-ledger/cliparse"
	"github.com/danielhkuo/vote-ledger/db"
	"github.com/danielhkuo/vote-ledger/feed"
	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/middleware"
	"github.com/danielhkuo/vote-ledger/router"
	"github.com/danielhkuo/vote-ledger/store"
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(os.Getenv("DOTENV_FILE")); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if cfg.PrintAdminKey {
		fmt.Println(auth.GenerateAdminKey(cfg.ElectionName, cfg.AdminKeySalt))
		return
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.SeedElection(ctx, dbConn, cfg.ElectionName); err != nil {
		cancel()
		slog.Error("election seeding failed", "error", err)
		os.Exit(1)
	}
	seeded, err := db.SeedCandidates(ctx, dbConn, cfg.Candidates)
	cancel()
	if err != nil {
		slog.Error("candidate seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType, "candidates_seeded", seeded)

	// Wire stores, notification feed and ledger
	st := store.New(dbConn, cfg.DatabaseType)

	notifications, err := feed.New(cfg.FeedMode, ledger.SnapshotSource(st, cfg.StoreTimeout), cfg.PollInterval)
	if err != nil {
		slog.Error("feed setup failed", "error", err)
		os.Exit(1)
	}

	if cfg.AMQPURL != "" {
		mirror, err := feed.NewAMQPMirror(notifications, cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Error("RabbitMQ setup failed", "error", err)
			os.Exit(1)
		}
		defer mirror.Close()
		notifications = mirror
		slog.Info("Mirroring snapshots to RabbitMQ", "exchange", cfg.AMQPExchange)
	}

	svc := ledger.NewService(st, notifications, cfg.StoreTimeout)
	admin := ledger.NewAdmin(svc)

	// Create router
	mux := router.NewRouter(svc, admin, notifications, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "election", cfg.ElectionName, "feed", cfg.FeedMode)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
