package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/accountability"
	accountabilityStore "github.com/MrJamesThe3rd/tally/internal/accountability/store"
	"github.com/MrJamesThe3rd/tally/internal/amqp"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/tally/internal/budget/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/friend"
	friendStore "github.com/MrJamesThe3rd/tally/internal/friend/store"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	budgetHandler "github.com/MrJamesThe3rd/tally/internal/http/budget"
	friendHandler "github.com/MrJamesThe3rd/tally/internal/http/friend"
	importHandler "github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	leaderboardHandler "github.com/MrJamesThe3rd/tally/internal/http/leaderboard"
	matchingHandler "github.com/MrJamesThe3rd/tally/internal/http/matching"
	meHandler "github.com/MrJamesThe3rd/tally/internal/http/me"
	overviewHandler "github.com/MrJamesThe3rd/tally/internal/http/overview"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/leaderboard"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/tally/internal/matching/store"
	"github.com/MrJamesThe3rd/tally/internal/overview"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
	"github.com/MrJamesThe3rd/tally/internal/user"
	userStore "github.com/MrJamesThe3rd/tally/internal/user/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	notifier, closeNotifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()

	var (
		userService        = user.NewService(userStore.New(db))
		budgetService      = budget.NewService(budgetStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		friendService      = friend.NewService(friendStore.New(db), userService)
		matchingService    = matching.NewService(matchingStore.New(db))
		importService      = importer.NewService()
		exportService      = export.NewService(transactionService)
		tracker            = accountability.NewTracker(accountabilityStore.New(db), notifier)
		overviewService    = overview.NewService(userService, budgetService, transactionService, tracker, nil)
		leaderboardService = leaderboard.NewService(
			friendService, userService, budgetService, transactionService, cfg.Leaderboard.Concurrency,
		)
	)

	clock := time.Now

	router := tallyHttp.New(tallyHttp.Handlers{
		Overview:     overviewHandler.NewHandler(overviewService, clock),
		Budgets:      budgetHandler.NewHandler(budgetService, clock),
		Transactions: txHandler.NewHandler(transactionService, exportService, overviewService, clock),
		Import:       importHandler.NewHandler(importService, transactionService, matchingService, overviewService, clock),
		Rules:        matchingHandler.NewHandler(matchingService),
		Leaderboard:  leaderboardHandler.NewHandler(leaderboardService, clock),
		Friends:      friendHandler.NewHandler(friendService, userService),
		Me:           meHandler.NewHandler(userService),
	}, userService, tallyHttp.Options{
		AllowedOrigins: cfg.Server.CORSOrigin,
		Timeout:        cfg.Server.Timeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", cfg.App.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newNotifier always logs accountability events and also publishes them to
// RabbitMQ when AMQP_URL is set.
func newNotifier(cfg *config.Config) (accountability.Notifier, func(), error) {
	logNotifier := accountability.LogNotifier{Logger: slog.Default()}

	if cfg.AMQP.URL == "" {
		return logNotifier, func() {}, nil
	}

	publisher, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to amqp: %w", err)
	}

	closeFn := func() {
		if err := publisher.Close(); err != nil {
			slog.Error("failed to close amqp publisher", "error", err)
		}
	}

	return accountability.Multi(logNotifier, publisher), closeFn, nil
}
