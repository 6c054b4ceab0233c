package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"github.com/eventpay-xyz/go-eventpay/api"
	"github.com/eventpay-xyz/go-eventpay/auth"
	"github.com/eventpay-xyz/go-eventpay/journal"
	"github.com/eventpay-xyz/go-eventpay/ledger"
	"github.com/eventpay-xyz/go-eventpay/store"
	"github.com/eventpay-xyz/go-eventpay/token"
)

const engineAddress = "eventpay-engine"

func serve(args []string) error {
	// Load .env before flag defaults read the environment. A missing
	// file is not an error.
	_ = godotenv.Load()

	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	addr := fs.String("addr", envOr("EVENTPAY_ADDR", ":8080"), "Listen address")
	dbPath := fs.String("db", envOr("EVENTPAY_DB", ""), "SQLite database path (empty for in-memory)")
	journalPath := fs.String("journal", envOr("EVENTPAY_JOURNAL", ""), "JSONL journal path (empty to disable)")
	admin := fs.String("admin", envOr("EVENTPAY_ADMIN", ""), "Admin identity; initializes the engine on first boot")
	feeRate := fs.Uint32("fee-rate", 500, "Default fee rate in basis points used at initialization")
	tokenAddr := fs.String("token-address", envOr("EVENTPAY_TOKEN", "native"), "Token ledger address recorded at initialization")
	mints := fs.StringArray("mint", nil, "Seed a balance on the in-memory token ledger (wallet=amount, repeatable)")
	logLevel := fs.String("log-level", envOr("EVENTPAY_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: eventpay serve [options]

Run the HTTP API. Caller identities arrive in the %s header, set by a
gateway that has already verified signatures. Flags fall back to
EVENTPAY_* environment variables, which a .env file may provide.

Options:
`, api.SignerHeader)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(*logLevel),
		TimeFormat: time.TimeOnly,
	}))

	var st store.Store
	if *dbPath != "" {
		sqliteStore, err := store.NewSQLiteStore(*dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		st = sqliteStore
		logger.Info("using sqlite store", "path", *dbPath)
	} else {
		st = store.NewMemoryStore()
		logger.Info("using in-memory store")
	}
	defer st.Close()

	sink := journal.Discard()
	if *journalPath != "" {
		jsonlSink, err := journal.OpenJSONLFile(*journalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		sink = jsonlSink
		logger.Info("journaling to", "path", *journalPath)
	}
	defer sink.Close()

	bank := token.NewMemLedger()
	for _, m := range *mints {
		wallet, amount, err := parseMint(m)
		if err != nil {
			return err
		}
		bank.Mint(wallet, amount)
		logger.Info("seeded balance", "wallet", wallet, "amount", amount.String())
	}

	engine := ledger.New(engineAddress, st, bank, auth.FromContext(),
		ledger.WithJournal(sink),
		ledger.WithLogger(logger),
	)

	if *admin != "" {
		ctx := auth.WithSigners(context.Background(), *admin)
		err := engine.Initialize(ctx, *admin, *feeRate, *tokenAddr)
		switch {
		case err == nil:
			logger.Info("engine initialized", "admin", *admin, "fee_rate", *feeRate)
		case errors.Is(err, ledger.ErrAlreadyInitialized):
			logger.Info("engine already initialized")
		default:
			return fmt.Errorf("initialize engine: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.NewServer(engine).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseMint(s string) (string, sdkmath.Int, error) {
	wallet, raw, ok := strings.Cut(s, "=")
	if !ok || wallet == "" {
		return "", sdkmath.Int{}, fmt.Errorf("invalid --mint %q, want wallet=amount", s)
	}
	amount, ok := sdkmath.NewIntFromString(raw)
	if !ok || !amount.IsPositive() {
		return "", sdkmath.Int{}, fmt.Errorf("invalid --mint amount %q", raw)
	}
	return wallet, amount, nil
}
