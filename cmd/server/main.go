package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "genesis/internal/adapters/email"
	web "genesis/internal/adapters/http"
	"genesis/internal/adapters/http/perf"
	"genesis/internal/adapters/storage"
	accessPolicyStore "genesis/internal/adapters/storage/accesspolicy"
	accountStore "genesis/internal/adapters/storage/account"
	announcementStore "genesis/internal/adapters/storage/announcement"
	auditStorePkg "genesis/internal/adapters/storage/audit"
	messageStore "genesis/internal/adapters/storage/message"
	outboxStorePkg "genesis/internal/adapters/storage/outbox"
	preferenceStore "genesis/internal/adapters/storage/preference"
	searchStorePkg "genesis/internal/adapters/storage/search"
	sheetStore "genesis/internal/adapters/storage/sheet"
	surveyStore "genesis/internal/adapters/storage/survey"
	taskStore "genesis/internal/adapters/storage/task"
	volunteerStore "genesis/internal/adapters/storage/volunteer"
	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Optional .env for local development; real deployments use the environment.
	_ = godotenv.Load()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("GENESIS_DB_PATH", "genesis.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	policyStore := accessPolicyStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:      acctStore,
		AccessPolicyStore: policyStore,
		PreferenceStore:   preferenceStore.NewSQLiteStore(timedDB),
		TaskStore:         taskStore.NewSQLiteStore(timedDB),
		MessageStore:      messageStore.NewSQLiteStore(timedDB),
		SheetStore:        sheetStore.NewSQLiteStore(timedDB),
		AnnouncementStore: announcementStore.NewSQLiteStore(timedDB),
		SurveyStore:       surveyStore.NewSQLiteStore(timedDB),
		VolunteerStore:    volunteerStore.NewSQLiteStore(timedDB),
		AuditStore:        auditStorePkg.NewSQLiteStore(timedDB),
		OutboxStore:       outboxStorePkg.NewSQLiteStore(timedDB),
		SearchStore:       searchStorePkg.NewSQLiteStore(timedDB),
	}

	// Seed bootstrap accounts and default page policies on first run
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAccounts(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed accounts: %v", err)
	}
	if err := orchestrators.ExecuteSeedPolicies(context.Background(), policyStore); err != nil {
		log.Fatalf("failed to seed page policies: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("GENESIS_RESEND_KEY")
	emailFrom := envOrDefault("GENESIS_EMAIL_FROM", "Genesis Platform <noreply@genesis.example>")
	emailReply := envOrDefault("GENESIS_REPLY_TO", "support@genesis.example")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("GENESIS_ENV") == "production" {
			log.Println("WARNING: GENESIS_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set GENESIS_RESEND_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, emailFrom, emailReply)

	// Background worker delivers queued notifications with retry backoff
	outboxStopCh := make(chan struct{})
	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: sender},
	})
	orchestrators.StartBackgroundWorker(processor, 1*time.Minute, outboxStopCh)
	defer close(outboxStopCh)

	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("GENESIS_ADDR", ":8080")
	server := &http.Server{Addr: addr, Handler: mux}
	log.Printf("Genesis %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("GENESIS_ENV", "development"), storage.LatestSchemaVersion())

	// Serve until SIGINT/SIGTERM, then drain in-flight requests before the
	// deferred cleanup (outbox worker stop, DB close) runs.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		log.Fatalf("Server failed: %v", err)
	case <-ctx.Done():
		log.Println("Shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
