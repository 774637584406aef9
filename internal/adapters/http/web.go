package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"genesis/internal/adapters/email"
	"genesis/internal/adapters/http/middleware"
	"genesis/internal/adapters/http/perf"
	accessPolicyStore "genesis/internal/adapters/storage/accesspolicy"
	accountStore "genesis/internal/adapters/storage/account"
	announcementStore "genesis/internal/adapters/storage/announcement"
	auditStore "genesis/internal/adapters/storage/audit"
	messageStore "genesis/internal/adapters/storage/message"
	outboxStore "genesis/internal/adapters/storage/outbox"
	preferenceStore "genesis/internal/adapters/storage/preference"
	searchStore "genesis/internal/adapters/storage/search"
	sheetStore "genesis/internal/adapters/storage/sheet"
	surveyStore "genesis/internal/adapters/storage/survey"
	taskStore "genesis/internal/adapters/storage/task"
	volunteerStore "genesis/internal/adapters/storage/volunteer"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	AccessPolicyStore accessPolicyStore.Store
	PreferenceStore   preferenceStore.Store
	TaskStore         taskStore.Store
	MessageStore      messageStore.Store
	SheetStore        sheetStore.Store
	AnnouncementStore announcementStore.Store
	SurveyStore       surveyStore.Store
	VolunteerStore    volunteerStore.Store
	AuditStore        auditStore.Store
	OutboxStore       outboxStore.Store
	SearchStore       searchStore.Store
}

// loadCSRFKey reads the CSRF secret from GENESIS_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("GENESIS_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("GENESIS_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("GENESIS_ENV") == "production" {
		log.Fatal("GENESIS_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set GENESIS_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global message hub for websocket delivery (set by NewMux)
var messageHub *Hub

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	messageHub = NewHub()
	middleware.SecureCookies = os.Getenv("GENESIS_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
