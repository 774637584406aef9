package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "genesis/internal/adapters/http"
	"genesis/internal/adapters/http/middleware"
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
	"genesis/internal/domain/account"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	tmpDir  string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	policyStore := accessPolicyStore.NewSQLiteStore(db)
	stores := &web.Stores{
		AccountStore:      acctStore,
		AccessPolicyStore: policyStore,
		PreferenceStore:   preferenceStore.NewSQLiteStore(db),
		TaskStore:         taskStore.NewSQLiteStore(db),
		MessageStore:      messageStore.NewSQLiteStore(db),
		SheetStore:        sheetStore.NewSQLiteStore(db),
		AnnouncementStore: announcementStore.NewSQLiteStore(db),
		SurveyStore:       surveyStore.NewSQLiteStore(db),
		VolunteerStore:    volunteerStore.NewSQLiteStore(db),
		AuditStore:        auditStorePkg.NewSQLiteStore(db),
		OutboxStore:       outboxStorePkg.NewSQLiteStore(db),
		SearchStore:       searchStorePkg.NewSQLiteStore(db),
	}

	ctx := context.Background()

	// Seed one account per role; none forced to change password so logins
	// land straight on the role home.
	seeds := []struct {
		username string
		role     string
	}{
		{"genesis", account.RoleGenesisAdmin},
		{"padmin", account.RolePlatformAdmin},
		{"uadmin", account.RoleUserAdmin},
		{"user", account.RoleUser},
	}
	for _, s := range seeds {
		_, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
			Username: s.username,
			Email:    s.username + "@test.com",
			Password: "TestPass123!",
			Role:     s.role,
			Status:   account.StatusActive,
		}, orchestrators.CreateAccountDeps{AccountStore: acctStore})
		if err != nil {
			t.Fatalf("failed to create %s account: %v", s.role, err)
		}
	}

	if err := orchestrators.ExecuteSeedPolicies(ctx, policyStore); err != nil {
		t.Fatalf("failed to seed policies: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	mux := web.NewMux("static", stores, perf.NewCollector(perf.DefaultRingSize))
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		tmpDir:  tmpDir,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login navigates to the login page and signs in as the given seeded user,
// waiting for the redirect to that role's landing page.
func (a *testApp) login(t *testing.T, page playwright.Page, username, landing string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Username]").Fill(username); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill("TestPass123!"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+landing, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to %s: %v", landing, err)
	}
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
