package web

import (
	"net/http"

	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/audit"
	"genesis/internal/domain/outbox"
)

func outboxProcessor() *orchestrators.OutboxProcessor {
	return orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: emailSender},
	})
}

// handleOutbox shows pending and failed notification deliveries (GET /admin/outbox).
func handleOutbox(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	pending, err := stores.OutboxStore.ListPending(ctx, 100)
	if err != nil {
		internalError(w, err)
		return
	}
	failed, err := stores.OutboxStore.ListFailed(ctx, 100)
	if err != nil {
		internalError(w, err)
		return
	}

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"pending": pending,
			"failed":  failed,
		})
		return
	}
	renderTemplate(w, r, "outbox.html", map[string]any{
		"Pending": pending,
		"Failed":  failed,
	})
}

// handleOutboxRetry forces an immediate delivery attempt for one entry (POST /admin/outbox/retry).
func handleOutboxRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	entryID := r.FormValue("EntryID")
	if entryID == "" {
		http.Error(w, "EntryID is required", http.StatusBadRequest)
		return
	}

	if err := outboxProcessor().ProcessSingle(ctx, entryID); err != nil {
		internalError(w, err)
		return
	}
	recordAudit(r, audit.CategorySystem, audit.ActionUpdate, audit.SeverityInfo,
		"retried outbox entry "+entryID)
	http.Redirect(w, r, "/admin/outbox", http.StatusSeeOther)
}

// handleOutboxAbandon permanently gives up on one entry (POST /admin/outbox/abandon).
func handleOutboxAbandon(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	entryID := r.FormValue("EntryID")
	if entryID == "" {
		http.Error(w, "EntryID is required", http.StatusBadRequest)
		return
	}

	if err := outboxProcessor().AbandonEntry(ctx, entryID); err != nil {
		internalError(w, err)
		return
	}
	recordAudit(r, audit.CategorySystem, audit.ActionUpdate, audit.SeverityWarning,
		"abandoned outbox entry "+entryID)
	http.Redirect(w, r, "/admin/outbox", http.StatusSeeOther)
}
