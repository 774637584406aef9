package web

import (
	"net/http"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/account"
	"genesis/internal/domain/audit"
)

func announcementDeps() orchestrators.AnnouncementDeps {
	return orchestrators.AnnouncementDeps{AnnouncementStore: stores.AnnouncementStore}
}

// handleAnnouncements shows published announcements visible to the caller's
// role (GET /announcements). Bodies are rendered from Markdown in the template.
func handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	announcements, err := stores.AnnouncementStore.ListVisibleTo(r.Context(), sess.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "announcements.html", map[string]any{
		"Announcements": announcements,
	})
}

// handleAnnouncementCreate saves a draft or publishes immediately
// (POST /platform/announcements).
func handleAnnouncementCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	audience := r.FormValue("Audience")
	if audience == "" {
		audience = account.RoleUser
	}
	input := orchestrators.CreateAnnouncementInput{
		Title:     r.FormValue("Title"),
		Body:      r.FormValue("Body"),
		Audience:  audience,
		CreatedBy: sess.AccountID,
		Publish:   r.FormValue("Publish") == "true",
	}
	if _, err := orchestrators.ExecuteCreateAnnouncement(r.Context(), input, announcementDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	recordAudit(r, audit.CategorySystem, audit.ActionCreate, audit.SeverityInfo,
		"created announcement "+input.Title)
	http.Redirect(w, r, "/platform", http.StatusSeeOther)
}

// handleAnnouncementPublish publishes a draft (POST /platform/announcements/publish).
func handleAnnouncementPublish(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.FormValue("AnnouncementID")
	if id == "" {
		http.Error(w, "AnnouncementID is required", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecutePublishAnnouncement(r.Context(), id, sess.AccountID, announcementDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	recordAudit(r, audit.CategorySystem, audit.ActionUpdate, audit.SeverityInfo,
		"published announcement "+id)
	http.Redirect(w, r, "/platform", http.StatusSeeOther)
}

// handleAnnouncementPin toggles an announcement's pin (POST /platform/announcements/pin).
func handleAnnouncementPin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.FormValue("AnnouncementID")
	if id == "" {
		http.Error(w, "AnnouncementID is required", http.StatusBadRequest)
		return
	}
	pin := r.FormValue("Pin") == "true"
	if err := orchestrators.ExecutePinAnnouncement(r.Context(), id, pin, announcementDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/platform", http.StatusSeeOther)
}
