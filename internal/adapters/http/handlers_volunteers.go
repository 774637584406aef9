package web

import (
	"errors"
	"net/http"

	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/audit"
)

func volunteerDeps() orchestrators.VolunteerDeps {
	return orchestrators.VolunteerDeps{VolunteerStore: stores.VolunteerStore}
}

// handleVolunteers renders the roster and registers new volunteers
// (GET/POST /volunteers).
func handleVolunteers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		includeArchived := r.URL.Query().Get("archived") == "true"
		volunteers, err := stores.VolunteerStore.List(ctx, includeArchived)
		if team := r.URL.Query().Get("team"); team != "" {
			volunteers, err = stores.VolunteerStore.ListByTeam(ctx, team)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		teamCounts, err := stores.VolunteerStore.CountByTeam(ctx)
		if err != nil {
			teamCounts = nil
		}
		renderTemplate(w, r, "volunteers.html", map[string]any{
			"Volunteers":      volunteers,
			"TeamCounts":      teamCounts,
			"IncludeArchived": includeArchived,
		})

	case "POST":
		input := orchestrators.AddVolunteerInput{
			Name:      r.FormValue("Name"),
			Email:     r.FormValue("Email"),
			Team:      r.FormValue("Team"),
			AccountID: r.FormValue("AccountID"),
		}
		if _, err := orchestrators.ExecuteAddVolunteer(ctx, input, volunteerDeps()); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, orchestrators.ErrVolunteerEmailExists) {
				status = http.StatusConflict
			}
			http.Error(w, err.Error(), status)
			return
		}
		recordAudit(r, audit.CategorySystem, audit.ActionCreate, audit.SeverityInfo,
			"added volunteer "+input.Name)
		http.Redirect(w, r, "/volunteers", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func volunteerStatusChange(w http.ResponseWriter, r *http.Request, action audit.Action,
	description string, run func(id string) error) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.FormValue("VolunteerID")
	if id == "" {
		http.Error(w, "VolunteerID is required", http.StatusBadRequest)
		return
	}
	if err := run(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	recordAudit(r, audit.CategorySystem, action, audit.SeverityInfo, description+" "+id)
	http.Redirect(w, r, "/volunteers", http.StatusSeeOther)
}

func handleVolunteerArchive(w http.ResponseWriter, r *http.Request) {
	volunteerStatusChange(w, r, audit.ActionUpdate, "archived volunteer", func(id string) error {
		return orchestrators.ExecuteArchiveVolunteer(r.Context(), id, volunteerDeps())
	})
}

func handleVolunteerRestore(w http.ResponseWriter, r *http.Request) {
	volunteerStatusChange(w, r, audit.ActionRestore, "restored volunteer", func(id string) error {
		return orchestrators.ExecuteRestoreVolunteer(r.Context(), id, volunteerDeps())
	})
}
