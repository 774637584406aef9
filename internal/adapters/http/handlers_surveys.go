package web

import (
	"errors"
	"net/http"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/audit"
	"genesis/internal/domain/survey"
)

func surveyDeps() orchestrators.SurveyDeps {
	return orchestrators.SurveyDeps{SurveyStore: stores.SurveyStore}
}

// surveyListing pairs a survey with its response count for the research view.
type surveyListing struct {
	Survey        survey.Survey
	ResponseCount int
}

// handleResearch renders the survey workspace and accepts new surveys
// (GET/POST /research).
func handleResearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		surveys, err := stores.SurveyStore.List(ctx, true)
		if err != nil {
			internalError(w, err)
			return
		}
		listings := make([]surveyListing, 0, len(surveys))
		for _, s := range surveys {
			responses, err := stores.SurveyStore.ListResponses(ctx, s.ID)
			if err != nil {
				responses = nil
			}
			listings = append(listings, surveyListing{Survey: s, ResponseCount: len(responses)})
		}
		renderTemplate(w, r, "research.html", map[string]any{
			"Surveys": listings,
		})

	case "POST":
		input := orchestrators.CreateSurveyInput{
			Title:       r.FormValue("Title"),
			Description: r.FormValue("Description"),
			CreatedBy:   sess.AccountID,
		}
		if _, err := orchestrators.ExecuteCreateSurvey(ctx, input, surveyDeps()); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		recordAudit(r, audit.CategorySurvey, audit.ActionCreate, audit.SeverityInfo,
			"created survey "+input.Title)
		http.Redirect(w, r, "/research", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSurveyClose stops a survey from accepting responses (POST /research/close).
func handleSurveyClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	surveyID := r.FormValue("SurveyID")
	if surveyID == "" {
		http.Error(w, "SurveyID is required", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteCloseSurvey(r.Context(), surveyID, surveyDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	recordAudit(r, audit.CategorySurvey, audit.ActionUpdate, audit.SeverityInfo,
		"closed survey "+surveyID)
	http.Redirect(w, r, "/research", http.StatusSeeOther)
}

// handleSurveyRespond records one response to an open survey
// (POST /surveys/respond). Any signed-in user may respond, so this route
// sits outside the research page policy.
func handleSurveyRespond(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SubmitResponseInput{
		SurveyID:   r.FormValue("SurveyID"),
		Respondent: sess.Username,
		Answers:    r.FormValue("Answers"),
	}
	if _, err := orchestrators.ExecuteSubmitResponse(r.Context(), input, surveyDeps()); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, orchestrators.ErrAlreadyResponded) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
