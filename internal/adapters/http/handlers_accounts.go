package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/orchestrators"
	"genesis/internal/application/projections"
	"genesis/internal/domain/account"
	"genesis/internal/domain/audit"
)

// currentAccount loads the full account record for the active session.
func currentAccount(r *http.Request) (account.Account, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return account.Account{}, false
	}
	acct, err := stores.AccountStore.GetByID(r.Context(), sess.AccountID)
	if err != nil {
		return account.Account{}, false
	}
	return acct, true
}

// handleAccounts handles GET (list) and POST (create) for /admin/accounts
func handleAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
		result, err := projections.QueryGetAccountList(ctx, projections.GetAccountListQuery{
			Search: r.URL.Query().Get("q"),
			Role:   r.URL.Query().Get("role"),
			Status: r.URL.Query().Get("status"),
			Page:   pageNum,
		}, stores.AccountStore)
		if err != nil {
			internalError(w, err)
			return
		}

		renderTemplate(w, r, "accounts.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Accounts":  result.Accounts,
			"Total":     result.Total,
			"Page":      result.Page,
			"Pages":     result.Pages,
			"Search":    r.URL.Query().Get("q"),
			"Roles":     account.ValidRoles,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		actor, ok := currentAccount(r)
		if !ok {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}

		role := r.FormValue("Role")
		// Admins can only hand out roles at or below their own level
		if account.PrivilegeLevel(role) > account.PrivilegeLevel(actor.Role) {
			http.Error(w, "cannot create an account above your privilege level", http.StatusForbidden)
			return
		}

		_, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
			Username:               r.FormValue("Username"),
			Email:                  r.FormValue("Email"),
			Password:               r.FormValue("Password"),
			Role:                   role,
			Status:                 account.StatusActive,
			PasswordChangeRequired: true,
		}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		recordAudit(r, audit.CategoryAccount, audit.ActionCreate, audit.SeverityInfo,
			"account created for "+r.FormValue("Username"))
		http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// accountAction runs one account administration operation and redirects back
// to the listing.
func accountAction(w http.ResponseWriter, r *http.Request,
	run func(targetID string, actor account.Account) error,
	action audit.Action, description string) {

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	targetID := r.FormValue("AccountID")
	if targetID == "" {
		http.Error(w, "AccountID is required", http.StatusBadRequest)
		return
	}

	actor, ok := currentAccount(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := run(targetID, actor); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recordAudit(r, audit.CategoryAccount, action, audit.SeverityInfo, description)
	http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
}

// handleAccountSuspend handles POST /admin/accounts/suspend
func handleAccountSuspend(w http.ResponseWriter, r *http.Request) {
	deps := orchestrators.ManageAccountDeps{AccountStore: stores.AccountStore}
	accountAction(w, r, func(targetID string, actor account.Account) error {
		if err := orchestrators.ExecuteSuspendAccount(r.Context(), targetID, actor, deps); err != nil {
			return err
		}
		// Suspension revokes any live sessions immediately
		if target, err := stores.AccountStore.GetByID(r.Context(), targetID); err == nil {
			sessions.DeleteByUsername(target.Username)
		}
		return nil
	}, audit.ActionSuspend, "account suspended")
}

// handleAccountRestore handles POST /admin/accounts/restore
func handleAccountRestore(w http.ResponseWriter, r *http.Request) {
	deps := orchestrators.ManageAccountDeps{AccountStore: stores.AccountStore}
	accountAction(w, r, func(targetID string, actor account.Account) error {
		return orchestrators.ExecuteRestoreAccount(r.Context(), targetID, actor, deps)
	}, audit.ActionRestore, "account restored")
}

// handleAccountRole handles POST /admin/accounts/role
func handleAccountRole(w http.ResponseWriter, r *http.Request) {
	deps := orchestrators.ManageAccountDeps{AccountStore: stores.AccountStore}
	accountAction(w, r, func(targetID string, actor account.Account) error {
		return orchestrators.ExecuteChangeRole(r.Context(), targetID, r.FormValue("Role"), actor, deps)
	}, audit.ActionUpdate, "account role changed to "+r.FormValue("Role"))
}

// handleAccountDelete handles POST /admin/accounts/delete
func handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	deps := orchestrators.ManageAccountDeps{AccountStore: stores.AccountStore}
	accountAction(w, r, func(targetID string, actor account.Account) error {
		target, err := stores.AccountStore.GetByID(r.Context(), targetID)
		if err != nil {
			return err
		}
		if err := orchestrators.ExecuteDeleteAccount(r.Context(), targetID, actor, deps); err != nil {
			return err
		}
		sessions.DeleteByUsername(target.Username)
		return nil
	}, audit.ActionDelete, "account deleted")
}
