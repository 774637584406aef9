package projections

import (
	"context"

	auditStore "genesis/internal/adapters/storage/audit"
	"genesis/internal/domain/account"
	"genesis/internal/domain/announcement"
	"genesis/internal/domain/audit"
	"genesis/internal/domain/task"
)

// DashboardAnnouncementStore lists announcements visible to a role.
type DashboardAnnouncementStore interface {
	ListVisibleTo(ctx context.Context, role string) ([]announcement.Announcement, error)
}

// DashboardMessageStore counts unread messages.
type DashboardMessageStore interface {
	CountUnread(ctx context.Context, recipient string) (int, error)
}

// DashboardTaskStore lists a user's open tasks.
type DashboardTaskStore interface {
	ListByAssignee(ctx context.Context, assignee string, includeCompleted bool) ([]task.Task, error)
	CountOpenByAssignee(ctx context.Context, assignee string) (int, error)
}

// DashboardAccountStore provides platform-wide account statistics.
type DashboardAccountStore interface {
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

// DashboardVolunteerStore provides team statistics.
type DashboardVolunteerStore interface {
	CountByTeam(ctx context.Context) (map[string]int, error)
}

// DashboardAuditStore lists recent audit events.
type DashboardAuditStore interface {
	List(ctx context.Context, filter auditStore.Filter, limit int) ([]audit.Event, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Username string
	Role     string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
// VolunteerStore and AuditStore are optional; nil skips those sections.
type GetDashboardDeps struct {
	AnnouncementStore DashboardAnnouncementStore
	MessageStore      DashboardMessageStore
	TaskStore         DashboardTaskStore
	AccountStore      DashboardAccountStore
	VolunteerStore    DashboardVolunteerStore
	AuditStore        DashboardAuditStore
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Role string

	// Shared
	Announcements []announcement.Announcement
	UnreadCount   int
	OpenTaskCount int

	// User
	Tasks []task.Task

	// Platform Admin and above
	TotalAccounts  int
	AccountsByRole map[string]int
	TeamCounts     map[string]int

	// Genesis Admin
	RecentAudit []audit.Event
}

// QueryGetDashboard aggregates dashboard data based on the user's role.
// Section failures degrade to empty data rather than failing the whole page.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	result := DashboardResult{Role: query.Role}

	// All roles: announcements visible to this role
	announcements, err := deps.AnnouncementStore.ListVisibleTo(ctx, query.Role)
	if err == nil {
		result.Announcements = announcements
	}

	// All roles: unread messages and open tasks
	if unread, err := deps.MessageStore.CountUnread(ctx, query.Username); err == nil {
		result.UnreadCount = unread
	}
	if open, err := deps.TaskStore.CountOpenByAssignee(ctx, query.Username); err == nil {
		result.OpenTaskCount = open
	}

	level := account.PrivilegeLevel(query.Role)

	if level >= account.PrivilegeLevel(account.RolePlatformAdmin) {
		if total, err := deps.AccountStore.Count(ctx); err == nil {
			result.TotalAccounts = total
		}
		if byRole, err := deps.AccountStore.CountByRole(ctx); err == nil {
			result.AccountsByRole = byRole
		}
		if deps.VolunteerStore != nil {
			if teams, err := deps.VolunteerStore.CountByTeam(ctx); err == nil {
				result.TeamCounts = teams
			}
		}
	}

	if query.Role == account.RoleGenesisAdmin && deps.AuditStore != nil {
		if events, err := deps.AuditStore.List(ctx, auditStore.Filter{}, 10); err == nil {
			result.RecentAudit = events
		}
	}

	if level <= account.PrivilegeLevel(account.RoleUser) {
		if tasks, err := deps.TaskStore.ListByAssignee(ctx, query.Username, false); err == nil {
			result.Tasks = tasks
		}
	}

	return result, nil
}
