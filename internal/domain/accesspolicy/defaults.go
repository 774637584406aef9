package accesspolicy

// DefaultPolicies returns the known pages and their default access settings.
//
// These cover every routed page of the platform. As new pages are added,
// append to this list; pages absent from the table are denied to everyone
// except Genesis Admin.
func DefaultPolicies() []PagePolicy {
	return []PagePolicy{
		{
			Page:        "/login",
			Description: "Login form",
			Public:      true,
		},
		{
			Page:        "/register",
			Description: "Self-service registration",
			Public:      true,
		},
		{
			Page:        "/",
			Description: "Landing page",
			Public:      true,
		},
		{
			Page:               "/admin/control-panel",
			Description:        "Genesis control panel (account totals, policy table, audit tail)",
			AllowPlatformAdmin: false,
		},
		{
			Page:               "/admin/accounts",
			Description:        "Account administration (create, suspend, role changes)",
			AllowPlatformAdmin: true,
			AllowUserAdmin:     true,
		},
		{
			Page:        "/admin/policies",
			Description: "Access policy administration",
		},
		{
			Page:               "/admin/audit",
			Description:        "Audit log browser",
			AllowPlatformAdmin: true,
		},
		{
			Page:               "/platform",
			Description:        "Platform dashboard (volunteer roster, announcements, open tasks)",
			AllowPlatformAdmin: true,
			AllowUserAdmin:     true,
		},
		{
			Page:               "/dashboard",
			Description:        "User dashboard",
			AllowPlatformAdmin: true,
			AllowUserAdmin:     true,
			AllowUser:          true,
		},
		{
			Page:               "/volunteers",
			Description:        "Volunteer roster and profiles",
			AllowPlatformAdmin: true,
			AllowUserAdmin:     true,
		},
		{
			Page:               "/research",
			Description:        "Research view (surveys and responses)",
			AllowPlatformAdmin: true,
		},
		{
			Page:               "/tasks",
			Description:        "Task list",
			AllowPlatformAdmin: true,
			AllowUserAdmin:     true,
			AllowUser:          true,
		},
		{
			Page:               "/sheets",
			Description:        "Spreadsheet grids",
			AllowPlatformAdmin: true,
			AllowUserAdmin:     true,
			AllowUser:          true,
		},
		{
			Page:               "/messages",
			Description:        "Direct messages",
			AllowPlatformAdmin: true,
			AllowUserAdmin:     true,
			AllowUser:          true,
		},
		{
			Page:               "/settings",
			Description:        "Preferences (theme, font, notifications)",
			AllowPlatformAdmin: true,
			AllowUserAdmin:     true,
			AllowUser:          true,
		},
	}
}

// PublicPages returns the page identifiers reachable without a session.
func PublicPages() []string {
	var pages []string
	for _, p := range DefaultPolicies() {
		if p.Public {
			pages = append(pages, p.Page)
		}
	}
	return pages
}
