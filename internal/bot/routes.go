package bot

import (
	"strings"

	"perf-manage/internal/model"
	"perf-manage/internal/session"
)

// Screen identifies what the bot renders for a route.
type Screen int

const (
	ScreenNotFound Screen = iota
	ScreenHome
	ScreenHelp
	ScreenLogin
	ScreenRegister
	ScreenLogout
	ScreenCancel
	ScreenDigest
	ScreenEmployeeDashboard
	ScreenTaskLog
	ScreenMyKPIs
	ScreenHeadDashboard
	ScreenTeamKPIs
	ScreenAssignTask
	ScreenApproveTasks
	ScreenAdminDashboard
	ScreenManageKPIs
	ScreenExport
)

// Route binds a bot command to a screen. An empty Role means the route is public.
type Route struct {
	Command string
	Label   string
	Path    string
	Screen  Screen
	Role    model.Role
}

var notFoundRoute = Route{Path: "*", Screen: ScreenNotFound}

var routes = []Route{
	{Command: "start", Path: "/", Screen: ScreenHome},
	{Command: "help", Label: "ℹ️ Help", Path: "/help", Screen: ScreenHelp},
	{Command: "login", Label: "🔑 Login", Path: "/login", Screen: ScreenLogin},
	{Command: "register", Path: "/register", Screen: ScreenRegister},
	{Command: "logout", Label: "🚪 Logout", Path: "/logout", Screen: ScreenLogout},
	{Command: "cancel", Path: "/cancel", Screen: ScreenCancel},
	{Command: "digest", Path: "/digest", Screen: ScreenDigest},

	{Command: "dashboard", Label: "📊 Dashboard", Path: "/employee/dashboard", Screen: ScreenEmployeeDashboard, Role: model.RoleEmployee},
	{Command: "tasks", Label: "📋 Task Log", Path: "/employee/task-log", Screen: ScreenTaskLog, Role: model.RoleEmployee},
	{Command: "mykpis", Label: "🎯 My KPIs", Path: "/employee/my-kpis", Screen: ScreenMyKPIs, Role: model.RoleEmployee},

	{Command: "dashboard", Label: "📊 Dashboard", Path: "/head/dashboard", Screen: ScreenHeadDashboard, Role: model.RoleHead},
	{Command: "team", Label: "👥 Team KPIs", Path: "/head/team-kpis", Screen: ScreenTeamKPIs, Role: model.RoleHead},
	{Command: "assign", Label: "➕ Assign Task", Path: "/head/assign-task", Screen: ScreenAssignTask, Role: model.RoleHead},
	{Command: "approve", Label: "✅ Approve Tasks", Path: "/head/approve-tasks", Screen: ScreenApproveTasks, Role: model.RoleHead},

	{Command: "dashboard", Label: "📊 Dashboard", Path: "/admin/dashboard", Screen: ScreenAdminDashboard, Role: model.RoleAdmin},
	{Command: "kpis", Label: "⚙️ Manage KPIs", Path: "/admin/manage-kpis", Screen: ScreenManageKPIs, Role: model.RoleAdmin},
	{Command: "export", Label: "📤 Export", Path: "/admin/export", Screen: ScreenExport, Role: model.RoleAdmin},
}

// resolve finds the route for a command as seen by a viewer in role. A command
// shared by several roles resolves to the viewer's variant, or to the first one
// so that the role check can reject it.
func resolve(command string, role model.Role) Route {
	command = strings.ToLower(strings.TrimSpace(command))
	var fallback *Route
	for i := range routes {
		r := routes[i]
		if r.Command != command {
			continue
		}
		if r.Role == "" || r.Role == role {
			return r
		}
		if fallback == nil {
			fallback = &routes[i]
		}
	}
	if fallback != nil {
		return *fallback
	}
	return notFoundRoute
}

// resolveLabel maps a menu button caption back to its route.
func resolveLabel(text string, role model.Role) (Route, bool) {
	text = strings.TrimSpace(text)
	for _, r := range routes {
		if r.Label == "" || !strings.EqualFold(r.Label, text) {
			continue
		}
		if r.Role == "" || r.Role == role {
			return r, true
		}
	}
	return Route{}, false
}

// resolvePath finds a route by its path, for links typed as text.
func resolvePath(path string) Route {
	path = strings.TrimRight(strings.TrimSpace(path), "/")
	if path == "" {
		path = "/"
	}
	for _, r := range routes {
		if r.Path == path {
			return r
		}
	}
	return notFoundRoute
}

// authorize checks a route against the viewer's session, which is nil when
// the viewer is not logged in.
func authorize(r Route, sess *session.Session) error {
	if r.Role == "" {
		return nil
	}
	if sess == nil {
		return session.ErrNoSession
	}
	if sess.Role != r.Role {
		return session.ErrForbidden
	}
	return nil
}

// menuRoutes lists the routes shown on a role's reply keyboard.
func menuRoutes(role model.Role) []Route {
	var out []Route
	for _, r := range routes {
		if r.Role != "" && r.Role == role && r.Label != "" {
			out = append(out, r)
		}
	}
	return out
}
