package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"perf-manage/internal/model"
	"perf-manage/internal/session"
)

func TestResolveDashboardPerRole(t *testing.T) {
	assert.Equal(t, ScreenEmployeeDashboard, resolve("dashboard", model.RoleEmployee).Screen)
	assert.Equal(t, ScreenHeadDashboard, resolve("dashboard", model.RoleHead).Screen)
	assert.Equal(t, ScreenAdminDashboard, resolve("Dashboard", model.RoleAdmin).Screen)
	assert.Equal(t, "/admin/dashboard", resolve("dashboard", model.RoleAdmin).Path)
}

func TestResolveUnknownIsNotFound(t *testing.T) {
	assert.Equal(t, ScreenNotFound, resolve("nope", model.RoleAdmin).Screen)
	assert.Equal(t, ScreenNotFound, resolvePath("/employee/nowhere").Screen)
	assert.Equal(t, ScreenTeamKPIs, resolvePath("/head/team-kpis/").Screen)
	assert.Equal(t, ScreenHome, resolvePath("/").Screen)
}

func TestAuthorize(t *testing.T) {
	head := &session.Session{Role: model.RoleHead}

	assert.NoError(t, authorize(resolve("login", ""), nil))
	assert.ErrorIs(t, authorize(resolve("approve", ""), nil), session.ErrNoSession)
	assert.NoError(t, authorize(resolve("approve", model.RoleHead), head))
	assert.ErrorIs(t, authorize(resolve("kpis", model.RoleHead), head), session.ErrForbidden)
	// A head asking for another role's screen lands on that role's route.
	assert.Equal(t, model.RoleEmployee, resolve("tasks", model.RoleHead).Role)
}

func TestMenuLabelsRoundTrip(t *testing.T) {
	for _, role := range model.Roles {
		routes := menuRoutes(role)
		assert.NotEmpty(t, routes, role)
		for _, r := range routes {
			got, ok := resolveLabel(r.Label, role)
			assert.True(t, ok, r.Label)
			assert.Equal(t, r.Path, got.Path)
		}
	}
	_, ok := resolveLabel("📋 Task Log", model.RoleAdmin)
	assert.False(t, ok)
}
