package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"perf-manage/internal/excel"
	"perf-manage/internal/model"
	"perf-manage/internal/repository"
	"perf-manage/internal/service"
	"perf-manage/internal/session"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fileURL  string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(string) (string, error) {
	return f.fileURL, nil
}

// texts returns the text of every message and edit sent so far.
func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) lastText() string {
	t := f.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func (f *fakeAPI) saw(substr string) bool {
	for _, t := range f.texts() {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}

type harness struct {
	bot *Bot
	api *fakeAPI
	svc Services
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]`)

func newHarness(t *testing.T, policy session.Policy) *harness {
	t.Helper()
	dsn := "file:" + unsafeName.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared"
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { closeDB(db) })

	tasks := service.NewTaskLog(repository.NewTaskRepository(db))
	approval := service.NewApproval(repository.NewSubmissionRepository(db))
	catalog := service.NewCatalog(repository.NewKPIRepository(db))
	svc := Services{
		Users:      repository.NewUserRepository(db),
		Sessions:   session.NewManager(time.Hour, policy),
		Tasks:      tasks,
		Approval:   approval,
		Assignment: service.NewAssignment(repository.NewAssignmentRepository(db)),
		Catalog:    catalog,
		Digest:     service.NewDigestService(tasks, approval, catalog),
	}
	api := &fakeAPI{}
	b := newBot(api, svc)
	b.now = func() time.Time { return time.Date(2025, 10, 3, 10, 0, 0, 0, time.UTC) }
	return &harness{bot: b, api: api, svc: svc}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

var tgUser = &tgbotapi.User{ID: 42, FirstName: "Ann"}

func (h *harness) say(t *testing.T, text string) {
	t.Helper()
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      tgUser,
		Chat:      &tgbotapi.Chat{ID: tgUser.ID, Type: "private"},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		n := strings.IndexByte(text, ' ')
		if n < 0 {
			n = len(text)
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: n}}
	}
	require.NoError(t, h.bot.handleMessage(context.Background(), msg))
}

func (h *harness) click(t *testing.T, data string) {
	t.Helper()
	cb := &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    tgUser,
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: tgUser.ID, Type: "private"}},
		Data:    data,
	}
	require.NoError(t, h.bot.handleCallback(context.Background(), cb))
}

// owner is the store owner behind tgUser once they have talked to the bot.
func (h *harness) owner(t *testing.T) uint {
	t.Helper()
	u, err := h.svc.Users.FindByTelegramID(context.Background(), tgUser.ID)
	require.NoError(t, err)
	return u.ID
}

func TestRoleScreensNeedLogin(t *testing.T) {
	h := newHarness(t, nil)

	h.say(t, "/tasks")
	assert.Contains(t, h.api.lastText(), "Please log in first")

	h.say(t, "/login employee")
	assert.True(t, h.api.saw("Logged in as Employee"))
	assert.Contains(t, h.api.lastText(), "Task Timeliness")

	h.say(t, "/approve")
	assert.Contains(t, h.api.lastText(), "only available to the Project Head role")

	h.say(t, "/whatever")
	assert.Contains(t, h.api.lastText(), "Page not found")
}

func TestLoginRespectsPolicy(t *testing.T) {
	h := newHarness(t, func(_ int64, role model.Role) bool { return role != model.RoleAdmin })

	h.say(t, "/login admin")
	assert.Contains(t, h.api.lastText(), "not allowed to log in as Admin")
	_, err := h.svc.Sessions.Current(h.owner(t))
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestCompleteTaskNeedsConfirmation(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.click(t, "login:employee")
	owner := h.owner(t)

	h.say(t, "/tasks")
	assert.Contains(t, h.api.lastText(), "Prepare Weekly Progress Report")

	h.click(t, "complete:1")
	assert.Contains(t, h.api.lastText(), "Mark task «Prepare Weekly Progress Report» (#1) as completed?")
	pending, err := h.svc.Tasks.ListStatus(ctx, owner, model.TaskPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	h.say(t, btnConfirm)
	assert.True(t, h.api.saw("marked as completed"))
	completed, err := h.svc.Tasks.ListStatus(ctx, owner, model.TaskCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 2)

	h.click(t, "tab:Completed")
	assert.Contains(t, h.api.lastText(), "Task Log</b> · Completed")
}

func TestCancelCompletionKeepsTaskPending(t *testing.T) {
	h := newHarness(t, nil)
	h.click(t, "login:employee")

	h.click(t, "complete:2")
	h.say(t, btnCancel)
	assert.Contains(t, h.api.lastText(), "Cancelled")

	_, staged := h.svc.Tasks.Staged(h.owner(t))
	assert.False(t, staged)
	pending, err := h.svc.Tasks.ListStatus(context.Background(), h.owner(t), model.TaskPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestHeadApprovesSubmission(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.say(t, "/login head")

	h.say(t, "/approve")
	assert.Contains(t, h.api.lastText(), "Finalized CAD drawings")

	h.click(t, "approve:3")
	approved, err := h.svc.Approval.ListStatus(ctx, h.owner(t), model.SubmissionApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 3)

	h.click(t, "reject:4")
	rejected, err := h.svc.Approval.ListStatus(ctx, h.owner(t), model.SubmissionRejected)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)

	h.click(t, "filter:Rejected")
	assert.Contains(t, h.api.lastText(), "Jane Smith")
}

func TestAssignConversation(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.say(t, "/login head")

	h.say(t, "/assign")
	h.say(t, "Inspect embankment")
	h.say(t, btnSkip)
	h.say(t, "2025-10-20")
	h.say(t, "high")
	assert.Contains(t, h.api.lastText(), "Select team members")

	// Submitting with nobody selected is rejected and changes nothing.
	h.click(t, cbAssignSubmit)
	tasks, err := h.svc.Assignment.List(ctx, h.owner(t))
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	h.click(t, "member:2")
	h.click(t, cbAssignSubmit)
	tasks, err = h.svc.Assignment.List(ctx, h.owner(t))
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Inspect embankment", tasks[0].Title)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.True(t, h.api.saw("Task assigned successfully!"))
	assert.False(t, h.bot.hasConversation(tgUser.ID))
}

func TestAdminDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.say(t, "/login admin")

	h.click(t, "kpi:delete:3")
	assert.Contains(t, h.api.lastText(), "Delete KPI «Budget Utilization Ratio (BUR)»?")
	kpis, err := h.svc.Catalog.List(ctx, h.owner(t))
	require.NoError(t, err)
	assert.Len(t, kpis, 4)

	h.say(t, btnConfirm)
	assert.True(t, h.api.saw("deleted successfully"))
	kpis, err = h.svc.Catalog.List(ctx, h.owner(t))
	require.NoError(t, err)
	assert.Len(t, kpis, 3)
}

func TestAdminAddKPIDialog(t *testing.T) {
	h := newHarness(t, nil)
	h.say(t, "/login admin")

	h.click(t, cbKPIAdd)
	h.say(t, "Test KPI")
	h.say(t, "Made in a test")
	h.say(t, "Organization")
	h.say(t, btnSkip)
	assert.True(t, h.api.saw(`KPI &#34;Test KPI&#34; created successfully.`))

	kpis, err := h.svc.Catalog.List(context.Background(), h.owner(t))
	require.NoError(t, err)
	require.Len(t, kpis, 5)
	assert.Equal(t, model.KPIRoleOrganization, kpis[4].Role)
	assert.Equal(t, model.KPIActive, kpis[4].Status)
}

func TestAdminImportsWorkbook(t *testing.T) {
	h := newHarness(t, nil)
	h.say(t, "/login admin")

	path := filepath.Join(t.TempDir(), "kpis.xlsx")
	require.NoError(t, excel.WriteKPIs([]model.KPI{
		{Name: "Site Safety", Role: model.KPIRoleOrganization, Status: model.KPIActive},
		{Name: "", Role: model.KPIRoleEmployee, Status: model.KPIActive},
	}, path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()
	h.api.fileURL = srv.URL

	msg := &tgbotapi.Message{
		MessageID: 2,
		From:      tgUser,
		Chat:      &tgbotapi.Chat{ID: tgUser.ID, Type: "private"},
		Document:  &tgbotapi.Document{FileID: "f1", FileName: "kpis.xlsx"},
	}
	require.NoError(t, h.bot.handleMessage(context.Background(), msg))
	assert.True(t, h.api.saw("ℹ️ Imported 1 KPIs, skipped 1 rows."))

	kpis, err := h.svc.Catalog.List(context.Background(), h.owner(t))
	require.NoError(t, err)
	assert.Len(t, kpis, 5)
}

func TestSendDigestsReachesLoggedInViewers(t *testing.T) {
	h := newHarness(t, nil)
	h.say(t, "/login employee")
	before := len(h.api.texts())

	require.NoError(t, h.bot.SendDigests(context.Background()))
	texts := h.api.texts()
	require.Len(t, texts, before+1)
	assert.Contains(t, texts[len(texts)-1], "Daily digest")

	h.say(t, "/logout")
	before = len(h.api.texts())
	require.NoError(t, h.bot.SendDigests(context.Background()))
	assert.Len(t, h.api.texts(), before)
}

func TestAbandonedDeleteDoesNotBlockAddDialog(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.say(t, "/login admin")

	h.click(t, "kpi:delete:3")
	h.say(t, "/kpis")
	h.click(t, cbKPIAdd)
	h.say(t, "Site Safety")
	assert.NotContains(t, h.api.lastText(), "Confirm or cancel")
	assert.Contains(t, h.api.lastText(), "Description")

	_, staged := h.svc.Catalog.PendingDelete(h.owner(t))
	assert.False(t, staged)
	kpis, err := h.svc.Catalog.List(ctx, h.owner(t))
	require.NoError(t, err)
	assert.Len(t, kpis, 4)
}

func TestMenuLabelAbandonsStagedCompletion(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.say(t, "/login employee")

	h.click(t, "complete:1")
	h.say(t, "📋 Task Log")
	h.say(t, btnConfirm)

	_, staged := h.svc.Tasks.Staged(h.owner(t))
	assert.False(t, staged)
	pending, err := h.svc.Tasks.ListStatus(ctx, h.owner(t), model.TaskPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestExportRejectsUnknownKind(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "tmp")
	require.NoError(t, os.Mkdir(tmp, 0o755))
	t.Setenv("TMPDIR", tmp)

	h := newHarness(t, nil)
	h.say(t, "/login admin")

	outside := excel.TempPath("../keep", h.bot.now())
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	h.say(t, "/export ../keep")
	assert.Contains(t, h.api.lastText(), "Export either")
	assert.FileExists(t, outside)
	for _, c := range h.api.sent {
		_, isDoc := c.(tgbotapi.DocumentConfig)
		assert.False(t, isDoc)
	}
}
