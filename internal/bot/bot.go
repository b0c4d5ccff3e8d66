package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"perf-manage/internal/config"
	"perf-manage/internal/model"
	"perf-manage/internal/repository"
	"perf-manage/internal/service"
	"perf-manage/internal/session"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageAssignTitle
	stageAssignDescription
	stageAssignDueDate
	stageAssignPriority
	stageAssignMembers
	stageKPIName
	stageKPIDescription
	stageKPIRole
	stageKPIStatus
)

type conversationState struct {
	stage  conversationStage
	assign service.AssignForm
	kpi    service.KPIDraft
}

type confirmationAction int

const (
	actionComplete confirmationAction = iota
	actionDeleteKPI
)

// Services bundles the stores and helpers the bot drives.
type Services struct {
	Users      *repository.UserRepository
	Sessions   *session.Manager
	Tasks      *service.TaskLog
	Approval   *service.Approval
	Assignment *service.Assignment
	Catalog    *service.Catalog
	Digest     *service.DigestService
}

// Bot aggregates the Telegram API with services.
type Bot struct {
	client        *tgbotapi.BotAPI
	api           sender
	svc           Services
	http          *http.Client
	now           func() time.Time
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationAction
	mu            sync.Mutex
}

// viewer is the Telegram user behind an update, with their session if any.
type viewer struct {
	chatID int64
	tgID   int64
	user   *model.User
	sess   *session.Session
}

func (v viewer) owner() uint { return v.user.ID }

func (v viewer) role() model.Role {
	if v.sess == nil {
		return ""
	}
	return v.sess.Role
}

func New(cfg config.Config, svc Services) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	api.Debug = cfg.Debug

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, svc)
	b.client = api
	return b, nil
}

func newBot(api sender, svc Services) *Bot {
	return &Bot{
		api:           api,
		svc:           svc,
		http:          &http.Client{Timeout: 30 * time.Second},
		now:           time.Now,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationAction),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return errors.New("bot has no telegram client")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.client.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.client.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) viewerOf(ctx context.Context, from *tgbotapi.User, chatID int64) (viewer, error) {
	user, err := b.svc.Users.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
	if err != nil {
		return viewer{}, err
	}
	v := viewer{chatID: chatID, tgID: from.ID, user: user}
	sess, err := b.svc.Sessions.Current(user.ID)
	switch {
	case err == nil:
		v.sess = &sess
	case !errors.Is(err, session.ErrNoSession):
		return viewer{}, err
	}
	return v, nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || msg.Chat == nil {
		return nil
	}

	v, err := b.viewerOf(ctx, msg.From, msg.Chat.ID)
	if err != nil {
		return err
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.resetDialogs(v)
		return b.sendText(v, "⏪ Input cancelled.")
	}

	if msg.Document != nil {
		return b.handleImport(ctx, v, msg.Document)
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, v, msg)
	}

	if r, ok := resolveLabel(msg.Text, v.role()); ok {
		b.resetDialogs(v)
		return b.open(ctx, v, r, "")
	}

	if action, ok := b.getConfirmation(v.tgID); ok {
		return b.handleConfirmationResponse(ctx, v, msg.Text, action)
	}

	if b.hasConversation(v.tgID) {
		log.Printf("[info] conversation step %d from %d", b.getConversation(v.tgID).stage, v.tgID)
		return b.handleConversation(ctx, v, msg.Text)
	}

	return b.sendText(v, "I did not understand that. Use the menu or /help.")
}

func (b *Bot) handleCommand(ctx context.Context, v viewer, msg *tgbotapi.Message) error {
	r := resolve(msg.Command(), v.role())
	args := strings.TrimSpace(msg.CommandArguments())
	if r.Screen == ScreenNotFound {
		// Deep links such as /head/team-kpis arrive as a command plus a path tail.
		if fields := strings.Fields(msg.Text); len(fields) > 0 {
			r = resolvePath(fields[0])
			args = ""
		}
	}
	b.resetDialogs(v)
	return b.open(ctx, v, r, args)
}

// open renders the screen behind a route once the viewer passes its role check.
func (b *Bot) open(ctx context.Context, v viewer, r Route, args string) error {
	if ok, err := b.allowed(v, r); !ok {
		return err
	}

	switch r.Screen {
	case ScreenHome:
		return b.showHome(v)
	case ScreenHelp:
		return b.showHelp(v)
	case ScreenLogin:
		if args == "" {
			return b.sendWithReplyMarkup(v.chatID, "🔑 <b>Login</b>\nPick the role to sign in as:", loginKeyboard())
		}
		return b.login(ctx, v, args)
	case ScreenRegister:
		return b.sendText(v, fmt.Sprintf("📝 Registered as <b>%s</b> (Telegram id %d).\nUse /login to choose a role.",
			escape(v.user.DisplayName()), v.user.TelegramID))
	case ScreenLogout:
		return b.logout(v)
	case ScreenCancel:
		b.resetDialogs(v)
		return b.sendText(v, "⏪ Input cancelled.")
	case ScreenDigest:
		return b.sendDigest(ctx, v)
	case ScreenEmployeeDashboard, ScreenHeadDashboard, ScreenAdminDashboard:
		return b.sendDashboard(v)
	case ScreenTaskLog:
		return b.sendTaskLog(ctx, v)
	case ScreenMyKPIs:
		return b.sendMyKPIs(v)
	case ScreenTeamKPIs:
		return b.sendTeamKPIs(v)
	case ScreenAssignTask:
		return b.startAssign(ctx, v)
	case ScreenApproveTasks:
		return b.sendApprovals(ctx, v)
	case ScreenManageKPIs:
		return b.sendKPIList(ctx, v)
	case ScreenExport:
		if args == "" {
			return b.sendExportChoice(v)
		}
		return b.sendExport(ctx, v, args)
	default:
		return b.sendText(v, "🤷 Page not found. Use /help to see what is available.")
	}
}

// allowed reports whether the viewer may open r and tells them when not.
func (b *Bot) allowed(v viewer, r Route) (bool, error) {
	err := authorize(r, v.sess)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, session.ErrNoSession):
		return false, b.sendWithReplyMarkup(v.chatID, "🔒 Please log in first.", loginKeyboard())
	default:
		return false, b.sendText(v, fmt.Sprintf("⛔ This page is only available to the %s role.", escape(r.Role.Label())))
	}
}

func (b *Bot) showHome(v viewer) error {
	text := fmt.Sprintf("👋 Hi, %s!\n<b>PerfManage</b> tracks KPIs, tasks and approvals for your team.\n\n", escape(v.user.DisplayName()))
	if v.sess == nil {
		text += "Use /login to enter as an Employee, a Project Head or an Admin."
	} else {
		text += fmt.Sprintf("You are logged in as <b>%s</b>. Open /dashboard or /help.", escape(v.role().Label()))
	}
	return b.sendText(v, text)
}

func (b *Bot) showHelp(v viewer) error {
	var builder strings.Builder
	builder.WriteString("ℹ️ <b>Commands</b>\n")
	builder.WriteString("• /login &lt;role&gt; — sign in as employee, head or admin\n")
	builder.WriteString("• /logout — leave the current role\n")
	builder.WriteString("• /digest — today's summary for your role\n")
	builder.WriteString("• /cancel — stop the current input\n")
	if v.sess != nil {
		builder.WriteString(fmt.Sprintf("\n<b>%s</b>\n", escape(v.role().Label())))
		for _, r := range menuRoutes(v.role()) {
			builder.WriteString(fmt.Sprintf("• /%s — %s\n", r.Command, escape(r.Label)))
		}
	}
	return b.sendText(v, strings.TrimSpace(builder.String()))
}

func (b *Bot) login(ctx context.Context, v viewer, arg string) error {
	role, ok := model.ParseRole(arg)
	if !ok {
		return b.sendWithReplyMarkup(v.chatID, "Unknown role. Pick one:", loginKeyboard())
	}
	sess, err := b.svc.Sessions.Login(*v.user, role)
	if errors.Is(err, session.ErrForbidden) {
		return b.sendText(v, fmt.Sprintf("⛔ You are not allowed to log in as %s.", escape(role.Label())))
	}
	if err != nil {
		return err
	}
	b.resetDialogs(v)
	if err := b.mount(ctx, v.owner(), role); err != nil {
		return err
	}
	v.sess = &sess
	log.Printf("[info] login user=%d role=%s", v.owner(), role)

	if err := b.sendText(v, fmt.Sprintf("✅ Logged in as %s!", escape(role.Label()))); err != nil {
		return err
	}
	return b.open(ctx, v, resolve("dashboard", role), "")
}

// mount resets the stores behind a role shell to their seed data.
func (b *Bot) mount(ctx context.Context, ownerID uint, role model.Role) error {
	switch role {
	case model.RoleEmployee:
		return b.svc.Tasks.Mount(ctx, ownerID)
	case model.RoleHead:
		if err := b.svc.Approval.Mount(ctx, ownerID); err != nil {
			return err
		}
		return b.svc.Assignment.Mount(ctx, ownerID)
	case model.RoleAdmin:
		return b.svc.Catalog.Mount(ctx, ownerID)
	}
	return nil
}

func (b *Bot) logout(v viewer) error {
	b.resetDialogs(v)
	if !b.svc.Sessions.Logout(v.owner()) {
		return b.sendText(v, "You are not logged in.")
	}
	log.Printf("[info] logout user=%d", v.owner())
	v.sess = nil
	return b.sendText(v, "👋 Logged out. Use /login to come back.")
}

func (b *Bot) sendDigest(ctx context.Context, v viewer) error {
	if v.sess == nil {
		return b.sendWithReplyMarkup(v.chatID, "🔒 Please log in first.", loginKeyboard())
	}
	text, err := b.svc.Digest.Summary(ctx, *v.sess, b.now())
	if err != nil {
		return b.sendText(v, fmt.Sprintf("Could not build the digest: %s", escape(err.Error())))
	}
	return b.sendText(v, text)
}

// SendDigests sends the role summary to every logged-in viewer.
func (b *Bot) SendDigests(ctx context.Context) error {
	now := b.now()
	for _, sess := range b.svc.Sessions.Active() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.svc.Digest.Summary(ctx, sess, now)
		if err != nil {
			log.Printf("build digest for user %d: %v", sess.TelegramID, err)
			continue
		}
		msg := tgbotapi.NewMessage(sess.TelegramID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("send digest to %d: %v", sess.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, v viewer, text string, action confirmationAction) error {
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(v.tgID)
		if action == actionDeleteKPI {
			return b.deleteKPIAndRefresh(ctx, v)
		}
		return b.completeTaskAndRefresh(ctx, v)
	case isCancelInput(text):
		b.clearConfirmation(v.tgID)
		if action == actionDeleteKPI {
			b.svc.Catalog.CancelDelete(v.owner())
		} else {
			b.svc.Tasks.CloseModal(v.owner())
		}
		return b.sendText(v, "↩️ Cancelled.")
	default:
		prompt := "Confirm or cancel the task completion."
		if action == actionDeleteKPI {
			prompt = "Confirm or cancel the KPI deletion."
		}
		return b.sendWithReplyMarkup(v.chatID, prompt, confirmKeyboard())
	}
}

// replyError turns a service error into a short message. Unexpected errors
// are returned to the polling loop after the viewer is told.
func (b *Bot) replyError(v viewer, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return b.sendText(v, "⚠️ "+escape(verr.Message))
	case errors.Is(err, service.ErrNotFound):
		return b.sendText(v, "Record not found.")
	case errors.Is(err, service.ErrInvalidTransition):
		return b.sendText(v, "That action is not available for this record any more.")
	case errors.Is(err, service.ErrNothingStaged):
		return b.sendText(v, "Nothing to confirm.")
	default:
		if sendErr := b.sendText(v, fmt.Sprintf("Error: %s", escape(err.Error()))); sendErr != nil {
			return sendErr
		}
		return err
	}
}

func (b *Bot) resetDialogs(v viewer) {
	b.clearConversation(v.tgID)
	b.clearConfirmation(v.tgID)
	b.svc.Tasks.CloseModal(v.owner())
	b.svc.Catalog.CancelDelete(v.owner())
}

func (b *Bot) handleConversation(ctx context.Context, v viewer, text string) error {
	state := b.getConversation(v.tgID)
	if state == nil {
		return nil
	}
	switch state.stage {
	case stageAssignTitle, stageAssignDescription, stageAssignDueDate, stageAssignPriority, stageAssignMembers:
		return b.assignStep(ctx, v, state, strings.TrimSpace(text))
	case stageKPIName, stageKPIDescription, stageKPIRole, stageKPIStatus:
		return b.kpiStep(ctx, v, state, strings.TrimSpace(text))
	default:
		b.clearConversation(v.tgID)
		return b.sendText(v, "Input reset. Start again from the menu.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	v, err := b.viewerOf(ctx, cb.From, cb.Message.Chat.ID)
	if err != nil {
		return err
	}
	data := cb.Data
	log.Printf("[info] callback user=%d data=%s", cb.From.ID, data)

	switch {
	case strings.HasPrefix(data, cbLoginPrefix):
		b.ack(cb.ID, "")
		return b.login(ctx, v, strings.TrimPrefix(data, cbLoginPrefix))
	case strings.HasPrefix(data, cbTabPrefix):
		return b.handleTabCallback(ctx, v, cb, strings.TrimPrefix(data, cbTabPrefix))
	case strings.HasPrefix(data, cbCompletePrefix):
		b.ack(cb.ID, "")
		id, err := parseID(data, cbCompletePrefix)
		if err != nil {
			return nil
		}
		return b.askCompleteConfirmation(ctx, v, id)
	case strings.HasPrefix(data, cbFilterPrefix):
		return b.handleFilterCallback(ctx, v, cb, strings.TrimPrefix(data, cbFilterPrefix))
	case strings.HasPrefix(data, cbApprovePrefix):
		return b.handleDecision(ctx, v, cb, data, cbApprovePrefix, model.SubmissionApproved)
	case strings.HasPrefix(data, cbRejectPrefix):
		return b.handleDecision(ctx, v, cb, data, cbRejectPrefix, model.SubmissionRejected)
	case strings.HasPrefix(data, cbMemberPrefix):
		return b.handleMemberToggle(ctx, v, cb)
	case data == cbAssignSubmit:
		return b.submitAssignment(ctx, v, cb)
	case data == cbKPIAdd:
		b.ack(cb.ID, "")
		return b.startKPIDialog(ctx, v, 0)
	case strings.HasPrefix(data, cbKPIEditPrefix):
		b.ack(cb.ID, "")
		id, err := parseID(data, cbKPIEditPrefix)
		if err != nil {
			return nil
		}
		return b.startKPIDialog(ctx, v, id)
	case strings.HasPrefix(data, cbKPIDelPrefix):
		b.ack(cb.ID, "")
		id, err := parseID(data, cbKPIDelPrefix)
		if err != nil {
			return nil
		}
		return b.askDeleteConfirmation(ctx, v, id)
	case strings.HasPrefix(data, cbExportPrefix):
		b.ack(cb.ID, "")
		if ok, err := b.allowed(v, resolve("export", model.RoleAdmin)); !ok {
			return err
		}
		return b.sendExport(ctx, v, strings.TrimPrefix(data, cbExportPrefix))
	default:
		b.ack(cb.ID, "")
		return nil
	}
}

// ack answers a callback query; a non-empty text shows as a toast.
func (b *Bot) ack(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("callback ack: %v", err)
	}
}

func (b *Bot) alert(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(id, text)); err != nil {
		log.Printf("callback ack: %v", err)
	}
}

func parseID(data, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
}

func (b *Bot) sendText(v viewer, text string) error {
	msg := tgbotapi.NewMessage(v.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = menuKeyboard(v.role())
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendNotice(v viewer, n service.Notice) error {
	icon := "✅"
	if n.Level == service.NoticeInfo {
		icon = "ℹ️"
	}
	return b.sendText(v, icon+" "+escape(n.Text))
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

// editOrSend replaces the message a callback came from, or sends a new one.
func (b *Bot) editOrSend(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	if messageID == 0 {
		return b.sendWithReplyMarkup(chatID, text, markup)
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("edit message: %v", err)
	}
	return nil
}

func (b *Bot) getConfirmation(userID int64) (confirmationAction, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	action, ok := b.confirmations[userID]
	return action, ok
}

func (b *Bot) setConfirmation(userID int64, action confirmationAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = action
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
