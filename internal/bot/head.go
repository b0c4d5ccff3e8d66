package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"perf-manage/internal/dashboard"
	"perf-manage/internal/model"
	"perf-manage/internal/service"
)

func (b *Bot) sendTeamKPIs(v viewer) error {
	return b.sendText(v, dashboard.HTMLTeamKPIs())
}

var submissionIcon = map[model.SubmissionStatus]string{
	model.SubmissionPending:  "🕓",
	model.SubmissionApproved: "✅",
	model.SubmissionRejected: "❌",
}

func (b *Bot) buildApprovals(ctx context.Context, v viewer) (string, tgbotapi.InlineKeyboardMarkup, error) {
	filter := b.svc.Approval.Filter(v.owner())
	subs, err := b.svc.Approval.List(ctx, v.owner())
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗂 <b>Approve Tasks</b> · %s\n\n", filter))
	if len(subs) == 0 {
		builder.WriteString("No submissions here.")
	}
	rows := [][]tgbotapi.InlineKeyboardButton{submissionFilterRow(filter)}
	for _, sub := range subs {
		builder.WriteString(fmt.Sprintf("%s <b>%s</b> · %s\n    %s\n",
			submissionIcon[sub.Status], escape(sub.User), escape(sub.Date), escape(sub.Description)))
		if sub.Status == model.SubmissionPending {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ Approve #%d", sub.ID), fmt.Sprintf("%s%d", cbApprovePrefix, sub.ID)),
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("❌ Reject #%d", sub.ID), fmt.Sprintf("%s%d", cbRejectPrefix, sub.ID)),
			))
		}
	}
	return strings.TrimSpace(builder.String()), tgbotapi.NewInlineKeyboardMarkup(rows...), nil
}

func (b *Bot) sendApprovals(ctx context.Context, v viewer) error {
	text, markup, err := b.buildApprovals(ctx, v)
	if err != nil {
		return b.replyError(v, err)
	}
	return b.sendWithReplyMarkup(v.chatID, text, markup)
}

func (b *Bot) handleFilterCallback(ctx context.Context, v viewer, cb *tgbotapi.CallbackQuery, raw string) error {
	if ok, err := b.allowed(v, resolve("approve", model.RoleHead)); !ok {
		b.ack(cb.ID, "")
		return err
	}
	if err := b.svc.Approval.SetFilter(v.owner(), model.SubmissionStatus(raw)); err != nil {
		b.ack(cb.ID, "Unknown filter")
		return nil
	}
	b.ack(cb.ID, "")
	text, markup, err := b.buildApprovals(ctx, v)
	if err != nil {
		return b.replyError(v, err)
	}
	return b.editOrSend(v.chatID, cb.Message.MessageID, text, markup)
}

func (b *Bot) handleDecision(ctx context.Context, v viewer, cb *tgbotapi.CallbackQuery, data, prefix string, status model.SubmissionStatus) error {
	if ok, err := b.allowed(v, resolve("approve", model.RoleHead)); !ok {
		b.ack(cb.ID, "")
		return err
	}
	id, err := parseID(data, prefix)
	if err != nil {
		b.ack(cb.ID, "")
		return nil
	}
	sub, err := b.svc.Approval.UpdateStatus(ctx, v.owner(), id, status)
	if err != nil {
		b.ack(cb.ID, "")
		return b.replyError(v, err)
	}
	log.Printf("[info] submission %d %s by user=%d", sub.ID, sub.Status, v.owner())
	b.ack(cb.ID, fmt.Sprintf("Task %s", strings.ToLower(string(sub.Status))))

	text, markup, err := b.buildApprovals(ctx, v)
	if err != nil {
		return b.replyError(v, err)
	}
	return b.editOrSend(v.chatID, cb.Message.MessageID, text, markup)
}

func (b *Bot) sendAssignedList(ctx context.Context, v viewer) error {
	tasks, err := b.svc.Assignment.List(ctx, v.owner())
	if err != nil {
		return b.replyError(v, err)
	}
	var builder strings.Builder
	builder.WriteString("📌 <b>Assigned Tasks</b>\n\n")
	if len(tasks) == 0 {
		builder.WriteString("Nothing assigned yet.")
	}
	for _, t := range tasks {
		names := make([]string, 0, len(t.AssignedTo))
		for _, m := range t.AssignedTo {
			names = append(names, escape(m.Name))
		}
		builder.WriteString(fmt.Sprintf("• <b>%s</b> · %s\n    → %s", escape(t.Title), t.Priority, strings.Join(names, ", ")))
		if t.DueDate != nil {
			builder.WriteString(" · due " + t.DueDate.Format("2006-01-02"))
		}
		builder.WriteString("\n")
	}
	return b.sendText(v, strings.TrimSpace(builder.String()))
}

func (b *Bot) startAssign(ctx context.Context, v viewer) error {
	b.resetDialogs(v)
	if err := b.sendAssignedList(ctx, v); err != nil {
		return err
	}
	log.Printf("[info] start assign conversation user=%d", v.owner())
	b.setConversation(v.tgID, &conversationState{stage: stageAssignTitle, assign: service.NewAssignForm()})
	return b.sendWithReplyMarkup(v.chatID, "🆕 <b>Assign a new task.</b>\n<b>Step 1:</b> task title?", cancelKeyboard())
}

func (b *Bot) assignStep(ctx context.Context, v viewer, state *conversationState, text string) error {
	switch state.stage {
	case stageAssignTitle:
		state.assign.Title = text
		state.stage = stageAssignDescription
		return b.sendWithReplyMarkup(v.chatID, "✏️ Add a short description (or Skip).", skipKeyboard())
	case stageAssignDescription:
		if !isSkipInput(text) {
			state.assign.Description = text
		}
		state.stage = stageAssignDueDate
		return b.sendWithReplyMarkup(v.chatID, "⏰ Due date as <code>2025-11-30</code> (or Skip).", skipKeyboard())
	case stageAssignDueDate:
		if !isSkipInput(text) {
			parsed, err := time.Parse("2006-01-02", text)
			if err != nil {
				return b.sendWithReplyMarkup(v.chatID, "Cannot read that date. Use <code>2025-11-30</code> or Skip.", skipKeyboard())
			}
			state.assign.DueDate = &parsed
		}
		state.stage = stageAssignPriority
		return b.sendWithReplyMarkup(v.chatID, "🚦 Priority? (Skip keeps Medium)", priorityKeyboard())
	case stageAssignPriority:
		if !isSkipInput(text) {
			p, ok := matchPriority(text)
			if !ok {
				return b.sendWithReplyMarkup(v.chatID, "Pick Low, Medium or High.", priorityKeyboard())
			}
			state.assign.Priority = p
		}
		state.stage = stageAssignMembers
		return b.sendMemberPicker(ctx, v, state.assign)
	case stageAssignMembers:
		return b.sendText(v, "Use the buttons above to pick team members, then press Assign Task.")
	}
	return nil
}

func (b *Bot) sendMemberPicker(ctx context.Context, v viewer, form service.AssignForm) error {
	members, err := b.svc.Assignment.Members(ctx)
	if err != nil {
		return b.replyError(v, err)
	}
	return b.sendWithReplyMarkup(v.chatID, "👥 Select team members:", memberKeyboard(members, form))
}

func (b *Bot) handleMemberToggle(ctx context.Context, v viewer, cb *tgbotapi.CallbackQuery) error {
	if ok, err := b.allowed(v, resolve("assign", model.RoleHead)); !ok {
		b.ack(cb.ID, "")
		return err
	}
	state := b.getConversation(v.tgID)
	if state == nil || state.stage != stageAssignMembers {
		b.ack(cb.ID, "This form is closed. Open /assign again.")
		return nil
	}
	id, err := parseID(cb.Data, cbMemberPrefix)
	if err != nil {
		b.ack(cb.ID, "")
		return nil
	}
	b.mu.Lock()
	state.assign.Toggle(id)
	form := state.assign
	b.mu.Unlock()
	b.ack(cb.ID, "")

	members, err := b.svc.Assignment.Members(ctx)
	if err != nil {
		return b.replyError(v, err)
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(v.chatID, cb.Message.MessageID, memberKeyboard(members, form))
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("edit member picker: %v", err)
	}
	return nil
}

func (b *Bot) submitAssignment(ctx context.Context, v viewer, cb *tgbotapi.CallbackQuery) error {
	if ok, err := b.allowed(v, resolve("assign", model.RoleHead)); !ok {
		b.ack(cb.ID, "")
		return err
	}
	state := b.getConversation(v.tgID)
	if state == nil || state.stage != stageAssignMembers {
		b.ack(cb.ID, "This form is closed. Open /assign again.")
		return nil
	}

	task, notice, err := b.svc.Assignment.Submit(ctx, v.owner(), state.assign, b.now())
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		b.alert(cb.ID, verr.Message)
		return nil
	}
	if err != nil {
		b.ack(cb.ID, "")
		return b.replyError(v, err)
	}
	b.ack(cb.ID, notice.Text)
	b.clearConversation(v.tgID)
	log.Printf("[info] task assigned id=%d user=%d members=%d", task.ID, v.owner(), len(task.AssignedTo))

	if err := b.sendNotice(v, notice); err != nil {
		return err
	}
	return b.sendAssignedList(ctx, v)
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	opts := make([]string, 0, len(model.Priorities))
	for _, p := range model.Priorities {
		opts = append(opts, string(p))
	}
	return choiceKeyboard(true, opts...)
}

func matchPriority(text string) (model.Priority, bool) {
	for _, p := range model.Priorities {
		if strings.EqualFold(text, string(p)) {
			return p, true
		}
	}
	return "", false
}
