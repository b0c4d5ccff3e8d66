package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"perf-manage/internal/dashboard"
	"perf-manage/internal/model"
)

func (b *Bot) sendDashboard(v viewer) error {
	return b.sendText(v, dashboard.HTMLDashboard(v.role()))
}

func (b *Bot) sendMyKPIs(v viewer) error {
	return b.sendText(v, dashboard.HTMLEmployeeKPIs())
}

func (b *Bot) buildTaskLog(ctx context.Context, v viewer) (string, tgbotapi.InlineKeyboardMarkup, error) {
	tab := b.svc.Tasks.Tab(v.owner())
	tasks, err := b.svc.Tasks.List(ctx, v.owner())
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	now := b.now()
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Task Log</b> · %s\n\n", tab))
	if len(tasks) == 0 {
		builder.WriteString("No tasks in this tab.")
	}

	rows := [][]tgbotapi.InlineKeyboardButton{taskTabRow(tab)}
	for _, task := range tasks {
		builder.WriteString(formatTask(task, now))
		if task.Status == model.TaskPending {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("✅ #%d · %s", task.ID, shortTitle(task.Title, 24)),
					fmt.Sprintf("%s%d", cbCompletePrefix, task.ID)),
			))
		}
	}
	return strings.TrimSpace(builder.String()), tgbotapi.NewInlineKeyboardMarkup(rows...), nil
}

func (b *Bot) sendTaskLog(ctx context.Context, v viewer) error {
	text, markup, err := b.buildTaskLog(ctx, v)
	if err != nil {
		return b.replyError(v, err)
	}
	return b.sendWithReplyMarkup(v.chatID, text, markup)
}

func (b *Bot) handleTabCallback(ctx context.Context, v viewer, cb *tgbotapi.CallbackQuery, raw string) error {
	if ok, err := b.allowed(v, resolve("tasks", model.RoleEmployee)); !ok {
		b.ack(cb.ID, "")
		return err
	}
	if err := b.svc.Tasks.SetTab(v.owner(), model.TaskStatus(raw)); err != nil {
		b.ack(cb.ID, "Unknown tab")
		return nil
	}
	b.ack(cb.ID, "")
	text, markup, err := b.buildTaskLog(ctx, v)
	if err != nil {
		return b.replyError(v, err)
	}
	return b.editOrSend(v.chatID, cb.Message.MessageID, text, markup)
}

func (b *Bot) askCompleteConfirmation(ctx context.Context, v viewer, taskID int64) error {
	if ok, err := b.allowed(v, resolve("tasks", model.RoleEmployee)); !ok {
		return err
	}
	task, err := b.svc.Tasks.OpenCompleteModal(ctx, v.owner(), taskID)
	if err != nil {
		return b.replyError(v, err)
	}
	b.setConfirmation(v.tgID, actionComplete)
	text := fmt.Sprintf("Mark task «%s» (#%d) as completed?", escape(task.Title), task.ID)
	return b.sendWithReplyMarkup(v.chatID, text, confirmKeyboard())
}

func (b *Bot) completeTaskAndRefresh(ctx context.Context, v viewer) error {
	task, err := b.svc.Tasks.ConfirmCompletion(ctx, v.owner(), b.now())
	if err != nil {
		return b.replyError(v, err)
	}
	log.Printf("[info] task completed id=%d user=%d", task.ID, v.owner())
	if err := b.sendText(v, fmt.Sprintf("✅ Task «%s» marked as completed.", escape(task.Title))); err != nil {
		return err
	}
	return b.sendTaskLog(ctx, v)
}

func formatTask(task model.Task, now time.Time) string {
	var line strings.Builder
	switch task.Status {
	case model.TaskPending:
		icon := iconDefault
		switch {
		case task.Overdue(now):
			icon = iconOverdue
		case task.DueSoon(now):
			icon = iconDue
		}
		line.WriteString(fmt.Sprintf("%s <b>#%d</b> %s\n", icon, task.ID, escape(task.Title)))
		var meta []string
		if task.AssignedBy != "" {
			meta = append(meta, "by "+escape(task.AssignedBy))
		}
		if task.DueDate != nil {
			meta = append(meta, "due "+task.DueDate.Format("2006-01-02"))
		}
		if task.Priority != "" {
			meta = append(meta, string(task.Priority))
		}
		if len(meta) > 0 {
			line.WriteString("    " + strings.Join(meta, " · ") + "\n")
		}
	case model.TaskCompleted:
		line.WriteString(fmt.Sprintf("⌛ <b>#%d</b> %s\n", task.ID, escape(task.Title)))
		if task.CompletedDate != nil {
			line.WriteString("    completed " + task.CompletedDate.Format("2006-01-02") + " · awaiting approval\n")
		}
	case model.TaskApproved:
		line.WriteString(fmt.Sprintf("🏅 <b>#%d</b> %s\n", task.ID, escape(task.Title)))
		if task.ApprovedDate != nil {
			line.WriteString("    approved " + task.ApprovedDate.Format("2006-01-02") + "\n")
		}
	}
	return line.String()
}
