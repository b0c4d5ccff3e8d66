package bot

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"perf-manage/internal/model"
	"perf-manage/internal/service"
)

const (
	cbLoginPrefix    = "login:"
	cbTabPrefix      = "tab:"
	cbCompletePrefix = "complete:"
	cbFilterPrefix   = "filter:"
	cbApprovePrefix  = "approve:"
	cbRejectPrefix   = "reject:"
	cbMemberPrefix   = "member:"
	cbAssignSubmit   = "assign:submit"
	cbKPIAdd         = "kpi:add"
	cbKPIEditPrefix  = "kpi:edit:"
	cbKPIDelPrefix   = "kpi:delete:"
	cbExportPrefix   = "export:"
)

const (
	btnSkip         = "⏭️ Skip"
	btnConfirm      = "✅ Confirm"
	btnCancel       = "↩️ Cancel"
	btnCancelDialog = "⏪ Stop input"
	iconDefault     = "🟢"
	iconDue         = "⏳"
	iconOverdue     = "⚠️"
)

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// menuKeyboard is the persistent reply keyboard of a role shell; logged-out
// viewers only get login and help.
func menuKeyboard(role model.Role) tgbotapi.ReplyKeyboardMarkup {
	var buttons []tgbotapi.KeyboardButton
	for _, r := range menuRoutes(role) {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(r.Label))
	}
	if role == "" {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(resolve("login", "").Label))
	} else {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(resolve("logout", "").Label))
	}
	buttons = append(buttons, tgbotapi.NewKeyboardButton(resolve("help", "").Label))

	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(buttons); i += 2 {
		end := i + 2
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons[i:end]...))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// choiceKeyboard offers a fixed set of answers, one per row, with an optional skip.
func choiceKeyboard(skip bool, options ...string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, o := range options {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(o)))
	}
	last := []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnCancelDialog)}
	if skip {
		last = append([]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnSkip)}, last...)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(last...))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func loginKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, r := range model.Roles {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(r.Label(), cbLoginPrefix+string(r)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// tabRow renders one button per option, marking the active one.
func tabRow(prefix, active string, options ...string) []tgbotapi.InlineKeyboardButton {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, o := range options {
		label := o
		if o == active {
			label = "• " + o + " •"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, prefix+o))
	}
	return row
}

func taskTabRow(active model.TaskStatus) []tgbotapi.InlineKeyboardButton {
	opts := make([]string, 0, len(model.TaskTabs))
	for _, t := range model.TaskTabs {
		opts = append(opts, string(t))
	}
	return tabRow(cbTabPrefix, string(active), opts...)
}

func submissionFilterRow(active model.SubmissionStatus) []tgbotapi.InlineKeyboardButton {
	opts := make([]string, 0, len(model.SubmissionFilters))
	for _, f := range model.SubmissionFilters {
		opts = append(opts, string(f))
	}
	return tabRow(cbFilterPrefix, string(active), opts...)
}

func memberKeyboard(members []model.TeamMember, form service.AssignForm) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range members {
		mark := "⬜"
		if form.Selected(m.ID) {
			mark = "☑️"
		}
		label := fmt.Sprintf("%s %s · %s", mark, m.Name, m.Title)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", cbMemberPrefix, m.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📨 Assign Task", cbAssignSubmit),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel" || value == "no"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "stop"
}

func escape(s string) string {
	return html.EscapeString(s)
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
