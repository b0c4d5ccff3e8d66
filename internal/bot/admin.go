package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"perf-manage/internal/dashboard"
	"perf-manage/internal/excel"
	"perf-manage/internal/model"
)

func (b *Bot) sendKPIList(ctx context.Context, v viewer) error {
	kpis, err := b.svc.Catalog.List(ctx, v.owner())
	if err != nil {
		return b.replyError(v, err)
	}

	var builder strings.Builder
	builder.WriteString("⚙️ <b>Manage KPIs</b>\n\n")
	if len(kpis) == 0 {
		builder.WriteString("No KPIs defined.\n")
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, k := range kpis {
		dot := dashboard.Dot(dashboard.ToneSuccess)
		if k.Status == model.KPIInactive {
			dot = "⚪"
		}
		builder.WriteString(fmt.Sprintf("%s <b>%s</b> · %s · %s\n", dot, escape(k.Name), escape(string(k.Role)), k.Status))
		if k.Description != "" {
			builder.WriteString(fmt.Sprintf("    <i>%s</i>\n", escape(k.Description)))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+shortTitle(k.Name, 24), fmt.Sprintf("%s%d", cbKPIEditPrefix, k.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbKPIDelPrefix, k.ID)),
		))
	}
	builder.WriteString("\nSend an .xlsx file with the columns Name, Description, Role, Status to import KPIs.")
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Add New KPI", cbKPIAdd),
		tgbotapi.NewInlineKeyboardButtonData("📤 Export", cbExportPrefix+"kpis"),
	))
	return b.sendWithReplyMarkup(v.chatID, strings.TrimSpace(builder.String()), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// startKPIDialog opens the add dialog for id 0, the edit dialog otherwise.
func (b *Bot) startKPIDialog(ctx context.Context, v viewer, id int64) error {
	if ok, err := b.allowed(v, resolve("kpis", model.RoleAdmin)); !ok {
		return err
	}
	b.resetDialogs(v)
	draft := b.svc.Catalog.AddNew()
	if id != 0 {
		var err error
		draft, err = b.svc.Catalog.Edit(ctx, v.owner(), id)
		if err != nil {
			return b.replyError(v, err)
		}
	}
	b.setConversation(v.tgID, &conversationState{stage: stageKPIName, kpi: draft})
	if draft.IsNew() {
		return b.sendWithReplyMarkup(v.chatID, "🆕 <b>Add New KPI</b>\nKPI name?", cancelKeyboard())
	}
	return b.sendWithReplyMarkup(v.chatID,
		fmt.Sprintf("✏️ <b>Edit KPI</b>\nCurrent name: <b>%s</b>\nSend a new name or Skip.", escape(draft.Name)), skipKeyboard())
}

func (b *Bot) kpiStep(ctx context.Context, v viewer, state *conversationState, text string) error {
	skip := isSkipInput(text)
	switch state.stage {
	case stageKPIName:
		if !skip {
			state.kpi.Name = text
		}
		state.stage = stageKPIDescription
		return b.sendWithReplyMarkup(v.chatID, "📝 Description? (Skip keeps the current one)", skipKeyboard())
	case stageKPIDescription:
		if !skip {
			state.kpi.Description = text
		}
		state.stage = stageKPIRole
		return b.sendWithReplyMarkup(v.chatID, fmt.Sprintf("👤 Target role? (now %s)", escape(string(state.kpi.Role))), kpiRoleKeyboard())
	case stageKPIRole:
		if !skip {
			role, ok := matchKPIRole(text)
			if !ok {
				return b.sendWithReplyMarkup(v.chatID, "Pick one of the listed roles.", kpiRoleKeyboard())
			}
			state.kpi.Role = role
		}
		state.stage = stageKPIStatus
		return b.sendWithReplyMarkup(v.chatID, fmt.Sprintf("🔘 Status? (now %s)", state.kpi.Status), kpiStatusKeyboard())
	case stageKPIStatus:
		if !skip {
			status, ok := matchKPIStatus(text)
			if !ok {
				return b.sendWithReplyMarkup(v.chatID, "Pick Active or Inactive.", kpiStatusKeyboard())
			}
			state.kpi.Status = status
		}
		return b.saveKPI(ctx, v, state)
	}
	return nil
}

func (b *Bot) saveKPI(ctx context.Context, v viewer, state *conversationState) error {
	kpi, notice, err := b.svc.Catalog.Save(ctx, v.owner(), state.kpi, b.now())
	if err != nil {
		// The dialog stays open on a failed save; start over from the name.
		state.stage = stageKPIName
		if sendErr := b.replyError(v, err); sendErr != nil {
			return sendErr
		}
		return b.sendWithReplyMarkup(v.chatID, "KPI name?", cancelKeyboard())
	}
	b.clearConversation(v.tgID)
	log.Printf("[info] kpi saved id=%d user=%d", kpi.ID, v.owner())
	if err := b.sendNotice(v, notice); err != nil {
		return err
	}
	return b.sendKPIList(ctx, v)
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, v viewer, id int64) error {
	if ok, err := b.allowed(v, resolve("kpis", model.RoleAdmin)); !ok {
		return err
	}
	kpi, err := b.svc.Catalog.RequestDelete(ctx, v.owner(), id)
	if err != nil {
		return b.replyError(v, err)
	}
	b.setConfirmation(v.tgID, actionDeleteKPI)
	text := fmt.Sprintf("Delete KPI «%s»? This cannot be undone.", escape(kpi.Name))
	return b.sendWithReplyMarkup(v.chatID, text, confirmKeyboard())
}

func (b *Bot) deleteKPIAndRefresh(ctx context.Context, v viewer) error {
	kpi, notice, err := b.svc.Catalog.ConfirmDelete(ctx, v.owner())
	if err != nil {
		return b.replyError(v, err)
	}
	log.Printf("[info] kpi deleted id=%d user=%d", kpi.ID, v.owner())
	if err := b.sendNotice(v, notice); err != nil {
		return err
	}
	return b.sendKPIList(ctx, v)
}

func (b *Bot) sendExportChoice(v viewer) error {
	markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⚙️ KPI catalog", cbExportPrefix+"kpis"),
		tgbotapi.NewInlineKeyboardButtonData("👥 Team KPIs", cbExportPrefix+"team"),
	))
	return b.sendWithReplyMarkup(v.chatID, "📤 <b>Export</b>\nWhat should go into the workbook?", markup)
}

func (b *Bot) sendExport(ctx context.Context, v viewer, what string) error {
	if what != "kpis" && what != "team" {
		return b.sendText(v, "Export either <code>kpis</code> or <code>team</code>.")
	}
	path := excel.TempPath(what, b.now())
	defer os.Remove(path)

	var caption string
	if what == "kpis" {
		kpis, err := b.svc.Catalog.List(ctx, v.owner())
		if err != nil {
			return b.replyError(v, err)
		}
		if err := excel.WriteKPIs(kpis, path); err != nil {
			return b.replyError(v, err)
		}
		caption = fmt.Sprintf("⚙️ KPI catalog, %d rows", len(kpis))
	} else {
		if err := excel.WriteTeam(dashboard.TeamKPIs(), path); err != nil {
			return b.replyError(v, err)
		}
		caption = "👥 Team KPI performance"
	}

	doc := tgbotapi.NewDocument(v.chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		return b.sendText(v, fmt.Sprintf("Could not send the file: %s", escape(err.Error())))
	}
	log.Printf("[info] export %s user=%d", what, v.owner())
	return nil
}

// handleImport reads KPI rows from an uploaded workbook and saves each one.
func (b *Bot) handleImport(ctx context.Context, v viewer, doc *tgbotapi.Document) error {
	if ok, err := b.allowed(v, resolve("kpis", model.RoleAdmin)); !ok {
		return err
	}
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".xlsx") {
		return b.sendText(v, "❌ The file must be an .xlsx workbook.")
	}

	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return b.sendText(v, fmt.Sprintf("❌ Could not get the file: %s", escape(err.Error())))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return b.sendText(v, fmt.Sprintf("❌ Download failed: %s", escape(err.Error())))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return b.sendText(v, fmt.Sprintf("❌ Download failed: %s", escape(resp.Status)))
	}

	drafts, err := excel.ReadKPIs(resp.Body)
	if err != nil {
		return b.sendText(v, fmt.Sprintf("❌ Could not read the workbook: %s", escape(err.Error())))
	}
	added, skipped, notice, err := b.svc.Catalog.Import(ctx, v.owner(), drafts, b.now())
	if err != nil {
		return b.replyError(v, err)
	}
	log.Printf("[info] kpi import user=%d added=%d skipped=%d", v.owner(), len(added), skipped)

	if err := b.sendNotice(v, notice); err != nil {
		return err
	}
	return b.sendKPIList(ctx, v)
}

func kpiRoleKeyboard() tgbotapi.ReplyKeyboardMarkup {
	opts := make([]string, 0, len(model.KPIRoles))
	for _, r := range model.KPIRoles {
		opts = append(opts, string(r))
	}
	return choiceKeyboard(true, opts...)
}

func kpiStatusKeyboard() tgbotapi.ReplyKeyboardMarkup {
	opts := make([]string, 0, len(model.KPIStatuses))
	for _, s := range model.KPIStatuses {
		opts = append(opts, string(s))
	}
	return choiceKeyboard(true, opts...)
}

func matchKPIRole(text string) (model.KPIRole, bool) {
	for _, r := range model.KPIRoles {
		if strings.EqualFold(text, string(r)) {
			return r, true
		}
	}
	return "", false
}

func matchKPIStatus(text string) (model.KPIStatus, bool) {
	for _, s := range model.KPIStatuses {
		if strings.EqualFold(text, string(s)) {
			return s, true
		}
	}
	return "", false
}
