package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"perf-manage/internal/model"
	"perf-manage/internal/session"
)

// DigestService builds the periodic role summary sent to logged-in viewers.
type DigestService struct {
	tasks    *TaskLog
	approval *Approval
	catalog  *Catalog
}

func NewDigestService(tasks *TaskLog, approval *Approval, catalog *Catalog) *DigestService {
	return &DigestService{tasks: tasks, approval: approval, catalog: catalog}
}

// Summary renders the digest for one session as Telegram HTML.
func (s *DigestService) Summary(ctx context.Context, sess session.Session, now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString("📋 <b>Daily digest</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s · %s\n\n", now.Format("2006-01-02"), html.EscapeString(sess.Role.Label())))

	switch sess.Role {
	case model.RoleEmployee:
		return s.employee(ctx, &b, sess.UserID, now)
	case model.RoleHead:
		return s.head(ctx, &b, sess.UserID)
	case model.RoleAdmin:
		return s.admin(ctx, &b, sess.UserID)
	default:
		return "", fmt.Errorf("digest for role %q", sess.Role)
	}
}

func (s *DigestService) employee(ctx context.Context, b *strings.Builder, ownerID uint, now time.Time) (string, error) {
	pending, err := s.tasks.ListStatus(ctx, ownerID, model.TaskPending)
	if err != nil {
		return "", err
	}
	completed, err := s.tasks.Count(ctx, ownerID, model.TaskCompleted)
	if err != nil {
		return "", err
	}

	b.WriteString("🔥 <b>Pending tasks</b>\n")
	if len(pending) == 0 {
		b.WriteString("— nothing pending\n")
	}
	for _, t := range pending {
		icon := "🟢"
		due := ""
		switch {
		case t.Overdue(now):
			icon = "⚠️"
		case t.DueSoon(now):
			icon = "⏳"
		}
		if t.DueDate != nil {
			due = " · due " + t.DueDate.Format("2006-01-02")
		}
		b.WriteString(fmt.Sprintf("%s %s%s\n", icon, html.EscapeString(t.Title), due))
	}
	b.WriteString(fmt.Sprintf("\n⌛ Awaiting approval: %d\n", completed))
	return strings.TrimSpace(b.String()), nil
}

func (s *DigestService) head(ctx context.Context, b *strings.Builder, ownerID uint) (string, error) {
	pending, err := s.approval.ListStatus(ctx, ownerID, model.SubmissionPending)
	if err != nil {
		return "", err
	}
	b.WriteString(fmt.Sprintf("🗂 <b>Submissions to review: %d</b>\n", len(pending)))
	for _, sub := range pending {
		b.WriteString(fmt.Sprintf("• %s — %s\n", html.EscapeString(sub.User), html.EscapeString(sub.Description)))
	}
	return strings.TrimSpace(b.String()), nil
}

func (s *DigestService) admin(ctx context.Context, b *strings.Builder, ownerID uint) (string, error) {
	active, err := s.catalog.Count(ctx, ownerID, model.KPIActive)
	if err != nil {
		return "", err
	}
	inactive, err := s.catalog.Count(ctx, ownerID, model.KPIInactive)
	if err != nil {
		return "", err
	}
	b.WriteString(fmt.Sprintf("🎯 Active KPIs: <b>%d</b>\n💤 Inactive KPIs: %d\n", active, inactive))
	return strings.TrimSpace(b.String()), nil
}
