// Package audit records a trail of mutating pipeline operations.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
)

// Service writes audit entries through the configured repository. A nil
// repository disables the trail; logging failures never propagate into the
// pipelines that triggered them.
type Service struct {
	repo ports.AuditRepository
}

func NewService(repo ports.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Log appends one entry to the trail. Errors are logged and swallowed.
func (s *Service) Log(ctx context.Context, action domain.AuditAction, target, details string) {
	if s == nil || s.repo == nil {
		return
	}
	entry := domain.AuditEntry{
		Timestamp: time.Now(),
		Action:    action,
		Target:    target,
		Details:   details,
	}
	if err := s.repo.Save(ctx, entry); err != nil {
		slog.Warn("audit entry dropped", "action", action, "target", target, "error", err)
	}
}

// Recent returns up to limit entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if s == nil || s.repo == nil {
		return []domain.AuditEntry{}, nil
	}
	return s.repo.List(ctx, limit)
}
