package service

import (
	"context"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"go.uber.org/zap"
)

// AuditService keeps the admin activity trail.
type AuditService struct {
	store  store.AuditStore
	logger *zap.Logger
}

func NewAuditService(st store.AuditStore, logger *zap.Logger) *AuditService {
	return &AuditService{store: st, logger: logger}
}

// Record appends one entry. Best effort: a failed write is logged and never
// fails the admin action it describes.
func (s *AuditService) Record(ctx context.Context, username, action, details string) {
	entry := &model.AuditLog{Username: username, Action: action, Details: details}
	if err := s.store.AppendAuditLog(ctx, entry); err != nil {
		s.logger.Error("audit log write failed",
			zap.String("action", action), zap.Error(err))
	}
}

// List returns the trail newest first.
func (s *AuditService) List(ctx context.Context) ([]model.AuditLog, error) {
	return s.store.ListAuditLogs(ctx)
}
