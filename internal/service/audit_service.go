package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/student-crm-api/internal/models"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
)

type auditRepository interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLogEntry, int, error)
}

// AuditService exposes the audit log to the admin view. The log itself is
// append-only; appends happen in the ledger service.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// List returns audit entries, most recent first.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLogEntry, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list audit logs")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 100
	}
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
