// Package usecase implements business logic for recording authentication audit logs.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/romaneiohq/romaneio/internal/auditlog/domain"
	apperrors "github.com/romaneiohq/romaneio/internal/errors"
)

// AuditLogRepository defines audit log persistence operations.
type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *domain.AuditLog) error
	List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error)
}

// UseCase defines the interface for audit log business logic operations.
type UseCase interface {
	Record(ctx context.Context, requestID uuid.UUID, userID *uuid.UUID, event domain.Event, remoteAddr string, metadata map[string]any) error
	List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error)
}

// auditLogUseCase implements UseCase.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
}

// NewAuditLogUseCase creates a new audit log use case.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository) UseCase {
	return &auditLogUseCase{auditLogRepo: auditLogRepo}
}

// Record persists an authentication event. Generates a UUIDv7 identifier and
// timestamp. userID is nil for failed logins; metadata is optional.
func (a *auditLogUseCase) Record(
	ctx context.Context,
	requestID uuid.UUID,
	userID *uuid.UUID,
	event domain.Event,
	remoteAddr string,
	metadata map[string]any,
) error {
	auditLog := &domain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  requestID,
		UserID:     userID,
		Event:      event,
		RemoteAddr: remoteAddr,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered newest first with pagination.
func (a *auditLogUseCase) List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	return auditLogs, nil
}
