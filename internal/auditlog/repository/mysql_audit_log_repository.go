package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/romaneiohq/romaneio/internal/auditlog/domain"
	"github.com/romaneiohq/romaneio/internal/database"
	apperrors "github.com/romaneiohq/romaneio/internal/errors"
)

// MySQLAuditLogRepository implements AuditLog persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}

// Create inserts a new AuditLog. Handles nil metadata and nil user as NULL.
func (m *MySQLAuditLogRepository) Create(ctx context.Context, auditLog *domain.AuditLog) error {
	querier := database.GetTx(ctx, m.db)

	var metadataJSON []byte
	var err error
	if auditLog.Metadata != nil {
		metadataJSON, err = json.Marshal(auditLog.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log metadata")
		}
	}

	id, err := auditLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log id")
	}

	requestID, err := auditLog.RequestID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal request id")
	}

	var userID []byte
	if auditLog.UserID != nil {
		userID, err = auditLog.UserID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal user id")
		}
	}

	query := `INSERT INTO audit_logs (id, request_id, user_id, event, remote_addr, metadata, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		requestID,
		userID,
		string(auditLog.Event),
		auditLog.RemoteAddr,
		metadataJSON,
		auditLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by ID descending (newest first) with
// pagination. Returns an empty slice if no audit logs match.
func (m *MySQLAuditLogRepository) List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, user_id, event, remote_addr, metadata, created_at
			  FROM audit_logs ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() { _ = rows.Close() }()

	auditLogs := []*domain.AuditLog{}
	for rows.Next() {
		var auditLog domain.AuditLog
		var event string
		var idBytes, requestIDBytes, userIDBytes, metadataJSON []byte

		err := rows.Scan(
			&idBytes,
			&requestIDBytes,
			&userIDBytes,
			&event,
			&auditLog.RemoteAddr,
			&metadataJSON,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		if err := auditLog.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log id")
		}
		if err := auditLog.RequestID.UnmarshalBinary(requestIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal request id")
		}
		if userIDBytes != nil {
			var userID uuid.UUID
			if err := userID.UnmarshalBinary(userIDBytes); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal user id")
			}
			auditLog.UserID = &userID
		}

		auditLog.Event = domain.Event(event)
		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &auditLog.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log metadata")
			}
		}

		auditLogs = append(auditLogs, &auditLog)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}
