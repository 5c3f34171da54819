package repository

import (
	"context"

	"app/internal/domain/model"
)

type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error
	ListByResource(ctx context.Context, resourceType model.AuditResourceType, resourceID int64) ([]model.AuditLog, error)
}
