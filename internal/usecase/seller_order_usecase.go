package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 出品者側の注文ステータス管理。
type SellerOrderUsecase struct {
	tx repo.TransactionManager
}

func NewSellerOrderUsecase(tx repo.TransactionManager) *SellerOrderUsecase {
	return &SellerOrderUsecase{tx: tx}
}

type UpdateOrderStatusInput struct {
	Status string
}

// ステータス更新。前進のみ（new → processing → delivered）。
// 変更は監査ログに残す。
func (u *SellerOrderUsecase) UpdateStatus(ctx context.Context, actorUserID int64, orderID int64, in UpdateOrderStatusInput) error {
	if actorUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !model.IsValidOrderStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}
		if !o.Status.CanTransitionTo(newStatus) {
			return NewHTTPError(http.StatusBadRequest, "invalid status transition")
		}

		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + beforeStatus + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}
