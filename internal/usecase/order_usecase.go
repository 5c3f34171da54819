package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/validator"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderItemOutput struct {
	ProductID *int64 `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	//注文時点の単価スナップショット
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	BuyerID         int64             `json:"buyer_id"`
	DeliveryAddress string            `json:"delivery_address"`
	Phone           string            `json:"phone"`
	Status          string            `json:"status"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// 自分の注文一覧（新しい順）。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, buyerID int64) ([]OrderOutput, error) {
	if buyerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByBuyerID(ctx, buyerID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, buyerID int64, orderID int64) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.BuyerID != buyerID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ゲストの注文照会。認証なし・電話番号の完全一致のみ。
// ゲストにとって唯一の照合キーなので、これは意図した仕様。
func (u *OrderUsecase) LookupByPhone(ctx context.Context, rawPhone string) ([]OrderOutput, error) {
	phone := validator.NormalizePhone(rawPhone)
	if phone == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid phone")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByPhone(ctx, phone)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Size:      it.Size,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		BuyerID:         o.BuyerID,
		DeliveryAddress: o.DeliveryAddress,
		Phone:           o.Phone,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
