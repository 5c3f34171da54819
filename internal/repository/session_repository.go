package repository

import (
	"app/internal/domain/model"
	"context"
	"time"
)

// 匿名セッションの保存・取得・延長
type SessionRepository interface {
	Create(ctx context.Context, s model.Session) error
	FindByToken(ctx context.Context, token string) (model.Session, error)
	//有効期限を延ばす
	Touch(ctx context.Context, token string, expiresAt time.Time) error
}
