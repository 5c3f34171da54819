package repository

import (
	"app/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//ユーザー名から1件取得する。無ければ(nil, nil)。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	//正規化済み電話番号から1件取得する。ゲスト決済の照合に使う。無ければ(nil, nil)。
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}
