package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username string
	Password string
}

// handlerがJSONにして返す
type LoginOutput struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
}

// ユーザー名またはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン実行。候補が見つからない場合も同じエラーを返す（列挙対策）。
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return out, ErrInvalidCredentials
	}

	user, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return out, err
	}
	if user == nil {
		return out, ErrInvalidCredentials
	}

	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return out, ErrInvalidCredentials
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return out, err
	}

	out.User = *user
	out.AccessToken = token
	out.ExpiresIn = int(expiresAt.Sub(now).Seconds())
	return out, nil
}
