package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterUserInput struct {
	Username string
	Password string
	Phone    string
	//出品者アカウントとして登録するか
	Master bool
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User
}

var (
	// 入力が不正
	ErrUsernameRequired = errors.New("username required")
	ErrPasswordTooShort = errors.New("password too short")
	ErrInvalidPhone     = errors.New("invalid phone")

	// 競合
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return out, ErrUsernameRequired
	}

	// password の長さチェック（最小8文字）
	if len(in.Password) < 8 {
		return out, ErrPasswordTooShort
	}

	// 電話番号は正規化して保存する
	phone := validator.NormalizePhone(in.Phone)
	if in.Phone != "" && phone == "" {
		return out, ErrInvalidPhone
	}

	// username重複チェック
	existing, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return out, err
	}
	if existing != nil {
		return out, ErrUsernameAlreadyExists
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	role := model.RoleBuyer
	if in.Master {
		role = model.RoleMaster
	}

	now := u.clock.Now()
	user := &model.User{
		Username:     username,
		PasswordHash: hashed,
		Phone:        phone,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return out, err
	}

	out.User = *user
	return out, nil
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
