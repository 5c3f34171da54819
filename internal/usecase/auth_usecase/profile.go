package auth

import (
	"context"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/validator"
)

// 任意項目だけ更新する。nilは据え置き。
type UpdateProfileInput struct {
	Phone    *string
	Password *string
}

type ProfileUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
}

func NewProfileUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	clock Clock,
) *ProfileUsecase {
	return &ProfileUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
	}
}

func (u *ProfileUsecase) Get(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if user == nil {
		return model.User{}, repository.ErrNotFound
	}
	return *user, nil
}

func (u *ProfileUsecase) Update(ctx context.Context, userID int64, in UpdateProfileInput) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if user == nil {
		return model.User{}, repository.ErrNotFound
	}

	if in.Phone != nil {
		phone := validator.NormalizePhone(*in.Phone)
		if *in.Phone != "" && phone == "" {
			return model.User{}, ErrInvalidPhone
		}
		user.Phone = phone
	}

	if in.Password != nil {
		if len(*in.Password) < 8 {
			return model.User{}, ErrPasswordTooShort
		}
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return model.User{}, err
		}
		user.PasswordHash = hashed
	}

	user.UpdatedAt = u.clock.Now()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return model.User{}, err
	}
	return *user, nil
}
