package main

import (
	"context"
	"os"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/seed"
	"app/internal/server"
	"app/internal/storage"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くても動く（本番は環境変数で渡す）
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sessionRepo := infraRepo.NewSessionGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//初期カテゴリ（冪等）
	if err := seed.Categories(context.Background(), categoryRepo); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed categories")
	}

	//usecaseに渡す部品
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := newJWTIssuer(cfg.JWTSecret)

	//画像の保存先
	images, err := storage.NewLocalImageStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init image store")
	}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	profileUC := auth.NewProfileUsecase(userRepo, hasher, clock)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, hasher, issuer, clock)
	orderUC := usecase.NewOrderUsecase(txManager)
	sellerOrderUC := usecase.NewSellerOrderUsecase(txManager)
	productUC := usecase.NewProductUsecase(txManager, productRepo, categoryRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:    handler.NewAuthHandler(registerUC, loginUC, profileUC),
		Product: handler.NewProductHandler(productUC),
		Cart:    handler.NewCartHandler(cartUC),
		Order:   handler.NewOrderHandler(checkoutUC, orderUC),
		Master:  handler.NewMasterHandler(productUC, sellerOrderUC, images),
	}

	//Server起動
	logger.Info().Str("port", cfg.Port).Msg("starting api server")
	if err := server.Start(cfg, &logger, sessionRepo, handlers); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
