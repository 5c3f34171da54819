package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod

	MediaDir     string // 商品画像の保存先ディレクトリ
	MediaBaseURL string // 画像URLのプレフィックス
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GoEnv:        getenv("GO_ENV", "dev"),
		MediaDir:     getenv("MEDIA_DIR", "./media"),
		MediaBaseURL: getenv("MEDIA_BASE_URL", "/media"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
