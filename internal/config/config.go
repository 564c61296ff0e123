package config

import (
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string        // JWT署名シークレット
	AccessTTL time.Duration // アクセストークンの有効期限

	BcryptCost int // パスワードハッシュのコスト（最低10）

	GoEnv string // dev/prod
}

// Loadは環境変数から設定を読む。未設定は開発用デフォルト。
func Load() Config {
	cfg := Config{
		Port:       getenv("PORT", "8080"),
		JWTSecret:  getenv("JWT_SECRET", "dev_secret_change_me"),
		AccessTTL:  15 * time.Minute,
		BcryptCost: atoi(getenv("BCRYPT_COST", "10")),
		GoEnv:      getenv("GO_ENV", "dev"),
	}

	if v := os.Getenv("ACCESS_TTL_MINUTES"); v != "" {
		if m := atoi(v); m > 0 {
			cfg.AccessTTL = time.Duration(m) * time.Minute
		}
	}

	//コスト下限は10（bcrypt 10ラウンド相当を下回らせない）
	if cfg.BcryptCost < 10 {
		cfg.BcryptCost = 10
	}

	return cfg
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}
