package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// バックエンドAPI設定
	API APIConfig

	// 一覧・フォームのUI挙動設定
	UI UIConfig
}

// APIConfig はプロダクトAPIへの接続設定
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// UIConfig は検索デバウンスやページングなどのUI挙動設定
type UIConfig struct {
	SearchDebounce      time.Duration // 検索入力のデバウンス間隔
	UniqueCheckDebounce time.Duration // ID重複チェックのデバウンス間隔
	ItemsPerPage        int           // 一覧の表示件数
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("PRODCAT_API_BASE_URL", "http://localhost:3002/bp"),
			Timeout: getEnvAsDuration("PRODCAT_API_TIMEOUT", 10*time.Second),
		},
		UI: UIConfig{
			SearchDebounce:      getEnvAsDuration("PRODCAT_SEARCH_DEBOUNCE", 300*time.Millisecond),
			UniqueCheckDebounce: getEnvAsDuration("PRODCAT_UNIQUE_CHECK_DEBOUNCE", 500*time.Millisecond),
			ItemsPerPage:        getEnvAsInt("PRODCAT_ITEMS_PER_PAGE", 5),
		},
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は環境変数をtime.Durationとして取得します
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
