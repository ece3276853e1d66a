package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DownloadFile describes one purchasable installer stored in the private
// downloads bucket.
type DownloadFile struct {
	Path        string
	Description string
	SizeMB      string
}

type Config struct {
	Port string
	Env  string

	GitHubClientID     string
	GitHubClientSecret string

	StripeWebhookSecret string

	ResendAPIKey string
	AdminAPIKey  string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Bucket          string

	DownloadFiles map[string]DownloadFile
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("APP_ENV", "development"),
		GitHubClientID:      os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret:  os.Getenv("GITHUB_CLIENT_SECRET"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		ResendAPIKey:        os.Getenv("RESEND_API_KEY"),
		AdminAPIKey:         os.Getenv("ADMIN_API_KEY"),
		R2AccountID:         os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:       os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:   os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2Bucket:            getEnv("R2_BUCKET", "arbinq-downloads"),
		DownloadFiles:       DefaultDownloadFiles(),
	}

	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" ||
		cfg.StripeWebhookSecret == "" || cfg.ResendAPIKey == "" || cfg.AdminAPIKey == "" ||
		cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

// DefaultDownloadFiles returns the fixed map of purchasable SimpleSight
// installers, keyed by the file key used in download URLs.
func DefaultDownloadFiles() map[string]DownloadFile {
	return map[string]DownloadFile{
		"server": {
			Path:        "simplesight/server/SimpleSightServerInstaller.exe",
			Description: "SimpleSight Server Installer",
			SizeMB:      "~130MB",
		},
		"agent": {
			Path:        "simplesight/agent/SimpleSightInstaller.exe",
			Description: "SimpleSight Agent Installer",
			SizeMB:      "~20-25MB",
		},
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
