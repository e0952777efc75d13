package firebase

import (
	"Ripple/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// App 持有初始化后的 Firebase 应用及其客户端
type App struct {
	FirebaseApp *firebase.App
	Messaging   *messaging.Client
	Auth        *auth.Client
}

// InitFirebase 初始化 FCM 推送与 ID Token 校验客户端
func InitFirebase(ctx context.Context, cfg config.FirebaseConfig) (*App, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(cfg.CredentialsFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", cfg.CredentialsFile)
	}

	var appCfg *firebase.Config
	if cfg.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appCfg, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Info("Firebase messaging and auth clients initialized")
	return &App{FirebaseApp: app, Messaging: msgClient, Auth: authClient}, nil
}
