// Package main is the entry point for the compliance binder server.
//
// Configuration comes from environment variables:
//
//	PORT                 listen port (default 8080)
//	DB_PATH              SQLite file (default data/binder.db)
//	JWT_SECRET           token signing secret, required, >= 16 chars
//	STATIC_DIR           optional directory served under /static/
//	BLOB_BACKEND         "fs" (default) or "s3"
//	UPLOAD_DIR           fs backend root (default data/uploads)
//	S3_BUCKET            s3 backend bucket, required when BLOB_BACKEND=s3
//	S3_REGION            s3 region (default us-east-1)
//	S3_ENDPOINT          optional custom endpoint (MinIO etc.)
//	S3_ACCESS_KEY        optional static credentials; the default AWS
//	S3_SECRET_KEY        credential chain is used when unset
//	GITHUB_CLIENT_ID     optional GitHub OAuth app credentials; GitHub
//	GITHUB_CLIENT_SECRET login stays disabled when unset
//	GITHUB_CALLBACK_URL  defaults to http://localhost:PORT/auth/github/callback
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/compliance-binder/internal/blob"
	"github.com/sakif/compliance-binder/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/binder.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Error("failed to create database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	blobs, err := buildBlobStore(logger)
	if err != nil {
		logger.Error("failed to set up blob storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	githubCallbackURL := os.Getenv("GITHUB_CALLBACK_URL")
	if githubCallbackURL == "" {
		githubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", port)
	}

	cfg := server.Config{
		Port:               port,
		DBPath:             dbPath,
		StaticDir:          os.Getenv("STATIC_DIR"),
		JWTSecret:          jwtSecret,
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  githubCallbackURL,
	}

	srv, err := server.New(cfg, logger, blobs)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildBlobStore picks the document storage backend from BLOB_BACKEND.
func buildBlobStore(logger *slog.Logger) (blob.Store, error) {
	switch backend := os.Getenv("BLOB_BACKEND"); backend {
	case "", "fs":
		root := os.Getenv("UPLOAD_DIR")
		if root == "" {
			root = "data/uploads"
		}
		logger.Info("using filesystem blob storage", slog.String("root", root))
		return blob.NewFileStore(root)

	case "s3":
		bucket := os.Getenv("S3_BUCKET")
		if bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when BLOB_BACKEND=s3")
		}
		region := os.Getenv("S3_REGION")
		if region == "" {
			region = "us-east-1"
		}
		logger.Info("using S3 blob storage",
			slog.String("bucket", bucket),
			slog.String("region", region),
		)
		return blob.NewS3Store(context.Background(), blob.S3Config{
			Bucket:    bucket,
			Region:    region,
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		})

	default:
		return nil, fmt.Errorf("unknown BLOB_BACKEND %q (want fs or s3)", backend)
	}
}
