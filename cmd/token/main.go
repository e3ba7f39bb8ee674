package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/invoicing/backend/internal/infrastructure/auth"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	var (
		subject string
		scopes  string
		ttl     time.Duration
	)

	flag.StringVar(&subject, "subject", "", "Client the token is issued to (required)")
	flag.StringVar(&scopes, "scopes", auth.ScopeInvoicesRead+","+auth.ScopeInvoicesWrite, "Comma-separated scopes")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime, 0 uses auth.token_expiration")
	flag.Parse()

	log, err := logger.New(logger.CLIConfig("info", "stderr"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	var granted []string
	for _, s := range strings.Split(scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			granted = append(granted, s)
		}
	}

	token, expiresAt, err := auth.NewJWTService(cfg.Auth).GenerateToken(subject, granted, ttl)
	if err != nil {
		log.Fatal("Failed to generate token", zap.Error(err))
	}

	log.Info("Token issued",
		zap.String("subject", subject),
		zap.Strings("scopes", granted),
		zap.Time("expires_at", expiresAt),
	)
	fmt.Println(token)
}
