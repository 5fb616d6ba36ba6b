package main

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/nfrund/accountctl/internal/accountd"
	"github.com/nfrund/accountctl/internal/config"
	"github.com/nfrund/accountctl/internal/logging"
)

func main() {
	logging.New()
	cfg := config.New()

	secret := cfg.SessionSecret
	if secret == "" {
		// Accounts are in-memory, so an ephemeral signing key is fine for a
		// development instance. Set SESSION_SECRET to keep cookies valid
		// across restarts anyway.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			slog.Error("failed to generate session secret", "error", err)
			return
		}
		secret = hex.EncodeToString(buf)
		slog.Warn("SESSION_SECRET not set, using an ephemeral key")
	}

	srv := accountd.New(secret)
	slog.Info("account service listening", "addr", cfg.ListenAddr)
	srv.Start(cfg.ListenAddr)
}
