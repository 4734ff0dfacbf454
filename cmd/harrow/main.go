package main

import (
	"encoding/hex"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"

	"harrow/internal/auth"
	"harrow/internal/config"
	"harrow/internal/database"
	"harrow/internal/web"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	var dsn = flag.String("dsn", cfg.DSN, "The database connection string.")
	flag.Parse()
	cfg.DSN = *dsn

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}

	// Without a configured key, sessions use a fresh random key and do
	// not survive a restart. The nonce registry is in-process anyway,
	// so a restart already signs everyone out.
	if cfg.SessionKey == "" {
		cfg.SessionKey = hex.EncodeToString(securecookie.GenerateRandomKey(32))
	}
	if err := auth.InitSessionStore(cfg.SessionKey); err != nil {
		log.Fatal(err)
	}

	handleAdminCommands(db)

	if len(flag.Args()) > 0 && flag.Arg(0) == "admin" {
		os.Exit(0)
	}

	server, err := web.NewServer(db, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("starting server", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		log.Fatal(err)
	}
}
