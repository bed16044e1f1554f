package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rangkum.app/internal/auth"
	"rangkum.app/internal/avatar"
	"rangkum.app/internal/config"
	"rangkum.app/internal/content"
	"rangkum.app/internal/httpapi"
	"rangkum.app/internal/notify"
	"rangkum.app/internal/obs"
	"rangkum.app/internal/store/pg"
	"rangkum.app/internal/user"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()

	var (
		db            *sql.DB
		users         user.Store
		contentStore  content.Store
		notifications notify.Store
	)
	if cfg.PGDSN != "" {
		db, err = pg.Open(cfg.PGDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()
		users = user.NewPGStore(db)
		contentStore = content.NewPGStore(db)
		notifications = notify.NewPGStore(db)
		log.Printf("storage: postgres")
	} else {
		users = user.NewMemoryStore()
		contentStore = content.NewMemoryStore()
		notifications = notify.NewMemoryStore()
		log.Printf("storage: in-memory (set RANGKUM_PG_DSN for persistence)")
	}

	tokens, err := auth.NewTokens(cfg.AuthSecret, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	authenticator := auth.NewAuthenticator(tokens, users)

	avatars, err := avatar.NewManager(users, cfg.AvatarDir)
	if err != nil {
		log.Fatalf("avatar: %v", err)
	}

	fanout := notify.NewFanout(notifications)
	contentSvc := content.NewService(contentStore, fanout)

	api := httpapi.New(httpapi.Options{
		ReadyProbe:    httpapi.ReadyProbe{DB: db},
		Version:       version,
		Tokens:        tokens,
		Authenticator: authenticator,
		Users:         users,
		Content:       contentSvc,
		Notifications: notifications,
		Avatars:       avatars,
		UploadDir:     cfg.UploadDir,
		RateBurst:     cfg.RateBurst,
		RatePerSec:    cfg.RatePerSec,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("rangkum-api %s listening on %s", version, cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Printf("bye")
}
