package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Fathima1123/mom-realtime/internal/config"
	"github.com/Fathima1123/mom-realtime/internal/handler"
	"github.com/Fathima1123/mom-realtime/internal/service/minutes"
	"github.com/Fathima1123/mom-realtime/internal/service/session"
	"github.com/Fathima1123/mom-realtime/internal/service/transcribe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	registry := session.NewRegistry()
	opener := transcribe.NewDeepgram(transcribe.Config{
		APIKey:   cfg.Transcribe.APIKey,
		Model:    cfg.Transcribe.Model,
		Language: cfg.Transcribe.Language,
	})
	engine := session.NewEngine(registry, opener)

	generator := minutes.NewService(cfg.Minutes.APIKey, minutes.Config{
		Model:       cfg.Minutes.Model,
		MaxTokens:   cfg.Minutes.MaxTokens,
		Temperature: cfg.Minutes.Temperature,
	})

	router := handler.NewRouter(engine, generator, handler.Options{
		StaticDir:   cfg.Server.StaticDir,
		IdleTimeout: cfg.Server.IdleTimeout,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("mom-realtime listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
