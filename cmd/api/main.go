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

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/config"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/handler"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/ai"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/chat"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/mood"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/upload"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/web"
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

	personaStore := persona.NewMemoryStore(persona.Seed())
	chatService := chat.NewService()
	stager := upload.NewStager(cfg.Upload.Dir)

	manager := ai.NewManager(personaStore, cfg.AI)
	if err := manager.Bootstrap(ctx); err != nil {
		log.Printf("warning: failed to initialize recovery squad: %v", err)
		log.Println("waiting for a Gemini API key via the credential endpoint")
	} else if manager.Current() == nil {
		log.Println("no GEMINI_API_KEY configured; waiting for the credential endpoint")
	} else {
		log.Println("recovery squad initialized from environment credential")
	}

	moodService := mood.NewService(manager, mood.Config{Enabled: cfg.AI.MoodLLM})
	if cfg.AI.MoodLLM {
		log.Println("mood classifier will use the chat model when available")
	}

	router := handler.NewRouter(personaStore, chatService, moodService, stager, manager, web.Assets)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Breakup Recovery Squad listening on %s", serverCfg.Addr)
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
