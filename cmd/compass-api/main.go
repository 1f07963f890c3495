package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/PabloGalante/compass-agent/internal/adapters/http"
	"github.com/PabloGalante/compass-agent/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/compass-agent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/compass-agent/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/compass-agent/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/compass-agent/internal/app/assistant"
	"github.com/PabloGalante/compass-agent/internal/app/completion"
	"github.com/PabloGalante/compass-agent/internal/app/planner"
	"github.com/PabloGalante/compass-agent/internal/app/statestore"
	"github.com/PabloGalante/compass-agent/internal/config"
	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/observability"
)

func main() {
	if err := run(); err != nil {
		observability.Logger().Fatal().Err(err).Msg("compass-api stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log, logCloser := observability.Setup(observability.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// LLM: mock or Gemini (API key or Vertex)
	var completer domain.TextCompleter
	switch cfg.LLM.Provider {
	case "mock":
		log.Info().Msg("using mock LLM")
		completer = llm.NewMockLLM()
	default:
		log.Info().Str("backend", cfg.LLM.Backend).Msg("using Gemini LLM")
		completer, err = llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Backend:  llm.Backend(cfg.LLM.Backend),
			APIKey:   cfg.LLM.APIKey,
			Project:  cfg.GCP.Project,
			Location: cfg.GCP.Location,
			BaseURL:  cfg.LLM.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("initializing gemini client: %w", err)
		}
	}

	store, storeCloser, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer storeCloser.Close()

	tokens, err := cfg.Auth.TokenTable()
	if err != nil {
		return err
	}

	handler := httpadapter.NewServer(
		planner.NewService(completion.NewChain(completer, cfg.LLM.PlanModels, cfg.LLM.Timeout)),
		assistant.NewService(completion.NewChain(completer, cfg.LLM.ChatModels, cfg.LLM.Timeout)),
		statestore.NewService(store),
		httpadapter.NewTokenAuthenticator(tokens, cfg.Auth.TrustUserHeader),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("mode", string(cfg.Mode)).
			Int("tokens", len(tokens)).
			Msg("compass-api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (domain.StateStore, io.Closer, error) {
	log := observability.Logger()

	switch cfg.Storage.Backend {
	case "firestore":
		log.Info().Str("project", cfg.GCP.Project).Str("collection", cfg.Storage.Collection).Msg("using Firestore storage")
		s, err := firestorestore.NewStore(ctx, cfg.GCP.Project, cfg.Storage.Collection)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing firestore store: %w", err)
		}
		return s, s, nil

	case "sqlite":
		log.Info().Str("path", cfg.Storage.SQLitePath).Msg("using SQLite storage")
		s, err := sqlitestore.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing sqlite store: %w", err)
		}
		return s, s, nil

	default:
		log.Info().Msg("using in-memory storage")
		return memstore.NewStateStore(), nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
