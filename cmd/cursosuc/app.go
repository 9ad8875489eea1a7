package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/cursos-uc/cursos-app/internal/api/handler"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
	"github.com/cursos-uc/cursos-app/internal/core/service"
	"github.com/cursos-uc/cursos-app/internal/infrastructure/db/memory"
	mongostore "github.com/cursos-uc/cursos-app/internal/infrastructure/db/mongo"
	redisstore "github.com/cursos-uc/cursos-app/internal/infrastructure/db/redis"
	"github.com/cursos-uc/cursos-app/internal/infrastructure/gateway"
	"github.com/cursos-uc/cursos-app/internal/infrastructure/gateway/fakebackend"
	"github.com/cursos-uc/cursos-app/internal/pkg/config"
)

// app holds the stores shared by every command.
type app struct {
	session *service.SessionService
	catalog *service.CatalogService
	search  *service.SearchService
	details *service.DetailService
	lists   *service.ListService
	chat    *service.ChatService

	checks  map[string]handler.Check
	closers []func(context.Context)
}

// newApp connects the configured backends and builds the stores. The
// persisted session, if any, is restored before it returns.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{checks: make(map[string]handler.Check)}

	baseURL := cfg.Gateway.BaseURL
	if fakeBackend {
		url, err := a.startFakeBackend()
		if err != nil {
			return nil, err
		}
		baseURL = url
	}

	store, err := a.credentialStore(ctx, cfg)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	creds := service.NewCredentials(store)

	opts := []gateway.Option{
		gateway.WithTokenSource(creds),
		gateway.WithTimeout(cfg.Gateway.Timeout),
		gateway.WithLogger(log),
	}
	if cfg.Gateway.RPS > 0 {
		opts = append(opts, gateway.WithRateLimit(cfg.Gateway.RPS, cfg.Gateway.Burst))
	}
	client := gateway.New(baseURL, opts...)

	archive, err := a.chatArchive(ctx, cfg)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	a.session = service.NewSessionService(client, creds, log)
	a.catalog = service.NewCatalogService(client, log)
	a.search = service.NewSearchService(client, log)
	a.details = service.NewDetailService(client, client, client, a.session, log)
	a.lists = service.NewListService(client, client, a.session, cfg.HydrateConcurrency, log)
	a.chat = service.NewChatService(
		service.NewKeywordBot(cfg.Chat.ReplyDelay),
		archive,
		cfg.Chat.SessionID,
		cfg.Chat.ReplyTimeout,
		log,
	)

	if _, err := a.session.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("session not restored")
	}
	return a, nil
}

func (a *app) credentialStore(ctx context.Context, cfg *config.Config) (ports.CredentialStore, error) {
	if cfg.Credential.Backend != config.BackendRedis {
		return memory.NewCredentialStore(), nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) { _ = rdb.Close() })
	a.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	log.Info().Str("addr", cfg.Redis.Addr).Msg("credentials persisted in redis")
	return redisstore.NewCredentialStore(rdb, cfg.Credential.Key), nil
}

// chatArchive returns nil when no Mongo URI is configured; the transcript then
// lives in memory only.
func (a *app) chatArchive(ctx context.Context, cfg *config.Config) (ports.TranscriptRepository, error) {
	if cfg.Mongo.URI == "" {
		return nil, nil
	}

	store, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(ctx context.Context) { _ = store.Close(ctx) })
	a.checks["mongodb"] = store.Ping

	repo := store.Transcripts()
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("chat archive indexes not ensured")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("chat transcript archived in mongodb")
	return repo, nil
}

// startFakeBackend serves a seeded in-memory backend on a loopback port.
func (a *app) startFakeBackend() (string, error) {
	backend := fakebackend.New()
	seedDemo(backend)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("fake backend listen: %w", err)
	}
	srv := &http.Server{Handler: backend.Echo}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("fake backend stopped")
		}
	}()
	a.closers = append(a.closers, func(ctx context.Context) { _ = srv.Shutdown(ctx) })

	url := "http://" + ln.Addr().String()
	log.Info().Str("url", url).Msg("fake backend started")
	return url, nil
}

// close releases connections in reverse order of acquisition.
func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.closers = nil
}

// seedDemo loads a small catalog and a verified demo account.
func seedDemo(b *fakebackend.Backend) {
	b.AddCourses(
		fakebackend.Course{ID: 1, Initials: "IIC2233", Name: "Programación Avanzada", Description: "Programación orientada a objetos, estructuras de datos y concurrencia.", Difficulty: 4, AverageRating: 4.5},
		fakebackend.Course{ID: 2, Initials: "IIC2133", Name: "Estructuras de Datos y Algoritmos", Description: "Análisis de algoritmos, ordenamiento y grafos.", Requirements: "IIC2233", Difficulty: 5, AverageRating: 4.1},
		fakebackend.Course{ID: 3, Initials: "MAT1610", Name: "Cálculo I", Description: "Límites, derivadas e integrales.", Difficulty: 3, AverageRating: 3.9},
		fakebackend.Course{ID: 4, Initials: "FIL2001", Name: "Filosofía: ¿Para Qué?", Description: "Curso de formación general sobre preguntas filosóficas.", Program: "OFG", Difficulty: 2, AverageRating: 4.7},
		fakebackend.Course{ID: 5, Initials: "ICS1513", Name: "Introducción a la Economía", Description: "Fundamentos de micro y macroeconomía.", Difficulty: 3, AverageRating: 4.0},
	)
	uid := b.AddUser("demo@uc.cl", "Demo", "demo123", true)
	b.AddComment(uid, 1, "Harto trabajo pero se aprende mucho.", 5, 4)
	b.AddList(uid, "Favoritos", 1, 4)
}
