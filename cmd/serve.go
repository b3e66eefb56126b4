package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/i-pranav/TLE-ACodeDaily/internal/api"
	"github.com/i-pranav/TLE-ACodeDaily/internal/catalog"
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database/memstore"
	"github.com/i-pranav/TLE-ACodeDaily/internal/email"
	"github.com/i-pranav/TLE-ACodeDaily/internal/ladder"
	"github.com/i-pranav/TLE-ACodeDaily/internal/sampler"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/gitgud_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/hard75_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/rating_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/recommend_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	storePostgres   = "postgres"
	storeMemory     = "memory"
	shutdownTimeout = 10 * time.Second
	emailWorkers    = 1
)

var (
	apiConfig *api.Api
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the http api",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on (overrides PORT)")
	serveCmd.Flags().String("store", storePostgres, "persistence backend, postgres or memory")
	serveCmd.Flags().Bool("migrate", false, "apply migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service.InitializeServices()

	store, ready, closeStore, err := initStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	judge, err := codeforces.NewClient(os.Getenv(KeyCFApiURL))
	if err != nil {
		return err
	}
	cat := initCatalog(ctx, judge)
	curated, err := ladder.Load(os.Getenv(KeyLadderFile))
	if err != nil {
		return err
	}

	email.StartEmailWorkers(ctx, emailWorkers)
	apiConfig = initApi(store, judge, cat, curated, email.NewEmailService(), ready)

	router := chi.NewRouter()
	setCors(router)
	router.Mount("/v1", NewV1Router())
	log.Info("v1 router has been mounted")

	port, _ := cmd.Flags().GetString("port")
	if port == "" {
		port = os.Getenv(KeyPort)
	}
	if port == "" {
		port = "8080"
		log.Warnf("port not found in environment. using default port %s", port)
	}
	srv := http.Server{
		Handler:           router,
		Addr:              os.Getenv(KeyApiURL) + ":" + port,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("server shutdown failed, %v", err)
		}
	}()

	log.Infof("starting server on %s", srv.Addr)
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server cannot be started, %w", err)
	}
	log.Info("server stopped")
	return nil
}

func initStore(
	ctx context.Context,
	cmd *cobra.Command,
) (database.Store, func(context.Context) error, func(), error) {
	kind, _ := cmd.Flags().GetString("store")
	switch kind {
	case storeMemory:
		log.Warn("using the in-memory store, nothing survives a restart")
		return memstore.New(), nil, func() {}, nil
	case storePostgres:
	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q", kind)
	}

	dbURL := resolveDBURL(cmd)
	if dbURL == "" {
		return nil, nil, nil, errors.New("dbURL not found")
	}
	if runMigrations, _ := cmd.Flags().GetBool("migrate"); runMigrations {
		if err := database.Migrate(dbURL); err != nil {
			return nil, nil, nil, err
		}
	}

	// create a connection pool to the database
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, nil, nil, err
	}
	store := database.NewPgStore(pool)
	if err = store.Ping(ctx); err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("cannot reach the database, %w", err)
	}
	log.Info("connected to postgres")
	return store, store.Ping, store.Close, nil
}

// initCatalog loads the first snapshot and keeps refreshing it in the
// background. The server starts even when the judge is down.
func initCatalog(ctx context.Context, judge *codeforces.Client) *catalog.Catalog {
	cat := catalog.New(nil)
	refresher := catalog.NewRefresher(cat, judge, os.Getenv(KeyContestWritersFile))
	if err := refresher.Refresh(ctx); err != nil {
		log.Errorf("initial catalog refresh failed, serving an empty catalog: %v", err)
	}
	interval := time.Duration(envInt(KeyCatalogRefreshMinutes, 60)) * time.Minute
	go refresher.Run(ctx, interval)
	return cat
}

func gitgudPolicy() gitgud_service.Policy {
	policy := gitgud_service.DefaultPolicy()
	start := envInt(KeyMorePointsStart, gitgud_service.DefaultMorePointsStartUnix)
	policy.MorePointsStart = time.Unix(int64(start), 0).UTC()
	return policy
}

func initApi(
	store database.Store,
	judge codeforces.Judge,
	cat *catalog.Catalog,
	curated ladder.Ladder,
	escalator service.Escalator,
	ready func(context.Context) error,
) *api.Api {
	log.Info("initializing api config")
	us := &user_service.UserService{DB: store, Judge: judge}
	ps := &problem_service.ProblemService{Catalog: cat, Sampler: sampler.New()}
	gs := &gitgud_service.GitgudService{
		DB:        store,
		Judge:     judge,
		Users:     us,
		Problems:  ps,
		Escalator: escalator,
		Policy:    gitgudPolicy(),
		Clock:     service.SystemClock,
	}
	hs := &hard75_service.Hard75Service{
		DB:        store,
		Judge:     judge,
		Users:     us,
		Problems:  ps,
		Ladder:    curated,
		Escalator: escalator,
		Clock:     service.SystemClock,
	}
	rs := &recommend_service.RecommendService{
		Judge:    judge,
		Users:    us,
		Problems: ps,
		Contests: cat,
		Gitgud:   gs,
	}
	log.Info("services created")
	return &api.Api{
		UserServiceConfig:      us,
		GitgudServiceConfig:    gs,
		Hard75ServiceConfig:    hs,
		RecommendServiceConfig: rs,
		RatingServiceConfig:    &rating_service.RatingService{Users: us},
		Ready:                  ready,
	}
}

func setCors(router *chi.Mux) {
	router.Use(
		cors.Handler(
			cors.Options{
				AllowedOrigins:   []string{"https://*", "http://*"},
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: false,
				ExposedHeaders:   []string{"Link"},
				MaxAge:           300,
			},
		),
	)
	log.Info("cors options has been set")
}
