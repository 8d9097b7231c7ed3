package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/application/access"
	"github.com/splits-network/splits-sub003/internal/application/collab"
	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/application/scope"
	"github.com/splits-network/splits-sub003/internal/application/sourcing"
	"github.com/splits-network/splits-sub003/internal/application/workflow"
	"github.com/splits-network/splits-sub003/internal/config"
	httprouter "github.com/splits-network/splits-sub003/internal/infrastructure/http"
	"github.com/splits-network/splits-sub003/internal/infrastructure/http/handlers"
	"github.com/splits-network/splits-sub003/internal/infrastructure/http/middleware"
	"github.com/splits-network/splits-sub003/internal/infrastructure/persistence/postgres"
	"github.com/splits-network/splits-sub003/internal/infrastructure/queue"
	"github.com/splits-network/splits-sub003/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	directory := postgres.NewIdentityDirectory(pool)
	sourcerRepo := postgres.NewSourcerRepository(pool)
	outreachRepo := postgres.NewOutreachRepository(pool)
	candidateRepo := postgres.NewCandidateRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	placementRepo := postgres.NewPlacementRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)

	var emitter ports.WebhookEmitter
	if cfg.Events.WebhookURL != "" {
		opts := []webhook.HTTPEmitterOption{}
		if cfg.Events.WebhookAuthHeader != "" {
			opts = append(opts, webhook.WithHeader("Authorization", cfg.Events.WebhookAuthHeader))
		}
		emitter = webhook.NewHTTPEmitter(cfg.Events.WebhookURL, opts...)
	} else {
		emitter = webhook.NewNoopEmitter()
	}

	var events ports.EventPublisher
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		enqueuer := queue.NewEventEnqueuer(asynqOpt, log)
		defer enqueuer.Close()
		events = enqueuer
		asynqWorker = queue.NewWorker(asynqOpt, emitter, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		events = queue.NewNoopPublisher()
	}

	clock := ports.SystemClock{}

	resolver := access.NewResolver(directory)
	scopeService := scope.NewService(listingRepo)

	establishUC := sourcing.NewEstablishOwnership(sourcerRepo, events, clock).
		WithDefaultWindow(cfg.Sourcing.ProtectionWindowDays)
	getSourcerUC := sourcing.NewGetSourcer(sourcerRepo, clock)
	checkCanWorkUC := sourcing.NewCheckCanWork(sourcerRepo, clock)
	recordOutreachUC := sourcing.NewRecordOutreach(outreachRepo, establishUC, sourcerRepo, events, clock)
	updateEngagementUC := sourcing.NewUpdateEngagement(outreachRepo, clock)
	getCandidateUC := sourcing.NewGetCandidate(candidateRepo, sourcerRepo, clock)

	createApplicationUC := workflow.NewCreateApplication(applicationRepo, auditRepo, events, clock)
	transitionUC := workflow.NewTransition(applicationRepo, jobRepo, auditRepo, events, clock)
	acceptUC := workflow.NewAccept(applicationRepo, jobRepo, auditRepo, events, clock)
	getProposalUC := workflow.NewGetProposal(applicationRepo, jobRepo, clock)
	historyUC := workflow.NewHistory(applicationRepo, jobRepo, auditRepo)

	createPlacementUC := collab.NewCreatePlacement(placementRepo, applicationRepo, jobRepo, events, clock)
	addCollaboratorUC := collab.NewAddCollaborator(placementRepo, events, clock)
	getPlacementUC := collab.NewGetPlacement(placementRepo)

	candidatesHandler := handlers.NewCandidatesHandler(getCandidateUC, establishUC, getSourcerUC, checkCanWorkUC, recordOutreachUC, updateEngagementUC, log)
	applicationsHandler := handlers.NewApplicationsHandler(createApplicationUC, transitionUC, acceptUC, getProposalUC, historyUC, log)
	placementsHandler := handlers.NewPlacementsHandler(createPlacementUC, addCollaboratorUC, getPlacementUC, log)
	listingsHandler := handlers.NewListingsHandler(scopeService, log)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.PerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	actorLimit, err := middleware.NewActorRateLimiter(cfg.RateLimit.PerActor)
	if err != nil {
		log.Fatal().Err(err).Msg("create actor rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Security.Development))
	corsMiddleware := middleware.CORS(cfg.Security.AllowedOrigins, nil, nil)

	router := httprouter.NewRouter(httprouter.RouterConfig{
		HealthHandler:       healthHandler,
		CandidatesHandler:   candidatesHandler,
		ApplicationsHandler: applicationsHandler,
		PlacementsHandler:   placementsHandler,
		ListingsHandler:     listingsHandler,
		Actor:               middleware.NewActorResolver(resolver, log),
		Log:                 log,
		Secure:              secureMiddleware,
		CORS:                corsMiddleware,
		IPRateLimit:         ipLimit,
		ActorRateLimit:      actorLimit,
		Metrics:             cfg.Server.Metrics,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
