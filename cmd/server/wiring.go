package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"certificate-api/internal/auth"
	"certificate-api/internal/events"
	"certificate-api/internal/platform/config"
	"certificate-api/internal/platform/database"
	"certificate-api/internal/platform/health"
	"certificate-api/internal/platform/kafka/producer"
	"certificate-api/internal/platform/metrics"
	"certificate-api/internal/platform/redis"
	"certificate-api/internal/presentation/format"
	"certificate-api/internal/presentation/handler"
	presentationmetrics "certificate-api/internal/presentation/metrics"
	"certificate-api/internal/presentation/payload"
	"certificate-api/internal/presentation/service"
	"certificate-api/internal/presentation/tracer"
	"certificate-api/internal/ratelimit"
	"certificate-api/internal/registry"
	"certificate-api/internal/render"
	"certificate-api/internal/signer"
)

const (
	registryRetryInterval = 100 * time.Millisecond
	producerCloseTimeout  = 5 * time.Second
)

type app struct {
	handler   *handler.Handler
	health    *health.Handler
	rateLimit func(http.Handler) http.Handler

	pool     *database.Pool
	redis    *redis.Client
	producer *producer.Producer
}

func (a *app) close() {
	if a.producer != nil {
		a.producer.Close(producerCloseTimeout)
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.pool.Close()
}

func (a *app) recordPoolStats(m *metrics.Metrics) {
	a.pool.RecordPoolStats(m)
	if a.redis != nil {
		a.redis.RecordPoolStats(m)
	}
}

func build(ctx context.Context, env config.Env, log *slog.Logger, infra *metrics.Metrics) (*app, error) {
	a := &app{health: health.New(env.Environment)}
	pm := presentationmetrics.New()
	dates := format.NewDates(env.Location())

	reg, err := a.buildRegistry(ctx, env, log)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(env.RendererURL, env.RendererTimeout,
		render.WithMetrics(pm),
		render.WithLogger(log),
	)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("renderer: %w", err)
	}

	builder := payload.NewBuilder(env.Payload(),
		signer.NewHTTPDCCSigner(env.DCCSignerURL),
		signer.NewJWSSigner(),
		signer.NewHTTPFHIRConverter(env.FHIRConverterURL),
		payload.WithLogger(log),
		payload.WithDates(dates),
	)

	sink, err := a.buildEventSink(env, log, pm)
	if err != nil {
		a.close()
		return nil, err
	}

	svc := service.New(reg, renderer, builder, sink,
		service.WithLogger(log),
		service.WithTracer(tracer.NewOTel()),
		service.WithMetrics(pm),
		service.WithDates(dates),
	)

	verifier, err := buildVerifier(env)
	if err != nil {
		a.close()
		return nil, err
	}
	a.handler = handler.New(svc, verifier, builder, log)

	if err := a.buildRateLimit(ctx, env, log); err != nil {
		a.close()
		return nil, err
	}

	a.recordPoolStats(infra)
	return a, nil
}

func (a *app) buildRegistry(ctx context.Context, env config.Env, log *slog.Logger) (service.Registry, error) {
	if env.RegistryMode == config.RegistryModePostgres {
		pool, err := database.New(ctx, env.Database())
		if err != nil {
			return nil, fmt.Errorf("registry database: %w", err)
		}
		a.pool = pool
		a.health.RegisterCheck("database", pool.Health)
		log.Info("registry backed by postgres")
		return registry.NewPostgresRegistry(pool.DB()), nil
	}
	log.Info("registry backed by http", "url", env.RegistryURL)
	return registry.NewHTTPClient(env.RegistryURL, env.RegistryTimeout,
		registry.WithRetries(env.RegistryRetries, registryRetryInterval),
		registry.WithLogger(log),
	), nil
}

func (a *app) buildEventSink(env config.Env, log *slog.Logger, pm *presentationmetrics.Metrics) (service.EventSink, error) {
	if env.KafkaBootstrapServers == "" {
		log.Warn("kafka not configured, presentation events are discarded")
		return events.NoopSink{}, nil
	}
	p, err := producer.New(producer.DefaultConfig(env.KafkaBootstrapServers), log,
		producer.WithDeliveryErrorHandler(func(topic string, err error) {
			pm.IncrementEventsDropped()
			log.Warn("event delivery failed", "topic", topic, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	a.producer = p
	a.health.RegisterOptionalCheck("kafka", p.Health)
	return events.NewKafkaSink(p, env.EventsTopic, events.WithLogger(log)), nil
}

func (a *app) buildRateLimit(ctx context.Context, env config.Env, log *slog.Logger) error {
	if !env.RateLimited() {
		log.Info("rate limiting disabled")
		return nil
	}
	client, err := redis.New(ctx, env.Redis())
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	a.redis = client
	a.health.RegisterOptionalCheck("redis", client.Health)

	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(client.Client), env.RateLimit, env.RateLimitWindow)
	a.rateLimit = ratelimit.Middleware(limiter, log)
	log.Info("rate limiting enabled", "limit", env.RateLimit, "window", env.RateLimitWindow)
	return nil
}

func buildVerifier(env config.Env) (*auth.Verifier, error) {
	citizenKey, err := auth.ParsePublicKey(env.CitizenPublicKey)
	if err != nil {
		return nil, fmt.Errorf("CITIZEN_PUBLIC_KEY: %w", err)
	}
	keycloakKey, err := auth.ParsePublicKey(env.KeycloakPublicKey)
	if err != nil {
		return nil, fmt.Errorf("KEYCLOAK_PUBLIC_KEY: %w", err)
	}
	return auth.NewVerifier(citizenKey, keycloakKey), nil
}
