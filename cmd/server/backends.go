package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"agora/internal/audit"
	"agora/internal/blob"
	"agora/internal/identity/password"
	identitystore "agora/internal/identity/store"
	"agora/internal/platform/config"
	"agora/internal/platform/postgres"
	platformredis "agora/internal/platform/redis"
	"agora/internal/platform/secret"
	profilestore "agora/internal/profile/store"
	"agora/internal/ratelimit"
	"agora/internal/registration/provisioning"
	"agora/internal/registration/service"
	"agora/internal/registration/store/session"
)

// sessionKeyLabel binds the derived session key to draft sealing.
const sessionKeyLabel = "registration-session"

// backends are the stores chosen by configuration. Each one falls back to
// its in-memory implementation when its backend is not configured.
type backends struct {
	sessions    service.SessionStore
	issuer      provisioning.IdentityIssuer
	blobs       provisioning.BlobStore
	profiles    provisioning.ProfileStore
	audit       *audit.Publisher
	auditWorker *audit.Worker
	rateLimits  ratelimit.Store

	pool  *pgxpool.Pool
	redis *redis.Client
	kafka *kgo.Client
}

// openBackends opens every configured backend. On error, whatever was
// already opened is closed before returning.
func openBackends(ctx context.Context, cfg config.Server, log *slog.Logger) (*backends, error) {
	b := &backends{}
	if err := b.open(ctx, cfg, log); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backends) open(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	hasher := password.Hasher{Cost: cfg.Registration.BcryptCost}
	sealer, err := secret.NewSealerFromSecret(cfg.SessionSecret(), sessionKeyLabel)
	if err != nil {
		return fmt.Errorf("session sealer: %w", err)
	}

	b.pool, err = postgres.New(ctx, postgres.Config{
		URL:             cfg.Postgres.URL,
		MaxConns:        cfg.Postgres.MaxConns,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	if b.pool != nil {
		if err := postgres.Migrate(ctx, b.pool); err != nil {
			return err
		}
		b.issuer = identitystore.NewPostgresIssuer(b.pool, hasher)
		b.profiles = profilestore.NewPostgresStore(b.pool)
		log.Info("identity and profile stores on postgres")
	} else {
		b.issuer = identitystore.NewInMemoryIssuer(identitystore.WithHasher(hasher))
		b.profiles = profilestore.NewInMemoryStore()
		log.Warn("DATABASE_URL not set; accounts and profiles are kept in memory")
	}

	b.redis, err = platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if b.redis != nil {
		b.sessions = session.NewRedis(b.redis, sealer, cfg.Registration.SessionTTL)
		b.rateLimits = ratelimit.NewRedisStore(b.redis)
	} else {
		b.sessions = session.NewInMemoryStore(cfg.Registration.SessionTTL)
		b.rateLimits = ratelimit.NewInMemoryStore()
		log.Warn("REDIS_URL not set; registration drafts are kept in memory")
	}

	if cfg.S3.Bucket != "" {
		s3Store, err := blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:     cfg.S3.Endpoint,
			Region:       cfg.S3.Region,
			Bucket:       cfg.S3.Bucket,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return fmt.Errorf("open blob store: %w", err)
		}
		b.blobs = s3Store
	} else {
		b.blobs = blob.NewInMemoryStore()
		log.Warn("S3_BUCKET not set; artifacts are kept in memory")
	}

	var sink audit.Store
	if len(cfg.Kafka.Brokers) > 0 {
		b.kafka, err = audit.NewKafkaClient(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		sink = audit.NewKafkaSink(b.kafka, cfg.Kafka.Topic)
	} else {
		sink = audit.NewInMemoryStore()
		log.Warn("KAFKA_BROKERS not set; audit events are kept in memory")
	}
	queue := audit.NewQueue(cfg.Registration.AuditQueueSize, log)
	b.audit = audit.NewPublisher(queue)
	b.auditWorker = audit.NewWorker(sink, queue)
	return nil
}

// Close releases every opened client. It is safe on a nil or partly opened value.
func (b *backends) Close() {
	if b == nil {
		return
	}
	if b.kafka != nil {
		b.kafka.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}
