package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/config"
	"github.com/oksasatya/go-otp-auth/internal/application"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/internal/infrastructure/audit"
	"github.com/oksasatya/go-otp-auth/internal/infrastructure/memory"
	"github.com/oksasatya/go-otp-auth/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/go-otp-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/go-otp-auth/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/go-otp-auth/internal/interface/http"
	"github.com/oksasatya/go-otp-auth/internal/metrics"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
	mailtpl "github.com/oksasatya/go-otp-auth/pkg/mailer/templates"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
	NotifierQueue  = "queue"
)

// Container owns every long-lived component of the API process. It is built
// once in main and passed down explicitly.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool *pgxpool.Pool
	Redis  *redis.Client
	Rabbit *helpers.RabbitPublisher

	Users    repository.UserRepository
	OTPs     repository.OTPStore
	Notifier repository.Notifier
	Audit    repository.AuditSink
	Metrics  metrics.Recorder
	Registry *prometheus.Registry

	Auth         *application.AuthService
	HealthChecks map[string]handlers.Check

	cancel context.CancelFunc
}

// Build connects to the configured backends. On error everything opened so
// far is closed again.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	bgCtx, cancel := context.WithCancel(context.Background())
	c := &Container{
		Config:       cfg,
		Logger:       logger,
		HealthChecks: map[string]handlers.Check{},
		cancel:       cancel,
	}
	if err := c.build(ctx, bgCtx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx, bgCtx context.Context) error {
	cfg := c.Config

	switch cfg.StoreDriver {
	case DriverMemory:
		c.Users = memory.NewUserRepository()
	case DriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.HealthChecks[DriverPostgres] = pool.Ping
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	switch cfg.OTPStoreDriver {
	case DriverMemory:
		store := memory.NewOTPStore(nil)
		go store.Run(bgCtx, cfg.OTPTTL)
		c.OTPs = store
	case DriverRedis:
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		c.Redis = rdb
		c.OTPs = redisstore.NewOTPStore(rdb)
		c.HealthChecks[DriverRedis] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		return fmt.Errorf("unknown OTP_STORE_DRIVER %q", cfg.OTPStoreDriver)
	}

	if cfg.NotifierKind() == NotifierQueue {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.Rabbit = pub
		c.Notifier = notify.NewQueueNotifier(pub, Branding(cfg), cfg.MailSendEnabled, c.Logger)
	} else {
		if !cfg.IsDevelopment() {
			c.Logger.Warn("log notifier outside development writes live OTP codes to the log")
		}
		c.Notifier = notify.NewLogNotifier(c.Logger)
	}

	switch {
	case cfg.AuditIndex != "":
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return fmt.Errorf("elasticsearch client: %w", err)
		}
		c.Audit = audit.NewESSink(es, cfg.AuditIndex, c.Logger)
	case cfg.IsDevelopment():
		c.Audit = audit.NewLogSink(c.Logger)
	default:
		c.Audit = audit.Nop{}
	}

	if cfg.MetricsEnabled {
		c.Registry = prometheus.NewRegistry()
		c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		c.Metrics = metrics.NewCollector(c.Registry)
	} else {
		c.Metrics = metrics.Nop{}
	}

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.IsDevelopment())
	c.Auth = application.NewAuthService(application.Deps{
		Users:    c.Users,
		OTPs:     c.OTPs,
		Sessions: application.NewSessionIssuer(cfg.JWTSecret, cfg.SessionTTL, cookies, nil),
		Matcher:  helpers.NewSecretMatcher(cfg.PasswordHashing),
		Notifier: c.Notifier,
		Audit:    c.Audit,
		Metrics:  c.Metrics,
		Logger:   c.Logger,
		OTPTTL:   cfg.OTPTTL,
	})
	return nil
}

// Branding is the company block stamped on outgoing emails.
func Branding(cfg *config.Config) mailtpl.Branding {
	return mailtpl.Branding{
		AppName:        cfg.AppName,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
	}
}

// Close stops background work and releases connections. Safe on a
// partially built container.
func (c *Container) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.Rabbit.Close()
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
