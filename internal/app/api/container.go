package api

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	activitymemory "github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/memory"
	activityobs "github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/observability"
	activitymongo "github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/persistence/mongo"
	activitypostgres "github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/persistence/postgres"
	activityapp "github.com/Apurer/go-gin-storefront/internal/domains/activity/application"
	activityports "github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
	notiflogging "github.com/Apurer/go-gin-storefront/internal/domains/notifications/adapters/logging"
	notifobs "github.com/Apurer/go-gin-storefront/internal/domains/notifications/adapters/observability"
	notifsmtp "github.com/Apurer/go-gin-storefront/internal/domains/notifications/adapters/smtp"
	notifapp "github.com/Apurer/go-gin-storefront/internal/domains/notifications/application"
	notifports "github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
	orderactivity "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/activity"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordernotifications "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/notifications"
	ordersobs "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability"
	ordersmongo "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/persistence/mongo"
	orderspostgres "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	reviewsmemory "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/memory"
	reviewnotifications "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/notifications"
	reviewsobs "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/observability"
	revieworders "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/orders"
	reviewspostgres "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/persistence/postgres"
	reviewsapp "github.com/Apurer/go-gin-storefront/internal/domains/reviews/application"
	reviewsports "github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
	useractivity "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/activity"
	usersmemory "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/memory"
	usersobs "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/observability"
	userspostgres "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	userstypes "github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
	platformevents "github.com/Apurer/go-gin-storefront/internal/platform/events"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	platformmongo "github.com/Apurer/go-gin-storefront/internal/platform/mongo"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
)

// Container holds the decorated services shared by the API, the worker and storectl.
type Container struct {
	Orders     ordersports.Service
	Activity   activityports.Service
	Reviews    reviewsports.Service
	Users      usersports.Service
	Dispatcher notifports.Dispatcher
}

type repositories struct {
	orders   ordersports.Repository
	activity activityports.Repository
	reviews  reviewsports.Repository
	users    usersports.Repository
	sessions usersports.SessionStore
}

// NewContainer opens the configured stores and wires every bounded context.
// The returned cleanup closes connections in reverse order of opening.
func NewContainer(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Container, func(), error) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	repos, closeStores, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, func() {}, err
	}
	cleanups = append(cleanups, closeStores)

	transport, err := buildTransport(cfg, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	dispatcher := notifobs.New(
		notifapp.NewDispatcher(notifapp.MustRenderer(), transport, cfg.EmailAddress, cfg.EmailAddress),
		notifobs.WithLogger(logger),
		notifobs.WithTracer(instruments.Tracer("internal.notifications.application")),
		notifobs.WithMeter(instruments.Meter("internal.notifications.application")),
	)

	activityService := activityobs.New(
		activityapp.NewService(repos.activity),
		activityobs.WithLogger(logger),
		activityobs.WithTracer(instruments.Tracer("internal.activity.application")),
		activityobs.WithMeter(instruments.Meter("internal.activity.application")),
	)

	publisher, closeEvents, err := platformevents.Connect(cfg.NATSURL, logger)
	if err != nil {
		logger.Warn("NATS unavailable, order events disabled", slog.String("error", err.Error()))
		publisher, closeEvents = ordersports.NoopEventPublisher, func() {}
	}
	cleanups = append(cleanups, closeEvents)

	orderService := ordersobs.New(
		ordersapp.NewService(repos.orders,
			ordersapp.WithNotifier(ordernotifications.NewNotifier(dispatcher, cfg.PublicBaseURL)),
			ordersapp.WithActivityRecorder(orderactivity.NewRecorder(activityService)),
			ordersapp.WithEventPublisher(publisher),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	reviewService := reviewsobs.New(
		reviewsapp.NewService(repos.reviews,
			revieworders.NewVerifier(orderService),
			reviewnotifications.NewAlerter(dispatcher),
		),
		reviewsobs.WithLogger(logger),
		reviewsobs.WithTracer(instruments.Tracer("internal.reviews.application")),
		reviewsobs.WithMeter(instruments.Meter("internal.reviews.application")),
	)

	userService := usersobs.New(
		usersapp.NewService(repos.users, repos.sessions,
			usersapp.WithSessionTTL(cfg.SessionTTL),
			usersapp.WithActivityRecorder(useractivity.NewRecorder(activityService)),
		),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	return &Container{
		Orders:     orderService,
		Activity:   activityService,
		Reviews:    reviewService,
		Users:      userService,
		Dispatcher: dispatcher,
	}, cleanup, nil
}

// BootstrapAdmin creates or promotes the configured administrator, if any.
func (c *Container) BootstrapAdmin(ctx context.Context, cfg Config) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	_, err := c.Users.EnsureAdmin(ctx, userstypes.RegisterInput{
		Email:    cfg.AdminEmail,
		Name:     "Admin",
		Password: cfg.AdminPassword,
	})
	return err
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func(), error) {
	switch cfg.StoreBackend {
	case BackendPostgres:
		db, cleanup := platformpostgres.ConnectOrNil(ctx, cfg.PostgresDSN, logger)
		if db == nil {
			return memoryRepositories(), cleanup, nil
		}
		if err := migrations.Run(db); err != nil {
			cleanup()
			return repositories{}, func() {}, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("repositories configured with postgres")
		return postgresRepositories(db), cleanup, nil
	case BackendMongo:
		mdb, closeMongo := platformmongo.ConnectOrNil(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if mdb == nil {
			return memoryRepositories(), closeMongo, nil
		}
		repos, err := mongoRepositories(ctx, mdb)
		if err != nil {
			closeMongo()
			return repositories{}, func() {}, err
		}
		// Reviews and accounts live in postgres when it is also configured.
		db, closePostgres := platformpostgres.ConnectOrNil(ctx, cfg.PostgresDSN, logger)
		if db != nil {
			if err := migrations.Run(db); err != nil {
				closePostgres()
				closeMongo()
				return repositories{}, func() {}, fmt.Errorf("migrate postgres: %w", err)
			}
			pg := postgresRepositories(db)
			repos.reviews, repos.users, repos.sessions = pg.reviews, pg.users, pg.sessions
		}
		logger.Info("order and activity repositories configured with mongo")
		return repos, func() { closePostgres(); closeMongo() }, nil
	default:
		logger.Info("repositories configured in memory")
		return memoryRepositories(), func() {}, nil
	}
}

func memoryRepositories() repositories {
	return repositories{
		orders:   ordersmemory.NewRepository(),
		activity: activitymemory.NewRepository(),
		reviews:  reviewsmemory.NewRepository(),
		users:    usersmemory.NewRepository(),
		sessions: usersmemory.NewSessionStore(),
	}
}

func postgresRepositories(db *gorm.DB) repositories {
	return repositories{
		orders:   orderspostgres.NewRepository(db),
		activity: activitypostgres.NewRepository(db),
		reviews:  reviewspostgres.NewRepository(db),
		users:    userspostgres.NewRepository(db),
		sessions: userspostgres.NewSessionStore(db),
	}
}

func mongoRepositories(ctx context.Context, db *mongo.Database) (repositories, error) {
	orders, err := ordersmongo.NewRepository(ctx, db)
	if err != nil {
		return repositories{}, fmt.Errorf("prepare mongo orders: %w", err)
	}
	activity, err := activitymongo.NewRepository(ctx, db)
	if err != nil {
		return repositories{}, fmt.Errorf("prepare mongo activity: %w", err)
	}
	repos := memoryRepositories()
	repos.orders = orders
	repos.activity = activity
	return repos, nil
}

func buildTransport(cfg Config, logger *slog.Logger) (notifports.Transport, error) {
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP_HOST not set, outgoing email is logged only")
		return notiflogging.New(logger), nil
	}
	transport, err := notifsmtp.New(notifsmtp.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("configure smtp transport: %w", err)
	}
	return transport, nil
}
