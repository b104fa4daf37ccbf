package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management/backend/config"
	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
	"library-management/backend/internal/service"
	"library-management/backend/pkg/database"
	"library-management/backend/pkg/jwt"
	applogger "library-management/backend/pkg/logger"
	"library-management/backend/pkg/redis"
)

// App is what the commands operate on.
type App struct {
	Logger   *zap.Logger
	Location *time.Location
	Now      func() time.Time

	Users   repository.UserRepository
	Salary  service.SalaryService
	QR      service.QRSessionService
	Profile service.ProfileService

	// Migrate applies pending migrations and reports the resulting version.
	Migrate func(ctx context.Context) (uint, error)

	closers []func()
}

// Close releases everything the bootstrap opened, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Bootstrap opens the application from a config path.
type Bootstrap func(ctx context.Context, configPath string) (*App, error)

// DefaultBootstrap connects to the configured database and, when reachable, Redis.
func DefaultBootstrap(_ context.Context, configPath string) (*App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, QR cache disabled", zap.Error(err))
		rdb = nil
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwt.NewManager(&cfg.Auth), rdb, logger)

	app := &App{
		Logger:   logger,
		Location: cfg.Attendance.Location(),
		Now:      time.Now,
		Users:    repo.User,
		Salary:   svc.Salary,
		QR:       svc.QRSession,
		Profile:  svc.Profile,
		Migrate: func(_ context.Context) (uint, error) {
			if err := database.RunMigrations(sqlDB, logger); err != nil {
				return 0, err
			}
			version, _, err := database.MigrationVersion(sqlDB)
			return version, err
		},
	}
	app.closers = append(app.closers, func() { _ = logger.Sync() })
	app.closers = append(app.closers, func() { _ = database.Close(db) })
	if rdb != nil {
		app.closers = append(app.closers, func() { _ = rdb.Close() })
	}
	return app, nil
}

// resolveUser accepts a user id or an email address.
func resolveUser(ctx context.Context, users repository.UserRepository, ref string) (*model.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("user reference is empty")
	}

	var (
		user *model.User
		err  error
	)
	if strings.Contains(ref, "@") {
		user, err = users.GetByEmail(ctx, strings.ToLower(ref))
	} else {
		user, err = users.GetByID(ctx, ref)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q not found", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("look up user %q: %w", ref, err)
	}
	return user, nil
}

func withApp(cmd interface{ Context() context.Context }, opts *RootOptions, boot Bootstrap, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := boot(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}
