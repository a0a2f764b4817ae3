package main

import (
	"context"
	"log/slog"
	"os"

	"identity/config"
	"identity/internal/delivery"
	"identity/internal/delivery/http"
	"identity/internal/delivery/http/middleware"
	"identity/internal/delivery/http/router/handler"
	"identity/internal/domain/service"
	"identity/internal/infra/auth"
	logs "identity/internal/infra/log"
	"identity/internal/infra/notification"
	"identity/internal/infra/persistence/postgres"
	"identity/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewAccountRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newPasswordHasher,
			auth.NewJWTService,
			auth.NewResetTokenService,
			newNotifier,
		),
	)
}

// newPasswordHasher creates the bcrypt hasher with the configured cost.
func newPasswordHasher(cfg *config.Config) service.PasswordHasher {
	cost := 0
	if cfg.Auth != nil {
		cost = cfg.Auth.BcryptCost
	}

	return auth.NewBcryptHasher(cost)
}

// newNotifier picks the outbound mail channel. Without SMTP settings, or in
// log-only mode, reset mails go to the logger instead of the wire.
func newNotifier(cfg *config.Config, logger *slog.Logger) (service.Notifier, error) {
	if cfg.Mail == nil || cfg.Mail.LogOnly {
		return notification.NewLogNotifier(logger), nil
	}

	smtpNotifier, err := notification.NewSMTPNotifier(cfg.Mail)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SMTP notifier")
	}

	return notification.WithTimeout(smtpNotifier, cfg.Mail.SendTimeout), nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
