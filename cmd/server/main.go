package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/modules/account"
	"github.com/dmitrymomot/expensekit/modules/budget"
	"github.com/dmitrymomot/expensekit/pkg/config"
	"github.com/dmitrymomot/expensekit/pkg/email"
	"github.com/dmitrymomot/expensekit/pkg/httpserver"
	"github.com/dmitrymomot/expensekit/pkg/jwt"
	"github.com/dmitrymomot/expensekit/pkg/logger"
	mongokit "github.com/dmitrymomot/expensekit/pkg/mongo"
	"github.com/dmitrymomot/expensekit/pkg/requestid"
	budgetsvc "github.com/dmitrymomot/expensekit/svc/budget"
	"github.com/dmitrymomot/expensekit/svc/credential"
	"github.com/dmitrymomot/expensekit/svc/federated"
)

const serviceName = "expensekit"

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"`
	JWTSecret string `env:"JWT_SECRET,required"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"expensekit"`
}

type configs struct {
	app        appConfig
	credential credential.Config
	account    account.Config
	mongo      mongokit.Config
	email      email.Config
	http       httpserver.Config
	google     federated.GoogleConfig
}

func loadConfigs() (configs, error) {
	var c configs
	for _, load := range []func() error{
		func() error { return config.Load(&c.app) },
		func() error { return config.Load(&c.credential) },
		func() error { return config.Load(&c.account) },
		func() error { return config.Load(&c.mongo) },
		func() error { return config.Load(&c.email) },
		func() error { return config.Load(&c.http) },
		func() error { return config.Load(&c.google) },
	} {
		if err := load(); err != nil {
			return configs{}, err
		}
	}
	return c, nil
}

func main() {
	cfg, err := loadConfigs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.app.Env, serviceName),
		logger.WithLevelName(cfg.app.LogLevel),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg configs, log *slog.Logger) error {
	client, err := mongokit.New(ctx, cfg.mongo)
	if err != nil {
		return err
	}
	closers := []httpserver.Option{httpserver.WithCloser("mongo", client.Disconnect)}
	db := client.Database(cfg.mongo.Database)

	accounts := credential.NewMongoStore(db)
	budgets := budgetsvc.NewMongoStore(db)
	spend := budgetsvc.NewMongoSpendSource(db)
	for name, ensure := range map[string]func(context.Context) error{
		"accounts": accounts.EnsureIndexes,
		"budgets":  budgets.EnsureIndexes,
		"expenses": spend.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	sender, err := email.NewSender(cfg.email)
	if err != nil {
		_ = client.Disconnect(ctx)
		return err
	}
	if !cfg.email.UsePostmark() {
		log.Warn("postmark is not configured, emails are written to disk", slog.String("dir", cfg.email.DevDir))
	}

	sessions, err := jwt.NewFromString(cfg.app.JWTSecret,
		jwt.WithTTL(cfg.credential.SessionTTL),
		jwt.WithIssuer(cfg.app.JWTIssuer),
	)
	if err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	opts := []credential.Option{
		credential.WithConfig(cfg.credential),
		credential.WithLogger(log),
	}
	if cfg.google.Enabled() {
		idTokens, stop, err := federated.NewGoogleJWKSVerifier(ctx, cfg.google, log)
		if err != nil {
			_ = client.Disconnect(ctx)
			return err
		}
		closers = append(closers, httpserver.WithCloser("google-jwks", func(context.Context) error {
			stop()
			return nil
		}))

		var codes federated.Verifier
		if cfg.google.CodeExchangeEnabled() {
			cv, err := federated.NewGoogleCodeVerifier(cfg.google)
			if err != nil {
				stop()
				_ = client.Disconnect(ctx)
				return err
			}
			codes = cv
		}
		opts = append(opts, credential.WithFederatedVerifier(federated.ByShape(idTokens, codes), cfg.google.ClientID))
	}
	manager := credential.New(accounts, sender, sessions, opts...)

	alerts := budgetsvc.NewService(budgets, spend, recipients(manager), sender,
		budgetsvc.WithLogger(log),
		budgetsvc.WithAppName(cfg.credential.AppName),
		budgetsvc.WithTimeouts(cfg.credential.StoreTimeout, cfg.credential.MailTimeout),
	)

	errorHandler := handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
		Mappers: []handler.ErrorMapper{account.MapError, budget.MapError},
	})
	authenticate := account.Authenticate(sessions)
	links := credential.Links{APIBaseURL: cfg.credential.APIBaseURL, ClientURL: cfg.credential.ClientURL}

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		requestid.Middleware,
		middleware.Recoverer,
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSONError(handler.ErrNotFound).Render(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSONError(handler.ErrMethodNotAllowed).Render(w, r)
	})

	r.Get("/health/live", httpserver.HealthHandler(log, 0, nil))
	r.Get("/health/ready", httpserver.HealthHandler(log, 2*time.Second, map[string]httpserver.Check{
		"mongo": mongokit.Healthcheck(client),
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", account.Router(account.RouterOptions{
			Config:   cfg.account,
			Password: account.NewPasswordService(manager, links, errorHandler),
			Google:   account.NewGoogleService(manager, errorHandler),
			Profile:  account.NewProfileService(manager, authenticate, errorHandler),
		}))
		r.Mount("/budgets", budget.Router(alerts, authenticate, errorHandler))
	})

	srv := httpserver.NewFromConfig(cfg.http, append(closers, httpserver.WithLogger(log))...)
	return srv.Run(ctx, r)
}

// recipients routes budget alerts to the account's own address.
func recipients(manager *credential.Manager) budgetsvc.RecipientFunc {
	return func(ctx context.Context, accountID uuid.UUID) (budgetsvc.Recipient, error) {
		acc, err := manager.GetAccount(ctx, accountID)
		if err != nil {
			return budgetsvc.Recipient{}, err
		}
		return budgetsvc.Recipient{Email: acc.Email, DisplayName: acc.DisplayName}, nil
	}
}
