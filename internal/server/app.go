// Package server wires configuration, storage, notification delivery and
// the gRPC and HTTP transports into a runnable application.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/telemetry"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

const (
	serviceName = "gophauth"

	// drainTimeout bounds how long pending verification emails may take to
	// flush on shutdown.
	drainTimeout = 10 * time.Second
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	signer      *auth.TokenSigner
	dispatcher  *notify.Dispatcher
	authService *services.AuthService
}

// NewApp builds every component from c. Logs are written to stdout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {

	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	rm, err := repomanager.New(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	sender, err := newEmailSender(ctx, c, logger)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("mail sender init error: %w", err)
	}

	mailer := notify.NewVerificationMailer(sender, c.MailFrom, c.VerificationURL, c.VerificationTokenValidityDuration)
	dispatcher := notify.NewDispatcher(mailer, c.NotificationWorkers, c.NotificationQueueSize, logger)

	signer := auth.NewTokenSigner([]byte(c.SecretKey), c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	hasher := password.NewBcryptHasher(c.BcryptCost)

	as := services.NewAuthService(rm, hasher, signer, dispatcher, logger,
		services.WithVerificationTTL(c.VerificationTokenValidityDuration))

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		signer:      signer,
		dispatcher:  dispatcher,
		authService: as,
	}, nil
}

func newEmailSender(ctx context.Context, c *config.Config, logger logging.Logger) (notify.EmailSender, error) {
	switch c.MailSender {
	case config.MailSenderLog, "":
		return notify.NewLogSender(logger), nil
	case config.MailSenderS3:
		return notify.NewS3MailDropSender(ctx, notify.S3Config{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown mail sender %q", c.MailSender)
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.signer)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.authService, httpapi.Options{
		AllowedOrigins: app.config.CORSAllowedOrigins,
		CookieSecure:   app.config.CookieSecure,
		AccessTTL:      app.config.AccessTokenValidityDuration,
		RefreshTTL:     app.config.RefreshTokenValidityDuration,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the store, serves both APIs until ctx is cancelled or a
// termination signal arrives, then drains pending notifications.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, app.config.OTelEndpoint)
	if err != nil {
		app.logger.Warn(ctx, "tracing disabled", "error", err.Error())
	}

	defer app.close(shutdownTracing)

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")

	return nil
}

func (app *App) close(shutdownTracing func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := app.dispatcher.Close(ctx); err != nil {
		app.logger.Warn(ctx, "notification queue not drained", "error", err.Error())
	}
	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	if err := shutdownTracing(ctx); err != nil {
		app.logger.Warn(ctx, "tracing shutdown error", "error", err.Error())
	}
}
