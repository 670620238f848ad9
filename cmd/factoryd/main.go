package main

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/plantops/factoryd/authorizer"
	"github.com/plantops/factoryd/bolt"
	"github.com/plantops/factoryd/http"
	"github.com/plantops/factoryd/jsonweb"
	"github.com/plantops/factoryd/kit/cli"
	"github.com/plantops/factoryd/logger"
	"github.com/plantops/factoryd/session"
	"github.com/plantops/factoryd/tenant"
)

const sessionKeyID = "v1"

var flags struct {
	boltPath        string
	httpBindAddress string
	sessionSecret   string
	sessionLength   time.Duration
	logLevel        string
}

func main() {
	prog := &cli.Program{
		Name: "factoryd",
		Run:  run,
		Opts: []cli.Opt{
			cli.NewOpt(&flags.boltPath, "bolt-path", "factoryd.bolt", "path to the boltdb file"),
			cli.NewOpt(&flags.httpBindAddress, "http-bind-address", ":8087", "bind address for the http api"),
			cli.NewOpt(&flags.sessionSecret, "session-secret", "", "secret used to sign session tokens"),
			cli.NewOpt(&flags.sessionLength, "session-length", session.DefaultSessionLength, "how long issued sessions stay valid"),
			cli.NewOpt(&flags.logLevel, "log-level", "info", "supported log levels are debug, info, warn and error"),
		},
	}

	cmd := cli.NewCommand(prog)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var lvl zapcore.Level
	if err := lvl.Set(flags.logLevel); err != nil {
		return fmt.Errorf("unknown log level %q", flags.logLevel)
	}
	log := logger.New(os.Stdout, lvl)
	defer log.Sync()

	if flags.sessionSecret == "" {
		return fmt.Errorf("session-secret must be set")
	}

	ctx := context.Background()

	store := bolt.NewKVStore(log.With(zap.String("store", "bolt")), flags.boltPath)
	if err := store.Open(ctx); err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()

	st, err := tenant.NewStore(store)
	if err != nil {
		return err
	}
	ts := tenant.NewService(st)
	factorySvc := tenant.NewFactoryLogger(log, ts)
	userSvc := tenant.NewUserMetrics(reg, ts)
	passwordsSvc := tenant.NewPasswordMetrics(reg, ts)

	keyStore := jsonweb.KeyStoreFunc(func(id string) ([]byte, error) {
		if id != sessionKeyID {
			return nil, jsonweb.ErrKeyNotFound
		}
		return []byte(flags.sessionSecret), nil
	})

	sessionSvc := session.NewService(
		userSvc,
		passwordsSvc,
		factorySvc,
		jsonweb.NewTokenSigner(keyStore, sessionKeyID),
		flags.sessionLength,
	)

	handler := http.NewPlatformHandler(http.APIBackend{
		Logger:            log,
		FactoryService:    authorizer.NewFactoryService(factorySvc),
		EntityService:     authorizer.NewEntityService(ts),
		UserService:       authorizer.NewUserService(userSvc),
		UserLookupService: userSvc,
		SessionService:    sessionSvc,
		TokenParser:       jsonweb.NewTokenParser(keyStore),
		MetricsRegistry:   reg,
	})

	srv := &nethttp.Server{
		Addr:    flags.httpBindAddress,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", flags.httpBindAddress))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
