package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/abrazar/internal/adapter/http/client"
	"github.com/iho/abrazar/internal/adapter/repository/file"
	"github.com/iho/abrazar/internal/adapter/repository/memory"
	redisRepo "github.com/iho/abrazar/internal/adapter/repository/redis"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/config"
	"github.com/iho/abrazar/internal/infrastructure/logger"
	"github.com/iho/abrazar/internal/infrastructure/redis"
	"github.com/iho/abrazar/internal/infrastructure/retry"
	"github.com/iho/abrazar/internal/infrastructure/sessionlog"
	"github.com/iho/abrazar/internal/usecase"
)

// app is the wiring shared by every command.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	tokens   *usecase.TokenStore
	sessions *sessionlog.Log
	client   *client.Client
	auth     *client.AuthService
	guard    *usecase.RouteGuard
	closers  []func() error
}

func (a *app) Close() {
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			a.logger.Debug().Err(err).Msg("close failed")
		}
	}
}

// options are the persistent flags that override the environment.
type options struct {
	baseURL string
	timeout time.Duration
	store   string
	path    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "abrazar-cli",
		Short:         "Abrazar CLI tool",
		Long:          `A command line client for the Abrazar social-services API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "", "Base URL of the Abrazar API (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Request timeout (overrides API_TIMEOUT)")
	rootCmd.PersistentFlags().StringVar(&opts.store, "store", "", "Token store: memory, file or redis (overrides TOKEN_STORE)")
	rootCmd.PersistentFlags().StringVar(&opts.path, "session-file", "", "Session file for the file store (overrides TOKEN_STORE_PATH)")

	rootCmd.AddCommand(
		loginCmd(opts),
		logoutCmd(opts),
		whoamiCmd(opts),
		canCmd(opts),
		sessionCmd(opts),
		homelessCmd(opts),
		casesCmd(opts),
		servicePointsCmd(opts),
		statsCmd(opts),
		hashPasswordCmd(),
	)
	return rootCmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if opts.baseURL != "" {
		cfg.APIBaseURL = opts.baseURL
	}
	if opts.timeout > 0 {
		cfg.APITimeout = opts.timeout
		cfg.RefreshTimeout = opts.timeout
	}
	if opts.store != "" {
		cfg.TokenStore = opts.store
	}
	if opts.path != "" {
		cfg.TokenStorePath = opts.path
	}
	return cfg, nil
}

func newApp(ctx context.Context, cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr(), Component: "cli"})
	a := &app{cfg: cfg, logger: log}

	kv, err := a.keyValueStore(ctx)
	if err != nil {
		return nil, err
	}

	storageRetrier := retry.NewRetrier(
		func(err error) bool { return errors.Is(err, domain.ErrStorage) },
		retry.WithMaxRetries(2),
		retry.WithIntervals(100*time.Millisecond, time.Second, 5*time.Second),
		retry.WithLogger(log),
	)
	a.tokens = usecase.NewTokenStore(kv, storageRetrier, log, nil)
	a.sessions = sessionlog.New(cfg.SessionLogCapacity, log)

	stderr := cmd.ErrOrStderr()
	a.client, err = client.New(client.Config{
		BaseURL:         cfg.APIURL(),
		Timeout:         cfg.APITimeout,
		RefreshTimeout:  cfg.RefreshTimeout,
		Tokens:          a.tokens,
		Sessions:        a.sessions,
		Cache:           client.NewResponseCache(cfg.CacheSize, cfg.CacheTTL, nil),
		QueryRetrier:    client.NewQueryRetrier(log),
		MutationRetrier: client.NewMutationRetrier(log),
		OnForcedLogout: func(reason error) {
			fmt.Fprintln(stderr, "Your session has expired. Run `abrazar-cli login` again.")
		},
		Logger: log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.auth = client.NewAuthService(a.client)
	a.guard = usecase.NewRouteGuard(a.tokens, log, nil)
	return a, nil
}

func (a *app) keyValueStore(ctx context.Context) (usecase.KeyValueStore, error) {
	switch a.cfg.TokenStore {
	case config.TokenStoreMemory:
		return memory.NewKVStore(), nil
	case config.TokenStoreFile:
		return file.NewKVStore(a.cfg.TokenStorePath), nil
	case config.TokenStoreRedis:
		rdb, err := redis.NewClient(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		return redisRepo.NewKVStore(rdb, a.cfg.TokenKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", a.cfg.TokenStore)
	}
}

// run builds the app for one command invocation.
func run(opts *options, fn func(ctx context.Context, a *app, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx, cmd, opts)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := fn(ctx, a, cmd.OutOrStdout(), args); err != nil {
			return displayError{err: err}
		}
		return nil
	}
}

// displayError prints the user-facing message while keeping the cause.
type displayError struct {
	err error
}

func (e displayError) Error() string { return client.DisplayMessage(e.err) }
func (e displayError) Unwrap() error { return e.err }
