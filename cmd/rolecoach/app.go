package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rolecoach/rolecoach/internal/auth"
	"github.com/rolecoach/rolecoach/internal/config"
	"github.com/rolecoach/rolecoach/internal/session"
	"github.com/rolecoach/rolecoach/internal/store"
	"github.com/rolecoach/rolecoach/internal/types"
)

// app bundles the long-lived collaborators every command wires up: resolved
// configuration, the persistence adapter, the per-identity session store, and
// the authentication directory.
type app struct {
	cfg     config.Config
	adapter store.Adapter
	session *session.Store
	dir     *auth.Directory

	close func()
}

// resolveConfig layers configuration: config file under environment values.
func resolveConfig() (config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newAdapter selects the persistence backend: PostgreSQL when a database URL
// is configured, otherwise a file-per-key directory store.
func newAdapter(ctx context.Context, cfg config.Config) (store.Adapter, func(), error) {
	if cfg.DatabaseURL != "" {
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}

	root := cfg.DataDir
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		root = filepath.Join(home, ".rolecoach")
	}
	dir, err := store.NewDir(root)
	if err != nil {
		return nil, nil, err
	}
	return dir, func() {}, nil
}

// newApp wires the shared collaborators and restores the persisted identity.
// Callers must invoke app.close when done.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}

	adapter, closeAdapter, err := newAdapter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	passwords, err := auth.NewPasswordConfig(cfg.BcryptCost)
	if err != nil {
		closeAdapter()
		return nil, err
	}
	var tokens *auth.TokenService
	if cfg.JWTSecret != "" {
		tokens, err = auth.NewTokenService(cfg.JWTSecret, 0)
		if err != nil {
			closeAdapter()
			return nil, err
		}
	}

	dir := auth.New(adapter, passwords, tokens)
	if err := dir.Init(ctx); err != nil {
		closeAdapter()
		return nil, err
	}

	sess := session.New(adapter)
	if !cfg.Verbose {
		sess.SetLogger(func(string, ...any) {})
	}

	// The session follows the directory's identity: the initial Subscribe
	// delivery loads the persisted identity's namespace, and later sign-in or
	// sign-out swaps it.
	dir.Subscribe(ctx, func(user *types.User) {
		sess.OnIdentityChanged(ctx, user)
	})

	return &app{
		cfg:     cfg,
		adapter: adapter,
		session: sess,
		dir:     dir,
		close:   closeAdapter,
	}, nil
}
