package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/abhisek/classquiz/internal/api"
	"github.com/abhisek/classquiz/internal/config"
	"github.com/abhisek/classquiz/internal/logger"
	"github.com/abhisek/classquiz/internal/store"
)

// env bundles what a command needs at runtime.
type env struct {
	cfg     config.Config
	log     *logger.Logger
	store   *store.Store
	gateway api.Gateway

	user string
	host string
}

// loadConfig resolves configuration: defaults, file, env, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Log.File = v
	}
	if cfg.Log.File == "" {
		cfg.Log.File = config.DefaultLogPath()
	}
	return cfg, nil
}

// openStore opens the local event database.
func openStore(cmd *cobra.Command, cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// openEnv loads config, the logger, the store and the API gateway.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	creds := cfg.Credentials()
	gw, err := api.New(cfg.API, creds, st.EventRepo(), log)
	if err != nil {
		st.Close()
		log.Sync()
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	e := &env{
		cfg:     cfg,
		log:     log,
		store:   st,
		gateway: gw,
	}
	if u, err := url.Parse(cfg.API.BaseURL); err == nil {
		e.host = u.Host
	}
	if tok, err := creds.Token(cmd.Context()); err == nil {
		e.user = api.TokenSubject(tok.AccessToken)
	} else {
		log.Warn("credentials unavailable at startup", "error", err)
	}

	log.Info("classquiz starting", "base_url", cfg.API.BaseURL, "user", e.user)
	return e, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.log.Sync()
}
