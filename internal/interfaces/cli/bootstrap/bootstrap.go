// Package bootstrap loads configuration, logging and the database for the
// pinegate subcommands.
package bootstrap

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/pinegate/pinegate/internal/infrastructure/config"
	"github.com/pinegate/pinegate/internal/infrastructure/database"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

// Runtime is what every subcommand needs before it can do work.
type Runtime struct {
	Env    string
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
}

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flagEnv string) string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return flagEnv
}

// Load reads config, initializes the logger and opens the database.
// withDB=false skips the database for commands that do not touch it.
func Load(env, configPath string, withDB bool) (*Runtime, error) {
	env = ResolveEnv(env)

	cfg, err := config.Load(MapEnvToGinMode(env), configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	rt := &Runtime{Env: env, Config: cfg, Log: logger.NewLogger()}
	if !withDB {
		return rt, nil
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	rt.DB = database.Get()

	return rt, nil
}

// Close releases the database opened by Load.
func (r *Runtime) Close() {
	if r.DB == nil {
		return
	}
	if err := database.Close(); err != nil {
		r.Log.Warnw("failed to close database", "error", err)
	}
}

// MapEnvToGinMode translates a deployment environment into a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
