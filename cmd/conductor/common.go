package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/moviops/conductor/internal/actions"
	"github.com/moviops/conductor/internal/agent"
	"github.com/moviops/conductor/internal/config"
	"github.com/moviops/conductor/internal/db"
	"github.com/moviops/conductor/internal/llm"
	"github.com/moviops/conductor/internal/vision"
)

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist so `conductor serve` works out of the box.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == defaultConfigPath {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(configPath)
}

const defaultConfigPath = "conductor.yaml"

// connectFromConfig loads the config and opens the database.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

// buildMachine assembles the full conversation pipeline from config:
// action catalog, classifier, vision extractor and session store.
func buildMachine(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*agent.Machine, *agent.Sweeper, error) {
	registry, err := actions.NewRegistry()
	if err != nil {
		return nil, nil, err
	}

	classifier, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("build classifier: %w", err)
	}

	extractor, err := vision.New(ctx, cfg.Vision)
	if err != nil {
		return nil, nil, fmt.Errorf("build vision extractor: %w", err)
	}

	sessions, err := agent.NewDBStore(gormDB)
	if err != nil {
		return nil, nil, err
	}

	machine, err := agent.NewMachine(agent.MachineOpts{
		DB:         gormDB,
		Registry:   registry,
		Sessions:   sessions,
		Classifier: classifier,
		Vision:     extractor,
	})
	if err != nil {
		return nil, nil, err
	}

	ttl := time.Duration(cfg.Sessions.IdleTTLMinutes) * time.Minute
	sweeper, err := agent.NewSweeper(sessions, ttl, cfg.Sessions.SweepCron)
	if err != nil {
		return nil, nil, err
	}

	return machine, sweeper, nil
}
