package main

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/golang/glog"

	"github.com/delique1984/Experience5-privacy/config"
	"github.com/delique1984/Experience5-privacy/rand"
	"github.com/delique1984/Experience5-privacy/record"
	"github.com/delique1984/Experience5-privacy/source"
)

func (g *globalFlags) loadConfig() (*config.Config, error) {
	if err := config.LoadEnv(g.envFile); err != nil {
		return nil, err
	}
	return config.Load(g.configPath)
}

func (g *globalFlags) loadRecords(ctx context.Context, cfg *config.Config) ([]record.Record, error) {
	if g.input != "" {
		return source.ReadFile(g.input)
	}
	db, err := source.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("no --input given and the database is unavailable: %w", err)
	}
	defer db.Close()
	return db.Load(ctx, nil, nil)
}

func (g *globalFlags) noiseSource() rand.Source {
	if g.seed == 0 {
		return rand.NewSecure()
	}
	log.Warningf("using a seeded noise source (seed %d); results are reproducible and not private", g.seed)
	return rand.New(g.seed)
}

func (g *globalFlags) write(stdout io.Writer, v any) error {
	if g.output == "" {
		return source.WriteJSON(stdout, v)
	}
	f, err := os.Create(g.output)
	if err != nil {
		return err
	}
	if err := source.WriteJSON(f, v); err != nil {
		f.Close()
		return err
	}
	log.Infof("wrote %s", g.output)
	return f.Close()
}
