// Command server runs the HTTP quote API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/S-COULIBALY/express-quote-sub008/adapters/rules"
	"github.com/S-COULIBALY/express-quote-sub008/adapters/store"
	"github.com/S-COULIBALY/express-quote-sub008/api"
	"github.com/S-COULIBALY/express-quote-sub008/core/engine"
	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/internal/config"
	"github.com/S-COULIBALY/express-quote-sub008/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	rulesPath := flag.String("rules", "", "rule source (overrides config)")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(loaded)
		cfg = loaded
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *rulesPath != "" {
		cfg.Rules.Path = *rulesPath
		cfg.Rules.Driver = "file"
	}

	set, err := loadRules(cfg)
	if err != nil {
		logging.Error("failed to load rules", zap.Error(err))
		os.Exit(1)
	}

	eng := engine.New(set, engine.Config{
		DefaultCurrency: cfg.Engine.DefaultCurrency,
		FloorThreshold:  cfg.Engine.FloorThreshold,
	})
	server := api.NewServer(eng, version)

	logging.Info("starting quote API",
		zap.String("addr", cfg.Server.Addr),
		zap.Int("rules", set.Len()))

	if err := http.ListenAndServe(cfg.Server.Addr, server.Handler()); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// loadRules resolves the rule source from configuration
func loadRules(cfg *config.Config) (*rule.Set, error) {
	ctx := context.Background()

	if cfg.Rules.Driver == "sqlite" {
		db, err := store.Open(cfg.Rules.Path)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		loaded, err := db.Load(ctx)
		if err != nil {
			return nil, err
		}
		return rule.NewSet(loaded)
	}

	return rules.FromFile(ctx, cfg.Rules.Path)
}
