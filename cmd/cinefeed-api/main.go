package main

import (
	"fmt"
	"os"

	"github.com/cinefeed/cinefeed"
	"github.com/cinefeed/cinefeed/config"
	"github.com/cinefeed/cinefeed/engine"
	"github.com/cinefeed/cinefeed/logger"
	"github.com/cinefeed/cinefeed/scrape"
	"github.com/cinefeed/cinefeed/store"
	"github.com/cinefeed/cinefeed/story"
)

func main() {
	configPath := os.Getenv("CINEFEED_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)

	st, err := store.New(cfg.Storage.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	eng := engine.New(cfg.Sources, scrape.NewClient(), log)
	run := func() ([]story.Canonical, error) {
		return eng.Run()
	}

	server := cinefeed.NewAPIServer(run, st, log)
	router := server.SetupRouter()

	log.Info("starting API server", "addr", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: server failed: %v\n", err)
		os.Exit(1)
	}
}
