package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cinefeed/cinefeed/config"
	"github.com/cinefeed/cinefeed/engine"
	"github.com/cinefeed/cinefeed/export"
	"github.com/cinefeed/cinefeed/logger"
	"github.com/cinefeed/cinefeed/scrape"
	"github.com/cinefeed/cinefeed/source"
	"github.com/cinefeed/cinefeed/store"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config", getEnv("CINEFEED_CONFIG", "config.yaml"), "Path to config file")
	csvPath := flag.String("csv", "", "Write the run's records to this CSV file")
	persist := flag.Bool("store", false, "Persist the run in the configured database")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if len(cfg.Sources) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no sources configured in %s\n", *configPath)
		fmt.Fprintf(os.Stderr, "Known source identifiers: %s\n", strings.Join(source.Identifiers(), ", "))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	eng := engine.New(cfg.Sources, scrape.NewClient(), log)

	startedAt := time.Now()
	records, err := eng.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: run aborted: %v\n", err)
		os.Exit(1)
	}
	finishedAt := time.Now()

	fmt.Printf("Collected %d records from %d configured sources in %s\n\n",
		len(records), len(cfg.Sources), finishedAt.Sub(startedAt).Round(time.Millisecond))

	// Print summary table
	fmt.Printf("%-20s %-12s %-50s\n", "SOURCE", "PUBLISHED", "TITLE")
	for _, rec := range records {
		fmt.Printf("%-20s %-12s %-50s\n", rec.Source, rec.PublishedDate, truncate(rec.Title, 50))
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create CSV file: %v\n", err)
			os.Exit(1)
		}
		if err := export.WriteCSV(f, records); err != nil {
			f.Close()
			fmt.Fprintf(os.Stderr, "Error: failed to write CSV: %v\n", err)
			os.Exit(1)
		}
		f.Close()
		fmt.Printf("\nWrote %s\n", *csvPath)
	}

	if *persist {
		st, err := store.New(cfg.Storage.DSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open store: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		runID, err := st.SaveRun(records, startedAt, finishedAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to persist run: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nPersisted run %s (%d articles)\n", runID, len(records))
	}
}

// truncate shortens s to at most max characters, ending a shortened
// string with "...". Counting runes rather than bytes keeps headlines
// with accented or non-Latin characters from being cut mid-rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func printUsage() {
	fmt.Println("cinefeed - entertainment news aggregator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cinefeed [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -config path   Config file (default: config.yaml)")
	fmt.Println("  -csv path      Write the run's records to a CSV file")
	fmt.Println("  -store         Persist the run in the configured database")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  CINEFEED_CONFIG  Path to config file (default: config.yaml)")
}
