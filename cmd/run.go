package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raceatlas/scout-cli/internal/agent"
	"github.com/raceatlas/scout-cli/internal/cache"
	"github.com/raceatlas/scout-cli/internal/model"
	"github.com/raceatlas/scout-cli/internal/resolve"
	"github.com/raceatlas/scout-cli/internal/runner"
	"github.com/raceatlas/scout-cli/internal/store"
	"github.com/raceatlas/scout-cli/pkg/research"
)

var (
	runInput     string
	runOutputDir string
	runOffline   bool
	runFixture   string
	runNoStore   bool
	runLimit     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Research a batch of events and emit per-type CSVs",
	Long: `Reads a prioritized JSON list of event requests, resolves each through
the knowledge cache or the research agent, and writes one CSV per event
type with schema-defined columns.

Examples:
  # Full batch against the research agent
  scout-cli run --input races.json

  # Offline run against canned knowledge bases
  scout-cli run --input races.json --offline --fixture testdata/bases.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input := runInput
		if input == "" {
			input = cfg.Paths.RequestsFile
		}
		requests, err := model.LoadRequests(input)
		if err != nil {
			return eris.Wrap(err, "run: load requests")
		}
		zap.L().Info("run: loaded event requests", zap.Int("count", len(requests)), zap.String("input", input))

		if runLimit > 0 && runLimit < len(requests) {
			requests = requests[:runLimit]
		}

		outputDir := runOutputDir
		if outputDir == "" {
			outputDir = cfg.Paths.OutputDir
		}

		cacheStore, err := cache.NewStore(cfg.Paths.CacheDir)
		if err != nil {
			return eris.Wrap(err, "run: init cache")
		}

		var researcher agent.Agent
		if runOffline {
			researcher, err = loadStubAgent(runFixture)
			if err != nil {
				return err
			}
		} else {
			if cfg.Agent.Key == "" {
				return eris.New("run: agent key not configured (SCOUT_AGENT_KEY)")
			}
			researcher = research.NewClient(cfg.Agent.Key,
				research.WithBaseURL(cfg.Agent.BaseURL),
				research.WithModel(cfg.Agent.Model),
				research.WithRateLimit(cfg.Agent.RPS),
			)
		}

		var missions store.Store
		if !runNoStore {
			st, err := store.NewSQLite(cfg.Store.Path)
			if err != nil {
				return eris.Wrap(err, "run: init mission store")
			}
			if err := st.Migrate(ctx); err != nil {
				_ = st.Close()
				return eris.Wrap(err, "run: migrate mission store")
			}
			defer st.Close() //nolint:errcheck
			missions = st
		}

		resolver := resolve.New(resolve.Config{
			Threshold:         cfg.Resolver.Threshold,
			InferredThreshold: cfg.Resolver.InferredThreshold,
			FallbackThreshold: cfg.Resolver.FallbackThreshold,
			CutoffYear:        cfg.Resolver.CutoffYear,
		})

		summary, err := runner.New(researcher, cacheStore, resolver, missions, outputDir).Run(ctx, requests)
		if err != nil {
			return eris.Wrap(err, "run: batch")
		}

		printSummary(summary)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "path to event requests JSON (default from config)")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "directory for output CSVs (default from config)")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "use a stub agent instead of the research service")
	runCmd.Flags().StringVar(&runFixture, "fixture", "", "canned knowledge bases JSON for --offline")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "skip recording mission history")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "max events to process (0 = all)")
	rootCmd.AddCommand(runCmd)
}

// loadStubAgent builds an offline agent, optionally preloaded with
// canned knowledge bases keyed by festival name.
func loadStubAgent(fixturePath string) (agent.Agent, error) {
	stub := &agent.Stub{Bases: map[string]model.KnowledgeBase{}}
	if fixturePath == "" {
		return stub, nil
	}
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return nil, eris.Wrap(err, "run: read fixture")
	}
	if err := json.Unmarshal(data, &stub.Bases); err != nil {
		return nil, eris.Wrap(err, "run: unmarshal fixture")
	}
	return stub, nil
}

func printSummary(summary *runner.Summary) {
	fmt.Printf("Processed %d events, wrote %d rows.\n", summary.Total, summary.Rows)
	for _, path := range summary.Outputs {
		fmt.Printf("  output: %s\n", path)
	}
	if len(summary.Failed) == 0 {
		fmt.Println("All missions completed successfully.")
		return
	}
	fmt.Println("Failed missions:")
	for _, name := range summary.Failed {
		fmt.Printf("  - %s\n", name)
	}
}
