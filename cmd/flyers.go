package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/raceatlas/scout-cli/internal/flyer"
	"github.com/raceatlas/scout-cli/pkg/vision"
)

var (
	flyersInputDir string
	flyersOutput   string
	flyersLog      string
)

var flyersCmd = &cobra.Command{
	Use:   "flyers",
	Short: "Extract event data from flyer images into the growing CSV",
	Long: `Scans the input directory for new flyer images, extracts a field
dictionary per image via the vision model, and appends one normalized row
per image to the event CSV. Already-processed images are skipped via the
processed-images log.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Vision.Key == "" {
			return eris.New("flyers: vision key not configured (SCOUT_VISION_KEY)")
		}

		inputDir := flyersInputDir
		if inputDir == "" {
			inputDir = cfg.Paths.FlyerDir
		}
		output := flyersOutput
		if output == "" {
			output = cfg.Paths.FlyerCSV
		}
		logPath := flyersLog
		if logPath == "" {
			logPath = cfg.Paths.FlyerLog
		}

		extractor := vision.NewClient(cfg.Vision.Key, vision.WithModel(cfg.Vision.Model))
		pipeline := flyer.New(extractor, output, logPath, cfg.Resolver.CutoffYear, cfg.Vision.Concurrency)

		summary, err := pipeline.Run(cmd.Context(), inputDir)
		if err != nil {
			return eris.Wrap(err, "flyers: batch")
		}

		fmt.Printf("Found %d images: %d processed, %d already done, %d failed.\n",
			summary.Found, summary.Processed, summary.Skipped, len(summary.Failed))
		for _, name := range summary.Failed {
			fmt.Printf("  failed: %s\n", name)
		}
		return nil
	},
}

func init() {
	flyersCmd.Flags().StringVar(&flyersInputDir, "input-dir", "", "directory containing flyer images (default from config)")
	flyersCmd.Flags().StringVar(&flyersOutput, "output", "", "growing event CSV path (default from config)")
	flyersCmd.Flags().StringVar(&flyersLog, "log", "", "processed-images log path (default from config)")
	rootCmd.AddCommand(flyersCmd)
}
