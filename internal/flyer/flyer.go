// Package flyer is the image sibling of the research pipeline: one raw
// field dictionary per flyer, no confidence scores, normalized through
// the same rules and appended to a single growing CSV.
package flyer

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/raceatlas/scout-cli/internal/normalize"
	"github.com/raceatlas/scout-cli/internal/schema"
)

// Extractor turns a flyer image into a raw field dictionary. An empty
// dictionary means the image yielded nothing and stays off the dedup log.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) (map[string]string, error)
}

// Summary reports one flyer batch.
type Summary struct {
	Found     int      `json:"found"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Failed    []string `json:"failed,omitempty"`
}

// Pipeline processes new flyer images into the growing event CSV.
type Pipeline struct {
	extractor   Extractor
	csvPath     string
	logPath     string
	cutoffYear  int
	concurrency int
}

// New creates a flyer Pipeline.
func New(extractor Extractor, csvPath, logPath string, cutoffYear, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		extractor:   extractor,
		csvPath:     csvPath,
		logPath:     logPath,
		cutoffYear:  cutoffYear,
		concurrency: concurrency,
	}
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Run extracts every new image under inputDir and appends one row per
// image to the CSV. Extraction runs concurrently; rows are appended in
// filename order and the dedup log only records images that produced
// output.
func (p *Pipeline) Run(ctx context.Context, inputDir string) (*Summary, error) {
	processed, err := loadProcessed(p.logPath)
	if err != nil {
		return nil, err
	}

	images, err := listImages(inputDir)
	if err != nil {
		return nil, err
	}

	var fresh []string
	for _, name := range images {
		if processed[name] {
			continue
		}
		fresh = append(fresh, name)
	}

	summary := &Summary{Found: len(images), Skipped: len(images) - len(fresh)}
	if len(fresh) == 0 {
		zap.L().Info("flyer: no new images to process")
		return summary, nil
	}
	zap.L().Info("flyer: processing new images", zap.Int("count", len(fresh)))

	// Extract concurrently, keep results in input order.
	raws := make([]map[string]string, len(fresh))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range fresh {
		g.Go(func() error {
			raw, err := p.extractor.Extract(gCtx, filepath.Join(inputDir, name))
			if err != nil {
				zap.L().Warn("flyer: extraction failed, skipping image",
					zap.String("image", name),
					zap.Error(err),
				)
				return nil // one bad flyer never aborts the batch
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "flyer: extraction group")
	}

	var rows [][]string
	var done []string
	for i, name := range fresh {
		if len(raws[i]) == 0 {
			summary.Failed = append(summary.Failed, name)
			continue
		}
		rows = append(rows, p.buildRow(raws[i]))
		done = append(done, name)
	}

	if len(rows) == 0 {
		zap.L().Warn("flyer: no data was successfully extracted")
		return summary, nil
	}

	if err := p.appendRows(rows); err != nil {
		return nil, err
	}
	if err := appendProcessed(p.logPath, done); err != nil {
		return nil, err
	}

	summary.Processed = len(done)
	zap.L().Info("flyer: batch complete",
		zap.Int("processed", summary.Processed),
		zap.Int("failed", len(summary.Failed)),
	)
	return summary, nil
}

// buildRow normalizes one raw dictionary against the flyer schema.
func (p *Pipeline) buildRow(raw map[string]string) []string {
	row := make([]string, len(schema.Flyer))
	for i, name := range schema.Flyer {
		row[i] = p.normalizeField(name, raw[name])
	}
	return row
}

func (p *Pipeline) normalizeField(name, value string) string {
	switch schema.FlyerKindOf(name) {
	case schema.KindChoice:
		return normalize.Choice(value, schema.Choices[name])
	case schema.KindDate:
		return normalize.Date(value, p.cutoffYear)
	case schema.KindTime:
		return normalize.Time(value)
	case schema.KindCutoff:
		return normalize.Cutoff(value)
	case schema.KindAge:
		return normalize.Age(value)
	case schema.KindCost:
		return normalize.Cost(value)
	case schema.KindNumeric:
		return normalize.Numeric(value)
	default:
		return normalize.Text(value)
	}
}

// appendRows appends to the growing CSV, writing the header only when
// the file does not exist yet.
func (p *Pipeline) appendRows(rows [][]string) error {
	_, statErr := os.Stat(p.csvPath)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(p.csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "flyer: open output %s", p.csvPath)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(schema.Flyer); err != nil {
			return eris.Wrap(err, "flyer: write header")
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "flyer: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "flyer: flush output")
}

// listImages returns the image filenames under dir in name order.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "flyer: read input dir %s", dir)
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		images = append(images, e.Name())
	}
	sort.Strings(images)
	return images, nil
}
