// Package runner drives a batch of event research missions: cache or
// agent per event, resolution per variant, one CSV per event type.
package runner

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/raceatlas/scout-cli/internal/agent"
	"github.com/raceatlas/scout-cli/internal/cache"
	"github.com/raceatlas/scout-cli/internal/model"
	"github.com/raceatlas/scout-cli/internal/resolve"
	"github.com/raceatlas/scout-cli/internal/schema"
	"github.com/raceatlas/scout-cli/internal/store"
)

// Summary reports the outcome of one batch run.
type Summary struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Rows      int      `json:"rows"`
	Failed    []string `json:"failed,omitempty"`
	Outputs   []string `json:"outputs,omitempty"`
}

// Runner owns one batch run. Events are processed strictly in priority
// order, one at a time; the external agent is the only slow call and its
// concurrency is its own concern.
type Runner struct {
	agent     agent.Agent
	cache     *cache.Store
	resolver  *resolve.Resolver
	missions  store.Store // optional; nil disables history
	outputDir string
	now       func() time.Time // injectable for testing
}

// New creates a Runner. missions may be nil.
func New(a agent.Agent, c *cache.Store, r *resolve.Resolver, missions store.Store, outputDir string) *Runner {
	return &Runner{
		agent:     a,
		cache:     c,
		resolver:  r,
		missions:  missions,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (r *Runner) WithNow(now func() time.Time) *Runner {
	r.now = now
	return r
}

// output is one per-type CSV artifact.
type output struct {
	file    *os.File
	writer  *csv.Writer
	columns []string
}

// Run processes every request and returns the batch summary. Per-event
// failures are collected, not fatal; only setup and I/O failures abort.
func (r *Runner) Run(ctx context.Context, requests []model.EventRequest) (*Summary, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "runner: create output dir %s", r.outputDir)
	}

	model.SortRequests(requests)

	// Group by type, keeping first-seen type order and per-type priority order.
	var typeOrder []string
	grouped := make(map[string][]model.EventRequest)
	for _, req := range requests {
		typ := strings.ToLower(strings.TrimSpace(req.Type))
		if _, seen := grouped[typ]; !seen {
			typeOrder = append(typeOrder, typ)
		}
		grouped[typ] = append(grouped[typ], req)
	}

	summary := &Summary{Total: len(requests)}
	outputs := make(map[string]*output)
	defer func() {
		for _, out := range outputs {
			out.writer.Flush()
			if err := out.file.Close(); err != nil {
				zap.L().Error("runner: close output", zap.String("path", out.file.Name()), zap.Error(err))
			}
		}
	}()

	for _, typ := range typeOrder {
		columns, ok := schema.ForType(typ)
		if !ok {
			zap.L().Warn("runner: skipping unknown event type", zap.String("type", typ))
			continue
		}

		out, err := r.openOutput(typ, columns)
		if err != nil {
			return nil, err
		}
		outputs[typ] = out
		summary.Outputs = append(summary.Outputs, out.file.Name())

		for _, req := range grouped[typ] {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "runner: cancelled")
			}
			if req.Festival == "" {
				zap.L().Warn("runner: skipping request with no festival name", zap.String("type", typ))
				continue
			}
			if err := r.processEvent(ctx, req, out, summary); err != nil {
				return nil, err
			}
		}
	}

	r.logSummary(summary)
	return summary, nil
}

// processEvent resolves one event end to end. Only I/O failures return
// an error; missing data marks the mission failed and moves on.
func (r *Runner) processEvent(ctx context.Context, req model.EventRequest, out *output, summary *Summary) error {
	zap.L().Info("runner: starting mission",
		zap.String("festival", req.Festival),
		zap.String("type", req.Type),
		zap.Int("priority", req.Priority),
	)

	var missionID string
	if r.missions != nil {
		if m, err := r.missions.CreateMission(ctx, req.Festival, req.Type); err != nil {
			zap.L().Error("runner: record mission", zap.Error(err))
		} else {
			missionID = m.ID
		}
	}

	key := cache.Key(req.Festival)
	kb, hit, err := r.cache.Load(key)
	if err != nil {
		// Unreadable cache entries are environment problems; the event
		// still counts as failed rather than silently re-researched.
		zap.L().Error("runner: cache read failed", zap.String("key", key), zap.Error(err))
		r.finishMission(ctx, missionID, store.MissionFailed, false, 0)
		summary.Failed = append(summary.Failed, req.Festival)
		return nil
	}

	if hit {
		zap.L().Info("runner: knowledge cache hit", zap.String("key", key))
	} else {
		zap.L().Info("runner: no cache entry, running full analysis", zap.String("key", key))
		kb, err = r.agent.Run(ctx, req)
		if err != nil {
			zap.L().Error("runner: agent mission failed", zap.String("festival", req.Festival), zap.Error(err))
			kb = nil
		}
	}

	if len(kb) == 0 {
		zap.L().Warn("runner: mission failed, no data could be built", zap.String("festival", req.Festival))
		r.finishMission(ctx, missionID, store.MissionFailed, hit, 0)
		summary.Failed = append(summary.Failed, req.Festival)
		return nil
	}

	rows, err := r.writeVariants(req.Festival, kb, out)
	if err != nil {
		return err
	}
	summary.Rows += rows
	summary.Succeeded++

	// Persist fresh knowledge only after rows were emitted, so a crash
	// mid-mission never poisons the cache with partial results.
	if !hit {
		if err := r.cache.Save(key, kb); err != nil {
			zap.L().Error("runner: cache write failed", zap.String("key", key), zap.Error(err))
		} else {
			zap.L().Info("runner: saved knowledge cache", zap.String("key", key))
		}
	}

	r.finishMission(ctx, missionID, store.MissionSucceeded, hit, rows)
	zap.L().Info("runner: mission complete", zap.String("festival", req.Festival), zap.Int("rows", rows))
	return nil
}

// writeVariants resolves and writes every variant of one event, then a
// blank separator row. Variants are written in name order.
func (r *Runner) writeVariants(festival string, kb model.KnowledgeBase, out *output) (int, error) {
	names := make([]string, 0, len(kb))
	for name := range kb {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := 0
	for _, name := range names {
		row, ok := r.resolver.Resolve(festival, name, kb[name], out.columns)
		if !ok {
			continue
		}
		record := make([]string, len(out.columns))
		for i, col := range out.columns {
			record[i] = row[col]
		}
		if err := out.writer.Write(record); err != nil {
			return rows, eris.Wrapf(err, "runner: write row for %s", festival)
		}
		rows++
	}

	if err := out.writer.Write(make([]string, len(out.columns))); err != nil {
		return rows, eris.Wrapf(err, "runner: write separator for %s", festival)
	}
	out.writer.Flush()
	if err := out.writer.Error(); err != nil {
		return rows, eris.Wrapf(err, "runner: flush output for %s", festival)
	}
	return rows, nil
}

func (r *Runner) openOutput(typ string, columns []string) (*output, error) {
	name := "Scout_" + strings.ReplaceAll(typ, " ", "-") + "_" + r.now().Format("2006-01-02_150405") + ".csv"
	path := filepath.Join(r.outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "runner: create output %s", path)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		_ = f.Close()
		return nil, eris.Wrapf(err, "runner: write header %s", path)
	}

	zap.L().Info("runner: opened output", zap.String("type", typ), zap.String("path", path))
	return &output{file: f, writer: w, columns: columns}, nil
}

func (r *Runner) finishMission(ctx context.Context, id string, status store.MissionStatus, fromCache bool, rows int) {
	if r.missions == nil || id == "" {
		return
	}
	if err := r.missions.CompleteMission(ctx, id, status, fromCache, rows); err != nil {
		zap.L().Error("runner: complete mission", zap.Error(err))
	}
}

func (r *Runner) logSummary(summary *Summary) {
	if len(summary.Failed) == 0 {
		zap.L().Info("runner: all missions complete",
			zap.Int("total", summary.Total),
			zap.Int("rows", summary.Rows),
		)
		return
	}
	zap.L().Warn("runner: batch finished with failures",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Strings("failed", summary.Failed),
	)
}
