package runner

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raceatlas/scout-cli/internal/agent"
	"github.com/raceatlas/scout-cli/internal/cache"
	"github.com/raceatlas/scout-cli/internal/model"
	"github.com/raceatlas/scout-cli/internal/resolve"
	"github.com/raceatlas/scout-cli/internal/schema"
)

// countingAgent wraps a stub and counts research calls.
type countingAgent struct {
	agent.Stub
	calls int
}

func (c *countingAgent) Run(ctx context.Context, req model.EventRequest) (model.KnowledgeBase, error) {
	c.calls++
	return c.Stub.Run(ctx, req)
}

func sundownKB() model.KnowledgeBase {
	return model.KnowledgeBase{
		"10K": model.Variant{
			"date": model.NewField("12 Jan 2026", 0.9, []string{"https://sundown.example"}, ""),
		},
	}
}

func newTestRunner(t *testing.T, a agent.Agent) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	cacheStore, err := cache.NewStore(filepath.Join(dir, "knowledge_cache"))
	require.NoError(t, err)
	r := New(a, cacheStore, resolve.New(resolve.DefaultConfig()), nil, filepath.Join(dir, "outputs"))
	r.WithNow(func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) })
	return r, dir
}

func readCSV(t *testing.T, dir, typ string) [][]string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "outputs", "Scout_"+typ+"_*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	a := &countingAgent{Stub: agent.Stub{Bases: map[string]model.KnowledgeBase{"Sundown": sundownKB()}}}
	r, dir := newTestRunner(t, a)

	summary, err := r.Run(context.Background(), []model.EventRequest{
		{Festival: "Sundown", Type: "running", Priority: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Rows)
	assert.Empty(t, summary.Failed)

	records := readCSV(t, dir, "running")
	require.Len(t, records, 3) // header, row, separator
	assert.Equal(t, schema.Running, records[0])

	row := map[string]string{}
	for i, col := range records[0] {
		row[col] = records[1][i]
	}
	assert.Equal(t, "Sundown - 10K", row["event"])
	assert.Equal(t, "12/01/2026", row["date"])
	assert.Equal(t, "January", row["month"])
	assert.Equal(t, "2026", row["editionYear"])
	for name := range schema.DefaultBlank {
		if v, ok := row[name]; ok {
			assert.Empty(t, v, name)
		}
	}

	// Separator row is fully blank.
	for _, v := range records[2] {
		assert.Empty(t, v)
	}
}

func TestRunUsesCacheOnSecondRun(t *testing.T) {
	t.Parallel()

	a := &countingAgent{Stub: agent.Stub{Bases: map[string]model.KnowledgeBase{"Sundown": sundownKB()}}}
	r, _ := newTestRunner(t, a)

	requests := []model.EventRequest{{Festival: "Sundown", Type: "running", Priority: 1}}
	_, err := r.Run(context.Background(), requests)
	require.NoError(t, err)
	assert.Equal(t, 1, a.calls)

	_, err = r.Run(context.Background(), requests)
	require.NoError(t, err)
	assert.Equal(t, 1, a.calls, "second run must hit the knowledge cache")
}

func TestRunFailedMission(t *testing.T) {
	t.Parallel()

	a := &countingAgent{Stub: agent.Stub{Bases: map[string]model.KnowledgeBase{}}}
	r, dir := newTestRunner(t, a)

	summary, err := r.Run(context.Background(), []model.EventRequest{
		{Festival: "Ghost Race", Type: "running", Priority: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, []string{"Ghost Race"}, summary.Failed)

	// Failed mission contributes zero rows: header only, no separator.
	records := readCSV(t, dir, "running")
	assert.Len(t, records, 1)

	// And nothing was cached.
	cacheFiles, err := filepath.Glob(filepath.Join(dir, "knowledge_cache", "*.json"))
	require.NoError(t, err)
	assert.Empty(t, cacheFiles)
}

func TestRunGroupsByTypeAndSkipsUnknown(t *testing.T) {
	t.Parallel()

	a := &countingAgent{Stub: agent.Stub{Bases: map[string]model.KnowledgeBase{
		"Sundown":    sundownKB(),
		"Coast Swim": {"1500m": model.Variant{"date": model.NewField("3 May 2026", 0.9, nil, "")}},
		"Mystery":    sundownKB(),
	}}}
	r, dir := newTestRunner(t, a)

	summary, err := r.Run(context.Background(), []model.EventRequest{
		{Festival: "Coast Swim", Type: "Swimming", Priority: 2},
		{Festival: "Sundown", Type: "running", Priority: 1},
		{Festival: "Mystery", Type: "orienteering", Priority: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)

	running := readCSV(t, dir, "running")
	assert.Equal(t, schema.Running, running[0])
	swimming := readCSV(t, dir, "swimming")
	assert.Equal(t, schema.Swimming, swimming[0])

	// Unknown type produced no output file and no agent call.
	matches, err := filepath.Glob(filepath.Join(dir, "outputs", "Scout_orienteering_*.csv"))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, 2, a.calls)
}

func TestRunSkipsEmptyFestival(t *testing.T) {
	t.Parallel()

	a := &countingAgent{Stub: agent.Stub{Bases: map[string]model.KnowledgeBase{}}}
	r, _ := newTestRunner(t, a)

	summary, err := r.Run(context.Background(), []model.EventRequest{
		{Festival: "", Type: "running", Priority: 1},
	})
	require.NoError(t, err)
	assert.Zero(t, a.calls)
	assert.Empty(t, summary.Failed)
}

func TestRunPastEventYieldsNoRow(t *testing.T) {
	t.Parallel()

	a := &countingAgent{Stub: agent.Stub{Bases: map[string]model.KnowledgeBase{
		"Retro": {"5K": model.Variant{"date": model.NewField("10 June 2019", 0.95, nil, "")}},
	}}}
	r, dir := newTestRunner(t, a)

	summary, err := r.Run(context.Background(), []model.EventRequest{
		{Festival: "Retro", Type: "running", Priority: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Rows)
	assert.Equal(t, 1, summary.Succeeded, "data was found, the rows were just filtered")

	records := readCSV(t, dir, "running")
	assert.Len(t, records, 2) // header + separator, no data row
}
