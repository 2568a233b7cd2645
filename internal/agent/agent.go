// Package agent defines the narrow contract to the external research
// agent. The agent's search, crawl, and rerank behavior is its own
// concern; the pipeline only consumes knowledge bases.
package agent

import (
	"context"

	"github.com/raceatlas/scout-cli/internal/model"
)

// Agent researches one event request and returns its knowledge base.
// A run may take arbitrarily long and may legitimately come back empty;
// an empty knowledge base marks the mission failed without aborting the
// batch.
type Agent interface {
	Run(ctx context.Context, req model.EventRequest) (model.KnowledgeBase, error)
}

// Stub is an offline Agent serving canned knowledge bases, keyed by
// festival name. Used by --offline runs and tests.
type Stub struct {
	Bases map[string]model.KnowledgeBase
}

// Run returns the canned knowledge base for the request's festival, or
// nil when none was registered.
func (s *Stub) Run(_ context.Context, req model.EventRequest) (model.KnowledgeBase, error) {
	return s.Bases[req.Festival], nil
}
