package model

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"
)

// DefaultPriority is assigned to requests that carry no explicit priority;
// they sort after everything else.
const DefaultPriority = 99

// EventRequest is the orchestrator's unit of work: one festival to research.
type EventRequest struct {
	Festival string `json:"Festival"`
	Type     string `json:"Type"`
	Priority int    `json:"Priority"`
	Location string `json:"Location,omitempty"`
	Notes    string `json:"Notes,omitempty"`
}

// UnmarshalJSON defaults a missing Priority to DefaultPriority.
func (r *EventRequest) UnmarshalJSON(data []byte) error {
	type alias EventRequest
	aux := alias{Priority: DefaultPriority}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = EventRequest(aux)
	return nil
}

// SortRequests orders requests ascending by priority. The sort is stable
// so same-priority requests keep their input order.
func SortRequests(requests []EventRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Priority < requests[j].Priority
	})
}

// LoadRequests reads a JSON array of event requests from path. A missing
// or malformed file is a setup error: the caller aborts the run.
func LoadRequests(path string) ([]EventRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read requests %s", path)
	}

	var requests []EventRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, eris.Wrapf(err, "model: unmarshal requests %s", path)
	}

	return requests, nil
}
