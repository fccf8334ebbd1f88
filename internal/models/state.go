package models

import "sort"

// PersistedState is everything the caller keeps between sessions. Computed
// forecasts, actions and impacts are never stored; they are recomputed.
type PersistedState struct {
	Settings      Settings        `json:"settings"`
	ActiveActions map[string]bool `json:"activeActions"`
}

// ActiveIDs lists the ids whose flag is on, sorted.
func (p PersistedState) ActiveIDs() []string {
	ids := make([]string, 0, len(p.ActiveActions))
	for id, on := range p.ActiveActions {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
