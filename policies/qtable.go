package policies

import (
	"math"
	"sort"
)

// QTable maps a state and an action, both by hash, to a value.
// It backs both the action values and the visit counts of the Monte Carlo policy.
type QTable struct {
	table map[string]map[string]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[string]map[string]float64),
	}
}

// Get returns the stored value or def if the entry was never set
func (q *QTable) Get(state, action string, def float64) float64 {
	actions, ok := q.table[state]
	if !ok {
		return def
	}
	val, ok := actions[action]
	if !ok {
		return def
	}
	return val
}

func (q *QTable) Set(state, action string, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	q.table[state][action] = val
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

func (q *QTable) Has(state, action string) bool {
	actions, ok := q.table[state]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// Len is the number of (state, action) entries
func (q *QTable) Len() int {
	n := 0
	for _, actions := range q.table {
		n += len(actions)
	}
	return n
}

// States returns the known states in sorted order
func (q *QTable) States() []string {
	states := make([]string, 0, len(q.table))
	for s := range q.table {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// Max returns the best known action of the state, ties broken by action name
func (q *QTable) Max(state string, def float64) (string, float64) {
	actions, ok := q.table[state]
	if !ok || len(actions) == 0 {
		return "", def
	}
	names := make([]string, 0, len(actions))
	for a := range actions {
		names = append(names, a)
	}
	sort.Strings(names)
	return q.MaxAmong(state, names, def)
}

// MaxAmong returns the best action among the given ones. Unknown entries count as def.
// Ties are broken in favour of the earliest action in the slice.
func (q *QTable) MaxAmong(state string, actions []string, def float64) (string, float64) {
	maxAction := ""
	maxVal := math.Inf(-1)
	for _, a := range actions {
		val := q.Get(state, a, def)
		if val > maxVal {
			maxAction = a
			maxVal = val
		}
	}
	if maxAction == "" {
		return "", def
	}
	return maxAction, maxVal
}
