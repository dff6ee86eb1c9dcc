package model

import (
	"fmt"
	"strings"
)

// Filter is the status label the host passes to the client list. It selects
// which clients the host shows and which empty-state copy the list uses. It
// is never a client's own status.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterBuilding Filter = Filter(StatusBuilding)
	FilterDeposit  Filter = Filter(StatusDeposit)
	FilterBuilt    Filter = Filter(StatusBuilt)
)

// Filters lists every filter in tab order.
var Filters = []Filter{FilterAll, FilterBuilding, FilterDeposit, FilterBuilt}

// ParseFilter accepts any filter name, case-insensitively. An empty string
// means FilterAll.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FilterAll, nil
	}
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("unknown status filter %q (want all, building, deposit or built)", s)
}

// Next returns the following filter in tab order, wrapping around.
func (f Filter) Next() Filter {
	for i, known := range Filters {
		if f == known {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Matches reports whether c passes the filter.
func (f Filter) Matches(c Client) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return Filter(c.Status) == f
}

// Apply returns the clients that pass the filter, preserving order.
func (f Filter) Apply(clients []Client) []Client {
	if f == FilterAll || f == "" {
		return clients
	}
	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Label returns the human-readable tab label.
func (f Filter) Label() string {
	switch f {
	case FilterBuilding:
		return "Building"
	case FilterDeposit:
		return "Deposit"
	case FilterBuilt:
		return "Built"
	default:
		return "All"
	}
}
