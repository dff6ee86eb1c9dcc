package ui

import (
	"github.com/vanderheijden86/sitebook/pkg/model"
)

// Buckets is a client slice partitioned by status. Each bucket keeps input
// order.
type Buckets struct {
	groups [3][]model.Client
	// Unrecognized counts clients whose status matched no bucket.
	Unrecognized int
}

// Bucketize partitions clients into the building, deposit and built buckets.
// It is a stable partition: nothing is sorted, and clients with any other
// status are dropped (and counted in Unrecognized).
func Bucketize(clients []model.Client) Buckets {
	var b Buckets
	for _, c := range clients {
		i := sectionIndex(c.Status)
		if i < 0 {
			b.Unrecognized++
			continue
		}
		b.groups[i] = append(b.groups[i], c)
	}
	return b
}

// Get returns the bucket for s, or nil for a non-canonical status.
func (b Buckets) Get(s model.Status) []model.Client {
	if i := sectionIndex(s); i >= 0 {
		return b.groups[i]
	}
	return nil
}

// Len returns the number of bucketed clients.
func (b Buckets) Len() int {
	n := 0
	for _, g := range b.groups {
		n += len(g)
	}
	return n
}
