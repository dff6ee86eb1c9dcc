// Package testutil provides client fixtures, generators and assertions shared
// by the sitebook test suites. Seeded generators are deterministic.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// GeneratorConfig controls client generation.
type GeneratorConfig struct {
	Seed     int64     // Random seed for determinism (0 = use current time)
	IDPrefix string    // Prefix for client IDs (default: "c")
	BaseTime time.Time // Base time for timestamps (default: fixed time)
	// StatusMix is sampled uniformly (nil = the three canonical statuses).
	StatusMix []model.Status
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		IDPrefix:  "c",
		BaseTime:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		StatusMix: model.CanonicalStatuses,
	}
}

// Generator creates client fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "c"
	}
	if len(cfg.StatusMix) == 0 {
		cfg.StatusMix = model.CanonicalStatuses
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var (
	lastNames  = []string{"Ivanov", "Petrova", "Smirnov", "Kuznetsova", "Popov", "Volkova", "Sokolov", "Orlova"}
	firstNames = []string{"Anna", "Boris", "Daria", "Egor", "Irina", "Maxim", "Olga", "Pavel"}
	streets    = []string{"Lenina", "Mira", "Sadovaya", "Lesnaya", "Tsentralnaya", "Shkolnaya"}
)

// Client creates one client with index i.
func (g *Generator) Client(i int) model.Client {
	created := g.cfg.BaseTime.Add(time.Duration(i) * time.Hour)
	return model.Client{
		ID:                  fmt.Sprintf("%s-%d", g.cfg.IDPrefix, i),
		LastName:            lastNames[g.rng.Intn(len(lastNames))],
		FirstName:           firstNames[g.rng.Intn(len(firstNames))],
		ClientNumber:        fmt.Sprintf("SB-%04d", 1000+i),
		Phone:               fmt.Sprintf("+7 9%02d %03d-%02d-%02d", g.rng.Intn(100), g.rng.Intn(1000), g.rng.Intn(100), g.rng.Intn(100)),
		ConstructionAddress: fmt.Sprintf("%s st. %d", streets[g.rng.Intn(len(streets))], 1+g.rng.Intn(120)),
		Status:              g.cfg.StatusMix[g.rng.Intn(len(g.cfg.StatusMix))],
		CreatedAt:           created,
		UpdatedAt:           created.Add(time.Duration(g.rng.Intn(72)) * time.Hour),
	}
}

// Clients creates n clients with sequential IDs.
func (g *Generator) Clients(n int) []model.Client {
	out := make([]model.Client, n)
	for i := range out {
		out[i] = g.Client(i)
	}
	return out
}

// WithStatuses builds minimal clients with IDs "1".."n" and the given statuses.
func WithStatuses(statuses ...model.Status) []model.Client {
	out := make([]model.Client, len(statuses))
	for i, s := range statuses {
		out[i] = model.Client{
			ID:       fmt.Sprint(i + 1),
			LastName: fmt.Sprintf("Client%d", i+1),
			Status:   s,
		}
	}
	return out
}

// ToJSONL serializes clients one per line.
func ToJSONL(clients []model.Client) string {
	var b strings.Builder
	for _, c := range clients {
		data, err := json.Marshal(c)
		if err != nil {
			panic(fmt.Sprintf("testutil: marshal client %s: %v", c.ID, err))
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}

// StatusGen draws a status, mostly canonical with occasional unknown or
// oddly cased values.
func StatusGen() *rapid.Generator[model.Status] {
	return rapid.Custom(func(t *rapid.T) model.Status {
		choices := []model.Status{
			model.StatusBuilding, model.StatusDeposit, model.StatusBuilt,
			"", "archived", "Building",
		}
		return choices[rapid.IntRange(0, len(choices)-1).Draw(t, "status")]
	})
}

// ClientsGen draws a client slice of up to maxLen elements with unique IDs.
func ClientsGen(maxLen int) *rapid.Generator[[]model.Client] {
	return rapid.Custom(func(t *rapid.T) []model.Client {
		n := rapid.IntRange(0, maxLen).Draw(t, "n")
		out := make([]model.Client, n)
		for i := range out {
			out[i] = model.Client{
				ID:       fmt.Sprintf("r-%d", i),
				LastName: rapid.StringMatching(`[A-Z][a-z]{0,8}`).Draw(t, "last"),
				Status:   StatusGen().Draw(t, "status"),
			}
		}
		return out
	})
}

// Empty returns an empty client slice.
func Empty() []model.Client {
	return []model.Client{}
}
