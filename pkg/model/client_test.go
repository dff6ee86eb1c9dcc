package model

import "testing"

func TestStatusNormalize(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{"building", StatusBuilding},
		{" Building ", StatusBuilding},
		{"DEPOSIT", StatusDeposit},
		{"", ""},
		{"   ", "   "},
		{"Archived", "archived"},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusIsCanonical(t *testing.T) {
	for _, s := range CanonicalStatuses {
		if !s.IsCanonical() {
			t.Errorf("%q should be canonical", s)
		}
	}
	for _, s := range []Status{"", "all", "Building", "archived"} {
		if s.IsCanonical() {
			t.Errorf("%q should not be canonical", s)
		}
	}
}

func TestClientValidate(t *testing.T) {
	c := Client{ID: "  "}
	if err := c.Validate(); err != ErrMissingID {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	c.ID = "42"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientDisplayName(t *testing.T) {
	tests := []struct {
		c    Client
		want string
	}{
		{Client{LastName: "Ivanov", FirstName: "Petr"}, "Ivanov Petr"},
		{Client{LastName: "Ivanov"}, "Ivanov"},
		{Client{FirstName: "Petr"}, "Petr"},
		{Client{}, ""},
	}
	for _, tt := range tests {
		if got := tt.c.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterAll, false},
		{"all", FilterAll, false},
		{"Building", FilterBuilding, false},
		{" deposit", FilterDeposit, false},
		{"BUILT", FilterBuilt, false},
		{"archived", FilterAll, true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilter(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	seen := []Filter{f}
	for i := 0; i < len(Filters); i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []Filter{FilterAll, FilterBuilding, FilterDeposit, FilterBuilt, FilterAll}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
	if Filter("bogus").Next() != FilterAll {
		t.Error("unknown filter should cycle to all")
	}
}

func TestFilterApplyPreservesOrder(t *testing.T) {
	clients := []Client{
		{ID: "1", Status: StatusBuilt},
		{ID: "2", Status: StatusBuilding},
		{ID: "3", Status: StatusBuilt},
		{ID: "4", Status: "archived"},
	}
	got := FilterBuilt.Apply(clients)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if all := FilterAll.Apply(clients); len(all) != 4 {
		t.Fatalf("all filter should keep every client, got %d", len(all))
	}
}
