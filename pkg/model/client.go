// Package model defines the client records shown by sitebook.
package model

import (
	"errors"
	"strings"
	"time"
)

// Status is the construction stage a client is in.
type Status string

const (
	StatusBuilding Status = "building"
	StatusDeposit  Status = "deposit"
	StatusBuilt    Status = "built"
)

// CanonicalStatuses lists the statuses in section order.
var CanonicalStatuses = []Status{StatusBuilding, StatusDeposit, StatusBuilt}

// IsCanonical reports whether s is one of building, deposit or built.
func (s Status) IsCanonical() bool {
	switch s {
	case StatusBuilding, StatusDeposit, StatusBuilt:
		return true
	default:
		return false
	}
}

// Normalize lowercases and trims a status read from disk.
// Empty statuses are returned unchanged.
func (s Status) Normalize() Status {
	trimmed := strings.TrimSpace(string(s))
	if trimmed == "" {
		return s
	}
	return Status(strings.ToLower(trimmed))
}

// Client is a single customer record.
type Client struct {
	ID                  string    `json:"id"`
	LastName            string    `json:"last_name"`
	FirstName           string    `json:"first_name"`
	ClientNumber        string    `json:"client_number"`
	Phone               string    `json:"phone"`
	ConstructionAddress string    `json:"construction_address"`
	Status              Status    `json:"status"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
	UpdatedAt           time.Time `json:"updated_at,omitempty"`

	// Source is the office name when loaded from a workspace.
	Source string `json:"source,omitempty"`
}

// ErrMissingID is returned by Validate for records without an identifier.
var ErrMissingID = errors.New("client ID cannot be empty")

// Validate checks the only hard requirement on a record: an ID.
// Display fields are never validated.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrMissingID
	}
	return nil
}

// DisplayName returns "LastName FirstName" with missing parts dropped.
func (c Client) DisplayName() string {
	switch {
	case c.LastName == "":
		return c.FirstName
	case c.FirstName == "":
		return c.LastName
	default:
		return c.LastName + " " + c.FirstName
	}
}
