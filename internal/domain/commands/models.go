package commands

import "time"

// DefaultCategory is given to commands discovered on Discord without a category.
const DefaultCategory = "Discord"

type Command struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	UsageCount  int        `json:"usageCount"`
	Enabled     bool       `json:"enabled"`
	LastUsed    *time.Time `json:"lastUsed"`
}

// NewCommand is the input of Create. Enabled defaults to true.
type NewCommand struct {
	Name        string
	Description string
	Category    string
	Enabled     *bool
}

// Patch lists the fields Update may change. Nil fields are left alone.
type Patch struct {
	Name        *string
	Description *string
	Category    *string
	Enabled     *bool
}

// Apply copies the set fields of p onto c.
func (p Patch) Apply(c *Command) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Enabled != nil {
		c.Enabled = *p.Enabled
	}
}
