package activity

import "time"

type Type string

const (
	TypeCommand Type = "command"
	TypeJoin    Type = "join"
	TypeLeave   Type = "leave"
	TypeError   Type = "error"
	TypeConfig  Type = "config"
)

// Valid reports whether t is one of the known log types.
func (t Type) Valid() bool {
	switch t {
	case TypeCommand, TypeJoin, TypeLeave, TypeError, TypeConfig:
		return true
	}
	return false
}

// Log is one entry of the append-only audit trail.
type Log struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	ServerID    *string   `json:"serverId"`
	ServerName  *string   `json:"serverName"`
	UserID      *string   `json:"userId"`
	Username    *string   `json:"username"`
	Details     *string   `json:"details"`
}

// Actor is the dashboard user behind a mutation.
type Actor struct {
	UserID   string
	Username string
}

// Entry is what callers hand to Record. Empty strings are stored as null.
type Entry struct {
	Type        Type
	Description string
	Details     string
	ServerID    string
	ServerName  string
	Actor       *Actor
}

// Filter narrows List. Zero values mean no restriction.
type Filter struct {
	Type  Type
	Since time.Time
	Limit int
}
