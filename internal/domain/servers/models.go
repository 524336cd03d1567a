package servers

import "time"

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

type Server struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        *string   `json:"icon"`
	MemberCount int       `json:"memberCount"`
	Status      Status    `json:"status"`
	JoinedAt    time.Time `json:"joinedAt"`
}
