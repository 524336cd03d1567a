package settings

var (
	Statuses      = []string{"online", "idle", "dnd", "invisible"}
	ActivityTypes = []string{"playing", "watching", "listening", "competing"}
)

type Settings struct {
	Prefix            string `json:"prefix"`
	Status            string `json:"status"`
	Activity          string `json:"activity"`
	ActivityType      string `json:"activityType"`
	AutoResponse      bool   `json:"autoResponse"`
	LoggingEnabled    bool   `json:"loggingEnabled"`
	ModerationEnabled bool   `json:"moderationEnabled"`
}

// Defaults is what a fresh store starts with.
func Defaults() Settings {
	return Settings{
		Prefix:            "!",
		Status:            "online",
		Activity:          "com os comandos",
		ActivityType:      "playing",
		AutoResponse:      true,
		LoggingEnabled:    true,
		ModerationEnabled: false,
	}
}

// Patch holds the fields of a settings update. Nil means unchanged.
type Patch struct {
	Prefix            *string
	Status            *string
	Activity          *string
	ActivityType      *string
	AutoResponse      *bool
	LoggingEnabled    *bool
	ModerationEnabled *bool
}

// Merge returns cur with every set field of p applied.
func Merge(cur Settings, p Patch) Settings {
	if p.Prefix != nil {
		cur.Prefix = *p.Prefix
	}
	if p.Status != nil {
		cur.Status = *p.Status
	}
	if p.Activity != nil {
		cur.Activity = *p.Activity
	}
	if p.ActivityType != nil {
		cur.ActivityType = *p.ActivityType
	}
	if p.AutoResponse != nil {
		cur.AutoResponse = *p.AutoResponse
	}
	if p.LoggingEnabled != nil {
		cur.LoggingEnabled = *p.LoggingEnabled
	}
	if p.ModerationEnabled != nil {
		cur.ModerationEnabled = *p.ModerationEnabled
	}
	return cur
}
