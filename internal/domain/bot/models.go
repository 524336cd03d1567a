package bot

import "strings"

// User is the identity shown in the dashboard header.
type User struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Avatar      *string `json:"avatar"`
	IsDeveloper bool    `json:"isDeveloper"`
}

// Placeholder is served when there is neither a session nor a reachable bot.
var Placeholder = User{
	ID:          "0",
	Username:    "OrbitalBot",
	DisplayName: "OrbitalBot",
}

type Language struct {
	Language string `json:"language"`
	Badge    string `json:"badge"`
	Color    string `json:"color"`
}

var catalog = map[string]Language{
	"typescript": {Language: "TypeScript", Badge: "TS", Color: "#3178c6"},
	"javascript": {Language: "JavaScript", Badge: "JS", Color: "#f7df1e"},
	"python":     {Language: "Python", Badge: "PY", Color: "#3776ab"},
	"java":       {Language: "Java", Badge: "JAVA", Color: "#007396"},
	"cpp":        {Language: "C++", Badge: "C++", Color: "#00599c"},
	"csharp":     {Language: "C#", Badge: "C#", Color: "#239120"},
	"go":         {Language: "Go", Badge: "GO", Color: "#00add8"},
	"rust":       {Language: "Rust", Badge: "RS", Color: "#ce422b"},
}

// Badges resolves language keys (case-insensitive) against the catalog, dropping
// unknown and repeated keys. keys holds the accepted keys, lowercased.
func Badges(in []string) (langs []Language, keys []string) {
	langs = make([]Language, 0, len(in))
	keys = make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		lang, ok := catalog[k]
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		langs = append(langs, lang)
		keys = append(keys, k)
	}
	return langs, keys
}

// Result describes a credential that was accepted.
type Result struct {
	ApplicationID string     `json:"applicationId"`
	Name          string     `json:"name"`
	OwnerID       string     `json:"ownerId"`
	Languages     []Language `json:"languages"`
}

// Status reports whether the dashboard has a bot and who owns it.
type Status struct {
	Configured bool   `json:"configured"`
	OwnerID    string `json:"ownerId,omitempty"`
}
