// Package interpret contains the pure functions that turn the game console's
// free-text replies into structured data. The rest of the bot never inspects
// raw reply text directly, so wording changes on the server side only ever
// touch this package.
package interpret

import (
	"regexp"
	"strings"
)

var (
	rePlayers = regexp.MustCompile(`Connected players:\s*(\d+)`)
	reChars   = regexp.MustCompile(`Characters in world:\s*(\d+)`)
	// The console always terminates the uptime line with CRLF.
	reUptime  = regexp.MustCompile(`Server uptime:\s*(.+?)\r`)
	reCreated = regexp.MustCompile(`(?i)Account created:?\s*([^\s,.]+)`)
)

// ServerInfo holds the three independently optional fields of a "server info"
// reply. An empty string means the field was absent from the reply.
type ServerInfo struct {
	Players    string
	Characters string
	Uptime     string
}

// ParseServerInfo extracts player count, character count and uptime from a
// "server info" reply. Each field is optional on its own.
func ParseServerInfo(raw string) ServerInfo {
	var info ServerInfo
	if m := rePlayers.FindStringSubmatch(raw); m != nil {
		info.Players = m[1]
	}
	if m := reChars.FindStringSubmatch(raw); m != nil {
		info.Characters = m[1]
	}
	if m := reUptime.FindStringSubmatch(raw); m != nil {
		info.Uptime = m[1]
	}
	return info
}

// Outcome is the semantic class of a console reply.
type Outcome int

const (
	Acknowledged Outcome = iota
	NotFound
	ServerError
	PasswordChanged
)

const passwordChangedPhrase = "The password was changed"

// Classify decides which semantic class a reply belongs to. The first two
// checks are substring-based and case-insensitive; the password check is an
// exact phrase match. Callers must not assume any other normalization.
func Classify(raw string) Outcome {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "does not exist"):
		return NotFound
	case strings.Contains(lower, "500"):
		return ServerError
	case strings.Contains(raw, passwordChangedPhrase):
		return PasswordChanged
	default:
		return Acknowledged
	}
}

// CreatedAccount pulls the newly created login out of an account-created
// confirmation. When the reply does not match the expected sentence the full
// raw text is returned instead, so nothing is silently dropped.
func CreatedAccount(raw string) string {
	if m := reCreated.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}
