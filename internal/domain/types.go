package domain

import "time"

type SessionID string
type MessageID string

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ResponseMode tags where an answer came from. It is the only signal
// consumers use to decide between live and offline rendering.
type ResponseMode string

const (
	ModeLiveSearch ResponseMode = "live_search"    // provider answered with web search enabled
	ModeLive       ResponseMode = "live"           // provider answered from its own knowledge
	ModeFallback   ResponseMode = "local_fallback" // provider failed, answer computed locally
)

// IsLive reports whether the mode represents a provider answer.
func (m ResponseMode) IsLive() bool {
	return m == ModeLiveSearch || m == ModeLive
}

// Badge is the provenance label shown next to a rendered answer.
func (m ResponseMode) Badge() string {
	if m.IsLive() {
		return "live"
	}
	return "offline_estimated"
}

type Timestamp = time.Time
