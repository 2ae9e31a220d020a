package domain

// Message is one entry of a chat timeline (user turn or model reply).
type Message struct {
	ID        MessageID
	SessionID SessionID
	Role      Role
	Text      string
	CreatedAt Timestamp

	// Metadata about how a model reply was produced
	Mode    ResponseMode
	IsError bool
	Sources []Source
}

// Session groups an append-only list of messages.
type Session struct {
	ID        SessionID
	Title     string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}
