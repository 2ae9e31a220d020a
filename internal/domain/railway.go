package domain

type TrainType string

const (
	TrainIntercity TrainType = "intercity"
	TrainMail      TrainType = "mail"
	TrainCommuter  TrainType = "commuter"
)

// Train is static reference data; DetailedRoute is the comma separated,
// ordered list of stops.
type Train struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Route         string    `json:"route"`
	DetailedRoute string    `json:"detailedRoute"`
	Departure     string    `json:"departure"`
	Arrival       string    `json:"arrival,omitempty"`
	OffDay        string    `json:"offDay"`
	Type          TrainType `json:"type"`
}

// AIInference is the presentation-facing summary of a position lookup.
// Confidence is a coarse provenance indicator, not a probability.
type AIInference struct {
	Reason       string  `json:"reason"`
	Confidence   float64 `json:"confidence"`
	IsAI         bool    `json:"isAI"`
	DelayMinutes int     `json:"delayMinutes"`
}
