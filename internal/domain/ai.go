package domain

// Turn is a single conversational turn sent to the provider.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request is the immutable input of one gateway call. Either Prompt or
// Turns is set; a bare Prompt becomes a single user turn.
type Request struct {
	Prompt            string
	Turns             []Turn
	SystemInstruction string
	UseSearch         bool
	Category          Category
}

// Source is a provenance entry attached to a live answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Result is the uniform outcome of a gateway call.
// Text is nil if and only if Mode is ModeFallback.
type Result struct {
	Text    *string
	Mode    ResponseMode
	Error   ErrorCode
	Detail  string // provider message, for logs only
	Sources []Source
}

// Success builds a live result.
func Success(text string, mode ResponseMode, sources []Source) Result {
	return Result{Text: &text, Mode: mode, Sources: sources}
}

// Failure builds a fallback result carrying the error code.
func Failure(code ErrorCode, detail string) Result {
	return Result{Mode: ModeFallback, Error: code, Detail: detail}
}

// Failed reports whether the call failed.
func (r Result) Failed() bool {
	return r.Text == nil
}

// TextOrEmpty returns the reply text, or "" for a failed call.
func (r Result) TextOrEmpty() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}
