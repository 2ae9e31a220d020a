package domain

import "errors"

// ErrorCode is the closed set of AI failure reasons surfaced to callers.
type ErrorCode string

const (
	ErrCodeCredentialMissing ErrorCode = "CREDENTIAL_MISSING"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeEmptyResponse     ErrorCode = "EMPTY_RESPONSE"
	ErrCodeGateway           ErrorCode = "GATEWAY_ERROR"
	ErrCodeParseFailure      ErrorCode = "PARSE_FAILURE"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrTrainNotFound   = errors.New("train not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyQuery      = errors.New("query is required")
	ErrEmptyMessage    = errors.New("message text is required")
	ErrNothingToRetry  = errors.New("no user message to retry")
	ErrAdminDisabled   = errors.New("admin access is not configured")
	ErrInvalidPIN      = errors.New("invalid admin pin")
	ErrCacheMiss       = errors.New("cache miss")
)

var errorExplanations = map[ErrorCode]string{
	ErrCodeCredentialMissing: "এআই সার্ভারের API Key সেট করা নেই। অ্যাডমিনকে এনভায়রনমেন্ট ভেরিয়েবল (API_KEY) চেক করতে বলুন।",
	ErrCodeTimeout:           "লাইভ ডাটা সার্চ করতে অনেক সময় লাগছে। কিছুক্ষণ পর আবার চেষ্টা করুন।",
	ErrCodeEmptyResponse:     "এআই সার্ভার কোনো উত্তর দেয়নি। আবার চেষ্টা করুন।",
	ErrCodeGateway:           "এআই সার্ভারের সাথে সংযোগে সমস্যা হয়েছে। এটি নেটওয়ার্ক বা কোটা সমস্যা হতে পারে।",
	ErrCodeParseFailure:      "এআই থেকে পাওয়া তথ্য পড়া যায়নি। লোকাল তথ্য দেখানো হচ্ছে।",
}

const defaultErrorExplanation = "লাইভ তথ্য পাওয়া যায়নি। লোকাল আপডেট দেখানো হচ্ছে।"

// ExplainError maps an error code to a user-facing Bengali message.
// Unknown and empty codes get a generic message.
func ExplainError(code ErrorCode) string {
	if msg, ok := errorExplanations[code]; ok {
		return msg
	}
	return defaultErrorExplanation
}
