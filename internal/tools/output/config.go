package output

// Default limits for output truncation.
// These are tuned for typical LLM context windows and API response sizes.
const (
	// DefaultMaxItems is the default maximum number of resources returned per query.
	DefaultMaxItems = 100

	// AbsoluteMaxItems is the absolute maximum items that can be requested.
	// This prevents unbounded result sets even when callers request higher limits.
	AbsoluteMaxItems = 1000

	// DefaultMaxLogBytes is the default per-pod byte budget for log output (64KB).
	DefaultMaxLogBytes = 64 * 1024

	// AbsoluteMaxLogBytes is the absolute per-pod byte budget for log output (1MB).
	AbsoluteMaxLogBytes = 1024 * 1024
)

// TruncationWarning contains information about response truncation.
type TruncationWarning struct {
	// Shown is the number of items returned
	Shown int `json:"shown"`

	// Total is the total number of items before truncation
	Total int `json:"total"`

	// Message is a human-readable warning message
	Message string `json:"message"`

	// SuggestFilters suggests filter options to reduce results
	SuggestFilters []string `json:"suggestFilters,omitempty"`
}
