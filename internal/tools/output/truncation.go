package output

import (
	"fmt"
	"strings"
)

// TruncateItems truncates a slice of items to the given maximum.
// Returns the truncated slice and a warning if truncation occurred.
// A maxItems of zero or less falls back to DefaultMaxItems; requests above
// AbsoluteMaxItems are capped there.
func TruncateItems[T any](items []T, maxItems int) ([]T, *TruncationWarning) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if maxItems > AbsoluteMaxItems {
		maxItems = AbsoluteMaxItems
	}

	total := len(items)
	if total <= maxItems {
		return items, nil
	}

	truncated := items[:maxItems]
	warning := &TruncationWarning{
		Shown:   maxItems,
		Total:   total,
		Message: fmt.Sprintf("Output truncated. Showing %d of %d items. Refine your query with namespace or label filters for complete results.", maxItems, total),
	}

	if total > DefaultMaxItems*5 {
		warning.SuggestFilters = []string{
			"Use labelSelector to filter by labels (e.g., app=nginx)",
			"Use namespace to limit to a specific namespace",
		}
	}

	return truncated, warning
}

// TruncateLogs caps log output at maxBytes, keeping the most recent content.
// Truncation happens on a line boundary so partial lines are never returned.
// The second return value reports whether truncation occurred; when it did,
// the returned logs start with an explicit notice.
func TruncateLogs(logs string, maxBytes int) (string, bool) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxLogBytes
	}
	if maxBytes > AbsoluteMaxLogBytes {
		maxBytes = AbsoluteMaxLogBytes
	}

	if len(logs) <= maxBytes {
		return logs, false
	}

	tail := logs[len(logs)-maxBytes:]
	// Drop the first (likely partial) line.
	if idx := strings.IndexByte(tail, '\n'); idx >= 0 && idx < len(tail)-1 {
		tail = tail[idx+1:]
	}

	notice := fmt.Sprintf("[log output truncated: showing last %d of %d bytes]\n", len(tail), len(logs))
	return notice + tail, true
}

// EffectiveLimit calculates the effective limit from a per-request limit and
// a configured limit, bounded by the absolute maximum.
func EffectiveLimit(requestLimit, configLimit int) int {
	if requestLimit <= 0 {
		if configLimit <= 0 {
			return DefaultMaxItems
		}
		return min(configLimit, AbsoluteMaxItems)
	}

	effective := requestLimit
	if configLimit > 0 && configLimit < effective {
		effective = configLimit
	}

	return min(effective, AbsoluteMaxItems)
}
