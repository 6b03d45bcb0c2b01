package status

import "strings"

// UnknownKey is the StatusColorMapHex entry used for unmapped statuses.
const UnknownKey = "unknown"

// StatusColorMapHex maps canonical order status keys to chart and badge fills.
var StatusColorMapHex = map[string]string{
	"pending":          "#F59E0B",
	"confirmed":        "#3B82F6",
	"processing":       "#EAB308",
	"packed":           "#06B6D4",
	"shipped":          "#6366F1",
	"in_transit":       "#2563EB",
	"out_for_delivery": "#8B5CF6",
	"delivered":        "#10B981",
	"cancelled":        "#EF4444",
	"returned":         "#F97316",
	"refunded":         "#EC4899",
	"failed":           "#DC2626",
	"on_hold":          "#A855F7",
	UnknownKey:         "#6B7280",
}

// ColorHex returns the fill for key, falling back to the unknown entry.
func ColorHex(key string) string {
	if c, ok := StatusColorMapHex[key]; ok {
		return c
	}

	return StatusColorMapHex[UnknownKey]
}

// Key normalizes a free-text status to a StatusColorMapHex key, so
// "Out for delivery" becomes "out_for_delivery".
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
