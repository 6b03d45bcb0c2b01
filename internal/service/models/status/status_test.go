package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		expectedLabel string
		expectedIcon  string
	}{
		{name: "delivered", status: "delivered", expectedLabel: "Delivered", expectedIcon: "check-circle"},
		{name: "in transit", status: "Package in transit to hub", expectedLabel: "In Transit", expectedIcon: "truck"},
		{name: "shipping", status: "SHIPPING LABEL CREATED", expectedLabel: "In Transit", expectedIcon: "truck"},
		{name: "preparing", status: "Preparing order", expectedLabel: "Processing", expectedIcon: "package"},
		{name: "failed", status: "Delivery failed", expectedLabel: "Cancelled", expectedIcon: "x-circle"},
		{name: "awaiting", status: "Awaiting pickup", expectedLabel: "Pending", expectedIcon: "clock"},
		{name: "out for delivery", status: "Out for delivery", expectedLabel: "Out for Delivery", expectedIcon: "map-pin"},
		{name: "cancelled wins over pending", status: "cancelled - pending review", expectedLabel: "Cancelled", expectedIcon: "x-circle"},
		{name: "delivered wins over everything", status: "delivered after failed attempt", expectedLabel: "Delivered", expectedIcon: "check-circle"},
		{name: "unknown keeps input", status: "frobnicated", expectedLabel: "frobnicated", expectedIcon: "info"},
		{name: "empty", status: "", expectedLabel: "", expectedIcon: "info"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.status)
			assert.Equal(t, tc.expectedLabel, got.Label)
			assert.Equal(t, tc.expectedIcon, got.Icon)
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	upper := Classify("DELIVERED")
	title := Classify("Delivered")
	lower := Classify("delivered")

	assert.Equal(t, "Delivered", upper.Label)
	assert.Equal(t, upper, title)
	assert.Equal(t, title, lower)
	assert.Equal(t, lower, Classify(lower.Label))
}

func TestUnknownKeepsOriginalCase(t *testing.T) {
	assert.Equal(t, "Frobnicated By Courier", Classify("Frobnicated By Courier").Label)
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#10B981", ColorHex("delivered"))
	assert.Equal(t, StatusColorMapHex[UnknownKey], ColorHex("no-such-status"))
	assert.Equal(t, "#6B7280", ColorHex(""))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "out_for_delivery", Key(" Out for delivery "))
	assert.Equal(t, "in_transit", Key("In-Transit"))
	assert.Equal(t, "#8B5CF6", ColorHex(Key("Out For Delivery")))
}
