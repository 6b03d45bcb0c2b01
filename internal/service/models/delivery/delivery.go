package delivery

import "time"

// TimelineItem is one carrier status checkpoint of a shipment.
type TimelineItem struct {
	Status    string    `json:"status"    validate:"required"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Location  string    `json:"location,omitempty"`
	Remarks   string    `json:"remarks,omitempty"`
	UpdatedBy string    `json:"updatedBy"`
}

// Timeline is the ordered checkpoint sequence of a shipment.
type Timeline []TimelineItem

// Current returns the latest checkpoint, or false for an empty timeline.
func (t Timeline) Current() (TimelineItem, bool) {
	if len(t) == 0 {
		return TimelineItem{}, false
	}

	return t[len(t)-1], true
}
