package timeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/delivery"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/status"
)

const NoTrackingPlaceholder = "No tracking updates yet"

// ShippedItem renders the delivery timeline of a shipment. Collapsed, only
// the current (last) checkpoint is shown.
type ShippedItem struct {
	Timeline delivery.Timeline
	Expanded bool
	Location *time.Location
}

// Render writes the delivery timeline as text.
func (s ShippedItem) Render(w io.Writer) error {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	current, ok := s.Timeline.Current()
	if !ok {
		b.WriteString(NoTrackingPlaceholder + "\n")
	} else if !s.Expanded {
		renderCheckpoint(&b, current, loc)
	} else {
		fmt.Fprintf(&b, "Tracking history (%d updates)\n", len(s.Timeline))
		for _, item := range s.Timeline {
			renderCheckpoint(&b, item, loc)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write delivery timeline: %w", err)
	}

	return nil
}

func renderCheckpoint(b *strings.Builder, item delivery.TimelineItem, loc *time.Location) {
	c := status.Classify(item.Status)

	fmt.Fprintf(b, "[%s] %s  %s\n", c.Icon, c.Label, item.Timestamp.In(loc).Format(timestampLayout))
	if c.Label != item.Status {
		fmt.Fprintf(b, "  Status: %s\n", item.Status)
	}
	if item.Location != "" {
		fmt.Fprintf(b, "  Location: %s\n", item.Location)
	}
	if item.Remarks != "" {
		fmt.Fprintf(b, "  Remarks: %s\n", item.Remarks)
	}
	if item.UpdatedBy != "" {
		fmt.Fprintf(b, "  Updated by: %s\n", item.UpdatedBy)
	}
}
