package timeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/metrics"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/service/services/auditsvc"
)

const (
	LoadingPlaceholder = "Loading audit trail..."
	EmptyPlaceholder   = "No audit logs found for this order."
	errorPrefix        = "Error loading audit trail: "

	timestampLayout = "Jan 2, 2006 15:04:05 MST"
)

// hook is the stateful audit accessor the timeline fetches through.
type hook interface {
	GetOrderAudit(ctx context.Context, orderID string, query audit.OrderAuditQuery) *audit.OrderAuditTrail
	State() auditsvc.State
}

// OrderAuditTimeline renders the audit trail of one order.
//
// Every fetch fully replaces the held entries. By default the response that
// resolves last is the one kept, even if it belongs to an older request, and
// loading and error state are read from the hook. WithRequestOrdering keeps
// only the most recently requested response and tracks loading and error
// per request, so a superseded failure never surfaces.
type OrderAuditTimeline struct {
	hook     hook
	ordered  bool
	location *time.Location

	mu         sync.Mutex
	orderID    string
	limit      int
	loaded     bool
	generation uint64
	isLoading  bool
	err        string
	auditLogs  []audit.LogEntry
	totalLogs  int
}

// option is a function that configures the OrderAuditTimeline.
type option func(*OrderAuditTimeline)

// WithRequestOrdering drops responses that belong to superseded requests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRequestOrdering() option {
	return func(t *OrderAuditTimeline) {
		t.ordered = true
	}
}

// WithLocation sets the time zone timestamps are rendered in.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithLocation(loc *time.Location) option {
	return func(t *OrderAuditTimeline) {
		t.location = loc
	}
}

// NewOrderAuditTimeline creates a timeline that fetches through h.
func NewOrderAuditTimeline(h hook, opts ...option) *OrderAuditTimeline {
	t := &OrderAuditTimeline{
		hook:     h,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// SetParams points the timeline at an order. The first call and every call
// that changes orderID or limit trigger a fetch; it reports whether one ran.
func (t *OrderAuditTimeline) SetParams(ctx context.Context, orderID string, limit int) bool {
	t.mu.Lock()
	if t.loaded && t.orderID == orderID && t.limit == limit {
		t.mu.Unlock()

		return false
	}
	t.orderID = orderID
	t.limit = limit
	t.loaded = true
	gen := t.nextGeneration()
	t.mu.Unlock()

	t.fetch(ctx, gen, orderID, limit)

	return true
}

// Refresh refetches with the current parameters.
func (t *OrderAuditTimeline) Refresh(ctx context.Context) {
	t.mu.Lock()
	if !t.loaded {
		t.mu.Unlock()

		return
	}
	gen, orderID, limit := t.nextGeneration(), t.orderID, t.limit
	t.mu.Unlock()

	t.fetch(ctx, gen, orderID, limit)
}

// nextGeneration starts a new request. t.mu must be held.
func (t *OrderAuditTimeline) nextGeneration() uint64 {
	t.generation++
	t.isLoading = true
	t.err = ""

	return t.generation
}

func (t *OrderAuditTimeline) fetch(ctx context.Context, gen uint64, orderID string, limit int) {
	trail := t.hook.GetOrderAudit(ctx, orderID, audit.OrderAuditQuery{Limit: limit})

	var failure string
	if trail == nil {
		failure = t.hook.State().Error
		if failure == "" {
			failure = auditsvc.ErrMsgUnexpected
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ordered && gen != t.generation {
		slog.Debug("Dropping superseded audit trail response",
			"order_id", orderID,
			"generation", gen,
			"current_generation", t.generation,
			"failed", trail == nil,
		)

		return
	}
	t.isLoading = false
	t.err = failure
	if trail == nil {
		return
	}
	t.auditLogs = trail.AuditLogs
	t.totalLogs = trail.TotalLogs
}

// View is the renderable state of the timeline.
type View struct {
	OrderID   string           `json:"orderId"`
	IsLoading bool             `json:"isLoading"`
	Error     string           `json:"error,omitempty"`
	AuditLogs []audit.LogEntry `json:"auditLogs"`
	TotalLogs int              `json:"totalLogs"`
}

// View returns a snapshot of the timeline state.
func (t *OrderAuditTimeline) View() View {
	st := t.hook.State()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ordered {
		st = auditsvc.State{IsLoading: t.isLoading, Error: t.err}
	}

	logs := make([]audit.LogEntry, len(t.auditLogs))
	copy(logs, t.auditLogs)

	return View{
		OrderID:   t.orderID,
		IsLoading: st.IsLoading,
		Error:     st.Error,
		AuditLogs: logs,
		TotalLogs: t.totalLogs,
	}
}

// Render writes the timeline as text. Loading and error states take
// precedence over the held entries.
func (t *OrderAuditTimeline) Render(w io.Writer) error {
	v := t.View()

	var b strings.Builder
	state := renderView(&b, v, t.location)
	metrics.TimelineRendersTotal.WithLabelValues(state).Inc()

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("failed to write audit timeline: %w", err)
	}

	return nil
}

func renderView(b *strings.Builder, v View, loc *time.Location) string {
	switch {
	case v.IsLoading:
		b.WriteString(LoadingPlaceholder + "\n")

		return "loading"
	case v.Error != "":
		b.WriteString(errorPrefix + v.Error + "\n")

		return "error"
	case len(v.AuditLogs) == 0:
		b.WriteString(EmptyPlaceholder + "\n")

		return "empty"
	}

	fmt.Fprintf(b, "Audit Trail (%d of %d)\n", len(v.AuditLogs), v.TotalLogs)
	for _, entry := range v.AuditLogs {
		b.WriteString("\n")
		renderEntry(b, entry, loc)
	}

	return "entries"
}

func renderEntry(b *strings.Builder, e audit.LogEntry, loc *time.Location) {
	style := OperationStyle(e.Operation)

	fmt.Fprintf(b, "%s %s  %s", style.Icon, e.Operation, e.Timestamps.CreatedAt.In(loc).Format(timestampLayout))
	if e.IsBulkOperation {
		b.WriteString("  [BULK]")
	}
	b.WriteString("\n")

	if e.OperationDescription != "" {
		fmt.Fprintf(b, "  %s\n", e.OperationDescription)
	}
	fmt.Fprintf(b, "  by %s", e.PerformedBy.UserName)
	if e.PerformedBy.UserEmail != "" {
		fmt.Fprintf(b, " <%s>", e.PerformedBy.UserEmail)
	}
	b.WriteString("\n")

	if len(e.ChangeSummary) > 0 {
		b.WriteString("  Changes:\n")
		for _, c := range e.ChangeSummary {
			fmt.Fprintf(b, "    - %s\n", FormatChange(c))
		}
	}
	if e.Reason != "" {
		fmt.Fprintf(b, "  Reason: %s\n", e.Reason)
	}
	if e.IPAddress != "" {
		fmt.Fprintf(b, "  IP: %s\n", e.IPAddress)
	}
}

// FormatChange renders a change as "field: old → new" with both values in
// compact JSON.
func FormatChange(c audit.Change) string {
	return fmt.Sprintf("%s: %s → %s", c.Field, formatValue(c.OldValue), formatValue(c.NewValue))
}

func formatValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}

	return buf.String()
}
