package auditsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/result"
)

// ErrMsgUnexpected is reported when a call fails without a usable message.
const ErrMsgUnexpected = "An unexpected error occurred"

// client is the audit transport the service wraps.
type client interface {
	GetOrderAudit(ctx context.Context, orderID string, query audit.OrderAuditQuery) result.Result[audit.OrderAuditTrail]
	GetAllAudits(ctx context.Context, query audit.AllAuditsQuery) result.Result[audit.Page]
	GetUserAudits(ctx context.Context, userID string, query audit.UserAuditsQuery) result.Result[audit.UserAuditTrail]
	GetAuditStats(ctx context.Context, query audit.StatsQuery) result.Result[audit.Stats]
}

// State is a snapshot of the loading and error state of an AuditService.
type State struct {
	IsLoading bool
	Error     string
}

// AuditService wraps the audit client with loading and error state.
// The state is shared by all accessors and the last writer wins; callers
// that need isolated state use separate instances.
type AuditService struct {
	client client

	mu        sync.RWMutex
	isLoading bool
	err       string
}

// option is a function that configures the AuditService.
type option func(*AuditService)

// MustNewAuditService creates a new AuditService.
func MustNewAuditService(opts ...option) *AuditService {
	s := &AuditService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		panic("auditsvc: audit client is not set")
	}

	return s
}

// WithClient sets the audit client for the AuditService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClient(c client) option {
	return func(s *AuditService) {
		s.client = c
	}
}

// State returns the current loading and error state.
func (s *AuditService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{IsLoading: s.isLoading, Error: s.err}
}

// IsLoading reports whether a call is in flight.
func (s *AuditService) IsLoading() bool {
	return s.State().IsLoading
}

// Error returns the last failure message, or an empty string.
func (s *AuditService) Error() string {
	return s.State().Error
}

// GetOrderAudit returns the audit trail of one order, or nil on failure.
func (s *AuditService) GetOrderAudit(
	ctx context.Context,
	orderID string,
	query audit.OrderAuditQuery,
) *audit.OrderAuditTrail {
	return call(s, "GetOrderAudit", func() result.Result[audit.OrderAuditTrail] {
		return s.client.GetOrderAudit(ctx, orderID, query)
	})
}

// GetAllAudits returns one page of the global audit log, or nil on failure.
func (s *AuditService) GetAllAudits(ctx context.Context, query audit.AllAuditsQuery) *audit.Page {
	return call(s, "GetAllAudits", func() result.Result[audit.Page] {
		return s.client.GetAllAudits(ctx, query)
	})
}

// GetUserAudits returns the entries attributed to one actor, or nil on failure.
func (s *AuditService) GetUserAudits(
	ctx context.Context,
	userID string,
	query audit.UserAuditsQuery,
) *audit.UserAuditTrail {
	return call(s, "GetUserAudits", func() result.Result[audit.UserAuditTrail] {
		return s.client.GetUserAudits(ctx, userID, query)
	})
}

// GetAuditStats returns aggregate audit counters, or nil on failure.
func (s *AuditService) GetAuditStats(ctx context.Context, query audit.StatsQuery) *audit.Stats {
	return call(s, "GetAuditStats", func() result.Result[audit.Stats] {
		return s.client.GetAuditStats(ctx, query)
	})
}

func (s *AuditService) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *AuditService) fail(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

func (s *AuditService) finish() {
	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
}

func call[T any](s *AuditService, name string, fn func() result.Result[T]) (data *T) {
	s.begin()
	defer s.finish()
	defer func() {
		if r := recover(); r != nil {
			msg := panicMessage(r)
			slog.Error("Audit call panicked", "call", name, "error", msg)
			s.fail(msg)
			data = nil
		}
	}()

	res := fn()
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = ErrMsgUnexpected
		}
		s.fail(msg)

		return nil
	}
	if res.Data == nil {
		var zero T

		return &zero
	}

	return res.Data
}

func panicMessage(r any) string {
	var msg string
	switch v := r.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprint(v)
	}
	if msg == "" {
		return ErrMsgUnexpected
	}

	return msg
}

// Err returns the last failure as an error, or nil.
func (s *AuditService) Err() error {
	if msg := s.Error(); msg != "" {
		return errors.New(msg)
	}

	return nil
}
