package audit

import (
	"encoding/json"
	"errors"
	"time"
)

// Operation is the kind of action an audit entry records.
type Operation string

const (
	OperationCreate         Operation = "create"
	OperationStatusUpdate   Operation = "status_update"
	OperationPaymentUpdate  Operation = "payment_update"
	OperationProductUpdate  Operation = "product_update"
	OperationBulkAction     Operation = "bulk_action"
	OperationCustomerUpdate Operation = "customer_update"
	OperationShippingUpdate Operation = "shipping_update"
	OperationCourierUpdate  Operation = "courier_update"
	OperationCancel         Operation = "cancel"
	OperationDelete         Operation = "delete"
	OperationRestore        Operation = "restore"
	OperationFraudReview    Operation = "fraud_review"
	OperationNotesUpdate    Operation = "notes_update"
)

// Operations lists every known operation tag.
var Operations = []Operation{
	OperationCreate,
	OperationStatusUpdate,
	OperationPaymentUpdate,
	OperationProductUpdate,
	OperationBulkAction,
	OperationCustomerUpdate,
	OperationShippingUpdate,
	OperationCourierUpdate,
	OperationCancel,
	OperationDelete,
	OperationRestore,
	OperationFraudReview,
	OperationNotesUpdate,
}

var ErrInvalidOperation = errors.New("invalid audit operation")

func (o Operation) String() string {
	return string(o)
}

// IsValid reports whether o is one of the known operation tags.
func (o Operation) IsValid() bool {
	for _, op := range Operations {
		if op == o {
			return true
		}
	}

	return false
}

func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if !op.IsValid() {
		return "", ErrInvalidOperation
	}

	return op, nil
}

// Change is a single field-level diff. Old and new values keep the raw JSON
// shape sent by the server.
type Change struct {
	Field    string          `json:"field"`
	OldValue json.RawMessage `json:"oldValue,omitempty"`
	NewValue json.RawMessage `json:"newValue,omitempty"`
}

// Actor is the snapshot of the user who performed an action.
type Actor struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserType  string `json:"userType"`
}

type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
}

// LogEntry is an immutable record of one state-changing action on an order.
type LogEntry struct {
	ID                   string     `json:"id"`
	OrderID              string     `json:"orderId"`
	OrderNumber          string     `json:"orderNumber"`
	Operation            Operation  `json:"operation"`
	OperationDescription string     `json:"operationDescription"`
	ChangeSummary        []Change   `json:"changesummary,omitempty"`
	PerformedBy          Actor      `json:"performedBy"`
	Reason               string     `json:"reason,omitempty"`
	IPAddress            string     `json:"ipAddress,omitempty"`
	UserAgent            string     `json:"userAgent,omitempty"`
	Timestamps           Timestamps `json:"timestamps"`
	IsBulkOperation      bool       `json:"isBulkOperation"`
}

// OrderAuditTrail is the audit trail of a single order.
// TotalLogs is reported by the server and may exceed len(AuditLogs) when
// the server truncates by limit.
type OrderAuditTrail struct {
	AuditLogs []LogEntry `json:"auditLogs"`
	TotalLogs int        `json:"totalLogs"`
}

// Pagination describes a page of the global audit log.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalAudits int  `json:"totalAudits"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Page is one page of the global audit log.
type Page struct {
	AuditLogs  []LogEntry `json:"auditLogs"`
	Pagination Pagination `json:"pagination"`
}

// UserAuditTrail holds the entries attributed to one actor.
type UserAuditTrail struct {
	AuditLogs []LogEntry `json:"auditLogs"`
	TotalLogs int        `json:"totalLogs"`
}

type OperationCount struct {
	Operation Operation `json:"_id"`
	Count     int       `json:"count"`
}

// Stats holds aggregate counters over the audit log.
type Stats struct {
	TotalAudits        int              `json:"totalAudits"`
	UniqueOrderCount   int              `json:"uniqueOrderCount"`
	UniqueUserCount    int              `json:"uniqueUserCount"`
	OperationBreakdown []OperationCount `json:"operationBreakdown"`
}
