package audit

// OrderAuditQuery represents filter parameters for an order audit trail.
type OrderAuditQuery struct {
	Limit     int       `json:"limit,omitempty"`
	Operation Operation `json:"operation,omitempty"`
}

// AllAuditsQuery represents filter parameters for the global audit log.
type AllAuditsQuery struct {
	Limit     int       `json:"limit,omitempty"`
	Page      int       `json:"page,omitempty"`
	Operation Operation `json:"operation,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	OrderID   string    `json:"orderId,omitempty"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
}

// UserAuditsQuery represents filter parameters for the audit log of one actor.
type UserAuditsQuery struct {
	Limit     int    `json:"limit,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// StatsQuery bounds the range the statistics are computed over.
type StatsQuery struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}
