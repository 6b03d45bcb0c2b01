package auditapi

import (
	"fmt"
	"net/url"
	"strings"
)

// Routes resolves audit API endpoints against a base URL.
type Routes struct {
	base string
}

// NewRoutes validates baseURL and returns the route set rooted at it.
func NewRoutes(baseURL string) (Routes, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Routes{}, fmt.Errorf("failed to parse audit api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Routes{}, fmt.Errorf("audit api base url must be absolute: %q", baseURL)
	}

	return Routes{base: strings.TrimRight(u.String(), "/")}, nil
}

// OrderAudit is the audit trail endpoint of one order.
func (r Routes) OrderAudit(orderID string) string {
	return r.base + "/orders/" + url.PathEscape(orderID) + "/audit"
}

// AllAudits is the paginated global audit log endpoint.
func (r Routes) AllAudits() string {
	return r.base + "/orders/audit/all"
}

// UserAudits is the endpoint of the entries attributed to one actor.
func (r Routes) UserAudits(userID string) string {
	return r.base + "/orders/audit/user/" + url.PathEscape(userID)
}

// AuditStats is the aggregate statistics endpoint.
func (r Routes) AuditStats() string {
	return r.base + "/orders/audit/stats"
}
