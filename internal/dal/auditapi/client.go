package auditapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/metrics"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/result"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	ErrMsgOrderAudit = "Failed to fetch order audit trail"
	ErrMsgAllAudits  = "Failed to fetch audit logs"
	ErrMsgUserAudits = "Failed to fetch user audit logs"
	ErrMsgAuditStats = "Failed to fetch audit statistics"

	// ErrMsgUnexpected is used when a failure carries no message at all.
	ErrMsgUnexpected = "An unexpected error occurred"
)

// Client is the audit API client. Every call makes exactly one attempt and
// resolves to a result envelope; no call returns an error.
type Client struct {
	httpClient *http.Client
	routes     Routes
	token      string
}

// option is a function that configures the Client.
type option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithHTTPClient(httpClient *http.Client) option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken sets the bearer token sent with every request.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithToken(token string) option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new audit API client rooted at routes.
func NewClient(routes Routes, opts ...option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		routes:     routes,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// MustNewClient creates a new audit API client from the audit_api config section.
func MustNewClient() *Client {
	routes, err := NewRoutes(viper.GetString("audit_api.base_url"))
	if err != nil {
		panic(err)
	}

	timeout := viper.GetInt("audit_api.timeout_seconds")
	if timeout == 0 {
		timeout = 15
	}

	slog.Info("Audit API client configured", "base_url", routes.base, "timeout_seconds", timeout)

	return NewClient(routes,
		WithHTTPClient(&http.Client{Timeout: time.Duration(timeout) * time.Second}),
		WithToken(viper.GetString("audit_api.token")),
	)
}

// GetOrderAudit fetches the audit trail of one order.
func (c *Client) GetOrderAudit(
	ctx context.Context,
	orderID string,
	query audit.OrderAuditQuery,
) result.Result[audit.OrderAuditTrail] {
	params := url.Values{}
	setInt(params, "limit", query.Limit)
	setString(params, "operation", query.Operation.String())

	return fetch[audit.OrderAuditTrail](ctx, c, "get_order_audit", ErrMsgOrderAudit,
		c.routes.OrderAudit(orderID), params)
}

// GetAllAudits fetches one page of the global audit log.
func (c *Client) GetAllAudits(
	ctx context.Context,
	query audit.AllAuditsQuery,
) result.Result[audit.Page] {
	params := url.Values{}
	setInt(params, "limit", query.Limit)
	setInt(params, "page", query.Page)
	setString(params, "operation", query.Operation.String())
	setString(params, "userId", query.UserID)
	setString(params, "orderId", query.OrderID)
	setString(params, "startDate", query.StartDate)
	setString(params, "endDate", query.EndDate)

	return fetch[audit.Page](ctx, c, "get_all_audits", ErrMsgAllAudits,
		c.routes.AllAudits(), params)
}

// GetUserAudits fetches the entries attributed to one actor.
func (c *Client) GetUserAudits(
	ctx context.Context,
	userID string,
	query audit.UserAuditsQuery,
) result.Result[audit.UserAuditTrail] {
	params := url.Values{}
	setInt(params, "limit", query.Limit)
	setString(params, "startDate", query.StartDate)
	setString(params, "endDate", query.EndDate)

	return fetch[audit.UserAuditTrail](ctx, c, "get_user_audits", ErrMsgUserAudits,
		c.routes.UserAudits(userID), params)
}

// GetAuditStats fetches aggregate audit counters.
func (c *Client) GetAuditStats(
	ctx context.Context,
	query audit.StatsQuery,
) result.Result[audit.Stats] {
	params := url.Values{}
	setString(params, "startDate", query.StartDate)
	setString(params, "endDate", query.EndDate)

	return fetch[audit.Stats](ctx, c, "get_audit_stats", ErrMsgAuditStats,
		c.routes.AuditStats(), params)
}

// envelope is the wire shape of every audit API response. Data stays raw
// until the status is known so a failure body of any shape keeps its error.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func fetch[T any](
	ctx context.Context,
	c *Client,
	operation string,
	defaultErr string,
	endpoint string,
	params url.Values,
) (res result.Result[T]) {
	ctx, span := otel.Tracer("auditapi").Start(ctx, "AuditAPI."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", endpoint)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		outcome := "success"
		if !res.Success {
			outcome = "failure"
			span.SetStatus(codes.Error, res.Error)
		}
		metrics.AuditAPIRequestsTotal.WithLabelValues(operation, outcome).Inc()
		metrics.AuditAPIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Audit API call panicked", "operation", operation, "panic", r)
			res = result.Fail[T](ErrMsgUnexpected)
		}
	}()

	target := endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		slog.Error("Error building audit API request", "operation", operation, "error", err)

		return result.Fail[T](defaultErr)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		slog.Error("Audit API request failed", "operation", operation, "error", err)

		return result.Fail[T](defaultErr)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close audit API response body", "error", err)
		}
	}()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var body envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Audit API returned non-success status",
			"operation", operation,
			"status", resp.StatusCode,
			"error", body.Error,
		)
		if decodeErr == nil && body.Error != "" {
			return result.Fail[T](body.Error)
		}

		return result.Fail[T](defaultErr)
	}

	var zero T
	switch {
	case errors.Is(decodeErr, io.EOF):
		slog.Debug("Audit API returned empty body", "operation", operation)

		return result.Ok(zero)
	case decodeErr != nil:
		span.RecordError(decodeErr)
		slog.Error("Error decoding audit API response", "operation", operation, "error", decodeErr)

		return result.Fail[T](failureMessage(decodeErr, defaultErr))
	case len(body.Data) == 0 || bytes.Equal(body.Data, []byte("null")):
		return result.Ok(zero)
	}

	var data T
	if err := json.Unmarshal(body.Data, &data); err != nil {
		span.RecordError(err)
		slog.Error("Error decoding audit API data", "operation", operation, "error", err)

		return result.Fail[T](failureMessage(err, defaultErr))
	}

	return result.Ok(data)
}

func failureMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}

	return fmt.Sprintf("%s: %s", fallback, err.Error())
}

func setInt(params url.Values, key string, v int) {
	if v > 0 {
		params.Set(key, strconv.Itoa(v))
	}
}

func setString(params url.Values, key, v string) {
	if v != "" {
		params.Set(key, v)
	}
}
