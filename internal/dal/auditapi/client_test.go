package auditapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	routes, err := NewRoutes(srv.URL + "/api")
	require.NoError(t, err)

	return NewClient(routes, WithHTTPClient(srv.Client()), WithToken("secret"))
}

func TestClient_GetOrderAudit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success preserves order and server total", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/orders/ord-42/audit", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("limit"))
			assert.Equal(t, "status_update", r.URL.Query().Get("operation"))
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":{"auditLogs":[
				{"id":"b","operation":"status_update","timestamps":{"createdAt":"2025-03-02T10:00:00Z"}},
				{"id":"a","operation":"status_update","timestamps":{"createdAt":"2025-03-01T10:00:00Z"}}
			],"totalLogs":7}}`))
		})

		res := client.GetOrderAudit(ctx, "ord-42", audit.OrderAuditQuery{
			Limit:     2,
			Operation: audit.OperationStatusUpdate,
		})

		require.True(t, res.Success)
		require.NotNil(t, res.Data)
		require.Len(t, res.Data.AuditLogs, 2)
		assert.Equal(t, "b", res.Data.AuditLogs[0].ID)
		assert.Equal(t, "a", res.Data.AuditLogs[1].ID)
		assert.Equal(t, 7, res.Data.TotalLogs)
		assert.Empty(t, res.Error)
	})

	t.Run("Server error message is passed through", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"X"}`))
		})

		res := client.GetOrderAudit(ctx, "missing", audit.OrderAuditQuery{})

		assert.False(t, res.Success)
		assert.Nil(t, res.Data)
		assert.Equal(t, "X", res.Error)
	})

	t.Run("Missing error field uses default", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		res := client.GetOrderAudit(ctx, "ord-1", audit.OrderAuditQuery{})

		assert.False(t, res.Success)
		assert.Equal(t, ErrMsgOrderAudit, res.Error)
	})

	t.Run("Failure error survives mismatched data shape", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom","data":"x"}`))
		})

		res := client.GetOrderAudit(ctx, "ord-1", audit.OrderAuditQuery{})

		assert.False(t, res.Success)
		assert.Nil(t, res.Data)
		assert.Equal(t, "boom", res.Error)
	})

	t.Run("Empty 200 body is success without data", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		res := client.GetOrderAudit(ctx, "ord-1", audit.OrderAuditQuery{})

		require.True(t, res.Success)
		require.NotNil(t, res.Data)
		assert.Empty(t, res.Data.AuditLogs)
		assert.Zero(t, res.Data.TotalLogs)
		assert.Empty(t, res.Error)
	})

	t.Run("Non-JSON 200 body is a failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`<html>gateway</html>`))
		})

		res := client.GetOrderAudit(ctx, "ord-1", audit.OrderAuditQuery{})

		assert.False(t, res.Success)
		assert.True(t, strings.HasPrefix(res.Error, ErrMsgOrderAudit+": "), res.Error)
	})

	t.Run("Malformed data on 200 is a failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":"x"}`))
		})

		res := client.GetOrderAudit(ctx, "ord-1", audit.OrderAuditQuery{})

		assert.False(t, res.Success)
		assert.True(t, strings.HasPrefix(res.Error, ErrMsgOrderAudit+": "), res.Error)
	})

	t.Run("Non-200 success status is a failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"auditLogs":[],"totalLogs":0}}`))
		})

		res := client.GetOrderAudit(ctx, "ord-1", audit.OrderAuditQuery{})

		assert.False(t, res.Success)
		assert.Equal(t, ErrMsgOrderAudit, res.Error)
	})

	t.Run("Zero-valued params are omitted", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			_, _ = w.Write([]byte(`{"data":{"auditLogs":[],"totalLogs":0}}`))
		})

		res := client.GetOrderAudit(ctx, "ord-1", audit.OrderAuditQuery{})

		require.True(t, res.Success)
		assert.Empty(t, res.Data.AuditLogs)
	})
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	routes, err := NewRoutes(srv.URL)
	require.NoError(t, err)
	srv.Close()

	client := NewClient(routes)

	res := client.GetUserAudits(context.Background(), "u-1", audit.UserAuditsQuery{})

	assert.False(t, res.Success)
	assert.Equal(t, ErrMsgUserAudits, res.Error)
}

func TestClient_GetAllAudits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/audit/all", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "cancel", q.Get("operation"))
		assert.Equal(t, "u-9", q.Get("userId"))
		assert.Equal(t, "o-9", q.Get("orderId"))
		assert.Equal(t, "2025-01-01", q.Get("startDate"))
		assert.Equal(t, "2025-01-31", q.Get("endDate"))

		_, _ = w.Write([]byte(`{"data":{"auditLogs":[{"id":"x"}],"pagination":{
			"currentPage":3,"totalPages":5,"totalAudits":90,"limit":20,"hasNextPage":true,"hasPrevPage":true}}}`))
	})

	res := client.GetAllAudits(context.Background(), audit.AllAuditsQuery{
		Limit:     20,
		Page:      3,
		Operation: audit.OperationCancel,
		UserID:    "u-9",
		OrderID:   "o-9",
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
	})

	require.True(t, res.Success)
	assert.Equal(t, audit.Pagination{
		CurrentPage: 3,
		TotalPages:  5,
		TotalAudits: 90,
		Limit:       20,
		HasNextPage: true,
		HasPrevPage: true,
	}, res.Data.Pagination)
}

func TestClient_GetAuditStats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/orders/audit/stats", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":{"totalAudits":12,"uniqueOrderCount":4,"uniqueUserCount":2,
				"operationBreakdown":[{"_id":"create","count":4},{"_id":"cancel","count":8}]}}`))
		})

		res := client.GetAuditStats(context.Background(), audit.StatsQuery{})

		require.True(t, res.Success)
		assert.Equal(t, 12, res.Data.TotalAudits)
		assert.Equal(t, 4, res.Data.UniqueOrderCount)
		assert.Equal(t, 2, res.Data.UniqueUserCount)
		assert.Equal(t, []audit.OperationCount{
			{Operation: audit.OperationCreate, Count: 4},
			{Operation: audit.OperationCancel, Count: 8},
		}, res.Data.OperationBreakdown)
	})

	t.Run("Forbidden without message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		})

		res := client.GetAuditStats(context.Background(), audit.StatsQuery{})

		assert.False(t, res.Success)
		assert.Equal(t, ErrMsgAuditStats, res.Error)
	})
}

func TestRoutes(t *testing.T) {
	routes, err := NewRoutes("https://api.example.com/v1/")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1/orders/a%2Fb/audit", routes.OrderAudit("a/b"))
	assert.Equal(t, "https://api.example.com/v1/orders/audit/all", routes.AllAudits())
	assert.Equal(t, "https://api.example.com/v1/orders/audit/user/u-1", routes.UserAudits("u-1"))
	assert.Equal(t, "https://api.example.com/v1/orders/audit/stats", routes.AuditStats())

	_, err = NewRoutes("/relative")
	assert.Error(t, err)
}
