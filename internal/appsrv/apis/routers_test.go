package apis

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dbmanager"
)

// newTestRouter mounts the API routes with a sqlmock-backed connection
// injected the way the server's scoped-db middleware does it.
func newTestRouter(t *testing.T) (*chi.Mux, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.ExpectExec(regexp.QuoteMeta(`SET lock_timeout`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`SET statement_timeout`)).WillReturnResult(sqlmock.NewResult(0, 0))

	pool := dbmanager.NewScopedDbFromSQLDB(sqlDB, nil)
	conn, err := pool.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(context.Background()) })

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(db.WithScopedConn(req.Context(), conn)))
		})
	})
	Router(r)
	return r, mock
}

func TestListPlansEndpoint(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM subscription_plans`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "max_applications"}).
			AddRow(int64(1), "Free", 3))

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Free")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPlanInvalidId(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/plans/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantHeaderRequired(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetApplicationNotFound(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM applications a`)).
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/applications/orders", nil)
	req.Header.Set(TenantIdHeader, "T10001")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationBadRequest(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader("{not json"))
	req.Header.Set(TenantIdHeader, "T10001")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateVersionStatusInvalidStatus(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut,
		"/applications/orders/versions/1.0.0/status",
		strings.NewReader(`{"status":"hibernating"}`))
	req.Header.Set(TenantIdHeader, "T10001")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
