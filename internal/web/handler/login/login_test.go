package login

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
	websess "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// testStorage is a minimal in-memory fiber.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func initSessionStore() {
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

func seedUser(t *testing.T, db *gorm.DB, username, password string, active bool) {
	t.Helper()

	role := models.Role{Name: "Estándar " + username, Abbreviation: "S" + username}
	require.NoError(t, db.Create(&role).Error)

	require.NoError(t, db.Create(&models.User{
		Username: username,
		Password: models.HashPassword(password),
		Active:   active,
		RoleID:   role.ID,
	}).Error)
}

func performLogin(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func TestPostSuccessSetsCookie(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db))

	seedUser(t, db, "alice", "s3cr3t", true)

	resp := performLogin(t, app, `{"username":"alice","password":"s3cr3t"}`)
	defer resp.Body.Close() //nolint:errcheck // test

	require.Equal(t, http.StatusOK, resp.StatusCode)

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, websess.CookieName+"=")
	assert.Contains(t, strings.ToLower(setCookie), "secure", "Secure flag expected outside dev mode")
	assert.Contains(t, strings.ToLower(setCookie), "httponly")
}

func TestPostDevModeDisablesSecure(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	cfg := newTestConfig()
	cfg.DevMode = true

	var s Service
	require.NoError(t, s.Init(app, cfg, db))

	seedUser(t, db, "bob", "pass", true)

	resp := performLogin(t, app, `{"username":"bob","password":"pass"}`)
	defer resp.Body.Close() //nolint:errcheck // test

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "secure")
}

func TestPostRejections(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db))

	seedUser(t, db, "carol", "right", true)
	seedUser(t, db, "dave", "pass", false)

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "wrong password",
			body:           `{"username":"carol","password":"wrong"}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown user",
			body:           `{"username":"nobody","password":"x"}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "disabled account",
			body:           `{"username":"dave","password":"pass"}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			body:           `{"username":"carol"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := performLogin(t, app, tc.body)
			defer resp.Body.Close() //nolint:errcheck // test

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assert.Empty(t, resp.Header.Get("Set-Cookie"), "no session cookie on rejection")
		})
	}
}
