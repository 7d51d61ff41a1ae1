package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tosh-m12/courtmatch/internal/auth"
	"github.com/tosh-m12/courtmatch/internal/handlers"
	"github.com/tosh-m12/courtmatch/internal/locks"
	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/metrics"
	"github.com/tosh-m12/courtmatch/internal/repository"
	"github.com/tosh-m12/courtmatch/internal/services"
	"github.com/tosh-m12/courtmatch/internal/testutil"
	"github.com/tosh-m12/courtmatch/pkg/rosterfeed"
	"github.com/tosh-m12/courtmatch/web"
)

const testPassword = "test-password"

type testSetup struct {
	router     http.Handler
	handlers   *handlers.Handlers
	repo       repository.FullRepository
	feed       *rosterfeed.MockClient
	authCookie *http.Cookie
}

func newServices(t *testing.T, repo repository.FullRepository, feed rosterfeed.Client) handlers.Services {
	t.Helper()
	log := logger.Nop()
	keyed := locks.NewKeyed(50 * time.Millisecond)
	seed := int64(7)
	return handlers.Services{
		Roster:       services.NewRosterService(log, repo, feed),
		Schedule:     services.NewScheduleService(log, repo, keyed, metrics.Nop{}, services.Limits{MaxRounds: 30, MaxCourts: 16, Seed: &seed}),
		Score:        services.NewScoreService(log, repo, keyed, metrics.Nop{}),
		Substitution: services.NewSubstitutionService(log, repo, keyed, metrics.Nop{}),
		Settings:     services.NewSettingsService(log, repo),
		Share:        services.NewShareService(repo, "http://courts.test"),
	}
}

func newTestAuth(t *testing.T) *auth.Auth {
	t.Helper()
	a, err := auth.New(auth.Config{Password: testPassword, Secret: "test-secret", Cost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("failed to create auth: %v", err)
	}
	return a
}

// newTestSetup builds the API router over an in-memory repository and logs
// the organizer in.
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	feed := rosterfeed.NewMockClient()
	h := handlers.NewForTesting(newServices(t, repo, feed), newTestAuth(t))
	setup := &testSetup{router: h.Router(), handlers: h, repo: repo, feed: feed}
	setup.authCookie = setup.login(t)
	return setup
}

// newTestSetupWithTemplates is newTestSetup with the embedded templates and
// static files mounted.
func newTestSetupWithTemplates(t *testing.T) *testSetup {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	feed := rosterfeed.NewMockClient()
	h, err := handlers.New(
		newServices(t, repo, feed),
		web.GetTemplatesFS(),
		handlers.NewStaticServer(web.GetStaticFS()),
		newTestAuth(t),
		nil,
		handlers.NoopHTTPLogger{},
		handlers.Options{},
	)
	if err != nil {
		t.Fatalf("failed to create handlers: %v", err)
	}
	setup := &testSetup{router: h.Router(), handlers: h, repo: repo, feed: feed}
	setup.authCookie = setup.login(t)
	return setup
}

func (s *testSetup) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": testPassword}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

// do sends body (JSON-encoded unless nil) to the router
func (s *testSetup) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// organizer sends an authenticated request
func (s *testSetup) organizer(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, method, path, body, s.authCookie)
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func (s *testSetup) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// expectError asserts the status and machine-readable code of an error response
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var body struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Code != code {
		t.Errorf("expected code %q, got %q (%s)", code, body.Code, body.Error)
	}
}
