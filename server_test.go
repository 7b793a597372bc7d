package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/venue-booking/config"
	"github.com/Eursukkul/venue-booking/internal/dto"
	"github.com/Eursukkul/venue-booking/internal/notifier"
	"github.com/Eursukkul/venue-booking/internal/service"
	"github.com/Eursukkul/venue-booking/internal/token"
	"github.com/Eursukkul/venue-booking/pkg/database"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingNotifier struct {
	mu   sync.Mutex
	sent []notifier.Notification
}

func (c *capturingNotifier) NotifySubmitted(_ context.Context, n notifier.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

func (c *capturingNotifier) last(t *testing.T) notifier.Notification {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

type testServer struct {
	e        *echo.Echo
	app      *app
	notifier *capturingNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.NewSQLiteDB("")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	codec, err := token.NewCodec("server-test-secret")
	require.NoError(t, err)
	n := &capturingNotifier{}
	a := newApp(db, codec, n, time.Hour, nil)
	t.Cleanup(a.bookings.Wait)

	cfg := &config.Config{Seed: config.Seed{
		Venues: []config.SeedVenue{{Name: "Lab 1", Capacity: 40, Location: "CS Dept"}},
		Users: []config.SeedUser{
			{Username: "admin", Password: "admin123", Role: "admin"},
			{Username: "faculty", Password: "faculty123", Role: "faculty"},
			{Username: "ghost", Password: "x", Role: "superuser"},
		},
	}}
	require.NoError(t, seedDefaults(context.Background(), cfg, a, discardLogger()))

	return &testServer{e: newServer(a, discardLogger()), app: a, notifier: n}
}

func (s *testServer) do(method, path, body, user, password string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		req.SetBasicAuth(user, password)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func linkPath(tok string) string {
	return notifier.DecisionLink("", tok)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestServer_SeminarFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/faculty/bookings",
		`{"event_name":"Seminar","venue":"Lab 1","date":"2024-05-01","slots":"10-11,11-12","num_people":30}`,
		"faculty", "faculty123")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var submitted dto.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	require.Len(t, submitted.Bookings, 2)

	s.app.bookings.Wait()
	n := s.notifier.last(t)
	assert.Equal(t, submitted.PrimaryID, n.Summary.PrimaryID)
	assert.Equal(t, []string{"10-11", "11-12"}, n.Summary.Slots)

	rec = s.do(http.MethodGet, linkPath(n.ApproveToken), "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var decision dto.DecisionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, service.OutcomeDecided, decision.Outcome)
	assert.Equal(t, []string{"10-11", "11-12"}, decision.UpdatedSlots)

	rec = s.do(http.MethodGet, linkPath(n.RejectToken), "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, service.OutcomeAlreadyDecided, decision.Outcome)

	rec = s.do(http.MethodPost, "/api/v1/faculty/availability",
		`{"venue":"Lab 1","date":"2024-05-01"}`, "faculty", "faculty123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"booked":["10-11","11-12"],"pending":[]}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/admin/dashboard", "", "admin", "admin123")
	require.Equal(t, http.StatusOK, rec.Code)
	var dash dto.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	require.Len(t, dash.Groups, 1)
	assert.Equal(t, "Approved", string(dash.Groups[0].Status))
	assert.Equal(t, int64(2), dash.Stats.Approved)
}

func TestServer_AccessControl(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/venues", "", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/venues", "", "faculty", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/venues", "", "ghost", "x").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/venues", "", "faculty", "faculty123").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/admin/dashboard", "", "faculty", "faculty123").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", "", "").Code)
}

func TestServer_FacultyRoutesRejectAdmin(t *testing.T) {
	s := newTestServer(t)

	body := `{"event_name":"Seminar","venue":"Lab 1","date":"2024-05-01","slots":"10-11","num_people":30}`
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/faculty/bookings", body, "admin", "admin123").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/faculty/bookings", "", "admin", "admin123").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/v1/faculty/bookings/1", "", "admin", "admin123").Code)

	stats, err := s.app.bookings.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBookings)

	rec := s.do(http.MethodPost, "/api/v1/faculty/availability", `{"venue":"Lab 1","date":"2024-05-01"}`, "admin", "admin123")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/api/v1/faculty/availability", `{"venue":"Lab 1","date":"2024-05-01"}`, "faculty", "faculty123")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/faculty/bookings", body, "faculty", "faculty123").Code)
}

func TestServer_InvalidLink(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/email/booking/not-a-token", "", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"invalid or expired link"}`, rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/faculty/bookings",
		`{"event_name":"Talk","venue":"Lab 1","date":"2024-05-02","slots":["09-10"],"num_people":5}`,
		"faculty", "faculty123")
	require.Equal(t, http.StatusCreated, rec.Code)
	s.app.bookings.Wait()

	rec = s.do(http.MethodGet, "/metrics", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "venue_booking_submissions_total 1")
	assert.Contains(t, rec.Body.String(), `venue_booking_notifications_total{result="sent"} 1`)
}
