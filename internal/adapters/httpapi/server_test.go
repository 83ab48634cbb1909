package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/presence-analyzer/internal/adapters/maillog"
	"github.com/mikey/presence-analyzer/internal/adapters/notify"
	"github.com/mikey/presence-analyzer/internal/adapters/source"
	"github.com/mikey/presence-analyzer/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDirectoryXML = `<?xml version="1.0" encoding="utf-8"?>
<intranet>
  <server><host>https://intranet.example.com</host></server>
  <users>
    <user id="10">
      <avatar>/api/images/users/10</avatar>
      <name>Adam P.</name>
      <email>adam.p@example.com</email>
    </user>
  </users>
</intranet>`

// 2013-09-10 was a Tuesday.
const testPresenceCSV = "header line\n" +
	"10,2013-09-10,09:39:05,17:30:00\n" +
	"10,2013-09-11,09:00:00,17:00:00\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "presence.csv")
	xmlPath := filepath.Join(dir, "users.xml")
	require.NoError(t, os.WriteFile(csvPath, []byte(testPresenceCSV), 0644))
	require.NoError(t, os.WriteFile(xmlPath, []byte(testDirectoryXML), 0644))

	logger := zap.NewNop()
	presence := source.NewCSVPresence(csvPath, logger)
	directory := source.NewXMLDirectory(xmlPath, logger)
	stats := core.NewStatsService(presence, directory, logger)
	reminders := core.NewReminderService(
		presence,
		directory,
		maillog.NewMemoryMailLog(logger),
		notify.NewLogNotifier(logger),
		nil,
		logger,
		core.RankingConfig{Year: 2013, StartMonth: time.January, Months: 9, WorkingDays: 189, MaxZeroMonths: 4},
		core.ReminderConfig{CooldownDays: 120, TopN: 5, Subject: "subject"},
		nil,
	)
	return NewServer("127.0.0.1:0", stats, reminders, logger)
}

func get(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, path, nil)
	require.NoError(t, err)
	recorder := httptest.NewRecorder()
	server.Engine().ServeHTTP(recorder, req)
	return recorder
}

func TestMeanTimeWeekdayEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/v1/mean_time_weekday/10")
	require.Equal(t, http.StatusOK, resp.Code)

	var result [][]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Len(t, result, 7)
	assert.Equal(t, []any{"Tue", 28255.0}, result[1])
	assert.Equal(t, []any{"Mon", 0.0}, result[0])
}

func TestPresenceWeekdayEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/v1/presence_weekday/10")
	require.Equal(t, http.StatusOK, resp.Code)

	var result [][]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Len(t, result, 8)
	assert.Equal(t, []any{"Weekday", "Presence (s)"}, result[0])
	assert.Equal(t, []any{"Tue", 28255.0}, result[2])
}

func TestPresenceStartEndEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/v1/presence_start_end/10")
	require.Equal(t, http.StatusOK, resp.Code)

	var result [][]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	// Only the two weekdays with punches appear.
	require.Len(t, result, 2)
	assert.Equal(t, []any{"Tue", 34745.0, 63000.0}, result[0])
}

func TestPresenceDaysEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/v1/presence_days/10")
	require.Equal(t, http.StatusOK, resp.Code)

	var result [][]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, []any{"2013-09-10", 470.0}, result[0])
}

func TestUsersDataEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/v1/users_data")
	require.Equal(t, http.StatusOK, resp.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, 10.0, users[0]["user_id"])
	assert.Equal(t, "Adam P.", users[0]["name"])
	assert.Equal(t, "https://intranet.example.com/api/images/users/10", users[0]["avatar"])
	assert.Equal(t, "adam.p@example.com", users[0]["email"])
}

func TestMailsReceiversEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/v1/mails_receivers")
	require.Equal(t, http.StatusOK, resp.Code)

	var days map[string]int
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &days))
	assert.Empty(t, days)
}

func TestUnknownUserReturns404(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{
		"/api/v1/mean_time_weekday/99",
		"/api/v1/presence_weekday/99",
		"/api/v1/presence_start_end/99",
		"/api/v1/presence_days/99",
	} {
		resp := get(t, server, path)
		assert.Equal(t, http.StatusNotFound, resp.Code, path)
	}
}

func TestInvalidUserIDReturns400(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/v1/mean_time_weekday/abc")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
