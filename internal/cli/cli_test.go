package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/salescrm/internal/analytics"
	"github.com/geocoder89/salescrm/internal/auth"
	"github.com/geocoder89/salescrm/internal/cli"
	"github.com/geocoder89/salescrm/internal/config"
	"github.com/geocoder89/salescrm/internal/db"
	"github.com/geocoder89/salescrm/internal/domain/dashboard"
	"github.com/geocoder89/salescrm/internal/gateway"
	apphttp "github.com/geocoder89/salescrm/internal/http"
	"github.com/geocoder89/salescrm/internal/mockdata"
	"github.com/geocoder89/salescrm/internal/repo/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stack starts the API behind the gateway and returns the gateway's /api base URL.
func stack(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewSeededStore()
	require.NoError(t, db.EnsureUsers(context.Background(), store, config.Config{SeedDemoUsers: true}))

	api := httptest.NewServer(apphttp.NewRouter(apphttp.Deps{
		Log:           quiet,
		Env:           "test",
		Tokens:        auth.NewManager("cli-test", time.Hour),
		Users:         store,
		Customers:     store.Customers(),
		Activities:    store,
		Opportunities: store.Opportunities(),
		Audit:         store.Audit(),
		Stats: analytics.NewService(analytics.Sources{
			Customers:     store.Customers().Count,
			Tasks:         store.CountTasks,
			Opportunities: store.Opportunities().Count,
			Meetings:      store.CountMeetings,
		}, nil, 0, nil, quiet),
	}))
	t.Cleanup(api.Close)

	upstream, err := url.Parse(api.URL)
	require.NoError(t, err)

	gw := httptest.NewServer(gateway.NewRouter(upstream, "test", quiet))
	t.Cleanup(gw.Close)

	return gw.URL + "/api"
}

func run(t *testing.T, apiURL, sessionFile string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--api", apiURL, "--session-file", sessionFile}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_SessionLifecycle(t *testing.T) {
	api := stack(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, api, sessionFile, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")

	_, err = run(t, api, sessionFile, "login", "--email", "sales@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect")

	out, err := run(t, api, sessionFile, "login", "--email", "sales@example.com", "--password", "Sales123!")
	require.NoError(t, err)
	assert.Contains(t, out, "SALES")

	// a new process hydrates the stored session
	out, err = run(t, api, sessionFile, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "sales@example.com")

	_, err = run(t, api, sessionFile, "logout")
	require.NoError(t, err)
	_, err = run(t, api, sessionFile, "logout")
	require.NoError(t, err)

	_, err = run(t, api, sessionFile, "whoami")
	require.Error(t, err)
}

func TestCLI_APIURLWithTrailingSlash(t *testing.T) {
	api := stack(t) + "/"
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, api, sessionFile, "login", "--email", "sales@example.com", "--password", "Sales123!")
	require.NoError(t, err)
	assert.Contains(t, out, "SALES")

	out, err = run(t, api, sessionFile, "--format", "json", "list", "customers")
	require.NoError(t, err)
	for _, c := range mockdata.Customers() {
		assert.Contains(t, out, c.ID)
	}
}

func TestCLI_DashboardThroughGateway(t *testing.T) {
	api := stack(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, api, sessionFile, "login", "--email", "manager@example.com", "--password", "Manager123!")
	require.NoError(t, err)

	out, err := run(t, api, sessionFile, "--format", "json", "dashboard")
	require.NoError(t, err)

	var stats dashboard.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, dashboard.Stats{Customers: 3, Tasks: 4, Opportunities: 3, Meetings: 2}, stats)
}

func TestCLI_NavAndAuditFollowRole(t *testing.T) {
	api := stack(t)

	salesSession := filepath.Join(t.TempDir(), "sales.json")
	_, err := run(t, api, salesSession, "login", "--email", "sales@example.com", "--password", "Sales123!")
	require.NoError(t, err)

	out, err := run(t, api, salesSession, "nav")
	require.NoError(t, err)
	assert.NotContains(t, out, "/dashboard/audit")

	_, err = run(t, api, salesSession, "audit")
	require.Error(t, err)

	complianceSession := filepath.Join(t.TempDir(), "compliance.json")
	_, err = run(t, api, complianceSession, "login", "--email", "compliance@example.com", "--password", "Compliance123!")
	require.NoError(t, err)

	out, err = run(t, api, complianceSession, "nav")
	require.NoError(t, err)
	assert.Contains(t, out, "/dashboard/audit")

	_, err = run(t, api, complianceSession, "audit")
	require.NoError(t, err)
}

func TestCLI_DemoModeFallsBackWhenAPIIsDown(t *testing.T) {
	api := stack(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, api, sessionFile, "login", "--email", "sales@example.com", "--password", "Sales123!")
	require.NoError(t, err)

	dead := httptest.NewServer(nil)
	deadURL := dead.URL + "/api"
	dead.Close()

	out, err := run(t, deadURL, sessionFile, "--demo", "--format", "json", "list", "customers")
	require.NoError(t, err)
	for _, c := range mockdata.Customers() {
		assert.Contains(t, out, c.ID)
	}

	out, err = run(t, deadURL, sessionFile, "list", "customers")
	require.NoError(t, err)
	assert.Equal(t, 1, len(strings.Split(strings.TrimSpace(out), "\n")), "only the header without demo mode")
}
