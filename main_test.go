package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/planchis/api"
	"github.com/wricardo/planchis/game/sim"
	"github.com/wricardo/planchis/transport/mcp"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "Planchis Server", AppName)
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("PLANCHIS_HOST", "0.0.0.0")
	t.Setenv("PLANCHIS_PORT", "9090")
	t.Setenv("CONFIG_DIR", "presets")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("NGROK_ENABLED", "true")
	t.Setenv("NGROK_AUTHTOKEN", "")
	t.Setenv("NGROK_AUTH_TOKEN", "legacy-token")

	settings, err := loadSettings(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", settings.Host)
	assert.Equal(t, 9090, settings.Port)
	assert.Equal(t, "presets", settings.ConfigDir)
	assert.Equal(t, 90*time.Minute, settings.SessionTTL)
	assert.True(t, settings.NgrokEnabled)
	assert.Equal(t, "legacy-token", settings.NgrokAuthToken)
}

func TestLoadSettings_DotEnv(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("SESSIONS_DIR=/tmp/planchis-sessions-test\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("SESSIONS_DIR") })

	settings, err := loadSettings(dotenv)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/planchis-sessions-test", settings.SessionsDir)
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Setenv("PLANCHIS_PORT", "not-a-port")

	_, err := loadSettings(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	var buf bytes.Buffer
	setupLogging(&buf, true, false)
	log.Debug().Str("session_id", "ab12").Msg("debug line")
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"session_id":"ab12"`)

	buf.Reset()
	setupLogging(&buf, false, false)
	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestNewApp(t *testing.T) {
	app := newApp(Settings{Host: "localhost", Port: 8080, ConfigDir: "configs", SessionsDir: "sessions"})

	assert.Equal(t, "planchis", app.Name)
	assert.Equal(t, Version, app.Version)
	assert.Equal(t, []string{"server", "mcp", "simulate"}, lo.Map(app.Commands, func(c *cli.Command, _ int) string { return c.Name }))
	for _, name := range []string{"server", "http", "mcp", "stdio-mcp", "simulate"} {
		assert.NotNil(t, app.Command(name), name)
	}
}

func testServiceOptions(t *testing.T) serviceOptions {
	t.Helper()
	root := t.TempDir()
	configDir := filepath.Join(root, "configs")
	require.NoError(t, os.Mkdir(configDir, 0755))
	return serviceOptions{configDir: configDir, sessionsDir: filepath.Join(root, "sessions")}
}

func TestInitializeServices(t *testing.T) {
	opts := testServiceOptions(t)

	svc, err := initializeServices(opts)
	require.NoError(t, err)
	require.NotNil(t, svc.game)

	info, err := svc.game.CreateSession(context.Background(), "")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(opts.sessionsDir, strings.ToLower(info.ID)+".json"))

	// A second start restores the session from disk
	restarted, err := initializeServices(opts)
	require.NoError(t, err)
	_, err = restarted.game.GetSession(context.Background(), info.ID)
	assert.NoError(t, err)
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, err := initializeServices(serviceOptions{
		configDir:   "/non/existent/path",
		sessionsDir: t.TempDir(),
	})
	assert.Error(t, err)
}

func TestPruneOrphanedSessions(t *testing.T) {
	opts := testServiceOptions(t)
	svc, err := initializeServices(opts)
	require.NoError(t, err)

	kept, err := svc.game.CreateSession(context.Background(), "")
	require.NoError(t, err)
	removed, err := svc.game.CreateSession(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 0, pruneOrphanedSessions(svc.sessions, svc.persistence))

	require.NoError(t, os.Remove(filepath.Join(opts.sessionsDir, strings.ToLower(removed.ID)+".json")))
	assert.Equal(t, 1, pruneOrphanedSessions(svc.sessions, svc.persistence))

	_, err = svc.game.GetSession(context.Background(), kept.ID)
	assert.NoError(t, err)
	_, err = svc.game.GetSession(context.Background(), removed.ID)
	assert.Error(t, err)
}

func TestBackgroundRoutinesStopWithContext(t *testing.T) {
	svc, err := initializeServices(testServiceOptions(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, svc.sessions, time.Hour, time.Millisecond)
		filesystemSyncRoutine(ctx, svc.sessions, svc.persistence, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("routines did not stop after cancel")
	}
}

func TestNewHTTPHandler(t *testing.T) {
	svc, err := initializeServices(testServiceOptions(t))
	require.NoError(t, err)

	handler := newHTTPHandler(api.NewServer(svc.game, nil), mcp.NewClient("http://127.0.0.1:1"))

	t.Run("api mounted at root", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})

	t.Run("mcp answers JSON-RPC", func(t *testing.T) {
		body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/mcp", body))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var reply map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reply))
		assert.Equal(t, "2.0", reply["jsonrpc"])
		assert.Equal(t, float64(1), reply["id"])
	})
}

func TestAPIReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.True(t, apiReachable(context.Background(), srv.URL))
	assert.False(t, apiReachable(context.Background(), "http://127.0.0.1:1"))
}

// runSimulateApp runs the simulate subcommand against an empty preset
// directory, so the built-in default configuration is used.
func runSimulateApp(t *testing.T, out *bytes.Buffer, args ...string) error {
	t.Helper()
	opts := testServiceOptions(t)
	app := newApp(Settings{Host: "localhost", Port: 8080, ConfigDir: opts.configDir, SessionsDir: opts.sessionsDir})
	app.Commands = []*cli.Command{simulateCommand(out)}
	return app.Run(context.Background(), append([]string{"planchis", "simulate"}, args...))
}

func TestSimulateCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSimulateApp(t, &out, "--games", "3", "--seed", "11", "--json"))

	var report sim.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "classic", report.ConfigName)
	assert.Equal(t, 3, report.Games)
	assert.Equal(t, []int{0, 1, 2, 3}, report.Seats)
}

func TestSimulateCommand_TextReport(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSimulateApp(t, &out, "--games", "2", "--seed", "5"))
	assert.Contains(t, out.String(), "classic: 2 games")
	assert.Contains(t, out.String(), "SEAT")
	assert.Contains(t, out.String(), "cross entries")
}

func TestSimulateCommand_UnknownPreset(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runSimulateApp(t, &out, "--config", "nope"))
	assert.Empty(t, out.String())
}
