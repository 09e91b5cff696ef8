package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// testEnv isolates commands from any config file on the machine and gives
// every test its own SQLite database.
type testEnv struct {
	dbDir      string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, "log:\n  format: text\n")
}

func newTestEnvWithConfig(t *testing.T, content string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return &testEnv{dbDir: filepath.Join(dir, "data"), configPath: configPath}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return e.runContext(context.Background(), t, args...)
}

func (e *testEnv) runContext(ctx context.Context, t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", e.configPath, "--db-dir", e.dbDir))

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// mustRun runs args and fails the test on error.
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\nstderr: %s", args, err, stderr)
	}
	return out
}

// newTestSite serves a home page linking to /about and a missing page.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Home</title>` +
			`<meta name="description" content="Front page of the test site"/>` +
			`<link href="/style.css" rel="stylesheet"></head>` +
			`<body><a href="/about">About</a><a href="/missing">Missing</a></body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<title>About</title><a href="/">Home</a>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
