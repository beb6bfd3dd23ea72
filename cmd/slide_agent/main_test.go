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
	"sync"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// TestMain runs before all tests and loads .env if available
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	os.Exit(m.Run())
}

// testDeck is a six-slide deck in the shape the model returns, sentinels included
const testDeck = `[
  {"id": 1, "title": "Solar Outlook", "bullets": ["Market review"], "type": "cover"},
  {"id": 2, "title": "Capacity", "bullets": ["Up 30%", "China leads", "EU second"], "type": "content",
   "visual": "| Region | GW |\n|---|---|\n| CN | 200 |", "visualDescription": "null", "source": "IEA"},
  {"id": 3, "title": "Prices", "bullets": ["Modules cheaper", "Storage falling"], "type": "content"},
  {"id": 4, "title": "Policy", "bullets": ["Tax credits", "Tariffs"], "type": "content", "visual": "[####  ]"},
  {"id": 5, "title": "Grid", "bullets": ["Queues", "Curtailment"], "type": "content", "visual": "A -> B -> C"},
  {"id": 6, "title": "Outlook", "bullets": ["Growth slows", "Storage booms"], "type": "content"}
]`

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the CLI in-process with the given stdin and arguments
func execute(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// relayStub stands in for a relay server and records the source texts it receives
type relayStub struct {
	*httptest.Server
	mu    sync.Mutex
	texts []string
	auth  []string
}

func newRelayStub(t *testing.T, status int, body string) *relayStub {
	t.Helper()
	stub := &relayStub{}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		stub.mu.Lock()
		stub.texts = append(stub.texts, req.Text)
		stub.auth = append(stub.auth, r.Header.Get("Authorization"))
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(stub.Close)
	return stub
}

func (s *relayStub) endpoint() string {
	return s.URL + "/api/generate-slides"
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range newRootCmd().Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"generate", "fetch", "export", "validate", "serve", "token"} {
		require.True(t, names[want], want)
	}
}
