package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nightdriver/ndsmon/internal/fleet"
)

// fakeServer is a canvas API that serves a fixed snapshot and records every
// mutating request as "METHOD /path body".
type fakeServer struct {
	mu       sync.Mutex
	canvases []fleet.Canvas
	requests []string
	failWith int

	srv *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{canvases: testCanvases()}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// URL is the API base URL to pass as --server.
func (f *fakeServer) URL() string { return f.srv.URL + "/api" }

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet && r.URL.Path == "/api/canvases" {
		_ = json.NewEncoder(w).Encode(f.canvases)
		return
	}

	body, _ := io.ReadAll(r.Body)
	f.requests = append(f.requests, strings.TrimSpace(r.Method+" "+r.URL.Path+" "+string(body)))
	if f.failWith != 0 {
		w.WriteHeader(f.failWith)
		_, _ = w.Write([]byte(`{"error":"canvas is busy"}`))
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeServer) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeServer) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = status
}

func intPtr(v int) *int { return &v }

// testCanvases has a connected feature on "Porch" and a disconnected one
// on "Tree".
func testCanvases() []fleet.Canvas {
	return []fleet.Canvas{
		{
			ID: 1, Name: "Porch", Width: 144, Height: 1, FPS: 30,
			CurrentEffectName: "Rainbow",
			Features: []fleet.Feature{
				{
					ID: 10, FriendlyName: "Rail", HostName: "10.0.0.5", Port: 49152,
					Width: 144, Height: 1, IsConnected: true, ReconnectCount: intPtr(0),
					QueueDepth: 2, QueueMaxSize: 100,
					LastClientResponse: &fleet.ClientResponse{
						FPSDrawing: 30, BufferPos: 10, BufferSize: 20, WifiSignal: 55,
					},
				},
			},
		},
		{
			ID: 2, Name: "Tree", Width: 32, Height: 32, FPS: 20,
			CurrentEffectName: "Snow",
			Features: []fleet.Feature{
				{ID: 20, FriendlyName: "Trunk", HostName: "10.0.0.6", Width: 32, Height: 32},
			},
		},
	}
}

// executeRoot runs the root command in an isolated HOME and working
// directory with fresh flag state and no terminal.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	resetGlobals(t)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetGlobals(t *testing.T) {
	t.Helper()
	cfgFile, serverFlag, logFile = "", "", ""
	noColor = false
	loadedConfig, loadedFrom = nil, ""
	listFlags = ListFlags{Output: OutputTable}
	canvasYes, featureYes, monitorPaused = false, false, false
	versionShort = false
	doctorOutput = OutputTable

	oldStdin, oldStderr := stdinIsTerminal, stderrIsTerminal
	stdinIsTerminal = func() bool { return false }
	stderrIsTerminal = func() bool { return false }
	t.Cleanup(func() {
		stdinIsTerminal, stderrIsTerminal = oldStdin, oldStderr
	})
}
