package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/gridstate/internal/config"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteWorkspace writes content to a workspace file in a fresh temporary
// directory and returns its path.
func WriteWorkspace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing workspace: %v", err)
	}
	return path
}

// SetupAppTest creates a new app instance for system testing. Results go to
// the returned output buffer and debug logs to the log buffer.
func SetupAppTest(t *testing.T, appConfig *Config, loader config.Loader) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp, err := NewApp(out, logs, appConfig, loader)
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("GRIDSTATE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
