// Package testutil provides the shared harness for integration tests that
// exercise the full load, validate, build, compile, and execute pipeline.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/app"
	"github.com/vk/gridflow/internal/hcl"
	"github.com/vk/gridflow/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Output is everything the app wrote: logs and printed results.
	Output string
	Err    error
	App    *app.App
}

// RunGraphTest writes the given .hcl files into a temporary directory and
// runs the full application pipeline over them with a background context.
func RunGraphTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunGraphTestWithConfig(context.Background(), t, files, &app.Config{}, modules...)
}

// RunGraphTestWithConfig is RunGraphTest with a caller-supplied context and
// config. The config's GraphPath is overwritten to point at the temporary
// directory; log settings default to debug/text when unset.
func RunGraphTestWithConfig(ctx context.Context, t *testing.T, files map[string]string, cfg *app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg.GraphPath = tmpDir
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	out := &SafeBuffer{}

	// App startup panics on config errors; the harness converts that into a
	// returned error so tests can assert on it.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.New(out, cfg, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output: out.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx, cfg)

	if os.Getenv("GRIDFLOW_TEST_LOGS") == "true" {
		t.Logf("--- Full Output for %s ---\n%s", t.Name(), out.String())
	}

	return &HarnessResult{
		Output: out.String(),
		Err:    runErr,
		App:    testApp,
	}
}
