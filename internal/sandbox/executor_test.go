package sandbox_test

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/examforge/internal/sandbox"
)

// Confined runs re-execute the current binary, which during tests is the
// test binary itself.
func TestMain(m *testing.M) {
	sandbox.MaybeInit()
	os.Exit(m.Run())
}

// newShellExecutor builds an executor backed by /bin/sh so the tests do not
// depend on a Python install.
func newShellExecutor(t *testing.T, opts sandbox.Options) sandbox.Executor {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	opts.Interpreter = "sh"
	opts.SourceFile = "main.sh"
	executor, err := sandbox.NewProcessExecutor(opts)
	require.NoError(t, err)
	return executor
}

func TestProcessExecutorRun(t *testing.T) {
	ctx := context.Background()

	t.Run("EchoesStdout", func(t *testing.T) {
		executor := newShellExecutor(t, sandbox.Options{})

		res, err := executor.Run(ctx, `echo "hello"`, "", 0)
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.False(t, res.TimedOut)
		assert.True(t, res.Passed("hello"))
		assert.True(t, res.Passed("hello\n"), "trailing whitespace must not matter")
	})

	t.Run("ReadsStdin", func(t *testing.T) {
		executor := newShellExecutor(t, sandbox.Options{})

		res, err := executor.Run(ctx, `read line; echo "got $line"`, "42\n", 0)
		require.NoError(t, err)
		assert.Equal(t, "got 42", strings.TrimSpace(res.Output))
	})

	t.Run("NonZeroExitFailsTheCase", func(t *testing.T) {
		executor := newShellExecutor(t, sandbox.Options{})

		res, err := executor.Run(ctx, `echo "expected"; exit 3`, "", 0)
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
		assert.False(t, res.Passed("expected"), "a crashing run must not pass even with matching output")
	})

	t.Run("InfiniteLoopHitsTheWallClock", func(t *testing.T) {
		executor := newShellExecutor(t, sandbox.Options{})

		start := time.Now()
		res, err := executor.Run(ctx, `while true; do :; done`, "", time.Second)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.True(t, res.TimedOut)
		assert.False(t, res.Passed(""))
		assert.Less(t, elapsed, 5*time.Second, "the run must be killed promptly after its timeout")
	})

	t.Run("RunsDoNotShareState", func(t *testing.T) {
		executor := newShellExecutor(t, sandbox.Options{})

		res, err := executor.Run(ctx, `echo "leak" > marker.txt; cat marker.txt`, "", 0)
		require.NoError(t, err)
		assert.Equal(t, "leak", strings.TrimSpace(res.Output))

		res, err = executor.Run(ctx, `cat marker.txt 2>/dev/null; true`, "", 0)
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(res.Output), "files from a previous run must not be visible")
	})

	t.Run("EnvironmentIsEmptied", func(t *testing.T) {
		t.Setenv("SANDBOX_SECRET_TOKEN", "leaked")
		executor := newShellExecutor(t, sandbox.Options{})

		res, err := executor.Run(ctx, `echo "v=$SANDBOX_SECRET_TOKEN"`, "", 0)
		require.NoError(t, err)
		assert.Equal(t, "v=", strings.TrimSpace(res.Output))
	})

	t.Run("HostFilesAreHidden", func(t *testing.T) {
		if _, err := os.Stat("/etc/passwd"); err != nil {
			t.Skip("/etc/passwd not present on this host")
		}
		executor := newShellExecutor(t, sandbox.Options{})

		// Warm-up run so an unsupported kernel flips the fallback first.
		_, err := executor.Run(ctx, `true`, "", 0)
		require.NoError(t, err)
		if !sandbox.ConfinementActive() {
			t.Skip("kernel does not allow unprivileged namespaces")
		}

		res, err := executor.Run(ctx, `cat /etc/passwd 2>/dev/null; true`, "", 0)
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(res.Output), "host credential files must not be readable")

		res, err = executor.Run(ctx, `ls /home /root /var 2>/dev/null; true`, "", 0)
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(res.Output), "host directories must not be visible")
	})

	t.Run("NetworkIsUnreachable", func(t *testing.T) {
		executor := newShellExecutor(t, sandbox.Options{})

		_, err := executor.Run(ctx, `true`, "", 0)
		require.NoError(t, err)
		if !sandbox.ConfinementActive() {
			t.Skip("kernel does not allow unprivileged namespaces")
		}

		// Only the loopback of the fresh network namespace exists, and it
		// comes up unconfigured.
		res, err := executor.Run(ctx, `cat /proc/net/route 2>/dev/null | tail -n +2; true`, "", 0)
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(res.Output), "no host routes may be visible")
	})

	t.Run("OutputIsCapped", func(t *testing.T) {
		executor := newShellExecutor(t, sandbox.Options{MaxOutputBytes: 1024})

		res, err := executor.Run(ctx, `i=0; while [ $i -lt 1000 ]; do echo "0123456789012345678901234567890123456789"; i=$((i+1)); done`, "", 0)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(res.Output), 1024)
	})

	t.Run("MissingInterpreterIsUnavailable", func(t *testing.T) {
		_, err := sandbox.NewProcessExecutor(sandbox.Options{Interpreter: "definitely-not-a-real-runtime"})
		assert.ErrorIs(t, err, sandbox.ErrUnavailable)
	})
}
