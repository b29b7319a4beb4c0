package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/examforge/examforge/internal/config"
)

// ErrUnavailable marks infrastructure failures (missing runtime, temp dir
// trouble). Callers must keep it distinct from routine case failures like
// timeouts or runtime errors, which are reported in the Result instead.
var ErrUnavailable = errors.New("sandbox unavailable")

const (
	DefaultTimeout = 3 * time.Second
	MaxTimeout     = 10 * time.Second

	defaultMaxOutputBytes = 64 << 10
	defaultMemoryLimitMB  = 256
)

// Result is the outcome of one isolated execution. A timed-out or crashed
// run is still a valid Result; only the sandbox itself failing produces an
// error.
type Result struct {
	Output   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Passed compares the captured stdout against the expected output, ignoring
// leading/trailing whitespace, for a run that finished cleanly.
func (r *Result) Passed(expected string) bool {
	if r.TimedOut || r.ExitCode != 0 {
		return false
	}
	return strings.TrimSpace(r.Output) == strings.TrimSpace(expected)
}

type Executor interface {
	// Run executes the code artifact against one input inside a fresh,
	// isolated environment, bounded by the timeout. Nothing survives the
	// call: no files, no processes, no shared state with other runs.
	Run(ctx context.Context, code, input string, timeout time.Duration) (*Result, error)
}

type Options struct {
	// Interpreter is the runtime binary that executes the artifact, e.g.
	// "python3" or "node". Resolved through PATH at construction.
	Interpreter string
	// SourceFile is the name the artifact is written under inside the
	// per-run working directory.
	SourceFile     string
	DefaultTimeout time.Duration
	MaxOutputBytes int
	MemoryLimitMB  int
}

type processExecutor struct {
	interpreterPath string
	sourceFile      string
	defaultTimeout  time.Duration
	maxOutputBytes  int
	memoryLimitMB   int
}

// confineBroken flips to true the first time the kernel refuses the
// namespace clone, so every later run skips straight to the plain process
// sandbox instead of failing the same way again.
var confineBroken atomic.Bool

// NewProcessExecutor builds the process-per-run executor. Each Run gets its
// own working directory, an emptied environment, its own process group and
// hard CPU/memory/wall-clock bounds; the group is killed unconditionally
// when the run ends. On kernels that allow it the run is additionally
// confined to fresh user, mount, network and PID namespaces with only a
// handful of read-only host trees visible.
func NewProcessExecutor(opts Options) (Executor, error) {
	if opts.Interpreter == "" {
		opts.Interpreter = "python3"
	}
	if opts.SourceFile == "" {
		opts.SourceFile = "main.py"
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = DefaultTimeout
	}
	if opts.MaxOutputBytes <= 0 {
		opts.MaxOutputBytes = defaultMaxOutputBytes
	}
	if opts.MemoryLimitMB <= 0 {
		opts.MemoryLimitMB = defaultMemoryLimitMB
	}

	path, err := exec.LookPath(opts.Interpreter)
	if err != nil {
		return nil, fmt.Errorf("%w: interpreter %q not found", ErrUnavailable, opts.Interpreter)
	}

	return &processExecutor{
		interpreterPath: path,
		sourceFile:      opts.SourceFile,
		defaultTimeout:  opts.DefaultTimeout,
		maxOutputBytes:  opts.MaxOutputBytes,
		memoryLimitMB:   opts.MemoryLimitMB,
	}, nil
}

func (e *processExecutor) Run(ctx context.Context, code, input string, timeout time.Duration) (*Result, error) {
	log := config.WithContext(ctx)

	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	workDir, err := os.MkdirTemp("", "sandbox-run-")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create working directory: %v", ErrUnavailable, err)
	}
	defer os.RemoveAll(workDir)

	boxDir := filepath.Join(workDir, "box")
	if err := os.Mkdir(boxDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: failed to create working directory: %v", ErrUnavailable, err)
	}
	sourcePath := filepath.Join(boxDir, e.sourceFile)
	if err := os.WriteFile(sourcePath, []byte(code), 0o600); err != nil {
		return nil, fmt.Errorf("%w: failed to write artifact: %v", ErrUnavailable, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	confined := !confineBroken.Load()
	cmd := e.command(runCtx, workDir, boxDir, timeout, confined)
	stdout := &cappedBuffer{max: e.maxOutputBytes}
	stderr := &cappedBuffer{max: e.maxOutputBytes}
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if confined && isNamespaceError(err) {
			confineBroken.Store(true)
			confined = false
			log.WithError(err).Warn("Kernel refused namespace isolation, falling back to the plain process sandbox")
			cmd = e.command(runCtx, workDir, boxDir, timeout, false)
			cmd.Stdin = strings.NewReader(input)
			cmd.Stdout = stdout
			cmd.Stderr = stderr
			err = cmd.Start()
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to start runtime: %v", ErrUnavailable, err)
		}
	}
	if !confined {
		// The namespaced init sets its own rlimits before handing over.
		e.applyResourceLimits(cmd.Process.Pid, timeout)
	}

	runErr := cmd.Wait()
	result := &Result{
		Output:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runCtx.Err() != nil && ctx.Err() == nil {
		result.TimedOut = true
		result.ExitCode = -1
		log.WithField("duration", result.Duration).Debug("Sandbox run hit the wall-clock limit")
		return result, nil
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		result.ExitCode = 0
	case errors.As(runErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("%w: run failed: %v", ErrUnavailable, runErr)
	}
	return result, nil
}

// command builds the per-run process. Confined runs re-execute this binary
// inside fresh user/mount/network/PID namespaces; MaybeInit picks the
// re-execution up, pivots into a minimal read-only root and execs the
// interpreter there. Unconfined runs launch the interpreter directly in the
// working directory.
func (e *processExecutor) command(ctx context.Context, workDir, boxDir string, timeout time.Duration, confined bool) *exec.Cmd {
	var cmd *exec.Cmd
	if confined {
		cmd = exec.CommandContext(ctx, "/proc/self/exe", initArg)
		cmd.Env = []string{
			envWorkDir + "=" + workDir,
			envInterpreter + "=" + e.interpreterPath,
			envSource + "=" + e.sourceFile,
			envMemoryMB + "=" + strconv.Itoa(e.memoryLimitMB),
			envCPUSeconds + "=" + strconv.Itoa(cpuSeconds(timeout)),
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{
			Setpgid:                    true,
			Cloneflags:                 syscall.CLONE_NEWUSER | syscall.CLONE_NEWNS | syscall.CLONE_NEWNET | syscall.CLONE_NEWPID,
			UidMappings:                []syscall.SysProcIDMap{{ContainerID: 0, HostID: os.Getuid(), Size: 1}},
			GidMappings:                []syscall.SysProcIDMap{{ContainerID: 0, HostID: os.Getgid(), Size: 1}},
			GidMappingsEnableSetgroups: false,
		}
	} else {
		cmd = exec.CommandContext(ctx, e.interpreterPath, e.sourceFile)
		cmd.Dir = boxDir
		// No inherited environment: the artifact sees nothing of the host.
		cmd.Env = []string{"PATH=/usr/local/bin:/usr/bin:/bin", "HOME=" + boxDir}
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	cmd.Cancel = func() error {
		// Take the whole process group down, not just the leader.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = time.Second
	return cmd
}

// isNamespaceError reports whether starting the child failed because the
// kernel or its configuration rejects unprivileged namespace clones.
func isNamespaceError(err error) bool {
	return errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.ENOSYS) ||
		errors.Is(err, syscall.EACCES)
}

func cpuSeconds(timeout time.Duration) int {
	return int((timeout + time.Second - 1) / time.Second)
}

// applyResourceLimits puts address-space and CPU ceilings on the child.
// Best-effort: a run that outgrows them dies with a runtime error, which is
// an ordinary case failure.
func (e *processExecutor) applyResourceLimits(pid int, timeout time.Duration) {
	memBytes := uint64(e.memoryLimitMB) << 20
	_ = unix.Prlimit(pid, unix.RLIMIT_AS, &unix.Rlimit{Cur: memBytes, Max: memBytes}, nil)

	secs := uint64(cpuSeconds(timeout))
	_ = unix.Prlimit(pid, unix.RLIMIT_CPU, &unix.Rlimit{Cur: secs, Max: secs}, nil)
}

// cappedBuffer keeps at most max bytes and silently discards the rest, so a
// print-spinning submission cannot exhaust host memory.
type cappedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if remaining := b.max - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
