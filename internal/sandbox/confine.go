package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

// The executor re-executes its own binary with this argument to set up the
// namespaced filesystem before handing control to the interpreter. The
// re-executed process runs as root of a fresh user namespace, as PID 1 of a
// fresh PID namespace, with no network and a private mount table.
const initArg = "sandbox-init"

const (
	envWorkDir     = "SANDBOX_INIT_WORKDIR"
	envInterpreter = "SANDBOX_INIT_INTERPRETER"
	envSource      = "SANDBOX_INIT_SOURCE"
	envMemoryMB    = "SANDBOX_INIT_MEMORY_MB"
	envCPUSeconds  = "SANDBOX_INIT_CPU_SECONDS"
)

// Only these host trees are visible inside the sandbox, read-only. /etc,
// /home, /root, /var and everything else stay out.
var confinedBinds = []string{"/usr", "/bin", "/sbin", "/lib", "/lib64"}

// ConfinementActive reports whether runs are still being namespaced. It
// turns false after the kernel refuses a namespace clone and the executor
// falls back to the plain process sandbox.
func ConfinementActive() bool {
	return !confineBroken.Load()
}

// MaybeInit must be the first call in main. When the process was started as
// a sandbox init it never returns; otherwise it is a no-op.
func MaybeInit() {
	if len(os.Args) < 2 || os.Args[1] != initArg {
		return
	}
	if err := runInit(); err != nil {
		fmt.Fprintln(os.Stderr, "sandbox init:", err)
		os.Exit(125)
	}
}

// runInit builds a minimal root out of read-only binds, pivots into it and
// execs the interpreter. Runs inside the fresh namespaces, so every mount
// here is invisible to the host and torn down with the PID namespace.
func runInit() error {
	workDir := os.Getenv(envWorkDir)
	interpreter := os.Getenv(envInterpreter)
	source := os.Getenv(envSource)
	if workDir == "" || interpreter == "" || source == "" {
		return fmt.Errorf("incomplete init environment")
	}

	// Stop mount events from leaking back to the host table.
	if err := unix.Mount("", "/", "", unix.MS_REC|unix.MS_PRIVATE, ""); err != nil {
		return fmt.Errorf("make / private: %w", err)
	}

	root := filepath.Join(workDir, "rootfs")
	if err := os.MkdirAll(root, 0o700); err != nil {
		return err
	}
	if err := unix.Mount(root, root, "", unix.MS_BIND, ""); err != nil {
		return fmt.Errorf("bind rootfs: %w", err)
	}

	for _, dir := range confinedBinds {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		target := filepath.Join(root, dir)
		if err := os.MkdirAll(target, 0o700); err != nil {
			return err
		}
		if err := unix.Mount(dir, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
			return fmt.Errorf("bind %s: %w", dir, err)
		}
		// Remounting read-only can be refused when the source carries
		// extra flags; visibility, not writability, is the hard line.
		_ = unix.Mount("", target, "", unix.MS_REMOUNT|unix.MS_BIND|unix.MS_RDONLY|unix.MS_NOSUID|unix.MS_NODEV, "")
	}

	box := filepath.Join(root, "box")
	if err := os.MkdirAll(box, 0o700); err != nil {
		return err
	}
	if err := unix.Mount(filepath.Join(workDir, "box"), box, "", unix.MS_BIND, ""); err != nil {
		return fmt.Errorf("bind box: %w", err)
	}

	// Scratch space and /dev/null, best-effort; interpreters cope without.
	if tmp := filepath.Join(root, "tmp"); os.MkdirAll(tmp, 0o777) == nil {
		_ = unix.Mount("tmpfs", tmp, "tmpfs", unix.MS_NOSUID|unix.MS_NODEV, "size=16m")
	}
	if dev := filepath.Join(root, "dev"); os.MkdirAll(dev, 0o700) == nil {
		null := filepath.Join(dev, "null")
		if f, err := os.Create(null); err == nil {
			f.Close()
			_ = unix.Mount("/dev/null", null, "", unix.MS_BIND, "")
		}
	}
	if proc := filepath.Join(root, "proc"); os.MkdirAll(proc, 0o700) == nil {
		_ = unix.Mount("proc", proc, "proc", unix.MS_NOSUID|unix.MS_NODEV|unix.MS_NOEXEC, "")
	}

	old := filepath.Join(root, ".old")
	if err := os.MkdirAll(old, 0o700); err != nil {
		return err
	}
	if err := unix.PivotRoot(root, old); err != nil {
		return fmt.Errorf("pivot_root: %w", err)
	}
	if err := unix.Chdir("/"); err != nil {
		return err
	}
	if err := unix.Unmount("/.old", unix.MNT_DETACH); err != nil {
		return fmt.Errorf("detach old root: %w", err)
	}
	_ = os.Remove("/.old")

	applyInitLimits()

	if err := unix.Chdir("/box"); err != nil {
		return err
	}
	env := []string{"PATH=/usr/local/bin:/usr/bin:/bin", "HOME=/box"}
	return unix.Exec(interpreter, []string{interpreter, source}, env)
}

// applyInitLimits sets the address-space and CPU ceilings right before the
// exec so they bound the interpreter, not this setup code. Best-effort: a
// run that outgrows them dies with a runtime error, an ordinary case
// failure.
func applyInitLimits() {
	if mb, err := strconv.Atoi(os.Getenv(envMemoryMB)); err == nil && mb > 0 {
		memBytes := uint64(mb) << 20
		_ = unix.Setrlimit(unix.RLIMIT_AS, &unix.Rlimit{Cur: memBytes, Max: memBytes})
	}
	if secs, err := strconv.Atoi(os.Getenv(envCPUSeconds)); err == nil && secs > 0 {
		_ = unix.Setrlimit(unix.RLIMIT_CPU, &unix.Rlimit{Cur: uint64(secs), Max: uint64(secs)})
	}
}
