// Package runner executes external commands under a wall-clock budget. Full
// filesystem scans and package-manager invocations are unbounded in the
// worst case; the interactive surface must never hang on one, and a timeout
// has to be a distinct, reportable outcome rather than silently-empty output.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Outcome classifies how a bounded run ended.
type Outcome int

const (
	// Completed means the command ran to its natural exit, successful or not.
	Completed Outcome = iota
	// TimedOut means the wall-clock budget expired and the command was killed.
	TimedOut
	// KillFailed means the budget expired and the kill signal could not be
	// delivered; the child may still be running.
	KillFailed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case TimedOut:
		return "timed out"
	case KillFailed:
		return "kill failed"
	default:
		return "unknown"
	}
}

// Result carries what a bounded command produced. ExitCode is meaningful for
// Completed; for TimedOut it mirrors timeout(1)'s convention.
type Result struct {
	Output   string
	ExitCode int
	Outcome  Outcome
}

// timedOutExitCode is what coreutils timeout(1) exits with when the budget
// expires; the supervised fallback reports the same so callers see one code.
const timedOutExitCode = 124

// killGrace is how long the fallback waits between SIGTERM and SIGKILL.
const killGrace = 2 * time.Second

// Runner runs commands with an enforced timeout. When the host ships a
// native timeout utility it is used directly; otherwise a watchdog goroutine
// supervises the child.
type Runner struct {
	log           logrus.FieldLogger
	nativeTimeout string // path to timeout(1), empty when absent
}

// New probes for a native timeout utility once and returns a Runner. log may
// be nil.
func New(log logrus.FieldLogger) *Runner {
	path, _ := exec.LookPath("timeout")
	return &Runner{log: log, nativeTimeout: path}
}

// Run executes argv and returns within roughly timeout, terminating the
// command if it is still alive. A non-zero exit from the command itself is
// not an error here — it comes back as Completed with the exit code — so
// callers can treat tool failures as warnings. The returned error covers
// spawn failures only.
func (r *Runner) Run(timeout time.Duration, argv ...string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errors.New("runner: empty command")
	}
	if timeout <= 0 {
		return Result{}, fmt.Errorf("runner: invalid timeout %v", timeout)
	}
	if r.log != nil {
		r.log.WithField("argv", argv).WithField("timeout", timeout).Debug("running bounded command")
	}
	if r.nativeTimeout != "" {
		return r.runNative(timeout, argv)
	}
	return r.runSupervised(timeout, argv)
}

// runNative delegates enforcement to timeout(1) and propagates its exit code.
func (r *Runner) runNative(timeout time.Duration, argv []string) (Result, error) {
	secs := strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64)
	args := append([]string{secs}, argv...)

	var buf bytes.Buffer
	cmd := exec.Command(r.nativeTimeout, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	res := Result{Output: buf.String(), ExitCode: exitCode(err)}
	switch {
	case err == nil:
		res.Outcome = Completed
	case res.ExitCode == timedOutExitCode:
		res.Outcome = TimedOut
	case res.ExitCode >= 0:
		res.Outcome = Completed
	default:
		return res, err // could not spawn at all
	}
	return res, nil
}

// runSupervised starts the child in its own process group and races it
// against a watchdog timer. Whichever side wins, the other is torn down
// deterministically: the timer is stopped, or the whole group is signalled
// SIGTERM and, after a grace period, SIGKILL.
func (r *Runner) runSupervised(timeout time.Duration, argv []string) (Result, error) {
	var buf bytes.Buffer
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	// Own process group so one signal reaches the whole pipeline.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return Result{Output: buf.String(), ExitCode: exitCode(err), Outcome: Completed}, nil
	case <-timer.C:
	}

	// Budget expired: escalate. Negative pid addresses the process group.
	pgid := -cmd.Process.Pid
	_ = unix.Kill(pgid, unix.SIGTERM)

	select {
	case <-done:
	case <-time.After(killGrace):
		if err := unix.Kill(pgid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
			if r.log != nil {
				r.log.WithError(err).Error("could not kill timed-out command")
			}
			// The child may still be writing; don't touch its buffer.
			return Result{ExitCode: timedOutExitCode, Outcome: KillFailed}, nil
		}
		<-done
	}

	if r.log != nil {
		r.log.WithField("argv", argv).Warn("command exceeded its time budget and was killed")
	}
	return Result{Output: buf.String(), ExitCode: timedOutExitCode, Outcome: TimedOut}, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
