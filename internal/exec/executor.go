package exec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"os/signal"

	dorcerrors "github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/logger"
)

// stderrTailSize bounds how much attached stderr is kept for not-found detection.
const stderrTailSize = 4096

// Runner executes commands. Executor is the real implementation; tests use
// the fake in exec/testing.
type Runner interface {
	// Run executes cmd attached to the terminal and returns its exit code.
	// err is set when the command could not start or a required tool is missing.
	Run(cmd Command) (int, error)
	// Output executes cmd with stdout captured.
	Output(cmd Command) ([]byte, int, error)
}

// FailureHandler is called after an attached command exits non-zero.
type FailureHandler func(cmd Command, exitCode int)

// Executor runs commands with os/exec. No shell is involved.
type Executor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logger.Logger
	// OnFailure is invoked for attached runs that exit non-zero. May be nil.
	OnFailure FailureHandler
}

// NewExecutor creates an executor attached to the process stdio.
func NewExecutor(log logger.Logger) *Executor {
	if log == nil {
		log = logger.Noop()
	}
	return &Executor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

// Run implements Runner. While the child runs, SIGINT is caught so Ctrl-C
// stops the child (which shares the terminal's process group) and dorc
// returns to its menu.
func (e *Executor) Run(cmd Command) (int, error) {
	if err := cmd.Validate(); err != nil {
		return -1, err
	}

	c, closeStdin, err := e.build(cmd)
	if err != nil {
		return -1, err
	}
	defer closeStdin()

	tail := &tailBuffer{max: stderrTailSize}
	c.Stdout = e.Stdout
	c.Stderr = io.MultiWriter(e.Stderr, tail)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	e.Log.Info("run: %s", cmd)
	code, err := e.wait(cmd, c.Run())
	if err != nil {
		return code, err
	}
	select {
	case <-sigCh:
		e.Log.Info("interrupted: %s", cmd)
	default:
	}

	if code != 0 {
		e.Log.Error("%s exited with %d", cmd, code)
		notFound := HandleExecError(cmd, tail.String(), code)
		if e.OnFailure != nil {
			e.OnFailure(cmd, code)
		}
		return code, notFound
	}
	return 0, nil
}

// Output implements Runner. Stderr is captured and logged rather than shown,
// and the failure hook is not invoked: captured commands are probes whose
// callers decide how to report failure.
func (e *Executor) Output(cmd Command) ([]byte, int, error) {
	if err := cmd.Validate(); err != nil {
		return nil, -1, err
	}

	c, closeStdin, err := e.build(cmd)
	if err != nil {
		return nil, -1, err
	}
	defer closeStdin()

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	e.Log.Debug("output: %s", cmd)
	code, err := e.wait(cmd, c.Run())
	if err != nil {
		return nil, code, err
	}
	if code != 0 {
		e.Log.Error("%s exited with %d: %s", cmd, code, bytes.TrimSpace(stderr.Bytes()))
		return stdout.Bytes(), code, HandleExecError(cmd, stderr.String(), code)
	}
	return stdout.Bytes(), 0, nil
}

func (e *Executor) build(cmd Command) (*osexec.Cmd, func(), error) {
	if cmd.Dir != "" {
		if info, err := os.Stat(cmd.Dir); err != nil || !info.IsDir() {
			return nil, nil, dorcerrors.New(dorcerrors.ErrExec,
				fmt.Sprintf("Working directory %s doesn't exist", cmd.Dir),
				"Switch project or check the path is still there.")
		}
	}

	c := osexec.Command(cmd.Program, cmd.Args...)
	c.Dir = cmd.Dir
	closeFn := func() {}

	if cmd.Stdin != "" {
		f, err := os.Open(cmd.Stdin)
		if err != nil {
			return nil, nil, dorcerrors.WrapWithCode(err, dorcerrors.ErrExec,
				fmt.Sprintf("Couldn't open %s for input", cmd.Stdin),
				"Check the file exists and is readable.")
		}
		c.Stdin = f
		closeFn = func() { f.Close() }
	} else {
		c.Stdin = e.Stdin
	}
	return c, closeFn, nil
}

// wait maps the result of Cmd.Run to an exit code. Only failures to start
// produce an error.
func (e *Executor) wait(cmd Command, runErr error) (int, error) {
	if runErr == nil {
		return 0, nil
	}

	var exitErr *osexec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if errors.Is(runErr, osexec.ErrNotFound) || errors.Is(runErr, os.ErrNotExist) {
		e.Log.Error("%s: %s not found", cmd, cmd.Program)
		return ExitNotFound, notFoundError(cmd.Program, runErr)
	}

	e.Log.Error("%s failed to start: %v", cmd, runErr)
	return -1, dorcerrors.WrapWithCode(runErr, dorcerrors.ErrExec,
		fmt.Sprintf("Couldn't run %s", cmd.Program),
		"Make sure the command exists and is executable.")
}

// Check collapses a Run result into one error: the run error if any,
// otherwise an ExitError for a non-zero code.
//
//	if err := exec.Check(runner.Run(cmd)); err != nil { ... }
func Check(code int, err error) error {
	if err != nil {
		return err
	}
	if code != 0 {
		return dorcerrors.NewExitError(code)
	}
	return nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
