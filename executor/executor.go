// Package executor runs the external tools the release flow depends on (the
// schema compiler and the archiver). It supports output capture, console
// redirection, environment and working-directory control, and command echoing
// for verbose mode. Context cancellation kills the child process.
//
// There is deliberately no retry support: every tool failure in the release
// flow is terminal.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result holds the output and exit status of a single tool invocation.
type Result struct {
	Stdout   string
	Stderr   string
	Combined string
	ExitCode int
}

// Runner executes a program with arguments. The production implementation is
// CommandRunner; tests substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (*Result, error)
}

// Options configures how commands are run.
type Options struct {
	// Output handling.
	CaptureStdout     bool
	CaptureStderr     bool
	CaptureCombined   bool
	RedirectToConsole bool

	// EchoWriter, when set, receives the command line before it runs,
	// prefixed with "+ " in the manner of a shell trace.
	EchoWriter io.Writer

	// WorkingDir is the directory the command runs in; empty means the
	// current directory.
	WorkingDir string

	// Env holds environment variables appended to the current environment.
	Env map[string]string

	// Custom stdout/stderr writers, attached in addition to capture and
	// console redirection.
	StdoutWriter io.Writer
	StderrWriter io.Writer
}

// Option mutates Options during construction.
type Option func(*Options)

// DefaultOptions captures both streams and stays quiet on the console.
func DefaultOptions() *Options {
	return &Options{
		CaptureStdout: true,
		CaptureStderr: true,
		Env:           make(map[string]string),
	}
}

// CommandRunner is the Runner backed by os/exec.
type CommandRunner struct {
	options *Options
}

// NewRunner creates a CommandRunner with the given options applied over the
// defaults.
func NewRunner(opts ...Option) *CommandRunner {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &CommandRunner{options: options}
}

// Run executes program with args and returns the captured result. A non-nil
// error is returned when the command cannot start or exits non-zero; the
// Result is populated in either case.
func (r *CommandRunner) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	if r.options.EchoWriter != nil {
		fmt.Fprintf(r.options.EchoWriter, "+ %s\n", commandLine(program, args))
	}

	cmd := exec.CommandContext(ctx, program, args...)
	r.setupCommand(cmd)
	stdoutBuf, stderrBuf, combinedBuf := r.setupOutputCapture(cmd)

	err := cmd.Run()
	result := newResult(stdoutBuf, stderrBuf, combinedBuf, err)

	if err != nil {
		return result, fmt.Errorf("%s: %w", program, err)
	}
	return result, nil
}

// setupCommand applies working directory and environment settings.
func (r *CommandRunner) setupCommand(cmd *exec.Cmd) {
	if r.options.WorkingDir != "" {
		cmd.Dir = r.options.WorkingDir
	}
	if len(r.options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range r.options.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}
}

// setupOutputCapture wires stdout and stderr according to the options.
func (r *CommandRunner) setupOutputCapture(cmd *exec.Cmd) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	var stdoutBuf, stderrBuf, combinedBuf bytes.Buffer

	stdoutWriters := []io.Writer{}
	if r.options.CaptureCombined {
		stdoutWriters = append(stdoutWriters, &combinedBuf)
	} else if r.options.CaptureStdout {
		stdoutWriters = append(stdoutWriters, &stdoutBuf)
	}
	if r.options.RedirectToConsole {
		stdoutWriters = append(stdoutWriters, os.Stdout)
	}
	if r.options.StdoutWriter != nil {
		stdoutWriters = append(stdoutWriters, r.options.StdoutWriter)
	}
	if len(stdoutWriters) > 0 {
		cmd.Stdout = io.MultiWriter(stdoutWriters...)
	}

	stderrWriters := []io.Writer{}
	if r.options.CaptureCombined {
		stderrWriters = append(stderrWriters, &combinedBuf)
	} else if r.options.CaptureStderr {
		stderrWriters = append(stderrWriters, &stderrBuf)
	}
	if r.options.RedirectToConsole {
		stderrWriters = append(stderrWriters, os.Stderr)
	}
	if r.options.StderrWriter != nil {
		stderrWriters = append(stderrWriters, r.options.StderrWriter)
	}
	if len(stderrWriters) > 0 {
		cmd.Stderr = io.MultiWriter(stderrWriters...)
	}

	return &stdoutBuf, &stderrBuf, &combinedBuf
}

// newResult builds a Result from the captured buffers and the run error.
func newResult(stdoutBuf, stderrBuf, combinedBuf *bytes.Buffer, err error) *Result {
	result := &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Combined: combinedBuf.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		// The command never ran (not found, permission, cancelled context).
		result.ExitCode = -1
	}
	return result
}

// commandLine renders the command for echoing, quoting arguments that
// contain whitespace.
func commandLine(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, program)
	for _, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			parts = append(parts, fmt.Sprintf("%q", arg))
		} else {
			parts = append(parts, arg)
		}
	}
	return strings.Join(parts, " ")
}

// Tool binds a Runner to a specific program so call sites read like the
// tool invocation they perform: protoc.Run(ctx, args...).
type Tool struct {
	program string
	runner  Runner
}

// NewTool creates a Tool for the given program name.
func NewTool(program string, runner Runner) *Tool {
	return &Tool{program: program, runner: runner}
}

// Name returns the program name the tool invokes.
func (t *Tool) Name() string { return t.program }

// Run invokes the tool with the given arguments.
func (t *Tool) Run(ctx context.Context, args ...string) (*Result, error) {
	return t.runner.Run(ctx, t.program, args...)
}

// Option functions.

// WithCapture configures which streams are captured.
func WithCapture(stdout, stderr, combined bool) Option {
	return func(o *Options) {
		o.CaptureStdout = stdout
		o.CaptureStderr = stderr
		o.CaptureCombined = combined
	}
}

// WithConsoleRedirect mirrors tool output to the console in addition to any
// capture.
func WithConsoleRedirect(redirect bool) Option {
	return func(o *Options) {
		o.RedirectToConsole = redirect
	}
}

// WithEcho writes each command line to w before it runs. Used by verbose
// mode.
func WithEcho(w io.Writer) Option {
	return func(o *Options) {
		o.EchoWriter = w
	}
}

// WithWorkingDir sets the directory commands run in.
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnvVar appends a single environment variable.
func WithEnvVar(key, value string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		o.Env[key] = value
	}
}

// WithStdoutWriter attaches a custom stdout writer.
func WithStdoutWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StdoutWriter = w
	}
}

// WithStderrWriter attaches a custom stderr writer.
func WithStderrWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StderrWriter = w
	}
}
