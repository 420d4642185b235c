// Package exec wraps subprocess execution behind a small interface so
// git calls can be swapped out in tests.
package exec

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandExecutor runs external commands in a working directory.
type CommandExecutor interface {
	// Run executes the command and returns stdout and stderr separately.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
	// Output executes the command and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// CombinedOutput executes the command and returns combined stdout+stderr.
	CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// LookPath reports whether the named binary is available.
	LookPath(name string) error
}

// RealExecutor executes commands via os/exec.
type RealExecutor struct{}

// NewRealExecutor returns an executor backed by os/exec.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

func (e *RealExecutor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func (e *RealExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

func (e *RealExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

func (e *RealExecutor) LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}
