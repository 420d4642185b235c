package exec

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is a scripted result for a command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// MockExecutor returns scripted responses keyed by the joined command
// line ("git log ..."). Used by tests and demo generation.
type MockExecutor struct {
	mu        sync.Mutex
	responses map[string]MockResponse
	// Calls records every command line executed, in order.
	Calls []string
	// LookPathErr is returned from LookPath when set.
	LookPathErr error
}

// NewMockExecutor returns an empty mock executor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{responses: make(map[string]MockResponse)}
}

// Stub registers a response for the given command line.
func (m *MockExecutor) Stub(cmdline string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmdline] = resp
}

// CallCount returns how many times the given command line was executed.
func (m *MockExecutor) CallCount(cmdline string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == cmdline {
			n++
		}
	}
	return n
}

func (m *MockExecutor) lookup(name string, args []string) MockResponse {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, cmdline)
	return m.responses[cmdline]
}

func (m *MockExecutor) Run(_ context.Context, _, name string, args ...string) ([]byte, []byte, error) {
	resp := m.lookup(name, args)
	return resp.Stdout, resp.Stderr, resp.Err
}

func (m *MockExecutor) Output(_ context.Context, _, name string, args ...string) ([]byte, error) {
	resp := m.lookup(name, args)
	return resp.Stdout, resp.Err
}

func (m *MockExecutor) CombinedOutput(_ context.Context, _, name string, args ...string) ([]byte, error) {
	resp := m.lookup(name, args)
	return append(resp.Stdout, resp.Stderr...), resp.Err
}

func (m *MockExecutor) LookPath(string) error {
	return m.LookPathErr
}
