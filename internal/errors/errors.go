// Package errors provides structured error types for gitscope.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindPermission
	KindIO
	KindConfig
	KindGit
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindPermission:
		return "permission denied"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindGit:
		return "git error"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for gitscope.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Review errors
func ReviewNotFound(repoPath, id string) error {
	return E(Op("review.End"), KindNotFound, fmt.Sprintf("code review %s no longer exists in %s (it may have been ended elsewhere)", id, repoPath))
}

func MalformedReviewID(id string) error {
	return E(Op("review.DecodeID"), KindInvalid, fmt.Sprintf("malformed review identifier %q", id))
}

func NoReviews() error {
	return E(Op("review.Snapshot"), KindNotFound, "there are no code reviews in progress")
}

// Registry errors
func RepoOutsideWorkspace(path string) error {
	return E(Op("registry.Register"), KindPermission, fmt.Sprintf("%s is outside the configured workspace roots", path))
}

func NoReposKnown() error {
	return E(Op("registry.Known"), KindNotFound, "no repositories are registered")
}

// Git errors
func GitNotRepo(path string) error {
	return E(Op("git.ValidateRepo"), KindInvalid, fmt.Sprintf("%s is not a git repository", path))
}

func GitUnavailable(err error) error {
	return E(Op("git.Resolve"), KindUnavailable, "unable to run git (is it installed and on PATH?)", err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}
