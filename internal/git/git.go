// Package git issues git subprocess calls through the swappable
// command executor.
package git

import (
	"context"
	stderrors "errors"
	osexec "os/exec"
	"strconv"
	"strings"
	"time"

	"gitscope/internal/errors"
	pexec "gitscope/internal/exec"
	"gitscope/internal/logger"
)

// fieldSep separates formatted log fields; commit subjects cannot
// contain the unit separator control character.
const fieldSep = "\x1f"

// Commit is one entry of a repository's log.
type Commit struct {
	Hash    string
	Author  string
	Date    time.Time
	Subject string
}

// Service runs git commands for a repository.
type Service struct {
	exec pexec.CommandExecutor
}

// NewService creates a Service using the given executor.
func NewService(executor pexec.CommandExecutor) *Service {
	return &Service{exec: executor}
}

// NewDefaultService creates a Service backed by real subprocesses.
func NewDefaultService() *Service {
	return NewService(pexec.NewRealExecutor())
}

// wrapRunError classifies a failed git invocation. A missing git
// binary means the whole resolver channel is unusable.
func wrapRunError(op errors.Op, context string, err error) error {
	if stderrors.Is(err, osexec.ErrNotFound) {
		return errors.GitUnavailable(err)
	}
	return errors.E(op, errors.KindGit, context, err)
}

// CommitSubject returns the one-line subject of a commit. A commit
// that does not exist in the repository is a KindNotFound error.
func (s *Service) CommitSubject(ctx context.Context, repoPath, hash string) (string, error) {
	out, err := s.exec.Output(ctx, repoPath, "git", "log", "--format=%s", "-n", "1", hash)
	if err != nil {
		if stderrors.Is(err, osexec.ErrNotFound) {
			return "", errors.GitUnavailable(err)
		}
		return "", errors.E(errors.Op("git.CommitSubject"), errors.KindNotFound, "commit "+hash+" not found", err)
	}

	subject := strings.TrimSpace(string(out))
	if subject == "" {
		return "", errors.E(errors.Op("git.CommitSubject"), errors.KindNotFound, "commit "+hash+" has no subject")
	}
	return subject, nil
}

// Log returns up to limit commits from the repository head.
func (s *Service) Log(ctx context.Context, repoPath string, limit int) ([]Commit, error) {
	format := "%H" + fieldSep + "%an" + fieldSep + "%at" + fieldSep + "%s"
	out, err := s.exec.Output(ctx, repoPath, "git", "log", "--format="+format, "-n", strconv.Itoa(limit))
	if err != nil {
		return nil, wrapRunError(errors.Op("git.Log"), "failed to read log of "+repoPath, err)
	}

	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, fieldSep, 4)
		if len(parts) != 4 {
			logger.Warn("Git: Skipping unparseable log line %q", line)
			continue
		}
		unix, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			logger.Warn("Git: Bad commit timestamp %q: %v", parts[2], err)
			continue
		}
		commits = append(commits, Commit{
			Hash:    parts[0],
			Author:  parts[1],
			Date:    time.Unix(unix, 0),
			Subject: parts[3],
		})
	}
	return commits, nil
}

// Diff returns the patch for a commit pair: the diff between the two
// commits, or the commit's own patch when from equals to.
func (s *Service) Diff(ctx context.Context, repoPath, from, to string) (string, error) {
	var out []byte
	var err error
	if from == to {
		out, err = s.exec.Output(ctx, repoPath, "git", "show", "--format=", "--patch", to)
	} else {
		out, err = s.exec.Output(ctx, repoPath, "git", "diff", from, to)
	}
	if err != nil {
		return "", wrapRunError(errors.Op("git.Diff"), "failed to diff "+from+".."+to, err)
	}
	return string(out), nil
}

// ChangedFiles lists the files touched by a commit pair. The review
// store seeds a new review's remaining-files progress from this.
func (s *Service) ChangedFiles(ctx context.Context, repoPath, from, to string) ([]string, error) {
	var out []byte
	var err error
	if from == to {
		out, err = s.exec.Output(ctx, repoPath, "git", "show", "--format=", "--name-only", to)
	} else {
		out, err = s.exec.Output(ctx, repoPath, "git", "diff", "--name-only", from, to)
	}
	if err != nil {
		return nil, wrapRunError(errors.Op("git.ChangedFiles"), "failed to list files for "+from+".."+to, err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Root returns the top-level directory of the repository containing
// path, or empty string if path is not inside a git repository.
func (s *Service) Root(ctx context.Context, path string) string {
	out, err := s.exec.Output(ctx, path, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ValidateRepo checks that path is inside a git repository.
func (s *Service) ValidateRepo(ctx context.Context, path string) error {
	out, err := s.exec.CombinedOutput(ctx, path, "git", "rev-parse", "--git-dir")
	if err != nil {
		if stderrors.Is(err, osexec.ErrNotFound) {
			return errors.GitUnavailable(err)
		}
		logger.Debug("Git: Validation failed for %s: %s", path, strings.TrimSpace(string(out)))
		return errors.GitNotRepo(path)
	}
	return nil
}

// Available reports whether the git binary can be found.
func (s *Service) Available() error {
	if err := s.exec.LookPath("git"); err != nil {
		return errors.GitUnavailable(err)
	}
	return nil
}
