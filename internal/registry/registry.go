// Package registry tracks known repositories and decides which one a
// view invocation should open.
package registry

import (
	"context"
	"path/filepath"
	"strings"

	"gitscope/internal/config"
	"gitscope/internal/errors"
	"gitscope/internal/git"
	"gitscope/internal/logger"
)

// Registry maps filesystem paths to registered repositories.
type Registry struct {
	cfg *config.Config
	git *git.Service
}

// New creates a registry over the given config and git service.
func New(cfg *config.Config, gitSvc *git.Service) *Registry {
	return &Registry{cfg: cfg, git: gitSvc}
}

// Canonicalize normalizes a path to its absolute, symlink-resolved,
// cleaned form so registry keys compare reliably.
func Canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.Clean(abs)
}

// Known returns the non-ignored registered repositories.
func (r *Registry) Known() []config.Repo {
	return r.cfg.KnownRepos()
}

// RepoContaining returns the registered repository whose root is an
// ancestor of (or equal to) path. With nested repositories the deepest
// match wins.
func (r *Registry) RepoContaining(path string) (string, bool) {
	best := ""
	for _, repo := range r.cfg.KnownRepos() {
		if path == repo.Path || strings.HasPrefix(path, repo.Path+string(filepath.Separator)) {
			if len(repo.Path) > len(best) {
				best = repo.Path
			}
		}
	}
	return best, best != ""
}

// Register adds the repository containing path. User registrations are
// bounded by the active workspace roots; discovered registrations
// (side effects of viewing an unknown path) are not. Returns the
// registered root.
func (r *Registry) Register(ctx context.Context, path string, source config.RepoSource) (string, error) {
	canonical := Canonicalize(path)

	if source == config.RepoSourceUser && !r.inWorkspace(canonical) {
		return "", errors.RepoOutsideWorkspace(canonical)
	}

	root := r.git.Root(ctx, canonical)
	if root == "" {
		return "", errors.GitNotRepo(canonical)
	}
	root = Canonicalize(root)

	if r.cfg.AddRepo(root, source) {
		if err := r.cfg.Save(); err != nil {
			return "", err
		}
		logger.Info("Registry: Registered repository %s (source=%s)", root, source)
	}
	return root, nil
}

// Ignore marks a registered repository as ignored.
func (r *Registry) Ignore(path string) error {
	if !r.cfg.IgnoreRepo(path) {
		return errors.E(errors.Op("registry.Ignore"), errors.KindNotFound, path+" is not a registered repository")
	}
	logger.Info("Registry: Ignoring repository %s", path)
	return r.cfg.Save()
}

func (r *Registry) inWorkspace(path string) bool {
	roots := r.cfg.WorkspaceRoots()
	if roots == nil {
		return true
	}
	for _, root := range roots {
		root = Canonicalize(root)
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// WorkspaceRoots exposes the active workspace roots for scoping bulk
// operations (nil means unrestricted).
func (r *Registry) WorkspaceRoots() []string {
	roots := r.cfg.WorkspaceRoots()
	for i, root := range roots {
		roots[i] = Canonicalize(root)
	}
	return roots
}
