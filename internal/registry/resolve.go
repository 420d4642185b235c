package registry

import (
	"context"

	"gitscope/internal/config"
	"gitscope/internal/logger"
)

// Invocation carries the per-call inputs of the view command.
type Invocation struct {
	// RootPath is an explicit repository path argument, if any.
	RootPath string
	// ActiveFile is the file the user's editor currently has open
	// (from GITSCOPE_ACTIVE_FILE), if any.
	ActiveFile string
}

// strategy returns a definite repository, or reports no opinion so the
// chain moves on.
type strategy func(ctx context.Context, inv Invocation) (string, bool, error)

// ResolveViewTarget runs the ordered fallback chain for the view
// command: explicit argument, then active-file fallback, then nothing
// (the caller shows a picker). The chain is evaluated fresh on every
// call; known repos, config, and the active file all change between
// invocations.
func (r *Registry) ResolveViewTarget(ctx context.Context, inv Invocation) (string, bool, error) {
	strategies := []strategy{
		r.resolveExplicitRoot,
		r.resolveActiveFileRepo,
	}
	for _, s := range strategies {
		repo, ok, err := s(ctx, inv)
		if err != nil {
			return "", false, err
		}
		if ok {
			return repo, true, nil
		}
	}
	return "", false, nil
}

// resolveExplicitRoot handles an explicit path argument: reuse the
// known repository containing it, or register it as discovered.
func (r *Registry) resolveExplicitRoot(ctx context.Context, inv Invocation) (string, bool, error) {
	if inv.RootPath == "" {
		return "", false, nil
	}

	canonical := Canonicalize(inv.RootPath)
	if repo, ok := r.RepoContaining(canonical); ok {
		logger.Debug("Registry: %s resolves to known repository %s", canonical, repo)
		return repo, true, nil
	}

	root, err := r.Register(ctx, canonical, config.RepoSourceDiscovered)
	if err != nil {
		return "", false, err
	}
	return root, true, nil
}

// resolveActiveFileRepo maps the active file to its enclosing known
// repository when the config flag enables it. A file outside every
// known repository is no opinion, not an error.
func (r *Registry) resolveActiveFileRepo(_ context.Context, inv Invocation) (string, bool, error) {
	if !r.cfg.GetOpenRepoOfActiveFile() || inv.ActiveFile == "" {
		return "", false, nil
	}

	repo, ok := r.RepoContaining(Canonicalize(inv.ActiveFile))
	if !ok {
		return "", false, nil
	}
	return repo, true, nil
}
