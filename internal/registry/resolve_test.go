package registry

import (
	"context"
	"path/filepath"
	"testing"

	"gitscope/internal/config"
	pexec "gitscope/internal/exec"
	"gitscope/internal/git"
)

var ctx = context.Background()

func newTestRegistry(t *testing.T, mock *pexec.MockExecutor) (*Registry, *config.Config) {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	return New(cfg, git.NewService(mock)), cfg
}

func TestResolveExplicitRootPrefersKnownRepo(t *testing.T) {
	reg, cfg := newTestRegistry(t, pexec.NewMockExecutor())
	cfg.AddRepo("/repo", config.RepoSourceUser)

	repo, ok, err := reg.ResolveViewTarget(ctx, Invocation{RootPath: "/repo/sub"})
	if err != nil {
		t.Fatalf("ResolveViewTarget: %v", err)
	}
	if !ok || repo != "/repo" {
		t.Errorf("resolved %q (ok=%v), want /repo", repo, ok)
	}
	if cfg.HasRepo("/repo/sub") {
		t.Error("/repo/sub must not be registered when /repo is known")
	}
}

func TestResolveExplicitRootRegistersUnknown(t *testing.T) {
	mock := pexec.NewMockExecutor()
	mock.Stub("git rev-parse --show-toplevel", pexec.MockResponse{Stdout: []byte("/fresh/repo\n")})
	reg, cfg := newTestRegistry(t, mock)

	repo, ok, err := reg.ResolveViewTarget(ctx, Invocation{RootPath: "/fresh/repo/deep/dir"})
	if err != nil {
		t.Fatalf("ResolveViewTarget: %v", err)
	}
	if !ok || repo != "/fresh/repo" {
		t.Errorf("resolved %q (ok=%v), want /fresh/repo", repo, ok)
	}
	if !cfg.HasRepo("/fresh/repo") {
		t.Error("unknown repo should be registered")
	}
	repos := cfg.KnownRepos()
	if repos[0].Source != config.RepoSourceDiscovered {
		t.Errorf("source = %q, want discovered", repos[0].Source)
	}
}

func TestResolveActiveFileRepo(t *testing.T) {
	reg, cfg := newTestRegistry(t, pexec.NewMockExecutor())
	cfg.AddRepo("/repoA", config.RepoSourceUser)
	cfg.AddRepo("/repoB", config.RepoSourceUser)
	cfg.SetOpenRepoOfActiveFile(true)

	repo, ok, err := reg.ResolveViewTarget(ctx, Invocation{ActiveFile: "/repoB/src/main.go"})
	if err != nil {
		t.Fatalf("ResolveViewTarget: %v", err)
	}
	if !ok || repo != "/repoB" {
		t.Errorf("resolved %q (ok=%v), want /repoB", repo, ok)
	}
}

func TestResolveActiveFileDisabledFlag(t *testing.T) {
	reg, cfg := newTestRegistry(t, pexec.NewMockExecutor())
	cfg.AddRepo("/repoB", config.RepoSourceUser)
	cfg.SetOpenRepoOfActiveFile(false)

	_, ok, err := reg.ResolveViewTarget(ctx, Invocation{ActiveFile: "/repoB/src/main.go"})
	if err != nil {
		t.Fatalf("ResolveViewTarget: %v", err)
	}
	if ok {
		t.Error("chain should yield no repository with the flag disabled")
	}
}

func TestResolveActiveFileOutsideKnownReposFallsThrough(t *testing.T) {
	reg, cfg := newTestRegistry(t, pexec.NewMockExecutor())
	cfg.AddRepo("/repoA", config.RepoSourceUser)
	cfg.SetOpenRepoOfActiveFile(true)

	_, ok, err := reg.ResolveViewTarget(ctx, Invocation{ActiveFile: "/elsewhere/file.go"})
	if err != nil {
		t.Fatalf("ResolveViewTarget: %v", err)
	}
	if ok {
		t.Error("file outside known repos should resolve to nothing")
	}
}

func TestResolveNoInputs(t *testing.T) {
	reg, _ := newTestRegistry(t, pexec.NewMockExecutor())

	_, ok, err := reg.ResolveViewTarget(ctx, Invocation{})
	if err != nil {
		t.Fatalf("ResolveViewTarget: %v", err)
	}
	if ok {
		t.Error("empty invocation should resolve to nothing")
	}
}

func TestResolveIsReevaluatedEachCall(t *testing.T) {
	reg, cfg := newTestRegistry(t, pexec.NewMockExecutor())
	cfg.SetOpenRepoOfActiveFile(true)

	inv := Invocation{ActiveFile: "/repoC/file.go"}
	if _, ok, _ := reg.ResolveViewTarget(ctx, inv); ok {
		t.Fatal("should not resolve before /repoC is known")
	}

	cfg.AddRepo("/repoC", config.RepoSourceUser)
	repo, ok, err := reg.ResolveViewTarget(ctx, inv)
	if err != nil {
		t.Fatalf("ResolveViewTarget: %v", err)
	}
	if !ok || repo != "/repoC" {
		t.Errorf("resolved %q (ok=%v) after registration, want /repoC", repo, ok)
	}
}
