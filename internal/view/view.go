// Package view renders the commit history of a repository and drives
// code reviews from it.
package view

import (
	"context"
	"fmt"
	"log/slog"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"gitscope/internal/clipboard"
	"gitscope/internal/git"
	"gitscope/internal/logger"
	"gitscope/internal/review"
)

const logLimit = 300

type mode int

const (
	modeList mode = iota
	modeDiff
)

// Model is the commit view. It owns the terminal while open.
type Model struct {
	repoPath string
	gitSvc   *git.Service
	store    *review.Store

	commits []git.Commit
	cursor  int
	baseIdx int // index of the marked comparison base, -1 if none

	mode     mode
	diffPair review.CommitPair
	vp       viewport.Model

	// resumePair is set when the view opens pre-loaded on a review.
	resumePair *review.CommitPair

	width  int
	height int
	status string
	err    error

	log *slog.Logger
}

// New creates a view of the repository's commit history.
func New(repoPath string, gitSvc *git.Service, store *review.Store) *Model {
	return &Model{
		repoPath: repoPath,
		gitSvc:   gitSvc,
		store:    store,
		baseIdx:  -1,
		vp:       viewport.New(),
		log:      logger.ComponentLogger("view"),
	}
}

// NewWithReview creates a view pre-loaded on a review's commit pair,
// used when resuming.
func NewWithReview(repoPath string, pair review.CommitPair, gitSvc *git.Service, store *review.Store) *Model {
	m := New(repoPath, gitSvc, store)
	m.resumePair = &pair
	return m
}

type commitsLoadedMsg struct {
	commits []git.Commit
	err     error
}

type diffLoadedMsg struct {
	pair review.CommitPair
	text string
	err  error
}

func (m *Model) loadCommits() tea.Msg {
	commits, err := m.gitSvc.Log(context.Background(), m.repoPath, logLimit)
	m.log.Debug("loaded commits", "repo", m.repoPath, "count", len(commits))
	return commitsLoadedMsg{commits: commits, err: err}
}

func (m *Model) loadDiff(pair review.CommitPair) tea.Cmd {
	return func() tea.Msg {
		text, err := m.gitSvc.Diff(context.Background(), m.repoPath, pair.From, pair.To)
		return diffLoadedMsg{pair: pair, text: text, err: err}
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCommits}
	if m.resumePair != nil {
		pair := *m.resumePair
		id := review.EncodeID(pair.From, pair.To)
		if err := m.store.Touch(m.repoPath, id, nil, ""); err != nil {
			logger.Warn("View: Failed to touch resumed review %s: %v", id, err)
		}
		cmds = append(cmds, m.loadDiff(pair))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.SetWidth(msg.Width)
		m.vp.SetHeight(msg.Height - 2) // header + footer
		return m, nil

	case commitsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.commits = msg.commits
		return m, nil

	case diffLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("diff failed: %v", msg.err)
			return m, nil
		}
		m.mode = modeDiff
		m.diffPair = msg.pair
		m.vp.SetContent(highlightDiff(msg.text))
		m.vp.GotoTop()
		return m, nil

	case reviewStartedMsg:
		m.status = "code review started: " + msg.id
		return m, m.loadDiff(msg.pair)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeDiff {
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q", "esc":
		if m.mode == modeDiff {
			m.mode = modeList
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if m.mode == modeList && m.cursor > 0 {
			m.cursor--
		} else if m.mode == modeDiff {
			m.vp.ScrollUp(1)
		}
		return m, nil

	case "down", "j":
		if m.mode == modeList && m.cursor < len(m.commits)-1 {
			m.cursor++
		} else if m.mode == modeDiff {
			m.vp.ScrollDown(1)
		}
		return m, nil

	case "b":
		if m.mode == modeList && len(m.commits) > 0 {
			if m.baseIdx == m.cursor {
				m.baseIdx = -1
				m.status = "comparison base cleared"
			} else {
				m.baseIdx = m.cursor
				m.status = "comparison base: " + abbrev(m.commits[m.cursor].Hash)
			}
		}
		return m, nil

	case "enter":
		if m.mode == modeList && len(m.commits) > 0 {
			return m, m.loadDiff(m.selectedPair())
		}
		return m, nil

	case "y":
		if hash := m.selectedHash(); hash != "" {
			if err := clipboard.CopyText(hash); err != nil {
				m.status = fmt.Sprintf("copy failed: %v", err)
			} else {
				m.status = "copied " + abbrev(hash)
			}
		}
		return m, nil

	case "r":
		if len(m.commits) == 0 {
			return m, nil
		}
		return m, m.startReview(m.selectedPair())
	}

	if m.mode == modeDiff {
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

// selectedPair returns the review pair for the current selection: the
// marked base against the cursor commit, or the cursor commit alone.
func (m *Model) selectedPair() review.CommitPair {
	target := m.commits[m.cursor].Hash
	if m.baseIdx >= 0 && m.baseIdx < len(m.commits) && m.baseIdx != m.cursor {
		return review.CommitPair{From: m.commits[m.baseIdx].Hash, To: target}
	}
	return review.CommitPair{From: target, To: target}
}

func (m *Model) selectedHash() string {
	if m.mode == modeDiff {
		return m.diffPair.To
	}
	if len(m.commits) == 0 {
		return ""
	}
	return m.commits[m.cursor].Hash
}

func (m *Model) startReview(pair review.CommitPair) tea.Cmd {
	return func() tea.Msg {
		id := review.EncodeID(pair.From, pair.To)
		files, err := m.gitSvc.ChangedFiles(context.Background(), m.repoPath, pair.From, pair.To)
		if err != nil {
			logger.Warn("View: Could not list changed files for %s: %v", id, err)
		}
		if _, err := m.store.Start(m.repoPath, id, files); err != nil {
			return diffLoadedMsg{err: err}
		}
		return reviewStartedMsg{id: id, pair: pair}
	}
}

type reviewStartedMsg struct {
	id   string
	pair review.CommitPair
}

// Err returns the error that terminated the view, if any.
func (m *Model) Err() error {
	return m.err
}

// Run opens the view and blocks until the user quits it.
func Run(m *Model) error {
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}
