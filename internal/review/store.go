package review

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gitscope/internal/config"
	"gitscope/internal/errors"
	"gitscope/internal/logger"
)

// Record is the persisted state of one code review. LastActive is
// milliseconds since epoch and strictly increases with use. The file
// lists are review progress the rest of the system treats as opaque.
type Record struct {
	LastActive     int64    `json:"last_active"`
	RemainingFiles []string `json:"remaining_files,omitempty"`
	LastViewedFile string   `json:"last_viewed_file,omitempty"`
}

// Snapshot is the full persisted state: repo path -> review id -> record.
type Snapshot map[string]map[string]Record

// Store persists review records to a JSON file.
type Store struct {
	mu       sync.Mutex
	filePath string
	data     Snapshot
}

// OpenStore opens the store at the default location (~/.gitscope/reviews.json).
func OpenStore() (*Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return OpenStoreFrom(filepath.Join(dir, "reviews.json"))
}

// OpenStoreFrom opens the store at an explicit path, creating empty
// state if the file does not exist.
func OpenStoreFrom(path string) (*Store, error) {
	s := &Store{filePath: path, data: Snapshot{}}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, errors.E(errors.Op("review.OpenStore"), errors.KindIO, "corrupt review state", err)
	}
	if s.data == nil {
		s.data = Snapshot{}
	}
	return s, nil
}

// save persists the current state. Callers must hold s.mu.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, raw, 0644)
}

// Snapshot returns a deep copy of the current state. Enrichment works
// on the copy so a concurrent Start/End cannot mutate it mid-flight.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(Snapshot, len(s.data))
	for repo, reviews := range s.data {
		m := make(map[string]Record, len(reviews))
		for id, rec := range reviews {
			m[id] = rec
		}
		snap[repo] = m
	}
	return snap
}

// Get returns the record for a review, if present.
func (s *Store) Get(repoPath, id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[repoPath][id]
	return rec, ok
}

// Start creates (or reactivates) a review and stamps it active now.
func (s *Store) Start(repoPath, id string, remainingFiles []string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[repoPath] == nil {
		s.data[repoPath] = make(map[string]Record)
	}
	rec, ok := s.data[repoPath][id]
	if !ok {
		rec = Record{RemainingFiles: remainingFiles}
	}
	rec.LastActive = time.Now().UnixMilli()
	s.data[repoPath][id] = rec

	logger.Info("Review: Started review %s in %s", id, repoPath)
	return rec, s.save()
}

// Touch bumps a review's LastActive and optionally records progress.
func (s *Store) Touch(repoPath, id string, remainingFiles []string, lastViewed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[repoPath][id]
	if !ok {
		return errors.ReviewNotFound(repoPath, id)
	}
	rec.LastActive = time.Now().UnixMilli()
	if remainingFiles != nil {
		rec.RemainingFiles = remainingFiles
	}
	if lastViewed != "" {
		rec.LastViewedFile = lastViewed
	}
	s.data[repoPath][id] = rec
	return s.save()
}

// End removes a single review. Ending a review that no longer exists
// is reported as a distinguishable not-found error, since it indicates
// a race with another end/resume action.
func (s *Store) End(repoPath, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, ok := s.data[repoPath]
	if !ok {
		return errors.ReviewNotFound(repoPath, id)
	}
	if _, ok := reviews[id]; !ok {
		return errors.ReviewNotFound(repoPath, id)
	}
	delete(reviews, id)
	if len(reviews) == 0 {
		delete(s.data, repoPath)
	}

	logger.Info("Review: Ended review %s in %s", id, repoPath)
	return s.save()
}

// EndAll removes every review whose repository falls under one of the
// given roots. Nil roots means no restriction. Returns the count removed.
func (s *Store) EndAll(roots []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for repo, reviews := range s.data {
		if !underAnyRoot(repo, roots) {
			continue
		}
		removed += len(reviews)
		delete(s.data, repo)
	}
	if removed == 0 {
		return 0, nil
	}

	logger.Info("Review: Ended %d review(s)", removed)
	return removed, s.save()
}

// EndAllForRepo removes every review of one repository. Returns the
// count removed; a repository with no reviews is a zero-count success.
func (s *Store) EndAllForRepo(repoPath string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, ok := s.data[repoPath]
	if !ok || len(reviews) == 0 {
		return 0, nil
	}
	removed := len(reviews)
	delete(s.data, repoPath)

	logger.Info("Review: Ended %d review(s) in %s", removed, repoPath)
	return removed, s.save()
}

func underAnyRoot(path string, roots []string) bool {
	if roots == nil {
		return true
	}
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
