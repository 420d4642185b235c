package review

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"gitscope/internal/errors"
	"gitscope/internal/logger"
)

// SubjectResolver maps (repository, commit hash) to a one-line commit
// subject. A missing commit is an error of KindNotFound; an error of
// KindUnavailable means the resolver itself cannot run and fails the
// whole enrichment call.
type SubjectResolver interface {
	CommitSubject(ctx context.Context, repoPath, hash string) (string, error)
}

// UnknownSubject is the placeholder used when a single lookup fails.
const UnknownSubject = "<Unknown Commit Subject>"

const (
	abbrevHashLen    = 8
	maxSubjectLen    = 50
	comparisonMarker = " <-> "
)

// Entry is the presentable form of one review, rebuilt fresh on every
// enrichment call and never persisted.
type Entry struct {
	RepoPath    string
	ID          string
	Pair        CommitPair
	LastActive  int64
	Label       string // repo name + abbreviated hash(es)
	Description string // relative time of last activity
	Detail      string // subject(s), truncated
}

// lookupKey scopes subject lookups by repository as well as hash; two
// repos may both reference the same hash string.
type lookupKey struct {
	repoPath string
	hash     string
}

// Enrich turns a store snapshot into sorted, presentable entries.
// Malformed identifiers are logged and skipped. Each (repo, hash) pair
// is resolved once, concurrently; individual failures degrade to
// UnknownSubject. Only resolver unavailability fails the whole call.
func Enrich(ctx context.Context, snapshot Snapshot, resolver SubjectResolver) ([]Entry, error) {
	type flatReview struct {
		repoPath string
		id       string
		pair     CommitPair
		record   Record
	}

	var reviews []flatReview
	needed := make(map[lookupKey]struct{})
	for repoPath, byID := range snapshot {
		for id, rec := range byID {
			pair, err := DecodeID(id)
			if err != nil {
				logger.Warn("Review: Skipping undecodable review id %q in %s: %v", id, repoPath, err)
				continue
			}
			reviews = append(reviews, flatReview{repoPath: repoPath, id: id, pair: pair, record: rec})
			needed[lookupKey{repoPath, pair.From}] = struct{}{}
			needed[lookupKey{repoPath, pair.To}] = struct{}{}
		}
	}

	// Fan out one lookup per deduplicated key, fan in before building
	// any entries. The subjects map is the per-call cache.
	subjects := make(map[lookupKey]string, len(needed))
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		fatalErr error
	)
	for key := range needed {
		wg.Add(1)
		go func(key lookupKey) {
			defer wg.Done()
			subject, err := resolver.CommitSubject(ctx, key.repoPath, key.hash)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, errors.KindUnavailable) {
					if fatalErr == nil {
						fatalErr = err
					}
					return
				}
				logger.Debug("Review: Subject lookup failed for %s in %s: %v", key.hash, key.repoPath, err)
				subjects[key] = UnknownSubject
				return
			}
			subjects[key] = subject
		}(key)
	}
	wg.Wait()
	if fatalErr != nil {
		return nil, fatalErr
	}

	entries := make([]Entry, 0, len(reviews))
	for _, r := range reviews {
		fromSubject := subjects[lookupKey{r.repoPath, r.pair.From}]
		toSubject := subjects[lookupKey{r.repoPath, r.pair.To}]

		label := filepath.Base(r.repoPath) + ": " + abbrevHash(r.pair.From)
		detail := truncateSubject(fromSubject)
		if r.pair.IsComparison() {
			label += comparisonMarker + abbrevHash(r.pair.To)
			detail = truncateSubject(fromSubject) + comparisonMarker + truncateSubject(toSubject)
		}

		entries = append(entries, Entry{
			RepoPath:    r.repoPath,
			ID:          r.id,
			Pair:        r.pair,
			LastActive:  r.record.LastActive,
			Label:       label,
			Description: humanize.Time(time.UnixMilli(r.record.LastActive)),
			Detail:      detail,
		})
	}

	// Most recently active first. Ties carry no guarantee.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastActive > entries[j].LastActive
	})

	return entries, nil
}

// String renders an entry as a single picker line.
func (e Entry) String() string {
	return fmt.Sprintf("%s  (%s)  %s", e.Label, e.Description, e.Detail)
}

func abbrevHash(hash string) string {
	if len(hash) > abbrevHashLen {
		return hash[:abbrevHashLen]
	}
	return hash
}

func truncateSubject(subject string) string {
	return runewidth.Truncate(subject, maxSubjectLen, "…")
}
