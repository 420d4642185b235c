package review

import (
	"strings"

	"gitscope/internal/errors"
)

// idSeparator joins the two commit hashes of a comparison review.
// Commit hashes are hexadecimal, so the separator cannot collide.
const idSeparator = "-"

// CommitPair is the decoded form of a review identifier. For a
// single-commit review From and To are equal.
type CommitPair struct {
	From string
	To   string
}

// IsComparison reports whether the pair spans two distinct commits.
func (p CommitPair) IsComparison() bool {
	return p.From != p.To
}

// EncodeID builds the review identifier for a commit pair. A review of
// a single commit (empty base, or base equal to target) encodes as the
// target hash alone.
func EncodeID(base, target string) string {
	if base == "" || base == target {
		return target
	}
	return base + idSeparator + target
}

// DecodeID is the exact inverse of EncodeID. Identifiers that do not
// split into one or two non-empty hashes are malformed; callers in the
// enrichment path skip such entries rather than aborting.
func DecodeID(id string) (CommitPair, error) {
	parts := strings.Split(id, idSeparator)
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return CommitPair{}, errors.MalformedReviewID(id)
		}
		return CommitPair{From: parts[0], To: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return CommitPair{}, errors.MalformedReviewID(id)
		}
		return CommitPair{From: parts[0], To: parts[1]}, nil
	default:
		return CommitPair{}, errors.MalformedReviewID(id)
	}
}
