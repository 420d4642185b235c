// Package picker provides the interactive selection prompts used by
// commands that need the user to choose a repository or review.
package picker

import (
	stderrors "errors"

	huh "charm.land/huh/v2"

	"gitscope/internal/review"
)

// ErrCancelled is returned when the user dismisses a prompt.
var ErrCancelled = stderrors.New("selection cancelled")

// selectOne runs a single-select prompt and returns the chosen value.
func selectOne(title string, options []huh.Option[string]) (string, error) {
	var value string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(options...).
			Filtering(true).
			Value(&value),
	))

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", err
	}
	return value, nil
}

// Repo prompts for one of the given repository paths.
func Repo(title string, paths []string) (string, error) {
	options := make([]huh.Option[string], len(paths))
	for i, p := range paths {
		options[i] = huh.NewOption(p, p)
	}
	return selectOne(title, options)
}

// reviewKeySep joins repo path and review id into a selection key. A
// repo path cannot contain a newline, so the key is unambiguous.
const reviewKeySep = "\n"

// Review prompts for one enriched review entry. The entries keep their
// enrichment order (most recently active first). Returns the selected
// entry.
func Review(title string, entries []review.Entry) (review.Entry, error) {
	options := make([]huh.Option[string], len(entries))
	byKey := make(map[string]review.Entry, len(entries))
	for i, e := range entries {
		key := e.RepoPath + reviewKeySep + e.ID
		options[i] = huh.NewOption(e.String(), key)
		byKey[key] = e
	}

	key, err := selectOne(title, options)
	if err != nil {
		return review.Entry{}, err
	}
	return byKey[key], nil
}
