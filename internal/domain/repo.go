// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedIdentifier is returned when an identifier has no owner/name separator.
var ErrMalformedIdentifier = errors.New("malformed repository identifier")

// RepositorySummary is one entry of the ranked repository listing.
// Repo is the "owner/name" identifier and the unique key of the entry.
type RepositorySummary struct {
	Repo         string  `json:"repo"`
	Owner        string  `json:"owner"`
	PositionCur  int     `json:"position_cur"`
	PositionPrev *int    `json:"position_prev"`
	Stars        int     `json:"stars"`
	Watchers     int     `json:"watchers"`
	Forks        int     `json:"forks"`
	OpenIssues   int     `json:"open_issues"`
	Language     *string `json:"language"`
}

// CommitActivityEntry is one day's aggregated commit count for a repository.
type CommitActivityEntry struct {
	Date    string   `json:"date"`
	Commits int      `json:"commits"`
	Authors []string `json:"authors"`
}

// SplitIdentifier splits an "owner/name" identifier into its two parts.
// Only the presence of the separator is checked; anything after a second
// separator is ignored.
func SplitIdentifier(id string) (owner, repo string, err error) {
	parts := strings.Split(id, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
	}
	return parts[0], parts[1], nil
}
