package core

import "strings"

// Title and memo length limits enforced before any change leaves the client.
const (
	maxTitleLen = 100
	maxMemoLen  = 2000
)

// NormalizeTitle trims the raw title and checks its length. The returned
// string is what gets submitted to the remote store.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if len([]rune(title)) == 0 {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len([]rune(title)) > maxTitleLen {
		return "", &ValidationError{Field: "title", Reason: "must be at most 100 characters"}
	}
	return title, nil
}

// NormalizeMemo trims the raw memo and checks its length. An empty memo
// is allowed.
func NormalizeMemo(raw string) (string, error) {
	memo := strings.TrimSpace(raw)
	if len([]rune(memo)) > maxMemoLen {
		return "", &ValidationError{Field: "memo", Reason: "must be at most 2000 characters"}
	}
	return memo, nil
}
