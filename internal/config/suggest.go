package config

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
)

// suggest returns a " (did you mean "x"?)" hint naming the candidate closest
// to input, or "" when nothing is close enough to be a likely typo.
func suggest(input string, candidates []string) string {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return ""
	}

	best, bestDist := "", -1
	for _, c := range candidates {
		dist := levenshtein.Distance(needle, c, nil)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}

	limit := max(2, len(needle)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
