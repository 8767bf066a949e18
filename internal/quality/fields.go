package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sandeepkv93/taskflow/internal/model"
)

func ValidateDescription(desc string) Result {
	if utf8.RuneCountInString(desc) > model.MaxDescriptionLength {
		return reject(RuleLength, fmt.Sprintf("Description must be %d characters or less", model.MaxDescriptionLength))
	}
	return accept()
}

func ValidateCategory(category string) Result {
	if strings.TrimSpace(category) == "" {
		return reject(RuleLength, "Category is required")
	}
	return accept()
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

// FilterSubtasks keeps the lines that pass the title gate, trimmed and de-duplicated
// case-insensitively, in their original order.
func FilterSubtasks(lines []string) []string {
	out := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		text := strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		if !ValidateTitle(text).Valid {
			continue
		}
		seen[key] = true
		out = append(out, text)
	}
	return out
}
