// Package quality implements the heuristic gate a task title must pass before
// it is accepted. Checks run in a fixed order and the first failure wins.
package quality

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandeepkv93/taskflow/internal/model"
)

type RuleID string

const (
	RuleLength         RuleID = "length"
	RuleNoLetters      RuleID = "no_letters"
	RuleRepeatedChars  RuleID = "repeated_chars"
	RuleKeyboardMash   RuleID = "keyboard_mash"
	RuleNoVowels       RuleID = "no_vowels"
	RuleConsonantRun   RuleID = "consonant_run"
	RuleSingleWordLen  RuleID = "single_word_length"
	RuleTripleLetter   RuleID = "triple_letter"
	RuleVowelRatio     RuleID = "vowel_ratio"
	RuleNoMeaningfulWd RuleID = "no_meaningful_word"
)

// Result is the outcome of a gate check. Reason and Rule are empty when Valid.
type Result struct {
	Valid  bool
	Reason string
	Rule   RuleID
}

func accept() Result { return Result{Valid: true} }

func reject(rule RuleID, reason string) Result {
	return Result{Valid: false, Rule: rule, Reason: reason}
}

type rule struct {
	id    RuleID
	check func(title string) (reason string, ok bool)
}

var rejectionRules = []rule{
	{RuleLength, checkLength},
	{RuleNoLetters, checkHasLetter},
	{RuleRepeatedChars, checkRepeatedChars},
	{RuleKeyboardMash, checkKeyboardMash},
	{RuleNoVowels, checkHasVowel},
	{RuleConsonantRun, checkConsonantRun},
}

var actionVerbs = toSet(
	"plan", "write", "read", "review", "fix", "build", "clean", "study", "prepare",
	"update", "email", "call", "design", "implement", "test", "deploy", "research",
	"organize", "schedule", "draft", "finish", "complete", "start", "begin", "create",
	"make", "develop", "learn", "practice", "submit", "upload", "download", "install",
	"configure", "setup", "analyze", "document", "refactor", "optimize", "backup",
	"restore", "sync", "merge", "commit", "push", "pull", "clone", "fork",
)

var singleWordWhitelist = toSet(
	"homework", "laundry", "workout", "exercise", "shopping", "cooking", "cleaning",
	"studying", "reading", "writing", "research", "planning", "debugging", "testing",
	"deployment", "meeting", "presentation", "interview", "appointment", "meditation",
	"journaling",
)

var mashFragments = []string{
	"qwert", "asdf", "sdfg", "dfgh", "zxcv", "xcvb", "cvbn", "vbnm", "hjkl", "yuiop", "uiop",
}

// ValidateTitle runs the quality gate. It is pure: same input, same Result.
func ValidateTitle(title string) Result {
	trimmed := strings.TrimSpace(title)
	for _, r := range rejectionRules {
		if reason, ok := r.check(trimmed); !ok {
			return reject(r.id, reason)
		}
	}

	words := strings.Fields(trimmed)
	if len(words) >= 2 {
		return validateMultiWord(words)
	}
	return validateSingleWord(trimmed)
}

func validateMultiWord(words []string) Result {
	for _, w := range words {
		if actionVerbs[normalizeWord(w)] {
			return accept()
		}
	}
	for _, w := range words {
		if utf8.RuneCountInString(w) >= 2 {
			return accept()
		}
	}
	return reject(RuleNoMeaningfulWd, "Task title needs at least one real word")
}

func validateSingleWord(word string) Result {
	lower := strings.ToLower(word)
	if singleWordWhitelist[lower] {
		return accept()
	}
	n := utf8.RuneCountInString(lower)
	if n < 4 || n > 15 {
		return reject(RuleSingleWordLen, "Single-word titles must be 4-15 characters; try describing the task")
	}
	if hasRun(lower, 3, func(prev, cur rune) bool { return prev == cur && isASCIILetter(cur) }) {
		return reject(RuleTripleLetter, "Task title repeats the same letter too many times")
	}
	vowels, consonants := countLetters(lower)
	if consonants > 0 && float64(vowels)/float64(consonants) < 0.2 {
		return reject(RuleVowelRatio, "Task title does not look like a real word")
	}
	return accept()
}

func checkLength(title string) (string, bool) {
	n := utf8.RuneCountInString(title)
	if n < model.MinTitleLength {
		return fmt.Sprintf("Task title must be at least %d characters", model.MinTitleLength), false
	}
	if n > model.MaxTitleLength {
		return fmt.Sprintf("Task title must be %d characters or less", model.MaxTitleLength), false
	}
	return "", true
}

func checkHasLetter(title string) (string, bool) {
	for _, r := range title {
		if isASCIILetter(r) {
			return "", true
		}
	}
	return "Task title must contain letters", false
}

func checkRepeatedChars(title string) (string, bool) {
	if hasRun(title, 4, func(prev, cur rune) bool { return prev == cur }) {
		return "Task title contains too many repeated characters", false
	}
	return "", true
}

func checkKeyboardMash(title string) (string, bool) {
	compact := strings.ToLower(strings.Join(strings.Fields(title), ""))
	for _, frag := range mashFragments {
		if strings.Contains(compact, frag) {
			return "Task title looks like random keyboard input", false
		}
	}
	ascending := func(prev, cur rune) bool { return cur == prev+1 }
	digitRun := hasRunWithin(compact, 6, isDigit, ascending)
	alphaRun := hasRunWithin(compact, 5, isASCIILetter, ascending)
	if digitRun || alphaRun {
		return "Task title looks like a character sequence rather than a task", false
	}
	return "", true
}

func checkHasVowel(title string) (string, bool) {
	for _, r := range strings.ToLower(title) {
		if isVowel(r) {
			return "", true
		}
	}
	return "Task title must contain at least one vowel", false
}

func checkConsonantRun(title string) (string, bool) {
	lower := strings.ToLower(title)
	run := 0
	for _, r := range lower {
		if isASCIILetter(r) && !isVowel(r) {
			run++
			if run >= 6 {
				return "Task title contains an unreadable run of consonants", false
			}
			continue
		}
		run = 0
	}
	return "", true
}

// hasRun reports whether s holds n consecutive runes where each follows its predecessor per link.
func hasRun(s string, n int, link func(prev, cur rune) bool) bool {
	return hasRunWithin(s, n, func(rune) bool { return true }, link)
}

func hasRunWithin(s string, n int, member func(rune) bool, link func(prev, cur rune) bool) bool {
	run := 0
	var prev rune
	for _, r := range s {
		switch {
		case !member(r):
			run = 0
		case run > 0 && link(prev, r):
			run++
		default:
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

func countLetters(s string) (vowels, consonants int) {
	for _, r := range s {
		switch {
		case isVowel(r):
			vowels++
		case isASCIILetter(r):
			consonants++
		}
	}
	return vowels, consonants
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func toSet(words ...string) map[string]bool {
	out := make(map[string]bool, len(words))
	for _, w := range words {
		out[w] = true
	}
	return out
}
