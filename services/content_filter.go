package services

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	goaway "github.com/TwiN/go-away"
	"github.com/avvalues/trade-hub/shared"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// profaneSuffixes are the inflections that still count as the dictionary word.
var profaneSuffixes = []string{"s", "es", "ed", "er", "ers", "ing", "in", "y", "ty", "head", "heads", "hole", "holes"}

// ContentFilter masks profanity and administrator banned words in free text.
// It never fails: unknown or empty input comes back as is.
type ContentFilter struct {
	detector *goaway.ProfanityDetector

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	return &ContentFilter{
		detector: goaway.NewProfanityDetector().
			WithSanitizeLeetSpeak(false).
			WithSanitizeSpaces(false),
		patterns: make(map[string]*regexp.Regexp),
	}
}

// Filter runs the profanity dictionary first, then each banned word in order.
// Each pass sees the output of the previous one.
func (f *ContentFilter) Filter(text string, bannedWords []string) string {
	if text == "" {
		return text
	}

	filtered := wordPattern.ReplaceAllStringFunc(text, f.censorWord)
	for _, word := range bannedWords {
		if word == "" {
			continue
		}
		filtered = f.pattern(word).ReplaceAllLiteralString(filtered, shared.MaskToken)
	}
	return filtered
}

// censorWord masks a whole word when it is a dictionary word or one of its
// inflections. Words that merely contain one ("Hancock") are left alone.
func (f *ContentFilter) censorWord(word string) string {
	profanity := f.detector.ExtractProfanity(word)
	if profanity == "" {
		return word
	}

	lower := strings.ToLower(word)
	if lower == profanity || isInflection(lower, profanity) {
		return strings.Repeat("*", utf8.RuneCountInString(word))
	}
	return word
}

func isInflection(word, root string) bool {
	if !strings.HasPrefix(word, root) {
		return false
	}
	rest := word[len(root):]
	for _, suffix := range profaneSuffixes {
		if rest == suffix {
			return true
		}
	}
	return false
}

func (f *ContentFilter) pattern(word string) *regexp.Regexp {
	f.mu.RLock()
	re, ok := f.patterns[word]
	f.mu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)

	f.mu.Lock()
	f.patterns[word] = re
	f.mu.Unlock()
	return re
}

// Forget drops the compiled pattern of a word that is no longer banned.
func (f *ContentFilter) Forget(word string) {
	f.mu.Lock()
	delete(f.patterns, word)
	f.mu.Unlock()
}
