package spam

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Reasons recorded on flagged submissions. These are stored and logged
// for operator triage; callers only ever see a generic rejection.
const (
	ReasonRateLimited       = "too many submissions from this IP address"
	ReasonSuspiciousContent = "suspicious content detected"
	ReasonMessageTooShort   = "message too short"
	ReasonMessageTooLong    = "message too long"
)

var (
	urlPattern = regexp.MustCompile(`https?://`)
	// matched against the original casing, not the lowercased copy
	capsRunPattern = regexp.MustCompile(`[A-Z]{5,}`)

	blockedKeywords = []string{
		"viagra", "cialis", "casino", "poker", "loan",
		"credit", "debt", "weight loss", "diet",
	}
	moneyKeywords = []string{
		"free", "money", "cash", "earn", "income", "profit", "rich", "wealth",
	}
)

// Verdict is the outcome of content classification. Reason holds the
// first matching rule only.
type Verdict struct {
	IsSpam bool
	Reason string
}

// Classifier applies the content and length heuristics. It holds no
// external state; the rate-limit rule lives in the submission service
// because it needs storage.
type Classifier struct {
	minMessageLen int
	maxMessageLen int
}

func NewClassifier(minMessageLen, maxMessageLen int) *Classifier {
	return &Classifier{
		minMessageLen: minMessageLen,
		maxMessageLen: maxMessageLen,
	}
}

// Classify checks name and message against the pattern rules, then the
// message against the length bounds. The first rule that fires wins.
func (c *Classifier) Classify(name, message string) Verdict {
	for _, text := range []string{message, name} {
		if suspicious(text) {
			return Verdict{IsSpam: true, Reason: ReasonSuspiciousContent}
		}
	}

	msg := strings.TrimSpace(message)
	if utf8.RuneCountInString(msg) < c.minMessageLen {
		return Verdict{IsSpam: true, Reason: ReasonMessageTooShort}
	}
	if utf8.RuneCountInString(msg) > c.maxMessageLen {
		return Verdict{IsSpam: true, Reason: ReasonMessageTooLong}
	}

	return Verdict{}
}

func suspicious(text string) bool {
	lower := strings.ToLower(text)
	if urlPattern.MatchString(lower) {
		return true
	}
	if containsAny(lower, blockedKeywords) {
		return true
	}
	// the all-caps run check deliberately sees the original casing
	if capsRunPattern.MatchString(text) {
		return true
	}
	return containsAny(lower, moneyKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
