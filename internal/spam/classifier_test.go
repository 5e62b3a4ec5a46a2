package spam

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(10, 2000)

	tests := []struct {
		name     string
		formName string
		message  string
		isSpam   bool
		reason   string
	}{
		{
			name:     "legitimate submission",
			formName: "Jane Doe",
			message:  "Interested in your SEO services for my startup.",
		},
		{
			name:     "http url in message",
			formName: "Jane Doe",
			message:  "check out http://spam.biz for great deals",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
		{
			name:     "https url in message",
			formName: "Jane Doe",
			message:  "visit https://example.com/offer right away",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
		{
			name:     "blocked keyword in message",
			formName: "Jane Doe",
			message:  "buy cheap viagra online no prescription",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
		{
			name:     "blocked keyword is case insensitive",
			formName: "Jane Doe",
			message:  "best CaSiNo bonuses available this week",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
		{
			name:     "money keyword in message",
			formName: "Jane Doe",
			message:  "make money fast working from home",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
		{
			name:     "keyword in name",
			formName: "cheap viagra",
			message:  "hello I would like a quote for a website",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
		{
			name:     "run of five capitals",
			formName: "Jane Doe",
			message:  "HELLO there I want to talk about a project",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
		{
			name:     "run of five capitals in name",
			formName: "WINNER selected",
			message:  "you have been chosen among our visitors",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
		{
			name:     "four capitals is fine",
			formName: "Jane Doe",
			message:  "HELP me with my website redesign please",
		},
		{
			name:     "nine characters is too short",
			formName: "Jane Doe",
			message:  "Hi there!",
			isSpam:   true,
			reason:   ReasonMessageTooShort,
		},
		{
			name:     "ten characters is accepted",
			formName: "Jane Doe",
			message:  "Hello you!",
		},
		{
			name:     "short message after trimming",
			formName: "Jane Doe",
			message:  "   Hi there!   ",
			isSpam:   true,
			reason:   ReasonMessageTooShort,
		},
		{
			name:     "2000 characters is accepted",
			formName: "Jane Doe",
			message:  strings.Repeat("a", 2000),
		},
		{
			name:     "2001 characters is too long",
			formName: "Jane Doe",
			message:  strings.Repeat("a", 2001),
			isSpam:   true,
			reason:   ReasonMessageTooLong,
		},
		{
			name:     "pattern rule wins over length rule",
			formName: "Jane Doe",
			message:  "http://x.y",
			isSpam:   true,
			reason:   ReasonSuspiciousContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(tt.formName, tt.message)
			assert.Equal(t, tt.isSpam, v.IsSpam)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestClassifier_CapsRunSeesOriginalCasing(t *testing.T) {
	c := NewClassifier(10, 2000)

	// lowercasing the message would hide the caps run entirely; the
	// check has to run on a separately-cased copy
	v := c.Classify("Jane Doe", "LISTEN this is genuinely urgent for us")
	assert.True(t, v.IsSpam)
	assert.Equal(t, ReasonSuspiciousContent, v.Reason)
}
