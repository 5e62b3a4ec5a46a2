package fixtures

import (
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
)

func NewSubmissionCreateRequest(name, email, message string) model.SubmissionCreateRequest {
	return model.SubmissionCreateRequest{
		Name:      name,
		Email:     email,
		Message:   message,
		IPAddress: "198.51.100.7",
		UserAgent: "fixture-agent/1.0",
	}
}

func SubmissionRequestClean() model.SubmissionCreateRequest {
	return NewSubmissionCreateRequest(
		"Jane Doe",
		"jane@example.com",
		"Hello, I would like to learn more about your consulting services.",
	)
}

func SubmissionRequestMissingEmail() model.SubmissionCreateRequest {
	return NewSubmissionCreateRequest("Jane Doe", "", "A message that is long enough.")
}

func SubmissionRequestSpamLink() model.SubmissionCreateRequest {
	return NewSubmissionCreateRequest(
		"Spam Bot",
		"bot@spam.example",
		"Great deals today, visit http://spam.example/offers for cheap pills.",
	)
}

func SubmissionRequestTooShort() model.SubmissionCreateRequest {
	return NewSubmissionCreateRequest("Jane Doe", "jane@example.com", "Hi!")
}

var (
	ValidEmails = []string{
		"jane@example.com",
		"john.smith@company.co.uk",
		"info+tag@sub.domain.org",
	}

	InvalidEmails = []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"missing-at.example.com",
		"jane@nodot",
	}

	CleanMessages = []string{
		"Hello, I would like to request a quote for a website redesign.",
		"We met at the conference last week and I wanted to follow up.",
	}

	SpamMessages = []string{
		"Buy cheap watches at http://spam.example now",
		"CONGRATULATIONS you have won a casino prize, claim your bitcoin",
		"Limited time offer, make money fast from home",
	}
)

func SubmissionFilterSpamOnly() model.SubmissionFilter {
	spam := true
	return model.SubmissionFilter{
		IsSpam: &spam,
		Limit:  50,
		Offset: 0,
	}
}

func SubmissionFilterByIP(ip string) model.SubmissionFilter {
	return model.SubmissionFilter{
		IPAddress: &ip,
		Limit:     50,
		Offset:    0,
	}
}

func SubmissionFilterByTimeRange(from, to time.Time) model.SubmissionFilter {
	return model.SubmissionFilter{
		From:   &from,
		To:     &to,
		Limit:  50,
		Offset: 0,
	}
}

func SubmissionFilterWithPagination(limit, offset int) model.SubmissionFilter {
	return model.SubmissionFilter{
		Limit:  limit,
		Offset: offset,
		Desc:   true,
	}
}
