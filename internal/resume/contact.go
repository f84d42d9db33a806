package resume

import (
	"regexp"
	"strings"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// maxNameLength bounds the line accepted as the candidate's name.
const maxNameLength = 50

// ParseContact pulls a best-effort name, email and phone out of resume
// text. Any field may come back empty. The phone is digits only.
func ParseContact(text string) session.CandidateInfo {
	info := session.CandidateInfo{
		Email: strings.TrimSpace(emailPattern.FindString(text)),
		Phone: session.NormalizePhone(phonePattern.FindString(text)),
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || len(line) >= maxNameLength {
			continue
		}
		if emailPattern.MatchString(line) || phonePattern.MatchString(line) {
			continue
		}
		info.Name = line
		break
	}
	return info
}
