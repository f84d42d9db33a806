package session

import "strings"

// NormalizeEmail lowercases and trims an email address for comparison.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps only the ASCII digits of a phone number.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchResumable decides whether p was saved for the candidate info.
// Email and phone must both match after normalization. welcome is set
// when the names also agree, ignoring case.
func MatchResumable(p *ResumablePointer, info CandidateInfo) (match, welcome bool) {
	if p == nil {
		return false, false
	}
	return SameCandidate(p.CandidateInfo, info)
}

// SameCandidate compares saved details against entered ones the way
// MatchResumable does.
func SameCandidate(saved, info CandidateInfo) (match, welcome bool) {
	email := NormalizeEmail(info.Email)
	phone := NormalizePhone(info.Phone)
	if email == "" || phone == "" {
		return false, false
	}
	if NormalizeEmail(saved.Email) != email || NormalizePhone(saved.Phone) != phone {
		return false, false
	}
	name := strings.TrimSpace(saved.Name)
	welcome = name != "" && strings.EqualFold(name, strings.TrimSpace(info.Name))
	return true, welcome
}
