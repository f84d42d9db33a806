package persist

import (
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

type rawObject map[string]json.RawMessage

// field decodes obj[key] into dst. Missing keys and JSON null leave dst
// untouched; a decode failure records key in bad.
func (o rawObject) field(key string, dst any, bad *[]string, prefix string) {
	raw, ok := o[key]
	if !ok || string(raw) == "null" {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		*bad = append(*bad, prefix+key)
	}
}

// DecodeState parses a stored state document. It always returns a usable
// state; the error, when non-nil, is a *MalformedStateError naming what
// was defaulted.
func DecodeState(data []byte) (session.State, error) {
	st := session.NewState()
	var bad []string

	var root rawObject
	if err := json.Unmarshal(data, &root); err != nil {
		return st, &MalformedStateError{Fields: []string{"<document>"}}
	}

	var interviews []json.RawMessage
	root.field("interviews", &interviews, &bad, "")
	for i, raw := range interviews {
		var obj rawObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			bad = append(bad, "interviews["+strconv.Itoa(i)+"]")
			continue
		}
		a := session.ArchivedSession{Session: decodeSession(obj, &bad, "interviews[].")}
		obj.field("id", &a.ID, &bad, "interviews[].")
		obj.field("date", &a.Date, &bad, "interviews[].")
		obj.field("summary", &a.Summary, &bad, "interviews[].")
		st.Interviews = append(st.Interviews, a)
	}

	if raw, ok := root["currentInterview"]; ok && string(raw) != "null" {
		var obj rawObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			bad = append(bad, "currentInterview")
		} else {
			st.CurrentInterview = decodeSession(obj, &bad, "currentInterview.")
		}
	}

	if raw, ok := root["lastActiveSession"]; ok && string(raw) != "null" {
		var p session.ResumablePointer
		if err := json.Unmarshal(raw, &p); err != nil {
			bad = append(bad, "lastActiveSession")
		} else {
			st.LastActiveSession = &p
		}
	}

	if len(bad) > 0 {
		return st, &MalformedStateError{Fields: bad}
	}
	return st, nil
}

func decodeSession(obj rawObject, bad *[]string, prefix string) session.Session {
	s := session.New()

	if raw, ok := obj["candidateInfo"]; ok && string(raw) != "null" {
		var info rawObject
		if err := json.Unmarshal(raw, &info); err != nil {
			*bad = append(*bad, prefix+"candidateInfo")
		} else {
			info.field("name", &s.CandidateInfo.Name, bad, prefix+"candidateInfo.")
			info.field("email", &s.CandidateInfo.Email, bad, prefix+"candidateInfo.")
			info.field("phone", &s.CandidateInfo.Phone, bad, prefix+"candidateInfo.")
		}
	}

	var questions []session.Question
	obj.field("questions", &questions, bad, prefix)
	if questions != nil {
		s.Questions = questions
	}

	var answers []*string
	obj.field("answers", &answers, bad, prefix)
	if answers != nil {
		s.Answers = answers
	}

	// The index may point at most one past the recorded questions, and
	// the answer it refers to must exist.
	var idx int
	obj.field("currentQuestionIndex", &idx, bad, prefix)
	s.CurrentQuestionIndex = min(max(idx, 0), len(s.Questions))
	if len(s.Questions) > 0 {
		for len(s.Answers) <= s.CurrentQuestionIndex {
			s.Answers = append(s.Answers, nil)
		}
	}

	var score int
	if _, ok := obj["finalScore"]; ok {
		before := len(*bad)
		obj.field("finalScore", &score, bad, prefix)
		if len(*bad) == before && string(obj["finalScore"]) != "null" {
			s.FinalScore = &score
		}
	}

	var status session.Status
	obj.field("status", &status, bad, prefix)
	switch {
	case status == "":
	case status.Valid():
		s.Status = status
	default:
		*bad = append(*bad, prefix+"status")
	}
	return s
}
