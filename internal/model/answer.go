package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SurveyAnswer is one recorded response: an ordered list of raw values,
// one per question index. Shorter lists are legal; trailing questions
// simply have no value from that respondent.
type SurveyAnswer struct {
	ID           int64             `json:"id"`
	SurveyID     int64             `json:"-"`
	PublicID     string            `json:"public_id"`
	Values       []json.RawMessage `json:"answers"`
	RespondentID string            `json:"respondent_id,omitempty"`
	SourceIP     string            `json:"-"`
	CreatedAt    time.Time         `json:"created_at"`
}

type answersPayload struct {
	Version int               `json:"version"`
	Answers []json.RawMessage `json:"answers"`
}

// EncodeAnswers serializes raw answer values for the survey_answers.answers column
func EncodeAnswers(values []json.RawMessage) (string, error) {
	data, err := json.Marshal(answersPayload{
		Version: PayloadVersion,
		Answers: values,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeAnswers parses a stored answers column, accepting both the
// versioned payload and legacy bare arrays.
func DecodeAnswers(data string) ([]json.RawMessage, error) {
	raw := []byte(data)

	var payload answersPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Version > 0 {
		return payload.Answers, nil
	}

	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// AnswerString coerces a raw answer value to a string
func AnswerString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return "", false
}

// AnswerInt coerces a raw answer value to an integer. Accepts JSON
// numbers with no fractional part and numeric strings.
func AnswerInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		n := int(f)
		if float64(n) == f {
			return n, true
		}
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

// AnswerStrings coerces a raw answer value to a list of strings
func AnswerStrings(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err == nil {
		return values, true
	}
	return nil, false
}
