package model

import "encoding/json"

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionRating         QuestionType = "rating"
	QuestionOpenEnded      QuestionType = "open_ended"
	QuestionLongText       QuestionType = "long_text"
	QuestionRanking        QuestionType = "ranking"
	QuestionImageChoice    QuestionType = "image_choice"
)

// Well-known question ids shared by all template surveys. The leaderboard
// reads answers at the positions of these two questions.
const (
	RatingQuestionID  = "rating"
	HelpfulQuestionID = "helpful"
)

// HelpfulYes is the affirmative token counted by the leaderboard
const HelpfulYes = "Yes"

// ImageOption is a single choice in an image_choice question
type ImageOption struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// Question is a tagged variant: Type selects which of the optional
// fields are meaningful. Questions are addressed by position within a
// survey, not by a stable id; editing a survey that already has answers
// silently misaligns history. Known limitation, kept on purpose.
type Question struct {
	ID      string        `json:"id,omitempty"`
	Type    QuestionType  `json:"type"`
	Text    string        `json:"text"`
	Options []string      `json:"options,omitempty"` // multiple_choice
	Scale   int           `json:"scale,omitempty"`   // rating
	Items   []string      `json:"items,omitempty"`   // ranking
	Images  []ImageOption `json:"images,omitempty"`  // image_choice
}

// PayloadVersion tags the serialized questions/answers columns
const PayloadVersion = 1

type questionsPayload struct {
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
}

// EncodeQuestions serializes a question list for the surveys.questions column
func EncodeQuestions(questions []Question) (string, error) {
	data, err := json.Marshal(questionsPayload{
		Version:   PayloadVersion,
		Questions: questions,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeQuestions parses a stored questions column. Bare JSON arrays
// (rows written before the payload got a version tag) are still accepted.
func DecodeQuestions(data string) ([]Question, error) {
	raw := []byte(data)

	var payload questionsPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Version > 0 {
		return payload.Questions, nil
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
