package model

import "time"

// RatingSummary aggregates one rating question
type RatingSummary struct {
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
	Median       float64     `json:"median"`
	Mode         int         `json:"mode"`
	Distribution map[int]int `json:"distribution"`
}

// QuestionSummary is the per-question analytics result. Exactly one of
// Rating, Options, Ranking, Answers is populated, selected by Type:
// rating -> Rating; multiple_choice and image_choice -> Options;
// ranking -> Ranking; everything else -> Answers (verbatim values).
type QuestionSummary struct {
	QuestionID string             `json:"question_id,omitempty"`
	Text       string             `json:"text"`
	Type       QuestionType       `json:"type"`
	Rating     *RatingSummary     `json:"rating,omitempty"`
	Options    map[string]int     `json:"options,omitempty"`
	Ranking    map[string]float64 `json:"ranking,omitempty"`
	Answers    []string           `json:"answers,omitempty"`
}

// SurveyMetrics are whole-survey statistics over all responses. All
// fields are zero/absent when the survey has no responses.
type SurveyMetrics struct {
	TotalResponses    int         `json:"total_responses"`
	ResponseRate      float64     `json:"response_rate"`
	FirstResponseAt   *time.Time  `json:"first_response_at,omitempty"`
	LastResponseAt    *time.Time  `json:"last_response_at,omitempty"`
	UniqueRespondents int         `json:"unique_respondents"`
	AvgMinutesBetween *float64    `json:"avg_minutes_between,omitempty"`
	Timestamps        []time.Time `json:"timestamps,omitempty"`
	TopWeekday        string      `json:"most_frequent_day,omitempty"`
	TopHour           *int        `json:"most_frequent_hour,omitempty"`
}

// SurveyAnalytics is the full analytics report for one survey
type SurveyAnalytics struct {
	SurveyID  int64             `json:"survey_id"`
	Topic     string            `json:"topic"`
	Questions []QuestionSummary `json:"questions"`
	Metrics   SurveyMetrics     `json:"metrics"`
}
