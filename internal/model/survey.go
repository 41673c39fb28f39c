package model

import "time"

// Survey is a persistent questionnaire owned by a user. PublicID is the
// opaque token anonymous respondents use; the numeric ID never leaves
// owner-facing endpoints.
type Survey struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"-"`
	Topic      string     `json:"topic"`
	Questions  []Question `json:"questions"`
	PublicID   string     `json:"public_id"`
	Archived   bool       `json:"archived"`
	IsTemplate bool       `json:"is_template_survey"`

	// Template-app metadata, set only for template surveys
	AppName          string `json:"app_name,omitempty"`
	AppPurpose       string `json:"app_purpose,omitempty"`
	AppFunctionality string `json:"app_functionality,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PublicSurvey is the respondent-facing view of a survey
type PublicSurvey struct {
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
	PublicID  string     `json:"public_id"`
	Archived  bool       `json:"archived"`
}

// PublicView strips owner-only fields
func (s *Survey) PublicView() *PublicSurvey {
	return &PublicSurvey{
		Topic:     s.Topic,
		Questions: s.Questions,
		PublicID:  s.PublicID,
		Archived:  s.Archived,
	}
}
