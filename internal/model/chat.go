package model

// ChatTurn is one question/answer exchange in a chat survey
type ChatTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatSession is the transient state of an interactive chat survey
type ChatSession struct {
	Topic           string     `json:"topic"`
	History         []ChatTurn `json:"history"`
	CurrentQuestion string     `json:"current_question"`
	Count           int        `json:"count"`
}

// ChatReply carries either the next question or, once the session is
// complete, the final summary.
type ChatReply struct {
	Question string `json:"question,omitempty"`
	Summary  string `json:"summary,omitempty"`
}
