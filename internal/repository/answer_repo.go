package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

// AnswerRepo handles SQL operations for survey answers
type AnswerRepo interface {
	Create(ctx context.Context, answer *model.SurveyAnswer) error
	ListBySurvey(ctx context.Context, surveyID int64) ([]*model.SurveyAnswer, error)
	ExistsBySurveyAndIP(ctx context.Context, surveyID int64, sourceIP string) (bool, error)
	CountBySurvey(ctx context.Context, surveyID int64) (int, error)
}

type answerRepo struct {
	db *sql.DB
}

// NewAnswerRepo creates a new answer repository
func NewAnswerRepo(db *sql.DB) AnswerRepo {
	return &answerRepo{db: db}
}

// Create inserts one response. The partial unique index on
// (survey_id, source_ip) makes the duplicate-IP check atomic; a losing
// concurrent insert comes back as ErrDuplicate.
func (r *answerRepo) Create(ctx context.Context, answer *model.SurveyAnswer) error {
	values, err := model.EncodeAnswers(answer.Values)
	if err != nil {
		return err
	}

	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO survey_answers (survey_id, public_id, answers, respondent_id, source_ip, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		answer.SurveyID, answer.PublicID, values, answer.RespondentID,
		answer.SourceIP, answer.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	answer.ID, err = res.LastInsertId()
	return err
}

// ListBySurvey returns all responses in chronological order. Rows whose
// answers column no longer parses are returned with nil Values so
// aggregation can skip them instead of failing the whole read.
func (r *answerRepo) ListBySurvey(ctx context.Context, surveyID int64) ([]*model.SurveyAnswer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, survey_id, public_id, answers, respondent_id, source_ip, created_at
		 FROM survey_answers WHERE survey_id = ? ORDER BY created_at, id`,
		surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []*model.SurveyAnswer
	for rows.Next() {
		var a model.SurveyAnswer
		var values string
		err := rows.Scan(&a.ID, &a.SurveyID, &a.PublicID, &values,
			&a.RespondentID, &a.SourceIP, &a.CreatedAt)
		if err != nil {
			return nil, err
		}

		a.Values, _ = model.DecodeAnswers(values)
		answers = append(answers, &a)
	}
	return answers, rows.Err()
}

func (r *answerRepo) ExistsBySurveyAndIP(ctx context.Context, surveyID int64, sourceIP string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM survey_answers WHERE survey_id = ? AND source_ip = ?`,
		surveyID, sourceIP).Scan(&n)
	return n > 0, err
}

func (r *answerRepo) CountBySurvey(ctx context.Context, surveyID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM survey_answers WHERE survey_id = ?`, surveyID).Scan(&n)
	return n, err
}
