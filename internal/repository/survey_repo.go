package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

// SurveyRepo handles SQL operations for surveys
type SurveyRepo interface {
	Create(ctx context.Context, survey *model.Survey) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Survey, error)
	GetByPublicID(ctx context.Context, publicID string) (*model.Survey, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Survey, error)
	GetActiveByUser(ctx context.Context, userID int64) (*model.Survey, error)
	ListTemplates(ctx context.Context) ([]*model.Survey, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
	Delete(ctx context.Context, id int64) error
}

type surveyRepo struct {
	db *sql.DB
}

// NewSurveyRepo creates a new survey repository
func NewSurveyRepo(db *sql.DB) SurveyRepo {
	return &surveyRepo{db: db}
}

const surveyColumns = `id, user_id, topic, questions, public_id, archived,
	is_template, app_name, app_purpose, app_functionality, created_at`

func scanSurvey(row interface{ Scan(...any) error }) (*model.Survey, error) {
	var s model.Survey
	var questions string
	err := row.Scan(&s.ID, &s.UserID, &s.Topic, &questions, &s.PublicID,
		&s.Archived, &s.IsTemplate, &s.AppName, &s.AppPurpose,
		&s.AppFunctionality, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Questions, err = model.DecodeQuestions(questions)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *surveyRepo) Create(ctx context.Context, survey *model.Survey) (int64, error) {
	questions, err := model.EncodeQuestions(survey.Questions)
	if err != nil {
		return 0, err
	}

	survey.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO surveys (user_id, topic, questions, public_id, archived,
		 is_template, app_name, app_purpose, app_functionality, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		survey.UserID, survey.Topic, questions, survey.PublicID, survey.Archived,
		survey.IsTemplate, survey.AppName, survey.AppPurpose,
		survey.AppFunctionality, survey.CreatedAt)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	survey.ID = id
	return id, nil
}

func (r *surveyRepo) GetByID(ctx context.Context, id int64) (*model.Survey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE id = ?`, id)
	return scanSurvey(row)
}

func (r *surveyRepo) GetByPublicID(ctx context.Context, publicID string) (*model.Survey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE public_id = ?`, publicID)
	return scanSurvey(row)
}

func (r *surveyRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Survey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSurveys(rows)
}

func (r *surveyRepo) GetActiveByUser(ctx context.Context, userID int64) (*model.Survey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE user_id = ? AND archived = 0`,
		userID)
	return scanSurvey(row)
}

func (r *surveyRepo) ListTemplates(ctx context.Context) ([]*model.Survey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE is_template = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSurveys(rows)
}

// SetArchived flips the archived flag. Un-archiving hits the partial
// unique index when the user already has another active survey, which
// surfaces as ErrDuplicate.
func (r *surveyRepo) SetArchived(ctx context.Context, id int64, archived bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE surveys SET archived = ? WHERE id = ?`, archived, id)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *surveyRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM surveys WHERE id = ?`, id)
	return err
}

func collectSurveys(rows *sql.Rows) ([]*model.Survey, error) {
	var surveys []*model.Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}
