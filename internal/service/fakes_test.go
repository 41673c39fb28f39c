package service

import (
	"context"
	"sort"
	"strings"

	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/repository"
)

// In-memory repository fakes mirroring the SQLite unique indexes:
// one active survey per user, one answer per (survey, source IP).

type fakeSurveyRepo struct {
	nextID  int64
	surveys map[int64]*model.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{nextID: 1, surveys: make(map[int64]*model.Survey)}
}

func (r *fakeSurveyRepo) Create(ctx context.Context, survey *model.Survey) (int64, error) {
	for _, s := range r.surveys {
		if s.UserID == survey.UserID && !s.Archived {
			return 0, repository.ErrDuplicate
		}
	}
	survey.ID = r.nextID
	r.nextID++
	cp := *survey
	r.surveys[survey.ID] = &cp
	return survey.ID, nil
}

func (r *fakeSurveyRepo) GetByID(ctx context.Context, id int64) (*model.Survey, error) {
	s, ok := r.surveys[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSurveyRepo) GetByPublicID(ctx context.Context, publicID string) (*model.Survey, error) {
	for _, s := range r.surveys {
		if s.PublicID == publicID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSurveyRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Survey, error) {
	var out []*model.Survey
	for _, s := range r.surveys {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeSurveyRepo) GetActiveByUser(ctx context.Context, userID int64) (*model.Survey, error) {
	for _, s := range r.surveys {
		if s.UserID == userID && !s.Archived {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSurveyRepo) ListTemplates(ctx context.Context) ([]*model.Survey, error) {
	var out []*model.Survey
	for _, s := range r.surveys {
		if s.IsTemplate {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSurveyRepo) SetArchived(ctx context.Context, id int64, archived bool) error {
	s, ok := r.surveys[id]
	if !ok {
		return nil
	}
	if !archived {
		for _, other := range r.surveys {
			if other.ID != id && other.UserID == s.UserID && !other.Archived {
				return repository.ErrDuplicate
			}
		}
	}
	s.Archived = archived
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, id int64) error {
	delete(r.surveys, id)
	return nil
}

type fakeAnswerRepo struct {
	nextID  int64
	answers []*model.SurveyAnswer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{nextID: 1}
}

func (r *fakeAnswerRepo) Create(ctx context.Context, answer *model.SurveyAnswer) error {
	if answer.SourceIP != "" {
		for _, a := range r.answers {
			if a.SurveyID == answer.SurveyID && a.SourceIP == answer.SourceIP {
				return repository.ErrDuplicate
			}
		}
	}
	answer.ID = r.nextID
	r.nextID++
	cp := *answer
	r.answers = append(r.answers, &cp)
	return nil
}

func (r *fakeAnswerRepo) ListBySurvey(ctx context.Context, surveyID int64) ([]*model.SurveyAnswer, error) {
	var out []*model.SurveyAnswer
	for _, a := range r.answers {
		if a.SurveyID == surveyID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) ExistsBySurveyAndIP(ctx context.Context, surveyID int64, sourceIP string) (bool, error) {
	for _, a := range r.answers {
		if a.SurveyID == surveyID && a.SourceIP == sourceIP {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAnswerRepo) CountBySurvey(ctx context.Context, surveyID int64) (int, error) {
	n := 0
	for _, a := range r.answers {
		if a.SurveyID == surveyID {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (int64, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return 0, repository.ErrDuplicate
		}
		if user.TelegramID != "" && u.TelegramID == user.TelegramID {
			return 0, repository.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	for _, u := range r.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateName(ctx context.Context, id int64, name string) error {
	if u, ok := r.users[id]; ok {
		u.Name = name
	}
	return nil
}

func (r *fakeUserRepo) SetLinkCode(ctx context.Context, id int64, code string) error {
	if u, ok := r.users[id]; ok {
		u.LinkCode = code
	}
	return nil
}

func (r *fakeUserRepo) ConsumeLinkCode(ctx context.Context, code, telegramID string) (*model.User, error) {
	for _, u := range r.users {
		if u.LinkCode == code && code != "" {
			u.LinkCode = ""
			u.TelegramID = telegramID
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	delete(r.users, id)
	return nil
}
