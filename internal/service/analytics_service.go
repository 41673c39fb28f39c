package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/repository"
)

// AnalyticsService reduces a survey's raw responses into per-question
// summaries and whole-survey metrics. Pure read-and-compute: malformed
// stored values are skipped per record, never aborting the report.
type AnalyticsService struct {
	surveyRepo repository.SurveyRepo
	answerRepo repository.AnswerRepo
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(surveyRepo repository.SurveyRepo, answerRepo repository.AnswerRepo) *AnalyticsService {
	return &AnalyticsService{
		surveyRepo: surveyRepo,
		answerRepo: answerRepo,
	}
}

// ForSurvey computes the analytics report for one of the user's surveys
func (s *AnalyticsService) ForSurvey(ctx context.Context, userID, surveyID int64) (*model.SurveyAnalytics, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil || survey.UserID != userID {
		return nil, ErrSurveyNotFound
	}

	answers, err := s.answerRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	return Aggregate(survey, answers), nil
}

// Aggregate builds the full report from already-loaded rows
func Aggregate(survey *model.Survey, answers []*model.SurveyAnswer) *model.SurveyAnalytics {
	report := &model.SurveyAnalytics{
		SurveyID:  survey.ID,
		Topic:     survey.Topic,
		Questions: make([]model.QuestionSummary, 0, len(survey.Questions)),
		Metrics:   computeMetrics(answers),
	}

	for i, question := range survey.Questions {
		// Responses shorter than the question list simply have no
		// value at this index.
		var values []json.RawMessage
		for _, answer := range answers {
			if i < len(answer.Values) {
				values = append(values, answer.Values[i])
			}
		}
		report.Questions = append(report.Questions, summarizeQuestion(question, values))
	}
	return report
}

func summarizeQuestion(q model.Question, values []json.RawMessage) model.QuestionSummary {
	summary := model.QuestionSummary{
		QuestionID: q.ID,
		Text:       q.Text,
		Type:       q.Type,
	}

	switch q.Type {
	case model.QuestionRating:
		summary.Rating = summarizeRating(values)
	case model.QuestionMultipleChoice:
		summary.Options = countOptions(q.Options, values)
	case model.QuestionImageChoice:
		summary.Options = countOptions(imageLabels(q.Images), values)
	case model.QuestionRanking:
		summary.Ranking = averageRanks(q.Items, values)
	default:
		// open_ended, long_text and anything unknown: verbatim values
		summary.Answers = nonEmptyStrings(values)
	}
	return summary
}

func summarizeRating(values []json.RawMessage) *model.RatingSummary {
	var parsed []int
	for _, raw := range values {
		if v, ok := model.AnswerInt(raw); ok {
			parsed = append(parsed, v)
		}
	}

	summary := &model.RatingSummary{
		Count:        len(parsed),
		Distribution: make(map[int]int, len(parsed)),
	}
	if len(parsed) == 0 {
		return summary
	}

	sum := 0
	for _, v := range parsed {
		sum += v
		summary.Distribution[v]++
	}
	summary.Average = float64(sum) / float64(len(parsed))

	ordered := append([]int(nil), parsed...)
	sort.Ints(ordered)

	mid := len(ordered) / 2
	if len(ordered)%2 == 0 {
		summary.Median = float64(ordered[mid-1]+ordered[mid]) / 2
	} else {
		summary.Median = float64(ordered[mid])
	}

	// First most-frequent value; ties go to the first encountered in
	// sorted order.
	best, bestCount := ordered[0], 0
	for _, v := range ordered {
		if summary.Distribution[v] > bestCount {
			best, bestCount = v, summary.Distribution[v]
		}
	}
	summary.Mode = best

	return summary
}

// countOptions tallies exact matches against the declared option list;
// values outside the list are silently dropped.
func countOptions(options []string, values []json.RawMessage) map[string]int {
	counts := make(map[string]int, len(options))
	for _, opt := range options {
		counts[opt] = 0
	}
	for _, raw := range values {
		if v, ok := model.AnswerString(raw); ok {
			if _, declared := counts[v]; declared {
				counts[v]++
			}
		}
	}
	return counts
}

func imageLabels(images []model.ImageOption) []string {
	labels := make([]string, len(images))
	for i, img := range images {
		if img.Label != "" {
			labels[i] = img.Label
		} else {
			labels[i] = fmt.Sprintf("Image %d", i+1)
		}
	}
	return labels
}

// averageRanks computes each declared item's average 1-based position
// over responses that ranked the full item list.
func averageRanks(items []string, values []json.RawMessage) map[string]float64 {
	declared := make(map[string]struct{}, len(items))
	for _, item := range items {
		declared[item] = struct{}{}
	}

	sums := make(map[string]int, len(items))
	counts := make(map[string]int, len(items))
	for _, raw := range values {
		ranked, ok := model.AnswerStrings(raw)
		if !ok || len(ranked) != len(items) {
			continue
		}
		for pos, item := range ranked {
			if _, ok := declared[item]; !ok {
				continue
			}
			sums[item] += pos + 1
			counts[item]++
		}
	}

	averages := make(map[string]float64, len(items))
	for _, item := range items {
		if counts[item] > 0 {
			averages[item] = float64(sums[item]) / float64(counts[item])
		} else {
			averages[item] = 0
		}
	}
	return averages
}

func nonEmptyStrings(values []json.RawMessage) []string {
	var out []string
	for _, raw := range values {
		if v, ok := model.AnswerString(raw); ok && strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func computeMetrics(answers []*model.SurveyAnswer) model.SurveyMetrics {
	metrics := model.SurveyMetrics{TotalResponses: len(answers)}
	if len(answers) == 0 {
		return metrics
	}

	// Placeholder rate: any response counts as 100%. There is no
	// invited-count denominator to compute a real completion rate.
	metrics.ResponseRate = 100

	timestamps := make([]time.Time, 0, len(answers))
	respondents := make(map[string]struct{})
	for _, answer := range answers {
		timestamps = append(timestamps, answer.CreatedAt)
		if answer.RespondentID != "" {
			respondents[answer.RespondentID] = struct{}{}
		}
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	first, last := timestamps[0], timestamps[len(timestamps)-1]
	metrics.FirstResponseAt = &first
	metrics.LastResponseAt = &last
	metrics.UniqueRespondents = len(respondents)
	metrics.Timestamps = timestamps

	if len(timestamps) >= 2 {
		var total time.Duration
		for i := 1; i < len(timestamps); i++ {
			total += timestamps[i].Sub(timestamps[i-1])
		}
		avg := total.Minutes() / float64(len(timestamps)-1)
		metrics.AvgMinutesBetween = &avg
	}

	metrics.TopWeekday = mostFrequentWeekday(timestamps)
	hour := mostFrequentHour(timestamps)
	metrics.TopHour = &hour

	return metrics
}

// mostFrequent* break ties by first encounter in chronological order

func mostFrequentWeekday(timestamps []time.Time) string {
	counts := make(map[string]int)
	var order []string
	for _, ts := range timestamps {
		day := ts.Weekday().String()
		if counts[day] == 0 {
			order = append(order, day)
		}
		counts[day]++
	}

	best, bestCount := "", 0
	for _, day := range order {
		if counts[day] > bestCount {
			best, bestCount = day, counts[day]
		}
	}
	return best
}

func mostFrequentHour(timestamps []time.Time) int {
	counts := make(map[int]int)
	var order []int
	for _, ts := range timestamps {
		hour := ts.Hour()
		if counts[hour] == 0 {
			order = append(order, hour)
		}
		counts[hour]++
	}

	best, bestCount := 0, 0
	for _, hour := range order {
		if counts[hour] > bestCount {
			best, bestCount = hour, counts[hour]
		}
	}
	return best
}
