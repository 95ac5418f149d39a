package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prepmate/prepmate-backend/internal/repos"
	"github.com/prepmate/prepmate-backend/internal/types"
)

func TestGoalWindow(t *testing.T) {
	cases := []struct {
		name           string
		count, goal    int
		wantPercentage int
	}{
		{name: "two_of_three", count: 2, goal: 3, wantPercentage: 67},
		{name: "exactly_met", count: 3, goal: 3, wantPercentage: 100},
		{name: "over_goal", count: 5, goal: 3, wantPercentage: 167},
		{name: "zero_goal_is_zero_percent", count: 4, goal: 0, wantPercentage: 0},
		{name: "nothing_done", count: 0, goal: 3, wantPercentage: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := goalWindow(tc.count, tc.goal)
			if got.Count != tc.count || got.Goal != tc.goal {
				t.Fatalf("window=(%d,%d), want (%d,%d)", got.Count, got.Goal, tc.count, tc.goal)
			}
			if got.Percentage != tc.wantPercentage {
				t.Fatalf("percentage=%d, want %d", got.Percentage, tc.wantPercentage)
			}
		})
	}
}

func TestStrengthLevel(t *testing.T) {
	cases := []struct {
		accuracy float64
		want     string
	}{
		{1.0, "Strong"},
		{0.8, "Strong"},
		{0.79, "Good"},
		{0.6, "Good"},
		{0.59, "Fair"},
		{0.4, "Fair"},
		{0.39, "Needs Improvement"},
		{0, "Needs Improvement"},
	}
	for _, tc := range cases {
		if got := strengthLevel(tc.accuracy); got != tc.want {
			t.Fatalf("strengthLevel(%v)=%q, want %q", tc.accuracy, got, tc.want)
		}
	}
}

func TestImprovementRate(t *testing.T) {
	point := func(score float64) PerformancePoint {
		return PerformancePoint{OverallScore: score}
	}
	cases := []struct {
		name   string
		series []PerformancePoint
		want   float64
	}{
		{name: "empty", series: nil, want: 0},
		{name: "single_point", series: []PerformancePoint{point(80)}, want: 0},
		{name: "zero_first_point", series: []PerformancePoint{point(0), point(50)}, want: 0},
		{name: "fifty_to_sixty", series: []PerformancePoint{point(50), point(60)}, want: 20},
		{name: "decline", series: []PerformancePoint{point(80), point(60)}, want: -25},
		{name: "rounds_to_two_decimals", series: []PerformancePoint{point(60), point(70)}, want: 16.67},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := improvementRate(tc.series); got != tc.want {
				t.Fatalf("improvementRate=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildDailySeries(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day1Later := time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)

	completed := func(at time.Time, overall float64) *types.InterviewSession {
		return &types.InterviewSession{
			Status:       types.SessionStatusCompleted,
			OverallScore: &overall,
			CompletedAt:  &at,
		}
	}
	// Out of chronological order on purpose; the series must come back sorted.
	series := buildDailySeries([]*types.InterviewSession{
		completed(day2, 90),
		completed(day1, 60),
		completed(day1Later, 80),
	})
	if len(series) != 2 {
		t.Fatalf("series length=%d, want 2", len(series))
	}
	if series[0].Date != "2026-03-10" || series[1].Date != "2026-03-12" {
		t.Fatalf("dates=(%s,%s), want ascending (2026-03-10,2026-03-12)", series[0].Date, series[1].Date)
	}
	if series[0].OverallScore != 70 || series[0].SessionCount != 2 {
		t.Fatalf("day1=(%v,%d), want (70,2)", series[0].OverallScore, series[0].SessionCount)
	}
	if series[1].OverallScore != 90 || series[1].SessionCount != 1 {
		t.Fatalf("day2=(%v,%d), want (90,1)", series[1].OverallScore, series[1].SessionCount)
	}
}

// A session completed at 23:30 UTC belongs to that UTC date even if a local
// zone would roll it into the next day.
func TestBuildDailySeriesGroupsByUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2026, 3, 11, 1, 30, 0, 0, loc) // 2026-03-10T22:30Z
	overall := 50.0
	series := buildDailySeries([]*types.InterviewSession{{
		Status:       types.SessionStatusCompleted,
		OverallScore: &overall,
		CompletedAt:  &at,
	}})
	if len(series) != 1 || series[0].Date != "2026-03-10" {
		t.Fatalf("series=%+v, want one point on 2026-03-10", series)
	}
}

func TestTopFrequentStrings(t *testing.T) {
	mustJSON := func(items []string) []byte {
		raw, err := json.Marshal(items)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return raw
	}
	feedback := func(strengths []string) *types.Feedback {
		return &types.Feedback{Strengths: mustJSON(strengths)}
	}
	feedbacks := []*types.Feedback{
		feedback([]string{"clarity", "depth", "pace"}),
		feedback([]string{"depth", "structure"}),
		feedback([]string{"depth", "clarity", "examples", "brevity", "accuracy"}),
	}
	got := topFrequentStrings(feedbacks, func(f *types.Feedback) []byte { return f.Strengths })
	// depth appears 3 times, clarity 2, everything else once in first-seen
	// order; the list caps at five entries.
	want := []string{"depth", "clarity", "pace", "structure", "examples"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTopFrequentStringsSkipsBadPayloads(t *testing.T) {
	feedbacks := []*types.Feedback{
		{Strengths: nil},
		{Strengths: []byte(`not json`)},
		{Strengths: []byte(`["ok"]`)},
	}
	got := topFrequentStrings(feedbacks, func(f *types.Feedback) []byte { return f.Strengths })
	if len(got) != 1 || got[0] != "ok" {
		t.Fatalf("got %v, want [ok]", got)
	}
}

type analyticsFixture struct {
	svc          AnalyticsService
	sessionRepo  repos.SessionRepo
	responseRepo repos.ResponseRepo
	feedbackRepo repos.FeedbackRepo
	progressRepo repos.ProgressRepo
	userID       uuid.UUID
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	gormDB := newTestDB(t)
	log := newTestLogger(t)
	sessionRepo := repos.NewSessionRepo(gormDB, log)
	responseRepo := repos.NewResponseRepo(gormDB, log)
	feedbackRepo := repos.NewFeedbackRepo(gormDB, log)
	progressRepo := repos.NewProgressRepo(gormDB, log)
	return &analyticsFixture{
		svc:          NewAnalyticsService(gormDB, log, disabledAnalyticsCache{}, sessionRepo, responseRepo, feedbackRepo, progressRepo),
		sessionRepo:  sessionRepo,
		responseRepo: responseRepo,
		feedbackRepo: feedbackRepo,
		progressRepo: progressRepo,
		userID:       uuid.New(),
	}
}

func (f *analyticsFixture) createCompletedSession(t *testing.T, sessionType types.InterviewType, completedAt time.Time, overall float64) *types.InterviewSession {
	t.Helper()
	session := &types.InterviewSession{
		ID:           uuid.New(),
		UserID:       f.userID,
		Type:         sessionType,
		Status:       types.SessionStatusCompleted,
		StartedAt:    completedAt.Add(-30 * time.Minute),
		OverallScore: &overall,
		CompletedAt:  &completedAt,
	}
	if _, err := f.sessionRepo.Create(context.Background(), nil, []*types.InterviewSession{session}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func TestGetProgressCreatesDefaultsLazily(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	overview, err := f.svc.GetProgress(ctx, f.userID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if overview.Progress.WeeklyGoal != defaultWeeklyGoal || overview.Progress.MonthlyGoal != defaultMonthlyGoal {
		t.Fatalf("goals=(%d,%d), want defaults (%d,%d)",
			overview.Progress.WeeklyGoal, overview.Progress.MonthlyGoal, defaultWeeklyGoal, defaultMonthlyGoal)
	}
	if overview.Weekly.Count != 0 || overview.Monthly.Count != 0 {
		t.Fatalf("counts=(%d,%d), want (0,0)", overview.Weekly.Count, overview.Monthly.Count)
	}

	// Reading again must reuse the lazily created row, not duplicate it.
	again, err := f.svc.GetProgress(ctx, f.userID)
	if err != nil {
		t.Fatalf("second GetProgress: %v", err)
	}
	if again.Progress.ID != overview.Progress.ID {
		t.Fatalf("progress row duplicated on second read")
	}
}

func TestGetProgressGoalWindows(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Two sessions inside the weekly window, one only inside the monthly
	// window, one too old for either.
	f.createCompletedSession(t, types.InterviewTypeTechnical, now.AddDate(0, 0, -1), 80)
	f.createCompletedSession(t, types.InterviewTypeTechnical, now.AddDate(0, 0, -3), 70)
	f.createCompletedSession(t, types.InterviewTypeHR, now.AddDate(0, 0, -20), 60)
	f.createCompletedSession(t, types.InterviewTypeHR, now.AddDate(0, 0, -40), 50)

	overview, err := f.svc.GetProgress(ctx, f.userID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if overview.Weekly.Count != 2 || overview.Weekly.Percentage != 67 {
		t.Fatalf("weekly=(%d,%d%%), want (2,67%%)", overview.Weekly.Count, overview.Weekly.Percentage)
	}
	if overview.Monthly.Count != 3 || overview.Monthly.Percentage != 25 {
		t.Fatalf("monthly=(%d,%d%%), want (3,25%%)", overview.Monthly.Count, overview.Monthly.Percentage)
	}
}

func TestUpdateGoals(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	weekly := 5
	progress, err := f.svc.UpdateGoals(ctx, f.userID, &weekly, nil)
	if err != nil {
		t.Fatalf("UpdateGoals: %v", err)
	}
	if progress.WeeklyGoal != 5 {
		t.Fatalf("weeklyGoal=%d, want 5", progress.WeeklyGoal)
	}
	if progress.MonthlyGoal != defaultMonthlyGoal {
		t.Fatalf("monthlyGoal=%d, want default %d untouched", progress.MonthlyGoal, defaultMonthlyGoal)
	}

	monthly := 20
	progress, err = f.svc.UpdateGoals(ctx, f.userID, nil, &monthly)
	if err != nil {
		t.Fatalf("second UpdateGoals: %v", err)
	}
	if progress.WeeklyGoal != 5 || progress.MonthlyGoal != 20 {
		t.Fatalf("goals=(%d,%d), want (5,20)", progress.WeeklyGoal, progress.MonthlyGoal)
	}
}

func TestUpdateGoalsRejectsNegative(t *testing.T) {
	f := newAnalyticsFixture(t)
	negative := -1
	if _, err := f.svc.UpdateGoals(context.Background(), f.userID, &negative, nil); err == nil {
		t.Fatalf("expected error for negative weekly goal")
	}
}

func TestGetPerformanceAnalytics(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	f.createCompletedSession(t, types.InterviewTypeTechnical, now.AddDate(0, 0, -5), 50)
	f.createCompletedSession(t, types.InterviewTypeTechnical, now.AddDate(0, 0, -1), 60)
	f.createCompletedSession(t, types.InterviewTypeHR, now.AddDate(0, 0, -1), 80)

	analytics, err := f.svc.GetPerformanceAnalytics(ctx, f.userID, 0)
	if err != nil {
		t.Fatalf("GetPerformanceAnalytics: %v", err)
	}
	if analytics.PeriodDays != defaultPeriodDays {
		t.Fatalf("periodDays=%d, want default %d", analytics.PeriodDays, defaultPeriodDays)
	}
	if len(analytics.Series) != 2 {
		t.Fatalf("series length=%d, want 2", len(analytics.Series))
	}
	// Day -5 averages 50, day -1 averages 70: a 40% improvement.
	if analytics.ImprovementRate != 40 {
		t.Fatalf("improvementRate=%v, want 40", analytics.ImprovementRate)
	}
	byType := make(map[types.InterviewType]TypeBreakdown, len(analytics.ByType))
	for _, tb := range analytics.ByType {
		byType[tb.Type] = tb
	}
	if tb := byType[types.InterviewTypeTechnical]; tb.SessionCount != 2 || tb.AverageScore != 55 {
		t.Fatalf("technical breakdown=%+v, want count 2 avg 55", tb)
	}
	if tb := byType[types.InterviewTypeHR]; tb.SessionCount != 1 || tb.AverageScore != 80 {
		t.Fatalf("hr breakdown=%+v, want count 1 avg 80", tb)
	}
}

func TestGetSkillAnalysis(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	technical := f.createCompletedSession(t, types.InterviewTypeTechnical, now.AddDate(0, 0, -2), 75)
	hr := f.createCompletedSession(t, types.InterviewTypeHR, now.AddDate(0, 0, -1), 40)

	addResponse := func(sessionID uuid.UUID, score float64, correct bool, timeSpent int) {
		response := &types.InterviewResponse{
			ID:         uuid.New(),
			SessionID:  sessionID,
			QuestionID: uuid.New(),
			TimeSpent:  timeSpent,
			Score:      score,
			IsCorrect:  correct,
		}
		if _, err := f.responseRepo.Create(ctx, nil, []*types.InterviewResponse{response}); err != nil {
			t.Fatalf("create response: %v", err)
		}
	}
	addResponse(technical.ID, 100, true, 60)
	addResponse(technical.ID, 70, true, 120)
	addResponse(technical.ID, 40, false, 90)
	addResponse(hr.ID, 30, false, 30)

	feedback := &types.Feedback{
		ID:              uuid.New(),
		SessionID:       technical.ID,
		Type:            types.FeedbackTypeOverall,
		Narrative:       "Good effort! You're on the right track.",
		Strengths:       []byte(`["Clear communication","Technical knowledge"]`),
		Weaknesses:      []byte(`["Problem-solving speed"]`),
		ImprovementTips: []byte(`["Practice daily"]`),
		Score:           70,
	}
	if _, err := f.feedbackRepo.Create(ctx, nil, []*types.Feedback{feedback}); err != nil {
		t.Fatalf("create feedback: %v", err)
	}

	analysis, err := f.svc.GetSkillAnalysis(ctx, f.userID)
	if err != nil {
		t.Fatalf("GetSkillAnalysis: %v", err)
	}
	if len(analysis.Skills) != 2 {
		t.Fatalf("skills=%d, want 2", len(analysis.Skills))
	}
	bySkill := make(map[string]SkillMetrics, len(analysis.Skills))
	for _, s := range analysis.Skills {
		bySkill[s.Skill] = s
	}
	tech, ok := bySkill[string(types.InterviewTypeTechnical)]
	if !ok {
		t.Fatalf("missing technical skill bucket: %+v", analysis.Skills)
	}
	if tech.TotalQuestions != 3 || tech.CorrectAnswers != 2 {
		t.Fatalf("technical counts=(%d,%d), want (3,2)", tech.TotalQuestions, tech.CorrectAnswers)
	}
	if tech.Accuracy != 67 || tech.AverageScore != 70 || tech.AverageTime != 90 {
		t.Fatalf("technical metrics=(%d,%d,%d), want (67,70,90)", tech.Accuracy, tech.AverageScore, tech.AverageTime)
	}
	if tech.StrengthLevel != "Good" {
		t.Fatalf("technical strength=%q, want Good", tech.StrengthLevel)
	}
	hrMetrics := bySkill[string(types.InterviewTypeHR)]
	if hrMetrics.StrengthLevel != "Needs Improvement" {
		t.Fatalf("hr strength=%q, want Needs Improvement", hrMetrics.StrengthLevel)
	}

	if len(analysis.Recommendations.Strengths) != 2 {
		t.Fatalf("recommendation strengths=%v, want 2 entries", analysis.Recommendations.Strengths)
	}
	if len(analysis.Recommendations.ImprovementTips) != 1 || analysis.Recommendations.ImprovementTips[0] != "Practice daily" {
		t.Fatalf("improvement tips=%v, want [Practice daily]", analysis.Recommendations.ImprovementTips)
	}
}
