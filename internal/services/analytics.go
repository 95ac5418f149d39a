package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	pkgerrors "github.com/prepmate/prepmate-backend/internal/pkg/errors"
	"github.com/prepmate/prepmate-backend/internal/repos"
	"github.com/prepmate/prepmate-backend/internal/types"
)

const (
	defaultWeeklyGoal  = 3
	defaultMonthlyGoal = 12
	defaultPeriodDays  = 30
	recentFeedbackMax  = 5
)

type GoalWindow struct {
	Count      int `json:"count"`
	Goal       int `json:"goal"`
	Percentage int `json:"percentage"`
}

type ProgressOverview struct {
	Progress *types.UserProgress `json:"progress"`
	Weekly   GoalWindow          `json:"weekly"`
	Monthly  GoalWindow          `json:"monthly"`
}

// PerformancePoint is one calendar day (UTC) of completed sessions with the
// mean of each score axis.
type PerformancePoint struct {
	Date               string  `json:"date"`
	OverallScore       float64 `json:"overall_score"`
	TechnicalScore     float64 `json:"technical_score"`
	ConfidenceScore    float64 `json:"confidence_score"`
	CommunicationScore float64 `json:"communication_score"`
	SessionCount       int     `json:"session_count"`
}

type TypeBreakdown struct {
	Type         types.InterviewType `json:"type"`
	AverageScore float64             `json:"average_score"`
	SessionCount int                 `json:"session_count"`
}

type PerformanceAnalytics struct {
	PeriodDays      int                `json:"period_days"`
	Series          []PerformancePoint `json:"series"`
	ImprovementRate float64            `json:"improvement_rate"`
	ByType          []TypeBreakdown    `json:"by_type"`
}

type SkillMetrics struct {
	Skill          string `json:"skill"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	Accuracy       int    `json:"accuracy"`
	AverageScore   int    `json:"average_score"`
	AverageTime    int    `json:"average_time"`
	StrengthLevel  string `json:"strength_level"`
}

type Recommendations struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	ImprovementTips []string `json:"improvement_tips"`
}

type SkillAnalysis struct {
	Skills          []SkillMetrics  `json:"skills"`
	Recommendations Recommendations `json:"recommendations"`
}

type AnalyticsService interface {
	GetProgress(ctx context.Context, userID uuid.UUID) (*ProgressOverview, error)
	UpdateGoals(ctx context.Context, userID uuid.UUID, weeklyGoal, monthlyGoal *int) (*types.UserProgress, error)
	GetPerformanceAnalytics(ctx context.Context, userID uuid.UUID, periodDays int) (*PerformanceAnalytics, error)
	GetSkillAnalysis(ctx context.Context, userID uuid.UUID) (*SkillAnalysis, error)
}

type analyticsService struct {
	db           *gorm.DB
	log          *logger.Logger
	cache        AnalyticsCache
	sessionRepo  repos.SessionRepo
	responseRepo repos.ResponseRepo
	feedbackRepo repos.FeedbackRepo
	progressRepo repos.ProgressRepo
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	cache AnalyticsCache,
	sessionRepo repos.SessionRepo,
	responseRepo repos.ResponseRepo,
	feedbackRepo repos.FeedbackRepo,
	progressRepo repos.ProgressRepo,
) AnalyticsService {
	return &analyticsService{
		db:           db,
		log:          log.With("service", "AnalyticsService"),
		cache:        cache,
		sessionRepo:  sessionRepo,
		responseRepo: responseRepo,
		feedbackRepo: feedbackRepo,
		progressRepo: progressRepo,
	}
}

// GetProgress lazily creates a zeroed progress row on first read, then
// reports goal attainment over the trailing 7 and 30 day windows. The
// window counts are recomputed from the session history on every read
// rather than incremented at completion time.
func (as *analyticsService) GetProgress(ctx context.Context, userID uuid.UUID) (*ProgressOverview, error) {
	progress, err := as.ensureProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	monthlyStart := now.AddDate(0, 0, -30)
	weeklyStart := now.AddDate(0, 0, -7)
	sessions, err := as.sessionRepo.ListCompletedByUserSince(ctx, nil, userID, monthlyStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed sessions: %w", err)
	}
	weeklyCount := 0
	monthlyCount := len(sessions)
	for _, s := range sessions {
		if s.CompletedAt != nil && !s.CompletedAt.Before(weeklyStart) {
			weeklyCount++
		}
	}
	return &ProgressOverview{
		Progress: progress,
		Weekly:   goalWindow(weeklyCount, progress.WeeklyGoal),
		Monthly:  goalWindow(monthlyCount, progress.MonthlyGoal),
	}, nil
}

func (as *analyticsService) UpdateGoals(ctx context.Context, userID uuid.UUID, weeklyGoal, monthlyGoal *int) (*types.UserProgress, error) {
	if weeklyGoal != nil && *weeklyGoal < 0 {
		return nil, fmt.Errorf("%w: weekly goal must not be negative", pkgerrors.ErrInvalidArgument)
	}
	if monthlyGoal != nil && *monthlyGoal < 0 {
		return nil, fmt.Errorf("%w: monthly goal must not be negative", pkgerrors.ErrInvalidArgument)
	}
	var updated *types.UserProgress
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := as.progressRepo.GetByUserID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if progress == nil {
			progress = defaultProgress(userID)
			if _, err := as.progressRepo.Create(ctx, tx, progress); err != nil {
				return fmt.Errorf("failed to create progress: %w", err)
			}
		}
		if weeklyGoal != nil {
			progress.WeeklyGoal = *weeklyGoal
		}
		if monthlyGoal != nil {
			progress.MonthlyGoal = *monthlyGoal
		}
		if err := as.progressRepo.Update(ctx, tx, progress); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
		updated = progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("Goals updated", "user_id", userID.String(), "weekly_goal", updated.WeeklyGoal, "monthly_goal", updated.MonthlyGoal)
	return updated, nil
}

// GetPerformanceAnalytics projects the user's completed sessions of the last
// periodDays into a per-day (UTC calendar date) time series plus a per-type
// breakdown. Results are served from the analytics cache when one is wired.
func (as *analyticsService) GetPerformanceAnalytics(ctx context.Context, userID uuid.UUID, periodDays int) (*PerformanceAnalytics, error) {
	if periodDays <= 0 {
		periodDays = defaultPeriodDays
	}
	cacheKey := fmt.Sprintf("analytics:performance:%s:%d", userID, periodDays)
	if as.cache.Enabled() {
		if raw, ok := as.cache.Get(ctx, cacheKey); ok {
			var cached PerformanceAnalytics
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			as.log.Warn("Discarding undecodable analytics cache entry", "key", cacheKey)
		}
	}

	since := time.Now().UTC().AddDate(0, 0, -periodDays)
	sessions, err := as.sessionRepo.ListCompletedByUserSince(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed sessions: %w", err)
	}

	result := &PerformanceAnalytics{
		PeriodDays:      periodDays,
		Series:          buildDailySeries(sessions),
		ByType:          buildTypeBreakdown(sessions),
		ImprovementRate: 0,
	}
	result.ImprovementRate = improvementRate(result.Series)

	if as.cache.Enabled() {
		if raw, err := json.Marshal(result); err == nil {
			as.cache.Set(ctx, cacheKey, raw, time.Minute)
		}
	}
	return result, nil
}

// GetSkillAnalysis buckets every response of the user's completed sessions
// by the owning session's type and derives accuracy/speed/strength metrics
// per bucket, plus recommendation strings extracted from the most recent
// feedback records.
func (as *analyticsService) GetSkillAnalysis(ctx context.Context, userID uuid.UUID) (*SkillAnalysis, error) {
	sessions, err := as.sessionRepo.ListCompletedByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed sessions: %w", err)
	}
	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	sessionType := make(map[uuid.UUID]types.InterviewType, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
		sessionType[s.ID] = s.Type
	}

	var (
		responses []*types.InterviewResponse
		feedbacks []*types.Feedback
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		responses, err = as.responseRepo.ListBySessionIDs(groupCtx, nil, sessionIDs)
		if err != nil {
			return fmt.Errorf("failed to load responses: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		feedbacks, err = as.feedbackRepo.ListRecentOverallBySessionIDs(groupCtx, nil, sessionIDs, recentFeedbackMax)
		if err != nil {
			return fmt.Errorf("failed to load feedback: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &SkillAnalysis{
		Skills:          buildSkillMetrics(responses, sessionType),
		Recommendations: extractRecommendations(feedbacks),
	}, nil
}

func (as *analyticsService) ensureProgress(ctx context.Context, userID uuid.UUID) (*types.UserProgress, error) {
	progress, err := as.progressRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress != nil {
		return progress, nil
	}
	progress = defaultProgress(userID)
	if _, err := as.progressRepo.Create(ctx, nil, progress); err != nil {
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}
	as.log.Debug("Created progress row lazily", "user_id", userID.String())
	return progress, nil
}

func defaultProgress(userID uuid.UUID) *types.UserProgress {
	return &types.UserProgress{
		ID:          uuid.New(),
		UserID:      userID,
		WeeklyGoal:  defaultWeeklyGoal,
		MonthlyGoal: defaultMonthlyGoal,
	}
}

// goalWindow reports attainment of count against goal. A zero goal reads as
// 0% rather than dividing by zero.
func goalWindow(count, goal int) GoalWindow {
	window := GoalWindow{Count: count, Goal: goal}
	if goal > 0 {
		window.Percentage = int(math.Round(float64(count) / float64(goal) * 100))
	}
	return window
}

// calendarDate truncates a timestamp to its UTC calendar date. Grouping is
// done on this value, never on a string prefix of the timestamp.
func calendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func buildDailySeries(sessions []*types.InterviewSession) []PerformancePoint {
	type accumulator struct {
		overall, technical, confidence, communication float64
		count                                         int
	}
	byDate := make(map[time.Time]*accumulator)
	for _, s := range sessions {
		if s.CompletedAt == nil {
			continue
		}
		date := calendarDate(*s.CompletedAt)
		acc, ok := byDate[date]
		if !ok {
			acc = &accumulator{}
			byDate[date] = acc
		}
		acc.overall += scoreOrZero(s.OverallScore)
		acc.technical += scoreOrZero(s.TechnicalScore)
		acc.confidence += scoreOrZero(s.ConfidenceScore)
		acc.communication += scoreOrZero(s.CommunicationScore)
		acc.count++
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := make([]PerformancePoint, 0, len(dates))
	for _, date := range dates {
		acc := byDate[date]
		n := float64(acc.count)
		series = append(series, PerformancePoint{
			Date:               date.Format("2006-01-02"),
			OverallScore:       acc.overall / n,
			TechnicalScore:     acc.technical / n,
			ConfidenceScore:    acc.confidence / n,
			CommunicationScore: acc.communication / n,
			SessionCount:       acc.count,
		})
	}
	return series
}

// improvementRate compares the first and last points of the series. Fewer
// than two points, or a zero first point, reads as 0.
func improvementRate(series []PerformancePoint) float64 {
	if len(series) < 2 {
		return 0
	}
	first := series[0].OverallScore
	last := series[len(series)-1].OverallScore
	if first == 0 {
		return 0
	}
	return math.Round((last-first)/first*100*100) / 100
}

func buildTypeBreakdown(sessions []*types.InterviewSession) []TypeBreakdown {
	type accumulator struct {
		sum   float64
		count int
	}
	byType := make(map[types.InterviewType]*accumulator)
	order := make([]types.InterviewType, 0, len(byType))
	for _, s := range sessions {
		acc, ok := byType[s.Type]
		if !ok {
			acc = &accumulator{}
			byType[s.Type] = acc
			order = append(order, s.Type)
		}
		acc.sum += scoreOrZero(s.OverallScore)
		acc.count++
	}
	out := make([]TypeBreakdown, 0, len(order))
	for _, t := range order {
		acc := byType[t]
		out = append(out, TypeBreakdown{
			Type:         t,
			AverageScore: acc.sum / float64(acc.count),
			SessionCount: acc.count,
		})
	}
	return out
}

// Strength level thresholds are inclusive on the lower bound.
func strengthLevel(accuracy float64) string {
	switch {
	case accuracy >= 0.8:
		return "Strong"
	case accuracy >= 0.6:
		return "Good"
	case accuracy >= 0.4:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

func buildSkillMetrics(responses []*types.InterviewResponse, sessionType map[uuid.UUID]types.InterviewType) []SkillMetrics {
	type accumulator struct {
		totalQuestions int
		correctAnswers int
		totalScore     float64
		totalTime      int
	}
	bySkill := make(map[string]*accumulator)
	order := make([]string, 0)
	for _, r := range responses {
		// Skill label is the owning session's type, not the question's own
		// category. Pending a product decision this mirrors the shipped
		// behavior exactly.
		skill := string(sessionType[r.SessionID])
		if skill == "" {
			continue
		}
		acc, ok := bySkill[skill]
		if !ok {
			acc = &accumulator{}
			bySkill[skill] = acc
			order = append(order, skill)
		}
		acc.totalQuestions++
		if r.IsCorrect {
			acc.correctAnswers++
		}
		acc.totalScore += r.Score
		acc.totalTime += r.TimeSpent
	}

	out := make([]SkillMetrics, 0, len(order))
	for _, skill := range order {
		acc := bySkill[skill]
		n := float64(acc.totalQuestions)
		accuracy := float64(acc.correctAnswers) / n
		out = append(out, SkillMetrics{
			Skill:          skill,
			TotalQuestions: acc.totalQuestions,
			CorrectAnswers: acc.correctAnswers,
			Accuracy:       int(math.Round(accuracy * 100)),
			AverageScore:   int(math.Round(acc.totalScore / n)),
			AverageTime:    int(math.Round(float64(acc.totalTime) / n)),
			StrengthLevel:  strengthLevel(accuracy),
		})
	}
	return out
}

// extractRecommendations pulls the top-5 most frequent distinct strings per
// feedback field across the given records. Ties keep first-seen order.
func extractRecommendations(feedbacks []*types.Feedback) Recommendations {
	return Recommendations{
		Strengths:       topFrequentStrings(feedbacks, func(f *types.Feedback) []byte { return f.Strengths }),
		Weaknesses:      topFrequentStrings(feedbacks, func(f *types.Feedback) []byte { return f.Weaknesses }),
		ImprovementTips: topFrequentStrings(feedbacks, func(f *types.Feedback) []byte { return f.ImprovementTips }),
	}
}

func topFrequentStrings(feedbacks []*types.Feedback, field func(*types.Feedback) []byte) []string {
	counts := make(map[string]int)
	firstSeen := make([]string, 0)
	for _, f := range feedbacks {
		raw := field(f)
		if len(raw) == 0 {
			continue
		}
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		for _, item := range items {
			if _, ok := counts[item]; !ok {
				firstSeen = append(firstSeen, item)
			}
			counts[item]++
		}
	}
	// Stable sort keeps first-seen order between equal counts.
	sort.SliceStable(firstSeen, func(i, j int) bool {
		return counts[firstSeen[i]] > counts[firstSeen[j]]
	})
	if len(firstSeen) > 5 {
		firstSeen = firstSeen[:5]
	}
	return firstSeen
}

func scoreOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
