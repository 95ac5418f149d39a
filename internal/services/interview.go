package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/prepmate/prepmate-backend/internal/pkg/errors"
	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/repos"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type StartSessionInput struct {
	Type        types.InterviewType
	CompanyID   *uuid.UUID
	QuestionIDs []uuid.UUID
}

type SubmitAnswerInput struct {
	SessionID      uuid.UUID
	QuestionID     uuid.UUID
	UserAnswer     *string
	CodeSubmission *string
	TimeSpent      int
}

type SubmitAnswerResult struct {
	Response  *types.InterviewResponse `json:"response"`
	Score     float64                  `json:"score"`
	IsCorrect bool                     `json:"is_correct"`
}

type InterviewService interface {
	StartSession(ctx context.Context, userID uuid.UUID, input StartSessionInput) (*types.InterviewSession, error)
	SubmitAnswer(ctx context.Context, userID uuid.UUID, input SubmitAnswerInput) (*SubmitAnswerResult, error)
	CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.InterviewSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]*types.InterviewSession, error)
}

type interviewService struct {
	db           *gorm.DB
	log          *logger.Logger
	locks        *sessionLocks
	sessionRepo  repos.SessionRepo
	responseRepo repos.ResponseRepo
	questionRepo repos.QuestionRepo
	feedbackRepo repos.FeedbackRepo
}

func NewInterviewService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.SessionRepo,
	responseRepo repos.ResponseRepo,
	questionRepo repos.QuestionRepo,
	feedbackRepo repos.FeedbackRepo,
) InterviewService {
	return &interviewService{
		db:           db,
		log:          log.With("service", "InterviewService"),
		locks:        newSessionLocks(),
		sessionRepo:  sessionRepo,
		responseRepo: responseRepo,
		questionRepo: questionRepo,
		feedbackRepo: feedbackRepo,
	}
}

func (is *interviewService) StartSession(ctx context.Context, userID uuid.UUID, input StartSessionInput) (*types.InterviewSession, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: interview type %q", pkgerrors.ErrInvalidArgument, input.Type)
	}
	session := &types.InterviewSession{
		ID:                uuid.New(),
		UserID:            userID,
		CompanyID:         input.CompanyID,
		Type:              input.Type,
		Status:            types.SessionStatusInProgress,
		TotalQuestions:    len(input.QuestionIDs),
		AnsweredQuestions: 0,
		StartedAt:         time.Now().UTC(),
	}
	created, err := is.sessionRepo.Create(ctx, nil, []*types.InterviewSession{session})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	is.log.Info("Session started", "session_id", session.ID.String(), "user_id", userID.String(), "total_questions", session.TotalQuestions)
	return created[0], nil
}

// SubmitAnswer records one response and bumps the answered counter. It does
// not reject a repeat answer for an already-answered question, and it does
// not stop the counter at totalQuestions; both are accepted product behavior
// until a product decision says otherwise.
func (is *interviewService) SubmitAnswer(ctx context.Context, userID uuid.UUID, input SubmitAnswerInput) (*SubmitAnswerResult, error) {
	is.locks.Lock(input.SessionID)
	defer is.locks.Unlock(input.SessionID)

	var result *SubmitAnswerResult
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := is.ownedSession(ctx, tx, userID, input.SessionID)
		if err != nil {
			return err
		}
		if session.Status != types.SessionStatusInProgress {
			return fmt.Errorf("%w: session is %s", pkgerrors.ErrInvalidState, session.Status)
		}
		questions, err := is.questionRepo.GetByIDs(ctx, tx, []uuid.UUID{input.QuestionID})
		if err != nil {
			return fmt.Errorf("failed to load question: %w", err)
		}
		if len(questions) == 0 {
			return fmt.Errorf("%w: question %s", pkgerrors.ErrNotFound, input.QuestionID)
		}
		question := questions[0]

		score, isCorrect := ScoreAnswer(input.UserAnswer, question.ExpectedAnswer)
		response := &types.InterviewResponse{
			ID:             uuid.New(),
			SessionID:      session.ID,
			QuestionID:     question.ID,
			UserAnswer:     input.UserAnswer,
			CodeSubmission: input.CodeSubmission,
			TimeSpent:      input.TimeSpent,
			Score:          score,
			IsCorrect:      isCorrect,
		}
		if _, err := is.responseRepo.Create(ctx, tx, []*types.InterviewResponse{response}); err != nil {
			return fmt.Errorf("failed to create response: %w", err)
		}
		session.AnsweredQuestions++
		if err := is.sessionRepo.Update(ctx, tx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		result = &SubmitAnswerResult{Response: response, Score: score, IsCorrect: isCorrect}
		return nil
	})
	if err != nil {
		return nil, err
	}
	is.log.Debug("Answer submitted", "session_id", input.SessionID.String(), "score", result.Score, "is_correct", result.IsCorrect)
	return result, nil
}

// CompleteSession aggregates the current response set into the four score
// axes, stamps duration/completedAt and appends one feedback row. Completing
// an already-completed session recomputes the scores from the current
// responses and appends another feedback row.
func (is *interviewService) CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.InterviewSession, error) {
	is.locks.Lock(sessionID)
	defer is.locks.Unlock(sessionID)

	var completed *types.InterviewSession
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := is.ownedSession(ctx, tx, userID, sessionID)
		if err != nil {
			return err
		}
		responses, err := is.responseRepo.ListBySessionIDs(ctx, tx, []uuid.UUID{session.ID})
		if err != nil {
			return fmt.Errorf("failed to load responses: %w", err)
		}
		scores := make([]float64, 0, len(responses))
		for _, r := range responses {
			scores = append(scores, r.Score)
		}
		agg := aggregateScores(scores)

		now := time.Now().UTC()
		duration := int(math.Round(now.Sub(session.StartedAt).Minutes()))
		session.OverallScore = &agg.Overall
		session.TechnicalScore = &agg.Technical
		session.ConfidenceScore = &agg.Confidence
		session.CommunicationScore = &agg.Communication
		session.Duration = &duration
		session.Status = types.SessionStatusCompleted
		session.CompletedAt = &now
		if err := is.sessionRepo.Update(ctx, tx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		content := synthesizeFeedback(agg.Overall)
		feedback, err := buildFeedbackRecord(session.ID, agg.Overall, content)
		if err != nil {
			return err
		}
		if _, err := is.feedbackRepo.Create(ctx, tx, []*types.Feedback{feedback}); err != nil {
			return fmt.Errorf("failed to create feedback: %w", err)
		}
		completed = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	is.log.Info("Session completed", "session_id", sessionID.String(), "overall_score", *completed.OverallScore, "duration_min", *completed.Duration)
	return completed, nil
}

func (is *interviewService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*types.InterviewSession, error) {
	return is.sessionRepo.ListByUser(ctx, nil, userID)
}

// ownedSession resolves a session id to a session owned by userID. A session
// owned by someone else is reported the same way as a missing one.
func (is *interviewService) ownedSession(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) (*types.InterviewSession, error) {
	sessions, err := is.sessionRepo.GetByIDs(ctx, tx, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(sessions) == 0 || sessions[0].UserID != userID {
		return nil, fmt.Errorf("%w: session %s", pkgerrors.ErrNotFound, sessionID)
	}
	return sessions[0], nil
}

func buildFeedbackRecord(sessionID uuid.UUID, overallScore float64, content feedbackContent) (*types.Feedback, error) {
	strengths, err := json.Marshal(content.Strengths)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal strengths: %w", err)
	}
	weaknesses, err := json.Marshal(content.Weaknesses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal weaknesses: %w", err)
	}
	tips, err := json.Marshal(content.ImprovementTips)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal improvement tips: %w", err)
	}
	return &types.Feedback{
		ID:              uuid.New(),
		SessionID:       sessionID,
		Type:            types.FeedbackTypeOverall,
		Narrative:       content.Narrative,
		Strengths:       datatypes.JSON(strengths),
		Weaknesses:      datatypes.JSON(weaknesses),
		ImprovementTips: datatypes.JSON(tips),
		Score:           overallScore,
	}, nil
}
