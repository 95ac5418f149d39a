package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/prepmate/prepmate-backend/internal/pkg/errors"
	"github.com/prepmate/prepmate-backend/internal/repos"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type interviewFixture struct {
	svc          InterviewService
	sessionRepo  repos.SessionRepo
	responseRepo repos.ResponseRepo
	questionRepo repos.QuestionRepo
	feedbackRepo repos.FeedbackRepo
	userID       uuid.UUID
}

func newInterviewFixture(t *testing.T) *interviewFixture {
	t.Helper()
	gormDB := newTestDB(t)
	log := newTestLogger(t)
	sessionRepo := repos.NewSessionRepo(gormDB, log)
	responseRepo := repos.NewResponseRepo(gormDB, log)
	questionRepo := repos.NewQuestionRepo(gormDB, log)
	feedbackRepo := repos.NewFeedbackRepo(gormDB, log)
	return &interviewFixture{
		svc:          NewInterviewService(gormDB, log, sessionRepo, responseRepo, questionRepo, feedbackRepo),
		sessionRepo:  sessionRepo,
		responseRepo: responseRepo,
		questionRepo: questionRepo,
		feedbackRepo: feedbackRepo,
		userID:       uuid.New(),
	}
}

func (f *interviewFixture) createQuestion(t *testing.T, expectedAnswer string) *types.Question {
	t.Helper()
	question := &types.Question{
		ID:             uuid.New(),
		Prompt:         "Explain the concept",
		Type:           types.InterviewTypeTechnical,
		Category:       "algorithms",
		Difficulty:     "medium",
		ExpectedAnswer: strPtr(expectedAnswer),
	}
	if _, err := f.questionRepo.Create(context.Background(), nil, []*types.Question{question}); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return question
}

func TestStartSession(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	q1 := f.createQuestion(t, "alpha beta")
	q2 := f.createQuestion(t, "gamma delta")

	session, err := f.svc.StartSession(ctx, f.userID, StartSessionInput{
		Type:        types.InterviewTypeTechnical,
		QuestionIDs: []uuid.UUID{q1.ID, q2.ID},
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.Status != types.SessionStatusInProgress {
		t.Fatalf("status=%s, want in_progress", session.Status)
	}
	if session.TotalQuestions != 2 || session.AnsweredQuestions != 0 {
		t.Fatalf("totals=(%d,%d), want (2,0)", session.TotalQuestions, session.AnsweredQuestions)
	}
	if session.OverallScore != nil || session.CompletedAt != nil || session.Duration != nil {
		t.Fatalf("completion fields must stay nil until complete")
	}
	if session.StartedAt.IsZero() {
		t.Fatalf("startedAt not set")
	}
}

func TestStartSessionWithoutQuestions(t *testing.T) {
	f := newInterviewFixture(t)

	session, err := f.svc.StartSession(context.Background(), f.userID, StartSessionInput{
		Type: types.InterviewTypeBehavioral,
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.TotalQuestions != 0 {
		t.Fatalf("totalQuestions=%d, want 0", session.TotalQuestions)
	}
}

func TestStartSessionRejectsUnknownType(t *testing.T) {
	f := newInterviewFixture(t)

	_, err := f.svc.StartSession(context.Background(), f.userID, StartSessionInput{Type: "trivia"})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err=%v, want ErrInvalidArgument", err)
	}
}

func TestSubmitAnswerLifecycle(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	q1 := f.createQuestion(t, "alpha beta")
	session, err := f.svc.StartSession(ctx, f.userID, StartSessionInput{
		Type:        types.InterviewTypeTechnical,
		QuestionIDs: []uuid.UUID{q1.ID},
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	result, err := f.svc.SubmitAnswer(ctx, f.userID, SubmitAnswerInput{
		SessionID:  session.ID,
		QuestionID: q1.ID,
		UserAnswer: strPtr("alpha beta"),
		TimeSpent:  42,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.Score != 100 || !result.IsCorrect {
		t.Fatalf("score=(%v,%v), want (100,true)", result.Score, result.IsCorrect)
	}
	if result.Response.TimeSpent != 42 {
		t.Fatalf("timeSpent=%d, want 42", result.Response.TimeSpent)
	}

	sessions, err := f.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil || len(sessions) != 1 {
		t.Fatalf("reload session: %v", err)
	}
	if sessions[0].AnsweredQuestions != 1 {
		t.Fatalf("answeredQuestions=%d, want 1", sessions[0].AnsweredQuestions)
	}
}

func TestSubmitAnswerErrors(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	q1 := f.createQuestion(t, "alpha beta")
	session, err := f.svc.StartSession(ctx, f.userID, StartSessionInput{
		Type:        types.InterviewTypeTechnical,
		QuestionIDs: []uuid.UUID{q1.ID},
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	t.Run("unknown_session", func(t *testing.T) {
		_, err := f.svc.SubmitAnswer(ctx, f.userID, SubmitAnswerInput{
			SessionID:  uuid.New(),
			QuestionID: q1.ID,
			UserAnswer: strPtr("alpha"),
		})
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})

	t.Run("foreign_session_reads_as_missing", func(t *testing.T) {
		_, err := f.svc.SubmitAnswer(ctx, uuid.New(), SubmitAnswerInput{
			SessionID:  session.ID,
			QuestionID: q1.ID,
			UserAnswer: strPtr("alpha"),
		})
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})

	t.Run("unknown_question", func(t *testing.T) {
		_, err := f.svc.SubmitAnswer(ctx, f.userID, SubmitAnswerInput{
			SessionID:  session.ID,
			QuestionID: uuid.New(),
			UserAnswer: strPtr("alpha"),
		})
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})

	t.Run("completed_session_is_invalid_state", func(t *testing.T) {
		if _, err := f.svc.CompleteSession(ctx, f.userID, session.ID); err != nil {
			t.Fatalf("CompleteSession: %v", err)
		}
		_, err := f.svc.SubmitAnswer(ctx, f.userID, SubmitAnswerInput{
			SessionID:  session.ID,
			QuestionID: q1.ID,
			UserAnswer: strPtr("alpha"),
		})
		if !errors.Is(err, pkgerrors.ErrInvalidState) {
			t.Fatalf("err=%v, want ErrInvalidState", err)
		}
	})
}

// Resubmitting the same question is accepted and keeps counting; the counter
// may pass totalQuestions.
func TestSubmitAnswerAllowsResubmission(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	q1 := f.createQuestion(t, "alpha beta")
	session, err := f.svc.StartSession(ctx, f.userID, StartSessionInput{
		Type:        types.InterviewTypeTechnical,
		QuestionIDs: []uuid.UUID{q1.ID},
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := f.svc.SubmitAnswer(ctx, f.userID, SubmitAnswerInput{
			SessionID:  session.ID,
			QuestionID: q1.ID,
			UserAnswer: strPtr("alpha beta"),
		}); err != nil {
			t.Fatalf("SubmitAnswer #%d: %v", i+1, err)
		}
	}
	sessions, err := f.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil || len(sessions) != 1 {
		t.Fatalf("reload session: %v", err)
	}
	if sessions[0].AnsweredQuestions != 3 {
		t.Fatalf("answeredQuestions=%d, want 3 (resubmission counts)", sessions[0].AnsweredQuestions)
	}
}

func TestCompleteSession(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	// "alpha beta" scores 100 against itself; "alpha" against "alpha beta"
	// scores 50 (one of two set tokens).
	q1 := f.createQuestion(t, "alpha beta")
	q2 := f.createQuestion(t, "alpha beta")
	session, err := f.svc.StartSession(ctx, f.userID, StartSessionInput{
		Type:        types.InterviewTypeTechnical,
		QuestionIDs: []uuid.UUID{q1.ID, q2.ID},
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, f.userID, SubmitAnswerInput{
		SessionID: session.ID, QuestionID: q1.ID, UserAnswer: strPtr("alpha beta"),
	}); err != nil {
		t.Fatalf("SubmitAnswer q1: %v", err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, f.userID, SubmitAnswerInput{
		SessionID: session.ID, QuestionID: q2.ID, UserAnswer: strPtr("alpha"),
	}); err != nil {
		t.Fatalf("SubmitAnswer q2: %v", err)
	}

	completed, err := f.svc.CompleteSession(ctx, f.userID, session.ID)
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if completed.Status != types.SessionStatusCompleted {
		t.Fatalf("status=%s, want completed", completed.Status)
	}
	if completed.CompletedAt == nil || completed.Duration == nil {
		t.Fatalf("completedAt/duration not set")
	}
	assertScore := func(name string, got *float64, want float64) {
		t.Helper()
		if got == nil || *got != want {
			t.Fatalf("%s=%v, want %v", name, got, want)
		}
	}
	assertScore("overall", completed.OverallScore, 75)
	assertScore("technical", completed.TechnicalScore, 75)
	assertScore("confidence", completed.ConfidenceScore, 85)
	assertScore("communication", completed.CommunicationScore, 80)

	feedbacks, err := f.feedbackRepo.ListBySessionIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil {
		t.Fatalf("list feedback: %v", err)
	}
	if len(feedbacks) != 1 {
		t.Fatalf("feedback rows=%d, want 1", len(feedbacks))
	}
	if feedbacks[0].Type != types.FeedbackTypeOverall {
		t.Fatalf("feedback type=%s, want overall", feedbacks[0].Type)
	}
	if feedbacks[0].Score != 75 {
		t.Fatalf("feedback score=%v, want 75", feedbacks[0].Score)
	}
}

// Completing with no responses is allowed; all scores come back zero.
func TestCompleteSessionEarlyWithNoResponses(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	q1 := f.createQuestion(t, "alpha beta")
	session, err := f.svc.StartSession(ctx, f.userID, StartSessionInput{
		Type:        types.InterviewTypeHR,
		QuestionIDs: []uuid.UUID{q1.ID},
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	completed, err := f.svc.CompleteSession(ctx, f.userID, session.ID)
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if completed.OverallScore == nil || *completed.OverallScore != 0 {
		t.Fatalf("overall=%v, want 0", completed.OverallScore)
	}
	if completed.ConfidenceScore == nil || *completed.ConfidenceScore != 0 {
		t.Fatalf("confidence=%v, want 0", completed.ConfidenceScore)
	}
}

// A second complete recomputes identical scores but appends a second
// feedback row.
func TestCompleteSessionTwice(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	q1 := f.createQuestion(t, "alpha beta")
	session, err := f.svc.StartSession(ctx, f.userID, StartSessionInput{
		Type:        types.InterviewTypeTechnical,
		QuestionIDs: []uuid.UUID{q1.ID},
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, f.userID, SubmitAnswerInput{
		SessionID: session.ID, QuestionID: q1.ID, UserAnswer: strPtr("alpha beta"),
	}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	first, err := f.svc.CompleteSession(ctx, f.userID, session.ID)
	if err != nil {
		t.Fatalf("first CompleteSession: %v", err)
	}
	second, err := f.svc.CompleteSession(ctx, f.userID, session.ID)
	if err != nil {
		t.Fatalf("second CompleteSession: %v", err)
	}
	if *first.OverallScore != *second.OverallScore {
		t.Fatalf("overall changed across completes: %v vs %v", *first.OverallScore, *second.OverallScore)
	}

	feedbacks, err := f.feedbackRepo.ListBySessionIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil {
		t.Fatalf("list feedback: %v", err)
	}
	if len(feedbacks) != 2 {
		t.Fatalf("feedback rows=%d, want 2 after re-completion", len(feedbacks))
	}
}
