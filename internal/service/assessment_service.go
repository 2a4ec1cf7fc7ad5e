package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"cquest_backend/internal/config"
	"cquest_backend/internal/model"
	"cquest_backend/internal/scoring"
	"cquest_backend/internal/util"
	"cquest_backend/pkg/logger"
	"cquest_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestionBank supplies assessment questions. Satisfied by
// repository.AssessmentRepository; tests swap in an in-memory bank.
type QuestionBank interface {
	ActiveQuestionsByLevel(level, limit int) ([]model.AssessmentQuestion, error)
	ActiveQuestions(excludeIDs []uint, limit int) ([]model.AssessmentQuestion, error)
	QuestionsByIDs(ids []uint) (map[uint]*model.AssessmentQuestion, error)
}

// AssessmentStore persists sessions, responses and skill profiles.
type AssessmentStore interface {
	CreateSession(session *model.UserAssessment) error
	GetSessionBySessionID(sessionID string) (*model.UserAssessment, error)
	GetAssessmentByID(id uint) (*model.UserAssessment, error)
	CompleteSession(session *model.UserAssessment, responses []model.AssessmentResponse) error
	ListCompletedByUser(userID uint, offset, limit int) ([]model.UserAssessment, int64, error)
	CountCompletedByUser(userID uint) (int64, error)
	GetProfile(userID uint) (*model.UserSkillProfile, error)
	SaveProfile(profile *model.UserSkillProfile) error
}

// AnswerSubmission is one answer in a submit request.
type AnswerSubmission struct {
	QuestionID       uint     `json:"question_id" binding:"required"`
	Answer           string   `json:"answer"`
	ConfidenceLevel  int      `json:"confidence_level"`
	TimeTakenSeconds *float64 `json:"time_taken_seconds,omitempty"`
}

// StartedAssessment is the response shape for a freshly opened session. The
// issued questions never carry correct answers.
type StartedAssessment struct {
	SessionID      string                     `json:"session_id"`
	AssessmentType string                     `json:"assessment_type"`
	Questions      []model.AssessmentQuestion `json:"questions"`
	StartedAt      time.Time                  `json:"started_at"`
}

// AssessmentService orchestrates the session lifecycle: issue a batch, accept
// exactly one submission, score it, persist the result. Per-session mutexes
// serialize concurrent submits so double-submission resolves to one winner.
type AssessmentService struct {
	bank     QuestionBank
	store    AssessmentStore
	cfg      config.AssessmentConfig
	adaptive *AdaptiveService
	progress *ProgressService

	sessionLocks sync.Map // sessionID -> *sync.Mutex
	now          func() time.Time
}

func NewAssessmentService(bank QuestionBank, store AssessmentStore, cfg config.AssessmentConfig, adaptive *AdaptiveService, progress *ProgressService) *AssessmentService {
	return &AssessmentService{
		bank:     bank,
		store:    store,
		cfg:      cfg,
		adaptive: adaptive,
		progress: progress,
		now:      time.Now,
	}
}

func (s *AssessmentService) lockSession(sessionID string) *sync.Mutex {
	mu, _ := s.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Start opens a session: selects a level-balanced batch from the bank,
// records the issued ids, and returns the questions with answers stripped.
func (s *AssessmentService) Start(userID uint, assessmentType string) (*StartedAssessment, error) {
	if assessmentType != "progress_check" {
		assessmentType = "initial"
	}

	questions, err := s.selectBatch()
	if err != nil {
		return nil, err
	}
	if len(questions) < s.cfg.MinQuestions {
		return nil, util.ErrNoQuestionsAvailable
	}

	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	session := &model.UserAssessment{
		UserID:         userID,
		SessionID:      uuid.NewString(),
		AssessmentType: assessmentType,
		Status:         "in_progress",
		StartedAt:      s.now(),
	}
	if err := session.SetIssuedQuestionIDs(ids); err != nil {
		return nil, err
	}

	if err := s.store.CreateSession(session); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}

	logger.Log.Info("assessment session started",
		zap.Uint("user_id", userID),
		zap.String("session_id", session.SessionID),
		zap.Int("question_count", len(questions)),
	)

	return &StartedAssessment{
		SessionID:      session.SessionID,
		AssessmentType: session.AssessmentType,
		Questions:      questions,
		StartedAt:      session.StartedAt,
	}, nil
}

// selectBatch draws up to two questions per level 1..10 and tops up the
// remainder from the whole bank, so every session spans easy through hard
// material when the bank allows it.
func (s *AssessmentService) selectBatch() ([]model.AssessmentQuestion, error) {
	perLevel := 2
	batch := make([]model.AssessmentQuestion, 0, s.cfg.QuestionCount)

	for level := scoring.MinLevel; level <= scoring.MaxLevel && len(batch) < s.cfg.QuestionCount; level++ {
		want := perLevel
		if remaining := s.cfg.QuestionCount - len(batch); remaining < want {
			want = remaining
		}
		qs, err := s.bank.ActiveQuestionsByLevel(level, want)
		if err != nil {
			return nil, err
		}
		batch = append(batch, qs...)
	}

	if len(batch) < s.cfg.QuestionCount {
		exclude := make([]uint, len(batch))
		for i, q := range batch {
			exclude[i] = q.ID
		}
		extra, err := s.bank.ActiveQuestions(exclude, s.cfg.QuestionCount-len(batch))
		if err != nil {
			return nil, err
		}
		batch = append(batch, extra...)
	}

	return batch, nil
}

// Submit scores the complete answer batch for a session. The session accepts
// exactly one submission; later attempts fail with AlreadySubmitted.
func (s *AssessmentService) Submit(userID uint, sessionID string, answers []AnswerSubmission) (*model.AssessmentResult, error) {
	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.GetSessionBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrAssessmentNotFound
	}
	if session.Status == "completed" {
		return nil, util.ErrAlreadySubmitted
	}

	issued := session.IssuedQuestionIDs()
	issuedSet := make(map[uint]bool, len(issued))
	for _, id := range issued {
		issuedSet[id] = true
	}

	seen := make(map[uint]bool, len(answers))
	submitted := make([]scoring.SubmittedAnswer, 0, len(answers))
	for _, a := range answers {
		if !issuedSet[a.QuestionID] {
			return nil, fmt.Errorf("%w: question %d", util.ErrUnknownQuestionReference, a.QuestionID)
		}
		if seen[a.QuestionID] {
			return nil, fmt.Errorf("%w: question %d", util.ErrDuplicateAnswer, a.QuestionID)
		}
		seen[a.QuestionID] = true
		submitted = append(submitted, scoring.SubmittedAnswer{
			QuestionID:       a.QuestionID,
			Raw:              a.Answer,
			Confidence:       a.ConfidenceLevel,
			TimeTakenSeconds: a.TimeTakenSeconds,
		})
	}

	questions, err := s.bank.QuestionsByIDs(issued)
	if err != nil {
		return nil, err
	}

	result, scored := scoring.Score(questions, submitted)

	responses := make([]model.AssessmentResponse, len(scored))
	for i, sa := range scored {
		responses[i] = model.AssessmentResponse{
			QuestionID:       sa.QuestionID,
			UserAnswer:       sa.Raw,
			IsCorrect:        sa.Correct,
			ConfidenceLevel:  sa.Confidence,
			TimeTakenSeconds: sa.TimeTakenSeconds,
		}
	}

	completedAt := s.now()
	if err := session.ApplyResult(result, completedAt); err != nil {
		return nil, err
	}
	if err := s.store.CompleteSession(session, responses); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	result.AssessmentID = session.ID

	monitoring.AssessmentsCompleted.WithLabelValues(string(result.SkillLevel)).Inc()
	logger.Log.Info("assessment completed",
		zap.Uint("user_id", userID),
		zap.String("session_id", sessionID),
		zap.Int("calculated_level", result.CalculatedLevel),
		zap.String("skill_level", string(result.SkillLevel)),
	)

	// Downstream updates never fail the submission; the scored result is
	// already durable.
	if s.adaptive != nil {
		if err := s.adaptive.ApplyResult(userID, result); err != nil {
			logger.Log.Error("failed to update skill profile", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	if s.progress != nil {
		if err := s.progress.RecordAssessmentCompletion(userID, result); err != nil {
			logger.Log.Error("failed to update progress after assessment", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	return result, nil
}

// Result returns the archived result of a completed assessment owned by the
// user.
func (s *AssessmentService) Result(userID, assessmentID uint) (*model.AssessmentResult, error) {
	assessment, err := s.store.GetAssessmentByID(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	if assessment.UserID != userID || assessment.Status != "completed" {
		return nil, util.ErrAssessmentNotFound
	}
	return assessment.Result()
}

// History lists the user's completed assessments, newest first.
func (s *AssessmentService) History(userID uint, page, pageSize int) ([]model.UserAssessment, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.store.ListCompletedByUser(userID, (page-1)*pageSize, pageSize)
}

// Profile returns the rolling skill profile, or a fresh default when the user
// has not completed any assessment yet.
func (s *AssessmentService) Profile(userID uint) (*model.UserSkillProfile, error) {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UserSkillProfile{
				UserID:            userID,
				OverallSkillLevel: model.CompleteBeginner,
				AdaptiveLevel:     scoring.MinLevel,
				LearningVelocity:  1.0,
			}, nil
		}
		return nil, err
	}
	return profile, nil
}
