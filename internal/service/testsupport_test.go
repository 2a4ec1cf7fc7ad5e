package service

import (
	"os"
	"sync"
	"testing"

	"cquest_backend/internal/model"
	"cquest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakeBank serves questions from a slice, preserving insertion order instead
// of randomizing.
type fakeBank struct {
	questions []model.AssessmentQuestion
}

func (b *fakeBank) ActiveQuestionsByLevel(level, limit int) ([]model.AssessmentQuestion, error) {
	var out []model.AssessmentQuestion
	for _, q := range b.questions {
		if len(out) == limit {
			break
		}
		if q.IsActive && q.ExpectedLevel == level {
			out = append(out, q)
		}
	}
	return out, nil
}

func (b *fakeBank) ActiveQuestions(excludeIDs []uint, limit int) ([]model.AssessmentQuestion, error) {
	excluded := make(map[uint]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []model.AssessmentQuestion
	for _, q := range b.questions {
		if len(out) == limit {
			break
		}
		if q.IsActive && !excluded[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (b *fakeBank) QuestionsByIDs(ids []uint) (map[uint]*model.AssessmentQuestion, error) {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[uint]*model.AssessmentQuestion)
	for i := range b.questions {
		if want[b.questions[i].ID] {
			q := b.questions[i]
			out[q.ID] = &q
		}
	}
	return out, nil
}

// fakeStore keeps sessions and profiles in maps. Reads hand out copies so
// callers mutate nothing until an explicit save, same as a real database.
type fakeStore struct {
	mu        sync.Mutex
	nextID    uint
	sessions  map[string]model.UserAssessment
	responses map[uint][]model.AssessmentResponse
	profiles  map[uint]model.UserSkillProfile
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:  map[string]model.UserAssessment{},
		responses: map[uint][]model.AssessmentResponse{},
		profiles:  map[uint]model.UserSkillProfile{},
	}
}

func (s *fakeStore) CreateSession(session *model.UserAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	session.ID = s.nextID
	s.sessions[session.SessionID] = *session
	return nil
}

func (s *fakeStore) GetSessionBySessionID(sessionID string) (*model.UserAssessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}

func (s *fakeStore) GetAssessmentByID(id uint) (*model.UserAssessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.ID == id {
			out := session
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) CompleteSession(session *model.UserAssessment, responses []model.AssessmentResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = *session
	s.responses[session.ID] = responses
	return nil
}

func (s *fakeStore) ListCompletedByUser(userID uint, offset, limit int) ([]model.UserAssessment, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.UserAssessment
	for _, session := range s.sessions {
		if session.UserID == userID && session.Status == "completed" {
			out = append(out, session)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (s *fakeStore) CountCompletedByUser(userID uint) (int64, error) {
	_, total, err := s.ListCompletedByUser(userID, 0, 1<<30)
	return total, err
}

func (s *fakeStore) GetProfile(userID uint) (*model.UserSkillProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

func (s *fakeStore) SaveProfile(profile *model.UserSkillProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = *profile
	return nil
}

// bankOf builds a small active question set with deterministic ids.
func bankOf(specs ...bankSpec) *fakeBank {
	b := &fakeBank{}
	for i, spec := range specs {
		q := model.AssessmentQuestion{
			QuestionText:  spec.text,
			QuestionType:  spec.qType,
			TopicArea:     spec.topic,
			ExpectedLevel: spec.level,
			CorrectAnswer: spec.answer,
			IsActive:      true,
		}
		q.ID = uint(i + 1)
		b.questions = append(b.questions, q)
	}
	return b
}

type bankSpec struct {
	qType  model.QuestionType
	topic  model.TopicArea
	level  int
	text   string
	answer string
}
