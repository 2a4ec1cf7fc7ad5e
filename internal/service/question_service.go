package service

import (
	"errors"
	"fmt"

	"cquest_backend/internal/model"
	"cquest_backend/internal/repository"
	"cquest_backend/internal/util"

	"gorm.io/gorm"
)

// QuestionService manages the curated assessment question bank. Admin-only;
// the session orchestrator reads the bank through QuestionBank instead.
type QuestionService struct {
	repo *repository.AssessmentRepository
}

func NewQuestionService(repo *repository.AssessmentRepository) *QuestionService {
	return &QuestionService{repo: repo}
}

type QuestionInput struct {
	QuestionText  string             `json:"question_text" binding:"required"`
	QuestionType  model.QuestionType `json:"question_type" binding:"required,oneof=multiple_choice free_text"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correct_answer" binding:"required"`
	TopicArea     model.TopicArea    `json:"topic_area" binding:"required"`
	ExpectedLevel int                `json:"expected_level" binding:"required,min=1,max=10"`
	Explanation   string             `json:"explanation"`
	IsActive      *bool              `json:"is_active"`
}

func (in *QuestionInput) validate() error {
	if !in.TopicArea.Valid() {
		return fmt.Errorf("unknown topic area %q", in.TopicArea)
	}
	if in.QuestionType == model.MultipleChoice {
		if len(in.Options) < 2 {
			return errors.New("multiple-choice questions need at least two options")
		}
		found := false
		for _, opt := range in.Options {
			if opt == in.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return errors.New("correct answer must be one of the options")
		}
	}
	return nil
}

func (in *QuestionInput) apply(q *model.AssessmentQuestion) error {
	q.QuestionText = in.QuestionText
	q.QuestionType = in.QuestionType
	q.CorrectAnswer = in.CorrectAnswer
	q.TopicArea = in.TopicArea
	q.ExpectedLevel = in.ExpectedLevel
	q.Explanation = in.Explanation
	if in.IsActive != nil {
		q.IsActive = *in.IsActive
	}
	if in.QuestionType == model.MultipleChoice {
		return q.SetOptions(in.Options)
	}
	return q.SetOptions(nil)
}

func (s *QuestionService) Create(input QuestionInput) (*model.AssessmentQuestion, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	question := &model.AssessmentQuestion{IsActive: true}
	if err := input.apply(question); err != nil {
		return nil, err
	}
	if err := s.repo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) Update(id uint, input QuestionInput) (*model.AssessmentQuestion, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	question, err := s.repo.GetQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if err := input.apply(question); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// Deactivate retires a question from new sessions. Bank rows are never
// deleted; completed sessions keep referencing them.
func (s *QuestionService) Deactivate(id uint) error {
	question, err := s.repo.GetQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	question.IsActive = false
	return s.repo.UpdateQuestion(question)
}

func (s *QuestionService) List(page, pageSize int) ([]model.AssessmentQuestion, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListQuestions((page-1)*pageSize, pageSize)
}
