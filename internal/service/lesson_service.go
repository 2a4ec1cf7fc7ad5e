package service

import (
	"errors"
	"strings"

	"cquest_backend/internal/model"
	"cquest_backend/internal/repository"
	"cquest_backend/internal/scoring"
	"cquest_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	repo     *repository.LessonRepository
	subs     *SubscriptionService
	progress *ProgressService
	adaptive *AdaptiveService
}

func NewLessonService(repo *repository.LessonRepository, subs *SubscriptionService, progress *ProgressService, adaptive *AdaptiveService) *LessonService {
	return &LessonService{repo: repo, subs: subs, progress: progress, adaptive: adaptive}
}

// CatalogEntry decorates a lesson with the caller's completion state and
// whether their plan unlocks it.
type CatalogEntry struct {
	model.Lesson
	Completed bool    `json:"completed"`
	BestScore float64 `json:"bestScore"`
	Locked    bool    `json:"locked"`
}

// Catalog lists published lessons with per-user completion and lock state.
// The recommended level from the skill profile is returned alongside so the
// client can scroll the list to the right starting point.
func (s *LessonService) Catalog(userID uint, topic model.TopicArea) ([]CatalogEntry, int, error) {
	lessons, err := s.repo.ListPublished(0, topic)
	if err != nil {
		return nil, 0, err
	}

	ent, err := s.subs.EntitlementsFor(userID)
	if err != nil {
		return nil, 0, err
	}

	progressRows, err := s.repo.ListUserLessonProgress(userID)
	if err != nil {
		return nil, 0, err
	}
	byLesson := make(map[uint]model.UserLessonProgress, len(progressRows))
	for _, p := range progressRows {
		byLesson[p.LessonID] = p
	}

	entries := make([]CatalogEntry, 0, len(lessons))
	for _, lesson := range lessons {
		entry := CatalogEntry{Lesson: lesson}
		if p, ok := byLesson[lesson.ID]; ok {
			entry.Completed = p.IsCompleted
			entry.BestScore = p.BestScore
		}
		if ent.MaxLevelAccess != nil && lesson.Level > *ent.MaxLevelAccess {
			entry.Locked = true
		}
		entries = append(entries, entry)
	}

	return entries, s.adaptive.RecommendedLevel(userID), nil
}

// Get returns one lesson with its questions, enforcing the plan's level cap.
func (s *LessonService) Get(userID, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.repo.GetWithQuestions(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if !lesson.IsPublished {
		return nil, util.ErrLessonNotFound
	}
	if err := s.subs.CanAccessLevel(userID, lesson.Level); err != nil {
		return nil, err
	}
	return lesson, nil
}

type QuizAnswer struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

type QuizResult struct {
	LessonID       uint    `json:"lesson_id"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Score          float64 `json:"score"`
	Passed         bool    `json:"passed"`
	XPEarned       int     `json:"xp_earned"`
}

const quizPassScore = 0.7

// SubmitQuiz grades a lesson quiz with the same normalization rules the
// assessment uses, counts the questions against the daily quota, and awards
// XP through the progress ledger.
func (s *LessonService) SubmitQuiz(userID, lessonID uint, answers []QuizAnswer) (*QuizResult, error) {
	lesson, err := s.Get(userID, lessonID)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.GetQuestionsByLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrLessonNotFound
	}

	if err := s.subs.ConsumeQuestions(userID, len(questions)); err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.LessonQuestion, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	correct := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, util.ErrUnknownQuestionReference
		}
		if gradeLessonAnswer(q, a.Answer) {
			correct++
		}
	}

	score := float64(correct) / float64(len(questions))
	passed := score >= quizPassScore

	xp := correct * util.XPPerLessonQuestion
	if passed {
		xp += lesson.XPReward
	}

	prog, err := s.repo.GetUserLessonProgress(userID, lessonID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		prog = &model.UserLessonProgress{UserID: userID, LessonID: lessonID}
	}
	prog.Attempts++
	if score > prog.BestScore {
		prog.BestScore = score
	}
	firstCompletion := passed && !prog.IsCompleted
	if passed {
		prog.IsCompleted = true
	}
	if firstCompletion {
		prog.XPEarned += xp
	}
	if err := s.repo.SaveUserLessonProgress(prog); err != nil {
		return nil, err
	}

	// XP is only granted on the first pass; retries still update best score.
	awarded := 0
	if firstCompletion {
		awarded = xp
		if _, err := s.progress.RecordLessonCompletion(userID, xp, score); err != nil {
			return nil, err
		}
	}

	return &QuizResult{
		LessonID:       lessonID,
		TotalQuestions: len(questions),
		CorrectAnswers: correct,
		Score:          score,
		Passed:         passed,
		XPEarned:       awarded,
	}, nil
}

func gradeLessonAnswer(q *model.LessonQuestion, raw string) bool {
	if q.QuestionType == model.MultipleChoice {
		return strings.TrimSpace(raw) == q.CorrectAnswer
	}
	return scoring.NormalizeFreeText(raw) == scoring.NormalizeFreeText(q.CorrectAnswer)
}

// Admin CRUD.

type LessonInput struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Description string          `json:"description"`
	Level       int             `json:"level" binding:"required,min=1,max=10"`
	TopicArea   model.TopicArea `json:"topic_area" binding:"required"`
	Order       int             `json:"order"`
	XPReward    int             `json:"xp_reward"`
	ContentURL  string          `json:"content_url"`
	IsPublished bool            `json:"is_published"`
}

func (s *LessonService) Create(input LessonInput) (*model.Lesson, error) {
	if !input.TopicArea.Valid() {
		return nil, util.ErrInvalidTopic
	}
	lesson := &model.Lesson{
		Title:       input.Title,
		Description: input.Description,
		Level:       input.Level,
		TopicArea:   input.TopicArea,
		Order:       input.Order,
		XPReward:    input.XPReward,
		ContentURL:  input.ContentURL,
		IsPublished: input.IsPublished,
	}
	if lesson.XPReward == 0 {
		lesson.XPReward = util.XPLessonCompletion
	}
	if err := s.repo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Update(id uint, input LessonInput) (*model.Lesson, error) {
	if !input.TopicArea.Valid() {
		return nil, util.ErrInvalidTopic
	}
	lesson, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Title = input.Title
	lesson.Description = input.Description
	lesson.Level = input.Level
	lesson.TopicArea = input.TopicArea
	lesson.Order = input.Order
	if input.XPReward > 0 {
		lesson.XPReward = input.XPReward
	}
	lesson.ContentURL = input.ContentURL
	lesson.IsPublished = input.IsPublished

	if err := s.repo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(id uint) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.repo.Delete(id)
}

func (s *LessonService) ListAll(page, pageSize int) ([]model.Lesson, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListAll((page-1)*pageSize, pageSize)
}

type LessonQuestionInput struct {
	QuestionText  string             `json:"question_text" binding:"required"`
	QuestionType  model.QuestionType `json:"question_type" binding:"required,oneof=multiple_choice free_text"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correct_answer" binding:"required"`
	Explanation   string             `json:"explanation"`
	Order         int                `json:"order"`
}

func (s *LessonService) AddQuestion(lessonID uint, input LessonQuestionInput) (*model.LessonQuestion, error) {
	if _, err := s.repo.GetByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	question := &model.LessonQuestion{
		LessonID:      lessonID,
		QuestionText:  input.QuestionText,
		QuestionType:  input.QuestionType,
		CorrectAnswer: input.CorrectAnswer,
		Explanation:   input.Explanation,
		Order:         input.Order,
	}
	if input.Options != nil {
		if err := question.SetOptions(input.Options); err != nil {
			return nil, err
		}
	}
	if err := s.repo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}
