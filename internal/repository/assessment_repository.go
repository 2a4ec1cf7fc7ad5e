package repository

import (
	"cquest_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// ActiveQuestionsByLevel returns active bank questions at the given expected
// level, randomly ordered so repeated sessions see varied batches.
func (r *AssessmentRepository) ActiveQuestionsByLevel(level, limit int) ([]model.AssessmentQuestion, error) {
	var questions []model.AssessmentQuestion
	err := r.db.
		Where("is_active = ? AND expected_level = ?", true, level).
		Order("RAND()").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ActiveQuestions returns up to limit active questions across all levels,
// randomly ordered. Used to top up a batch when level buckets run dry.
func (r *AssessmentRepository) ActiveQuestions(excludeIDs []uint, limit int) ([]model.AssessmentQuestion, error) {
	var questions []model.AssessmentQuestion
	q := r.db.Where("is_active = ?", true)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	err := q.Order("RAND()").Limit(limit).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// QuestionsByIDs fetches the exact issued batch, keyed by id for scoring.
func (r *AssessmentRepository) QuestionsByIDs(ids []uint) (map[uint]*model.AssessmentQuestion, error) {
	var questions []model.AssessmentQuestion
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.AssessmentQuestion, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	return byID, nil
}

func (r *AssessmentRepository) CreateQuestion(question *model.AssessmentQuestion) error {
	return r.db.Create(question).Error
}

func (r *AssessmentRepository) UpdateQuestion(question *model.AssessmentQuestion) error {
	return r.db.Save(question).Error
}

func (r *AssessmentRepository) GetQuestionByID(id uint) (*model.AssessmentQuestion, error) {
	var question model.AssessmentQuestion
	err := r.db.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *AssessmentRepository) ListQuestions(offset, limit int) ([]model.AssessmentQuestion, int64, error) {
	var questions []model.AssessmentQuestion
	var total int64

	if err := r.db.Model(&model.AssessmentQuestion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("expected_level ASC, id ASC").Offset(offset).Limit(limit).Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (r *AssessmentRepository) CreateSession(session *model.UserAssessment) error {
	return r.db.Create(session).Error
}

func (r *AssessmentRepository) GetSessionBySessionID(sessionID string) (*model.UserAssessment, error) {
	var session model.UserAssessment
	err := r.db.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *AssessmentRepository) GetAssessmentByID(id uint) (*model.UserAssessment, error) {
	var assessment model.UserAssessment
	err := r.db.First(&assessment, id).Error
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// CompleteSession persists the scored session and its per-answer records in
// one transaction, so a completed row always has its full response set.
func (r *AssessmentRepository) CompleteSession(session *model.UserAssessment, responses []model.AssessmentResponse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		if len(responses) > 0 {
			for i := range responses {
				responses[i].AssessmentID = session.ID
			}
			if err := tx.Create(&responses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AssessmentRepository) ListCompletedByUser(userID uint, offset, limit int) ([]model.UserAssessment, int64, error) {
	var assessments []model.UserAssessment
	var total int64

	base := r.db.Model(&model.UserAssessment{}).
		Where("user_id = ? AND status = ?", userID, "completed")

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.Order("completed_at DESC").Offset(offset).Limit(limit).Find(&assessments).Error
	if err != nil {
		return nil, 0, err
	}
	return assessments, total, nil
}

func (r *AssessmentRepository) LatestCompletedByUser(userID uint) (*model.UserAssessment, error) {
	var assessment model.UserAssessment
	err := r.db.
		Where("user_id = ? AND status = ?", userID, "completed").
		Order("completed_at DESC").
		First(&assessment).Error
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.UserAssessment{}).
		Where("user_id = ? AND status = ?", userID, "completed").
		Count(&count).Error
	return count, err
}

func (r *AssessmentRepository) GetProfile(userID uint) (*model.UserSkillProfile, error) {
	var profile model.UserSkillProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AssessmentRepository) SaveProfile(profile *model.UserSkillProfile) error {
	return r.db.Save(profile).Error
}
