package repository

import (
	"cquest_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.db.Create(lesson).Error
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.db.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.db.Delete(&model.Lesson{}, id).Error
}

func (r *LessonRepository) GetByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.db.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) GetWithQuestions(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.db.Preload("Questions").First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListPublished returns published lessons at or below maxLevel, ordered by
// level then display order. maxLevel <= 0 means no level cap.
func (r *LessonRepository) ListPublished(maxLevel int, topic model.TopicArea) ([]model.Lesson, error) {
	var lessons []model.Lesson
	q := r.db.Where("is_published = ?", true)
	if maxLevel > 0 {
		q = q.Where("level <= ?", maxLevel)
	}
	if topic != "" {
		q = q.Where("topic_area = ?", topic)
	}
	err := q.Order("level ASC, display_order ASC").Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *LessonRepository) ListAll(offset, limit int) ([]model.Lesson, int64, error) {
	var lessons []model.Lesson
	var total int64

	if err := r.db.Model(&model.Lesson{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("level ASC, display_order ASC").Offset(offset).Limit(limit).Find(&lessons).Error
	if err != nil {
		return nil, 0, err
	}
	return lessons, total, nil
}

func (r *LessonRepository) CreateQuestion(question *model.LessonQuestion) error {
	return r.db.Create(question).Error
}

func (r *LessonRepository) GetQuestionsByLesson(lessonID uint) ([]model.LessonQuestion, error) {
	var questions []model.LessonQuestion
	err := r.db.Where("lesson_id = ?", lessonID).Order("display_order ASC").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *LessonRepository) GetUserLessonProgress(userID, lessonID uint) (*model.UserLessonProgress, error) {
	var progress model.UserLessonProgress
	err := r.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *LessonRepository) SaveUserLessonProgress(progress *model.UserLessonProgress) error {
	return r.db.Save(progress).Error
}

func (r *LessonRepository) ListUserLessonProgress(userID uint) ([]model.UserLessonProgress, error) {
	var progress []model.UserLessonProgress
	err := r.db.Where("user_id = ?", userID).Find(&progress).Error
	if err != nil {
		return nil, err
	}
	return progress, nil
}
