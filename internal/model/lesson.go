package model

import "encoding/json"

// Lesson is one unit of leveled course content. Level runs 1..10 and matches
// the scale the assessment recommends a starting point on.
// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Level       int       `gorm:"index;default:1" json:"level"`
	TopicArea   TopicArea `gorm:"size:50;index" json:"topicArea"`
	Order       int       `gorm:"column:display_order;default:0" json:"order"`
	XPReward    int       `gorm:"default:50" json:"xpReward"`
	ContentURL  string    `gorm:"size:512" json:"contentUrl,omitempty"`
	IsPublished bool      `gorm:"default:false" json:"isPublished"`

	Questions []LessonQuestion `gorm:"foreignKey:LessonID" json:"questions,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonQuestion is a practice question attached to a lesson. Correctness is
// checked with the same normalization rules as assessment questions.
type LessonQuestion struct {
	BaseModel
	LessonID      uint            `gorm:"index;not null" json:"lessonId"`
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType    `gorm:"size:50;not null" json:"questionType"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer string          `gorm:"type:text;not null" json:"-"`
	Explanation   string          `gorm:"type:text" json:"explanation,omitempty"`
	Order         int             `gorm:"column:display_order;default:0" json:"order"`
}

func (LessonQuestion) TableName() string {
	return "lesson_questions"
}

func (q *LessonQuestion) SetOptions(opts []string) error {
	if opts == nil {
		q.Options = nil
		return nil
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = raw
	return nil
}

func (q *LessonQuestion) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

// UserLessonProgress tracks completion and best score per lesson.
type UserLessonProgress struct {
	BaseModel
	UserID      uint    `gorm:"index:idx_user_lesson,unique;not null" json:"userId"`
	LessonID    uint    `gorm:"index:idx_user_lesson,unique;not null" json:"lessonId"`
	IsCompleted bool    `gorm:"default:false" json:"isCompleted"`
	BestScore   float64 `gorm:"default:0" json:"bestScore"`
	Attempts    int     `gorm:"default:0" json:"attempts"`
	XPEarned    int     `gorm:"default:0" json:"xpEarned"`
}

func (UserLessonProgress) TableName() string {
	return "user_lesson_progress"
}
