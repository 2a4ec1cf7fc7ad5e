package model

import (
	"encoding/json"
	"time"
)

// SkillLabel is the categorical summary of overall assessment performance.
type SkillLabel string

const (
	CompleteBeginner SkillLabel = "complete_beginner"
	Beginner         SkillLabel = "beginner"
	Intermediate     SkillLabel = "intermediate"
	Advanced         SkillLabel = "advanced"
	Expert           SkillLabel = "expert"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	FreeText       QuestionType = "free_text"
)

// AssessmentQuestion is one entry of the curated question bank. Options are
// stored as a JSON column and exposed as a typed slice only through
// OptionList/SetOptions, so the scoring core never touches serialized strings.
// swagger:model AssessmentQuestion
type AssessmentQuestion struct {
	BaseModel
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType    `gorm:"size:50;not null" json:"questionType"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer string          `gorm:"type:text;not null" json:"-"`
	TopicArea     TopicArea       `gorm:"size:50;index;not null" json:"topicArea"`
	ExpectedLevel int             `gorm:"default:1" json:"expectedLevel"` // 1..10
	Explanation   string          `gorm:"type:text" json:"explanation,omitempty"`
	IsActive      bool            `gorm:"default:true" json:"isActive"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

// OptionList decodes the stored option set. Returns nil for free-text
// questions or an empty column.
func (q *AssessmentQuestion) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

func (q *AssessmentQuestion) SetOptions(opts []string) error {
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

// UserAssessment is one assessment session and, once completed, its immutable
// result record.
// swagger:model UserAssessment
type UserAssessment struct {
	BaseModel
	UserID             uint            `gorm:"index;not null" json:"userId"`
	SessionID          string          `gorm:"size:36;uniqueIndex;not null" json:"sessionId"`
	AssessmentType     string          `gorm:"size:20;default:'initial'" json:"assessmentType"` // initial | progress_check
	Status             string          `gorm:"size:20;default:'in_progress'" json:"status"`     // in_progress | completed
	QuestionIDs        json.RawMessage `gorm:"type:json" json:"-"`
	TotalQuestions     int             `gorm:"default:0" json:"totalQuestions"`
	CorrectAnswers     int             `gorm:"default:0" json:"correctAnswers"`
	AccuracyPercentage float64         `gorm:"default:0" json:"accuracyPercentage"`
	CalculatedLevel    int             `gorm:"default:1" json:"calculatedLevel"`
	SkillLevel         SkillLabel      `gorm:"size:20;default:'complete_beginner'" json:"skillLevel"`
	TimeTakenMinutes   *float64        `json:"timeTakenMinutes,omitempty"`
	TopicBreakdown     json.RawMessage `gorm:"type:json" json:"-"`
	Recommendations    json.RawMessage `gorm:"type:json" json:"-"`
	StartedAt          time.Time       `json:"startedAt"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
}

func (UserAssessment) TableName() string {
	return "user_assessments"
}

// IssuedQuestionIDs decodes the ids of the batch issued at start time.
func (a *UserAssessment) IssuedQuestionIDs() []uint {
	if len(a.QuestionIDs) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(a.QuestionIDs, &ids); err != nil {
		return nil
	}
	return ids
}

func (a *UserAssessment) SetIssuedQuestionIDs(ids []uint) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	a.QuestionIDs = raw
	return nil
}

// AssessmentResponse records one submitted answer. Written once during
// scoring, never mutated afterward.
type AssessmentResponse struct {
	BaseModel
	AssessmentID     uint     `gorm:"index;not null" json:"assessmentId"`
	QuestionID       uint     `gorm:"index;not null" json:"questionId"`
	UserAnswer       string   `gorm:"type:text" json:"userAnswer"`
	IsCorrect        bool     `gorm:"default:false" json:"isCorrect"`
	ConfidenceLevel  int      `gorm:"default:3" json:"confidenceLevel"` // 1..5
	TimeTakenSeconds *float64 `json:"timeTakenSeconds,omitempty"`
}

func (AssessmentResponse) TableName() string {
	return "assessment_responses"
}

// TopicBreakdown is the per-topic roll-up inside an AssessmentResult.
type TopicBreakdown struct {
	Attempted        int      `json:"attempted"`
	Correct          int      `json:"correct"`
	Accuracy         float64  `json:"accuracy"`
	AvgConfidence    float64  `json:"avgConfidence,omitempty"`
	TotalTimeSeconds *float64 `json:"totalTimeSeconds,omitempty"`
}

// AssessmentResult is the interchange shape returned to clients and archived
// on the UserAssessment row.
// swagger:model AssessmentResult
type AssessmentResult struct {
	AssessmentID       uint                         `json:"assessment_id"`
	TotalQuestions     int                          `json:"total_questions"`
	CorrectAnswers     int                          `json:"correct_answers"`
	AccuracyPercentage float64                      `json:"accuracy_percentage"`
	CalculatedLevel    int                          `json:"calculated_level"`
	SkillLevel         SkillLabel                   `json:"skill_level"`
	TimeTakenMinutes   *float64                     `json:"time_taken_minutes,omitempty"`
	TopicBreakdown     map[TopicArea]TopicBreakdown `json:"topic_breakdown"`
	Recommendations    []string                     `json:"recommendations"`
}

// ApplyResult freezes a computed result onto the session row. The typed
// breakdown and recommendation list are serialized here, at the persistence
// edge, and nowhere else.
func (a *UserAssessment) ApplyResult(res *AssessmentResult, completedAt time.Time) error {
	breakdown, err := json.Marshal(res.TopicBreakdown)
	if err != nil {
		return err
	}
	recs, err := json.Marshal(res.Recommendations)
	if err != nil {
		return err
	}
	a.Status = "completed"
	a.TotalQuestions = res.TotalQuestions
	a.CorrectAnswers = res.CorrectAnswers
	a.AccuracyPercentage = res.AccuracyPercentage
	a.CalculatedLevel = res.CalculatedLevel
	a.SkillLevel = res.SkillLevel
	a.TimeTakenMinutes = res.TimeTakenMinutes
	a.TopicBreakdown = breakdown
	a.Recommendations = recs
	a.CompletedAt = &completedAt
	return nil
}

// Result reconstructs the interchange shape from a completed session row.
func (a *UserAssessment) Result() (*AssessmentResult, error) {
	res := &AssessmentResult{
		AssessmentID:       a.ID,
		TotalQuestions:     a.TotalQuestions,
		CorrectAnswers:     a.CorrectAnswers,
		AccuracyPercentage: a.AccuracyPercentage,
		CalculatedLevel:    a.CalculatedLevel,
		SkillLevel:         a.SkillLevel,
		TimeTakenMinutes:   a.TimeTakenMinutes,
		TopicBreakdown:     map[TopicArea]TopicBreakdown{},
		Recommendations:    []string{},
	}
	if len(a.TopicBreakdown) > 0 {
		if err := json.Unmarshal(a.TopicBreakdown, &res.TopicBreakdown); err != nil {
			return nil, err
		}
	}
	if len(a.Recommendations) > 0 {
		if err := json.Unmarshal(a.Recommendations, &res.Recommendations); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// UserSkillProfile is the rolling per-topic mastery state maintained by the
// adaptive service. The level calculator never reads it; it is updated from
// assessment results as an explicit downstream step.
// swagger:model UserSkillProfile
type UserSkillProfile struct {
	BaseModel
	UserID            uint            `gorm:"uniqueIndex;not null" json:"userId"`
	TopicMastery      json.RawMessage `gorm:"type:json" json:"-"`
	OverallSkillLevel SkillLabel      `gorm:"size:20;default:'complete_beginner'" json:"overallSkillLevel"`
	AdaptiveLevel     int             `gorm:"default:1" json:"adaptiveLevel"`
	LearningVelocity  float64         `gorm:"default:1.0" json:"learningVelocity"`
	PrefersChallenge  bool            `gorm:"default:false" json:"prefersChallenge"`
	NeedsMorePractice bool            `gorm:"default:false" json:"needsMorePractice"`
}

func (UserSkillProfile) TableName() string {
	return "user_skill_profiles"
}

func (p *UserSkillProfile) Mastery() map[TopicArea]float64 {
	m := map[TopicArea]float64{}
	if len(p.TopicMastery) > 0 {
		_ = json.Unmarshal(p.TopicMastery, &m)
	}
	return m
}

func (p *UserSkillProfile) SetMastery(m map[TopicArea]float64) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	p.TopicMastery = raw
	return nil
}
