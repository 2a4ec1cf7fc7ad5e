package database

import (
	"cquest_backend/internal/model"
	"cquest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seed inserts baseline records on an empty database. Each block is
// guarded by a count check so restarts never duplicate rows.
func seed(db *gorm.DB) error {
	if err := seedPlans(db); err != nil {
		return err
	}
	if err := seedAchievements(db); err != nil {
		return err
	}
	if err := seedAssessmentQuestions(db); err != nil {
		return err
	}
	return nil
}

func seedPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.SubscriptionPlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	freeLimit := 20
	freeMaxLevel := 3
	plans := []model.SubscriptionPlan{
		{
			Tier:               model.TierFree,
			Name:               "Free",
			Price:              0,
			Currency:           "USD",
			DurationDays:       0,
			DailyQuestionLimit: &freeLimit,
			MaxLevelAccess:     &freeMaxLevel,
		},
		{
			Tier:              model.TierGold,
			Name:              "Gold",
			Price:             4.99,
			Currency:          "USD",
			DurationDays:      30,
			DetailedAnalytics: true,
		},
		{
			Tier:              model.TierPremium,
			Name:              "Premium",
			Price:             9.99,
			Currency:          "USD",
			DurationDays:      30,
			DetailedAnalytics: true,
			UnlimitedRetakes:  true,
		},
	}

	if err := db.Create(&plans).Error; err != nil {
		return err
	}
	logger.Log.Info("seeded subscription plans", zap.Int("count", len(plans)))
	return nil
}

func seedAchievements(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Achievement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	achievements := []model.Achievement{
		{Name: "First Steps", Description: "Complete your first lesson", Icon: "footprints", XPReward: 25,
			RequirementType: model.RequireLessonsCompleted, RequirementValue: 1, IsActive: true},
		{Name: "Dedicated Learner", Description: "Complete 10 lessons", Icon: "books", XPReward: 100,
			RequirementType: model.RequireLessonsCompleted, RequirementValue: 10, IsActive: true},
		{Name: "Code Marathon", Description: "Complete 50 lessons", Icon: "trophy", XPReward: 500,
			RequirementType: model.RequireLessonsCompleted, RequirementValue: 50, IsActive: true},
		{Name: "On Fire", Description: "Keep a 7 day streak", Icon: "flame", XPReward: 150,
			RequirementType: model.RequireStreak, RequirementValue: 7, IsActive: true},
		{Name: "Unstoppable", Description: "Keep a 30 day streak", Icon: "rocket", XPReward: 750,
			RequirementType: model.RequireStreak, RequirementValue: 30, IsActive: true},
		{Name: "XP Collector", Description: "Earn 1000 XP", Icon: "star", XPReward: 100,
			RequirementType: model.RequireXPEarned, RequirementValue: 1000, IsActive: true},
	}

	if err := db.Create(&achievements).Error; err != nil {
		return err
	}
	logger.Log.Info("seeded achievements", zap.Int("count", len(achievements)))
	return nil
}

type seedQuestion struct {
	topic   model.TopicArea
	level   int
	qType   model.QuestionType
	text    string
	options []string
	answer  string
}

func seedAssessmentQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.AssessmentQuestion{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	bank := []seedQuestion{
		{model.TopicBasics, 1, model.MultipleChoice,
			"Which function prints formatted output to the console in C?",
			[]string{"printf", "scanf", "puts", "write"}, "printf"},
		{model.TopicBasics, 1, model.MultipleChoice,
			"What file extension does a C source file use?",
			[]string{".c", ".cpp", ".cs", ".h"}, ".c"},
		{model.TopicBasics, 2, model.FreeText,
			"Name the function where execution of every C program begins.",
			nil, "main"},
		{model.TopicVariables, 2, model.MultipleChoice,
			"Which keyword declares a 4-byte signed integer on most platforms?",
			[]string{"int", "char", "short", "float"}, "int"},
		{model.TopicVariables, 3, model.MultipleChoice,
			"What is the value of an uninitialized local int variable?",
			[]string{"0", "undefined", "-1", "NULL"}, "undefined"},
		{model.TopicOperators, 2, model.MultipleChoice,
			"What does the % operator compute?",
			[]string{"percentage", "remainder", "division", "power"}, "remainder"},
		{model.TopicOperators, 3, model.FreeText,
			"What is the result of 7 / 2 when both operands are of type int?",
			nil, "3"},
		{model.TopicLoops, 3, model.MultipleChoice,
			"Which loop always executes its body at least once?",
			[]string{"for", "while", "do-while", "foreach"}, "do-while"},
		{model.TopicLoops, 4, model.FreeText,
			"Which keyword immediately ends the innermost enclosing loop?",
			nil, "break"},
		{model.TopicFunctions, 4, model.MultipleChoice,
			"What does a function with return type void return?",
			[]string{"0", "NULL", "nothing", "void pointer"}, "nothing"},
		{model.TopicFunctions, 5, model.FreeText,
			"What is it called when a function calls itself?",
			nil, "recursion"},
		{model.TopicArrays, 4, model.MultipleChoice,
			"What is the index of the first element of a C array?",
			[]string{"0", "1", "-1", "implementation defined"}, "0"},
		{model.TopicArrays, 5, model.MultipleChoice,
			"Given int a[10], what does sizeof(a) evaluate to with 4-byte ints?",
			[]string{"10", "40", "4", "8"}, "40"},
		{model.TopicStrings, 5, model.MultipleChoice,
			"What character terminates every C string?",
			[]string{"\\n", "\\0", "\\t", "EOF"}, "\\0"},
		{model.TopicStrings, 6, model.FreeText,
			"Which standard library function returns the length of a string, excluding the terminator?",
			nil, "strlen"},
		{model.TopicPointers, 6, model.MultipleChoice,
			"What does the & operator yield when applied to a variable?",
			[]string{"its value", "its address", "its size", "its type"}, "its address"},
		{model.TopicPointers, 7, model.MultipleChoice,
			"What happens when you dereference a NULL pointer?",
			[]string{"returns 0", "undefined behavior", "compiler error", "returns NULL"}, "undefined behavior"},
		{model.TopicPointers, 8, model.FreeText,
			"Which operator dereferences a pointer to access the value it points to?",
			nil, "*"},
		{model.TopicMemory, 7, model.MultipleChoice,
			"Which function allocates uninitialized memory on the heap?",
			[]string{"malloc", "calloc", "alloca", "new"}, "malloc"},
		{model.TopicMemory, 8, model.MultipleChoice,
			"What is it called when allocated memory is never freed?",
			[]string{"dangling pointer", "memory leak", "buffer overflow", "segfault"}, "memory leak"},
		{model.TopicMemory, 9, model.FreeText,
			"Which function releases memory previously obtained from malloc?",
			nil, "free"},
	}

	questions := make([]model.AssessmentQuestion, 0, len(bank))
	for _, sq := range bank {
		q := model.AssessmentQuestion{
			QuestionText:  sq.text,
			QuestionType:  sq.qType,
			TopicArea:     sq.topic,
			ExpectedLevel: sq.level,
			CorrectAnswer: sq.answer,
			IsActive:      true,
		}
		if sq.options != nil {
			if err := q.SetOptions(sq.options); err != nil {
				return err
			}
		}
		questions = append(questions, q)
	}

	if err := db.Create(&questions).Error; err != nil {
		return err
	}
	logger.Log.Info("seeded assessment question bank", zap.Int("count", len(questions)))
	return nil
}
