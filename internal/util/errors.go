package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrInvalidLogin     = errors.New("invalid email or password")
	ErrPermissionDenied = errors.New("permission denied")

	// Assessment session errors. Each failure kind stays distinguishable so the
	// caller can render an appropriate message; none is ever swallowed.
	ErrNoQuestionsAvailable     = errors.New("question bank returned fewer questions than required")
	ErrUnknownQuestionReference = errors.New("answer references a question outside the issued batch")
	ErrDuplicateAnswer          = errors.New("duplicate answer for the same question")
	ErrAlreadySubmitted         = errors.New("assessment already submitted")
	ErrAssessmentNotFound       = errors.New("assessment not found")
	ErrPersistenceFailed        = errors.New("failed to persist assessment result")

	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidTopic      = errors.New("unknown topic area")
	ErrRetakeNotAllowed  = errors.New("assessment retake not allowed on current plan")
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrLevelLocked       = errors.New("level not accessible on current plan")
	ErrPlanNotFound      = errors.New("subscription plan not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrDailyLimitReached = errors.New("daily question limit reached")
)
