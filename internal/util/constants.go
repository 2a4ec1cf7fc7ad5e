package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// XP rewards
const (
	XPPerLessonQuestion  = 10
	XPLessonCompletion   = 50
	XPAssessmentComplete = 25
	XPDailyStreakBonus   = 5
)

const (
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)
