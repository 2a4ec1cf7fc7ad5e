package database

import (
	"fmt"
	"time"

	"cquest_backend/internal/config"
	"cquest_backend/internal/model"
	"cquest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db

	if err := migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seed(db); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	logger.Log.Info("database initialized",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)
	return nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.AssessmentQuestion{},
		&model.UserAssessment{},
		&model.AssessmentResponse{},
		&model.UserSkillProfile{},
		&model.Lesson{},
		&model.LessonQuestion{},
		&model.UserLessonProgress{},
		&model.UserProgress{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.SubscriptionPlan{},
		&model.Subscription{},
		&model.Payment{},
	)
}
