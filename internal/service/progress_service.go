package service

import (
	"context"
	"fmt"
	"time"

	"cquest_backend/internal/model"
	"cquest_backend/internal/repository"
	"cquest_backend/internal/util"
	"cquest_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardKey = "leaderboard:xp"

// ProgressService owns the gamification ledger: XP, streaks, levels earned
// through activity, achievements, and the redis-backed leaderboard.
type ProgressService struct {
	repo     *repository.ProgressRepository
	userRepo *repository.UserRepository
	redis    *redis.Client
}

func NewProgressService(repo *repository.ProgressRepository, userRepo *repository.UserRepository, redisClient *redis.Client) *ProgressService {
	return &ProgressService{repo: repo, userRepo: userRepo, redis: redisClient}
}

func (s *ProgressService) GetProgress(userID uint) (*model.UserProgress, error) {
	return s.repo.GetOrCreate(userID)
}

// AwardXP adds XP, advances the streak for today's activity, and checks
// achievements. Returns the updated ledger.
func (s *ProgressService) AwardXP(userID uint, xp int) (*model.UserProgress, error) {
	progress, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.advanceStreak(progress, now)

	progress.TotalXP += xp
	if progress.CurrentStreak > 1 {
		progress.TotalXP += util.XPDailyStreakBonus
	}

	if err := s.repo.Save(progress); err != nil {
		return nil, err
	}

	s.updateLeaderboard(userID, progress.TotalXP)
	s.checkAchievements(userID, progress, now)
	return progress, nil
}

// RecordLessonCompletion awards lesson XP and bumps the completion counter.
func (s *ProgressService) RecordLessonCompletion(userID uint, xp int, accuracy float64) (*model.UserProgress, error) {
	progress, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.advanceStreak(progress, now)

	progress.TotalXP += xp
	progress.LessonsCompleted++
	// Running average over completed lessons.
	n := float64(progress.LessonsCompleted)
	progress.AccuracyRate = (progress.AccuracyRate*(n-1) + accuracy) / n

	if err := s.repo.Save(progress); err != nil {
		return nil, err
	}

	s.updateLeaderboard(userID, progress.TotalXP)
	s.checkAchievements(userID, progress, now)
	return progress, nil
}

// RecordAssessmentCompletion moves the user's current level to the assessed
// level and grants the completion XP. Called after a scored submission is
// already durable.
func (s *ProgressService) RecordAssessmentCompletion(userID uint, res *model.AssessmentResult) error {
	progress, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	s.advanceStreak(progress, now)
	progress.TotalXP += util.XPAssessmentComplete
	progress.CurrentLevel = res.CalculatedLevel

	if err := s.repo.Save(progress); err != nil {
		return err
	}

	s.updateLeaderboard(userID, progress.TotalXP)
	s.checkAchievements(userID, progress, now)
	return nil
}

// advanceStreak updates streak counters for activity at the given time.
// Same-day activity leaves the streak alone; a one-day gap extends it;
// anything longer resets to 1.
func (s *ProgressService) advanceStreak(progress *model.UserProgress, now time.Time) {
	today := now.Truncate(24 * time.Hour)

	if progress.LastActivityDate == nil {
		progress.CurrentStreak = 1
	} else {
		last := progress.LastActivityDate.Truncate(24 * time.Hour)
		switch days := int(today.Sub(last).Hours() / 24); {
		case days == 0:
			// already counted today
		case days == 1:
			progress.CurrentStreak++
		default:
			progress.CurrentStreak = 1
		}
	}

	if progress.CurrentStreak > progress.LongestStreak {
		progress.LongestStreak = progress.CurrentStreak
	}
	progress.LastActivityDate = &now
}

func (s *ProgressService) checkAchievements(userID uint, progress *model.UserProgress, now time.Time) {
	achievements, err := s.repo.ListAchievements()
	if err != nil {
		logger.Log.Error("failed to list achievements", zap.Error(err))
		return
	}
	earned, err := s.repo.ListUserAchievements(userID)
	if err != nil {
		logger.Log.Error("failed to list user achievements", zap.Uint("user_id", userID), zap.Error(err))
		return
	}

	has := make(map[uint]bool, len(earned))
	for _, e := range earned {
		has[e.AchievementID] = true
	}

	for _, a := range achievements {
		if has[a.ID] {
			continue
		}
		var met bool
		switch a.RequirementType {
		case model.RequireStreak:
			met = progress.CurrentStreak >= a.RequirementValue
		case model.RequireLessonsCompleted:
			met = progress.LessonsCompleted >= a.RequirementValue
		case model.RequireXPEarned:
			met = progress.TotalXP >= a.RequirementValue
		}
		if !met {
			continue
		}
		if err := s.repo.GrantAchievement(userID, a.ID, now); err != nil {
			logger.Log.Error("failed to grant achievement",
				zap.Uint("user_id", userID), zap.Uint("achievement_id", a.ID), zap.Error(err))
			continue
		}
		progress.TotalXP += a.XPReward
		if err := s.repo.Save(progress); err != nil {
			logger.Log.Error("failed to save achievement xp", zap.Uint("user_id", userID), zap.Error(err))
		}
		logger.Log.Info("achievement earned",
			zap.Uint("user_id", userID), zap.String("achievement", a.Name))
	}
}

func (s *ProgressService) updateLeaderboard(userID uint, totalXP int) {
	if s.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.redis.ZAdd(ctx, leaderboardKey, &redis.Z{
		Score:  float64(totalXP),
		Member: fmt.Sprintf("%d", userID),
	}).Err()
	if err != nil {
		logger.Log.Warn("failed to update leaderboard", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// LeaderboardEntry pairs a rank with a display name and score.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  uint   `json:"userId"`
	Name    string `json:"name"`
	TotalXP int    `json:"totalXp"`
}

// Leaderboard returns the top users by XP. Redis serves the ranking when
// available; the database is the fallback so the endpoint keeps working
// without a warm cache.
func (s *ProgressService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if entries := s.leaderboardFromRedis(limit); entries != nil {
		return entries, nil
	}

	rows, err := s.repo.TopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:    i + 1,
			UserID:  row.UserID,
			Name:    s.displayName(row.UserID),
			TotalXP: row.TotalXP,
		})
	}
	return entries, nil
}

func (s *ProgressService) leaderboardFromRedis(limit int) []LeaderboardEntry {
	if s.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ranked, err := s.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil || len(ranked) == 0 {
		return nil
	}

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		var userID uint
		if _, err := fmt.Sscanf(fmt.Sprint(z.Member), "%d", &userID); err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:    i + 1,
			UserID:  userID,
			Name:    s.displayName(userID),
			TotalXP: int(z.Score),
		})
	}
	return entries
}

func (s *ProgressService) displayName(userID uint) string {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ""
	}
	return user.Name
}

func (s *ProgressService) Achievements(userID uint) ([]model.UserAchievement, error) {
	return s.repo.ListUserAchievements(userID)
}
