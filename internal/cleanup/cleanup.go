package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"real-estate-catalog/internal/models"
)

// Service repairs dangling references and reports on deletions
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	TargetCount  int64     `json:"target_count"`  // Contacts pointing at missing properties
	UpdatedCount int64     `json:"updated_count"` // Contacts turned into general enquiries
	DryRun       bool      `json:"dry_run"`
	ExecutedAt   time.Time `json:"executed_at"`
}

const orphanCondition = "property_id IS NOT NULL AND property_id NOT IN (SELECT id FROM properties)"

// CleanupOrphanedContacts detaches contacts whose property no longer exists
func (s *Service) CleanupOrphanedContacts(ctx context.Context, dryRun bool) (*CleanupResult, error) {
	result := &CleanupResult{
		DryRun:     dryRun,
		ExecutedAt: time.Now(),
	}

	if err := s.db.WithContext(ctx).Model(&models.Contact{}).Where(orphanCondition).Count(&result.TargetCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count orphaned contacts: %w", err)
	}

	if result.TargetCount == 0 || dryRun {
		s.logger.Info("orphaned contact cleanup", "orphans", result.TargetCount, "dry_run", dryRun)
		return result, nil
	}

	update := s.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where(orphanCondition).
		Update("property_id", gorm.Expr("NULL"))
	if update.Error != nil {
		return nil, fmt.Errorf("failed to detach orphaned contacts: %w", update.Error)
	}
	result.UpdatedCount = update.RowsAffected

	s.logger.Info("orphaned contacts detached", "updated", result.UpdatedCount, "found", result.TargetCount)
	return result, nil
}

// GetDeleteStats returns statistics about deleted properties
func (s *Service) GetDeleteStats(ctx context.Context) (map[string]interface{}, error) {
	db := s.db.WithContext(ctx)
	stats := make(map[string]interface{})

	var totalDeleted int64
	if err := db.Model(&models.DeleteLog{}).Count(&totalDeleted).Error; err != nil {
		return nil, err
	}
	stats["total_deleted"] = totalDeleted

	// Delete logs by reason
	var reasonCounts []struct {
		Reason string
		Count  int64
	}
	if err := db.Model(&models.DeleteLog{}).
		Select("reason, count(*) as count").
		Group("reason").
		Scan(&reasonCounts).Error; err != nil {
		return nil, err
	}

	reasonMap := make(map[string]int64)
	for _, rc := range reasonCounts {
		reasonMap[rc.Reason] = rc.Count
	}
	stats["by_reason"] = reasonMap

	// Recent deletions (last 30 days)
	var recentDeleted int64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := db.Model(&models.DeleteLog{}).
		Where("deleted_at >= ?", thirtyDaysAgo).
		Count(&recentDeleted).Error; err != nil {
		return nil, err
	}
	stats["deleted_last_30_days"] = recentDeleted

	var orphans int64
	if err := db.Model(&models.Contact{}).Where(orphanCondition).Count(&orphans).Error; err != nil {
		return nil, err
	}
	stats["orphaned_contacts"] = orphans

	return stats, nil
}

// GetRecentDeleteLogs returns recent delete log entries
func (s *Service) GetRecentDeleteLogs(ctx context.Context, limit int) ([]models.DeleteLog, error) {
	var logs []models.DeleteLog
	err := s.db.WithContext(ctx).Order("deleted_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
