package repository

import (
	"context"

	"github.com/yukikurage/folio-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStatsRepository is a GORM implementation of StatsRepository
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &GormStatsRepository{db: db}
}

func (r *GormStatsRepository) All(ctx context.Context) ([]models.SiteStat, error) {
	stats := []models.SiteStat{}
	if err := r.db.WithContext(ctx).Order("stat_key ASC").Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Upsert writes value under key, creating the row when missing
func (r *GormStatsRepository) Upsert(ctx context.Context, key, value string) (*models.SiteStat, error) {
	stat := &models.SiteStat{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stat_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(stat).Error
	if err != nil {
		return nil, err
	}

	var saved models.SiteStat
	if err := r.db.WithContext(ctx).Where("stat_key = ?", key).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}
