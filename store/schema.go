package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vitatrack/models"
)

// schemaMeta records the applied schema version. The version only ever
// increases; migration steps add collections and indexes, never drop them.
type schemaMeta struct {
	ID        uint `gorm:"primaryKey"`
	Version   int
	UpdatedAt time.Time
}

func (schemaMeta) TableName() string { return "schema_meta" }

type migration struct {
	Version int
	Models  []any
}

var migrations = []migration{
	{Version: 1, Models: []any{
		&models.User{},
		&models.AppSetting{},
		&models.WeightEntry{},
		&models.WellnessPlan{},
		&models.CompletedWorkout{},
		&models.MealPlan{},
	}},
	{Version: 2, Models: []any{
		&models.ChatMessage{},
		&models.Recipe{},
	}},
	{Version: 3, Models: []any{
		&models.MealAnalysis{},
		&models.ActivityLog{},
		&models.ActiveSession{},
	}},
}

// SchemaVersion is the version the code expects.
func SchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

func (s *Store) migrate(steps []migration) error {
	if err := s.db.AutoMigrate(&schemaMeta{}); err != nil {
		return fmt.Errorf("%w: schema meta: %v", ErrStorageUnavailable, err)
	}

	var meta schemaMeta
	if err := s.db.First(&meta).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: read schema version: %v", ErrStorageUnavailable, err)
		}
		meta = schemaMeta{Version: 0}
	}

	for _, step := range steps {
		if step.Version > meta.Version {
			// AutoMigrate only adds missing tables/columns/indexes;
			// existing records survive the bump.
			if err := s.db.AutoMigrate(step.Models...); err != nil {
				return fmt.Errorf("%w: migrate to v%d: %v", ErrStorageUnavailable, step.Version, err)
			}
			meta.Version = step.Version
		}
		for _, m := range step.Models {
			name, err := s.tableName(m)
			if err != nil {
				return err
			}
			s.tables[name] = struct{}{}
		}
	}

	meta.UpdatedAt = time.Now().UTC()
	return s.db.Save(&meta).Error
}
