package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/talentflow/pipeline/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(entities.Job{})
	if err != nil {
		return fmt.Errorf("failed to migrate Job entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Candidate{})
	if err != nil {
		return fmt.Errorf("failed to migrate Candidate entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.TimelineEvent{})
	if err != nil {
		return fmt.Errorf("failed to migrate TimelineEvent entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Assessment{})
	if err != nil {
		return fmt.Errorf("failed to migrate Assessment entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.AssessmentResponse{})
	if err != nil {
		return fmt.Errorf("failed to migrate AssessmentResponse entity: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
