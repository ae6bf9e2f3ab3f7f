package database

import (
	"fmt"

	lectureRepo "github.com/xpanvictor/lecturenotes/internal/repository/lecture"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&lectureRepo.LectureEntity{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
