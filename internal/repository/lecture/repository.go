package lecture

import (
	"context"
	"errors"
	"fmt"

	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"gorm.io/gorm"
)

type GormLectureRepo struct {
	db *gorm.DB
}

func NewGormLectureRepo(db *gorm.DB) lecture.LectureRepository {
	return &GormLectureRepo{db: db}
}

// Create implements lecture.LectureRepository
func (g *GormLectureRepo) Create(ctx context.Context, l *lecture.Lecture) error {
	entity := NewLectureEntityFromDomain(l)
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create lecture: %w", err)
	}
	*l = *entity.ToDomain()
	return nil
}

// GetByID implements lecture.LectureRepository
func (g *GormLectureRepo) GetByID(ctx context.Context, id string) (*lecture.Lecture, error) {
	var entity LectureEntity
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lecture.ErrLectureNotFound
		}
		return nil, fmt.Errorf("failed to get lecture by ID: %w", err)
	}
	return entity.ToDomain(), nil
}

// Update implements lecture.LectureRepository
func (g *GormLectureRepo) Update(ctx context.Context, l *lecture.Lecture) error {
	entity := NewLectureEntityFromDomain(l)
	res := g.db.WithContext(ctx).
		Model(&LectureEntity{ID: l.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(entity)
	if res.Error != nil {
		return fmt.Errorf("failed to update lecture: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return lecture.ErrLectureNotFound
	}
	return nil
}

// List implements lecture.LectureRepository
func (g *GormLectureRepo) List(ctx context.Context, filters lecture.ListLecturesRequest) ([]lecture.Lecture, int64, error) {
	var entities []LectureEntity
	var total int64

	query := g.db.WithContext(ctx).Model(&LectureEntity{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count lectures: %w", err)
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list lectures: %w", err)
	}

	lectures := make([]lecture.Lecture, len(entities))
	for i, entity := range entities {
		lectures[i] = *entity.ToDomain()
	}
	return lectures, total, nil
}

// Delete implements lecture.LectureRepository
func (g *GormLectureRepo) Delete(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&LectureEntity{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete lecture: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return lecture.ErrLectureNotFound
	}
	return nil
}
