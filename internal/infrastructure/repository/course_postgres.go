package repository

import (
	"context"
	"errors"
	"fmt"

	"kbcportal/internal/domain"

	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course in admin order.
func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Order("sort_order asc").
		Order("id asc").
		Find(&courses).Error
	return courses, err
}

// ListActive returns the courses students can see, in admin order.
func (r *CourseRepository) ListActive(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.CourseStatusActive).
		Order("sort_order asc").
		Order("id asc").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uint) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Course{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	return r.db.WithContext(ctx).Omit("VideoOrders").Create(c).Error
}

// CreateWithVideos inserts the course and its initial video order in one
// transaction.
func (r *CourseRepository) CreateWithVideos(ctx context.Context, c *domain.Course, videoIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("VideoOrders").Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("slug %q: %w", c.Slug, err)
			}
			return err
		}
		return insertOrders(tx, c.ID, videoIDs)
	})
}

func (r *CourseRepository) Update(ctx context.Context, id uint, upd domain.CourseUpdate) (*domain.Course, error) {
	cols := upd.Columns()
	if len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&domain.Course{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the course and its order rows. The explicit delete of the
// order rows covers databases that do not enforce the cascade.
func (r *CourseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&domain.CourseVideoOrder{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Course{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrCourseNotFound
		}
		return nil
	})
}

// Reorder sets sort_order = position+1 for each id. Zero and ids that match
// no course are skipped but still take up their position.
func (r *CourseRepository) Reorder(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if id == 0 {
				continue
			}
			err := tx.Model(&domain.Course{}).
				Where("id = ?", id).
				Update("sort_order", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
