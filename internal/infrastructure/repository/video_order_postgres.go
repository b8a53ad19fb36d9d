package repository

import (
	"context"
	"errors"

	"kbcportal/internal/domain"

	"gorm.io/gorm"
)

// VideoOrderRepository persists the admin-curated order of videos per
// course.
type VideoOrderRepository struct {
	db *gorm.DB
}

func NewVideoOrderRepository(db *gorm.DB) *VideoOrderRepository {
	return &VideoOrderRepository{db: db}
}

func (r *VideoOrderRepository) ListByCourseIDs(ctx context.Context, courseIDs []uint) ([]domain.CourseVideoOrder, error) {
	if len(courseIDs) == 0 {
		return []domain.CourseVideoOrder{}, nil
	}
	var rows []domain.CourseVideoOrder
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("sort_order asc").
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

// ListByCourse returns the ordered video ids of one course.
func (r *VideoOrderRepository) ListByCourse(ctx context.Context, courseID uint) ([]string, error) {
	rows, err := r.ListByCourseIDs(ctx, []uint{courseID})
	if err != nil {
		return nil, err
	}
	return OrderMap(rows)[courseID], nil
}

// Replace swaps the whole order of a course for orderedVideoIDs. Delete and
// insert share one transaction so readers never see a half-written order.
// An empty list clears the course.
func (r *VideoOrderRepository) Replace(ctx context.Context, courseID uint, orderedVideoIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course domain.Course
		if err := tx.Select("id").First(&course, "id = ?", courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCourseNotFound
			}
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&domain.CourseVideoOrder{}).Error; err != nil {
			return err
		}
		return insertOrders(tx, courseID, orderedVideoIDs)
	})
}

func insertOrders(tx *gorm.DB, courseID uint, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}
	rows := make([]domain.CourseVideoOrder, 0, len(videoIDs))
	for i, id := range videoIDs {
		rows = append(rows, domain.CourseVideoOrder{
			CourseID:  courseID,
			VimeoID:   id,
			SortOrder: i + 1,
		})
	}
	return tx.Create(&rows).Error
}

// OrderMap groups rows (already sorted) into course id -> ordered video ids.
func OrderMap(rows []domain.CourseVideoOrder) map[uint][]string {
	out := make(map[uint][]string)
	for _, row := range rows {
		out[row.CourseID] = append(out[row.CourseID], row.VimeoID)
	}
	return out
}
