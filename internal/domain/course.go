package domain

import (
	"errors"
	"time"
)

var (
	ErrCourseNotFound = errors.New("course not found")
)

const (
	CourseStatusActive   = "active"
	CourseStatusInactive = "inactive"

	MatchTypeManual = "manual"
)

type Course struct {
	ID          uint   `gorm:"primaryKey"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Title       string `gorm:"not null"`
	Subtitle    string
	Instructor  string
	Level       string
	LastUpdated string
	HeroVimeoID string
	MatchType   string `gorm:"default:'manual'"`
	MatchValue  string
	Status      string `gorm:"index;default:'active'"`
	SortOrder   int    `gorm:"index;default:0"`

	// Order rows belong to the course and go away with it
	VideoOrders []CourseVideoOrder `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Course) IsActive() bool {
	return c.Status == CourseStatusActive
}

// CourseVideoOrder is one position of a video inside a course. SortOrder is
// 1-based and dense per course.
type CourseVideoOrder struct {
	ID        uint   `gorm:"primaryKey"`
	CourseID  uint   `gorm:"index;not null"`
	VimeoID   string `gorm:"not null"`
	SortOrder int    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CourseUpdate carries the admin-editable course fields. Nil means "keep".
type CourseUpdate struct {
	Title       *string
	Subtitle    *string
	Instructor  *string
	Level       *string
	LastUpdated *string
	HeroVimeoID *string
	Status      *string
}

func (u CourseUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Subtitle != nil {
		cols["subtitle"] = *u.Subtitle
	}
	if u.Instructor != nil {
		cols["instructor"] = *u.Instructor
	}
	if u.Level != nil {
		cols["level"] = *u.Level
	}
	if u.LastUpdated != nil {
		cols["last_updated"] = *u.LastUpdated
	}
	if u.HeroVimeoID != nil {
		cols["hero_vimeo_id"] = *u.HeroVimeoID
	}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	return cols
}
