package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/repository"
	"kbcportal/internal/testutil"
)

type fakeSource struct {
	videos        []domain.Video
	projects      []domain.Project
	projectVideos map[string][]domain.Video
	err           error
}

func (f *fakeSource) ListVideos(context.Context) ([]domain.Video, error) {
	return f.videos, f.err
}

func (f *fakeSource) ListProjectVideos(_ context.Context, id string) ([]domain.Video, error) {
	return f.projectVideos[id], f.err
}

func (f *fakeSource) ListProjects(context.Context) ([]domain.Project, error) {
	return f.projects, f.err
}

func video(id, title string, seconds float64) domain.Video {
	return domain.Video{ID: id, Title: title, DurationSeconds: seconds}
}

type stores struct {
	db      *gorm.DB
	courses *repository.CourseRepository
	orders  *repository.VideoOrderRepository
	users   *repository.UserRepository
}

func newStores(t *testing.T) stores {
	t.Helper()
	db := testutil.OpenDB(t)
	return stores{
		db:      db,
		courses: repository.NewCourseRepository(db),
		orders:  repository.NewVideoOrderRepository(db),
		users:   repository.NewUserRepository(db),
	}
}

func (s stores) course(t *testing.T, slug, status string, sortOrder int, videoIDs ...string) *domain.Course {
	t.Helper()
	c := &domain.Course{Slug: slug, Title: slug, Status: status, SortOrder: sortOrder, MatchType: domain.MatchTypeManual}
	require.NoError(t, s.courses.CreateWithVideos(context.Background(), c, videoIDs))
	return c
}

func isValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
