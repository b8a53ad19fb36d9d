package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"kbcportal/internal/application/catalog"
	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/logger"
	"kbcportal/internal/infrastructure/repository"
	"kbcportal/internal/infrastructure/vimeo"
)

const (
	allProjects        = "all"
	allProjectsName    = "전체"
	unknownProjectName = "선택됨"
	fallbackSlug       = "course"
	createSlugAttempts = 3
)

type AdminUseCase struct {
	courses *repository.CourseRepository
	orders  *repository.VideoOrderRepository
	users   *repository.UserRepository
	videos  vimeo.VideoSource
	policy  PayloadPolicy
	log     *logger.Logger
}

func NewAdminUseCase(
	courses *repository.CourseRepository,
	orders *repository.VideoOrderRepository,
	users *repository.UserRepository,
	videos vimeo.VideoSource,
	policy PayloadPolicy,
	log *logger.Logger,
) *AdminUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminUseCase{
		courses: courses,
		orders:  orders,
		users:   users,
		videos:  videos,
		policy:  policy,
		log:     log.With("usecase", "admin"),
	}
}

type AdminVideo struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	DurationLabel string  `json:"durationLabel"`
	Thumbnail     *string `json:"thumbnail,omitempty"`
}

type AdminCourse struct {
	ID            uint         `json:"id"`
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Status        string       `json:"status"`
	SortOrder     int          `json:"sortOrder"`
	TotalLectures int          `json:"totalLectures"`
	Videos        []AdminVideo `json:"videos"`
}

type Dashboard struct {
	TotalCourses        int              `json:"totalCourses"`
	TotalVideos         int              `json:"totalVideos"`
	Projects            []domain.Project `json:"projects"`
	SelectedProjectID   string           `json:"selectedProjectId"`
	SelectedProjectName string           `json:"selectedProjectName"`
	Courses             []AdminCourse    `json:"courses"`
	PickerVideos        []AdminVideo     `json:"pickerVideos"`
}

func adminVideo(v domain.Video, withThumb bool) AdminVideo {
	av := AdminVideo{
		ID:            v.ID,
		Title:         v.Title,
		DurationLabel: catalog.FormatLessonDuration(v.DurationSeconds),
	}
	if withThumb {
		av.Thumbnail = v.ThumbnailURL
	}
	return av
}

// Dashboard collects what the course admin screen shows. projectID narrows
// the video picker to one library folder; "" and "all" mean everything.
func (uc *AdminUseCase) Dashboard(ctx context.Context, projectID string) (*Dashboard, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		projectID = allProjects
	}

	var (
		videos        []domain.Video
		projects      []domain.Project
		projectVideos []domain.Video
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := uc.videos.ListVideos(gctx)
		if err != nil {
			uc.log.Warn("video library unavailable", "error", err)
		}
		videos = v
		return nil
	})
	g.Go(func() error {
		p, err := uc.videos.ListProjects(gctx)
		if err != nil {
			uc.log.Warn("project list unavailable", "error", err)
		}
		projects = p
		return nil
	})
	if projectID != allProjects {
		g.Go(func() error {
			v, err := uc.videos.ListProjectVideos(gctx, projectID)
			if err != nil {
				uc.log.Warn("project videos unavailable", "project_id", projectID, "error", err)
			}
			projectVideos = v
			return nil
		})
	}
	_ = g.Wait()

	courses, err := uc.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	rows, err := uc.orders.ListByCourseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	orders := repository.OrderMap(rows)

	items := make([]AdminCourse, 0, len(courses))
	for _, c := range courses {
		selected := catalog.ResolveOrder(orders[c.ID], videos)
		vs := make([]AdminVideo, len(selected))
		for i, v := range selected {
			vs[i] = adminVideo(v, false)
		}
		items = append(items, AdminCourse{
			ID:            c.ID,
			Slug:          c.Slug,
			Title:         c.Title,
			Status:        c.Status,
			SortOrder:     c.SortOrder,
			TotalLectures: len(selected),
			Videos:        vs,
		})
	}

	picker := videos
	name := allProjectsName
	if projectID != allProjects {
		picker = projectVideos
		name = unknownProjectName
		for _, p := range projects {
			if p.ID == projectID {
				name = p.Name
				break
			}
		}
	}
	pickerVideos := make([]AdminVideo, len(picker))
	for i, v := range picker {
		pickerVideos[i] = adminVideo(v, true)
	}
	if projects == nil {
		projects = []domain.Project{}
	}

	return &Dashboard{
		TotalCourses:        len(courses),
		TotalVideos:         len(videos),
		Projects:            projects,
		SelectedProjectID:   projectID,
		SelectedProjectName: name,
		Courses:             items,
		PickerVideos:        pickerVideos,
	}, nil
}

// CreateCourse adds an active manual course. The slug comes from the title
// and is made unique by probing slug, slug-1, slug-2, ... against the
// stored courses.
func (uc *AdminUseCase) CreateCourse(ctx context.Context, title string, videoIDs []string) (*domain.Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}

	ids := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	base := catalog.Slugify(title)
	if base == "" {
		base = fallbackSlug
	}

	var lastErr error
	for attempt := 0; attempt < createSlugAttempts; attempt++ {
		slug, err := uc.freeSlug(ctx, base)
		if err != nil {
			return nil, err
		}
		course := &domain.Course{
			Slug:       slug,
			Title:      title,
			MatchType:  domain.MatchTypeManual,
			MatchValue: title,
			Status:     domain.CourseStatusActive,
			SortOrder:  0,
		}
		err = uc.courses.CreateWithVideos(ctx, course, ids)
		if err == nil {
			uc.log.Info("course created", "course_id", course.ID, "slug", slug, "videos", len(ids))
			return course, nil
		}
		// a concurrent create took the slug between lookup and insert
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("create course: %w", lastErr)
}

func (uc *AdminUseCase) freeSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for n := 1; ; n++ {
		taken, err := uc.courses.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func (uc *AdminUseCase) UpdateCourse(ctx context.Context, id uint, upd domain.CourseUpdate) (*domain.Course, error) {
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		if t == "" {
			return nil, invalid("title must not be empty")
		}
		upd.Title = &t
	}
	if upd.Status != nil && *upd.Status != domain.CourseStatusActive && *upd.Status != domain.CourseStatusInactive {
		return nil, invalid(fmt.Sprintf("status must be %q or %q", domain.CourseStatusActive, domain.CourseStatusInactive))
	}
	return uc.courses.Update(ctx, id, upd)
}

// ReorderCourses applies a new course order. rawIDs is the decoded JSON
// value of orderedIds.
func (uc *AdminUseCase) ReorderCourses(ctx context.Context, rawIDs interface{}) error {
	ids, err := uc.policy.CourseIDs(rawIDs)
	if err != nil {
		return err
	}
	return uc.courses.Reorder(ctx, ids)
}

// ReplaceVideoOrder swaps the video order of one course. A malformed course
// id or a non-array list rejects the request under either policy.
func (uc *AdminUseCase) ReplaceVideoOrder(ctx context.Context, rawCourseID, rawVideoIDs interface{}) error {
	courseID, ok := parseCourseID(rawCourseID)
	if !ok {
		return invalid(msgInvalidPayload)
	}
	ids, err := uc.policy.VideoIDs(rawVideoIDs)
	if err != nil {
		return err
	}
	return uc.orders.Replace(ctx, courseID, ids)
}

func (uc *AdminUseCase) DeleteCourse(ctx context.Context, rawID interface{}) error {
	id, ok := parseCourseID(rawID)
	if !ok {
		return invalid(msgInvalidID)
	}
	if err := uc.courses.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info("course deleted", "course_id", id)
	return nil
}

func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return uc.users.List(ctx)
}

func (uc *AdminUseCase) Approve(ctx context.Context, userID uint) error {
	return uc.users.UpdateStatus(ctx, userID, domain.UserStatusApproved)
}

// Revoke sends an approved member back to the waiting list.
func (uc *AdminUseCase) Revoke(ctx context.Context, userID uint) error {
	return uc.users.UpdateStatus(ctx, userID, domain.UserStatusPending)
}

func (uc *AdminUseCase) MakeAdmin(ctx context.Context, userID uint) error {
	return uc.users.UpdateRole(ctx, userID, domain.RoleAdmin)
}
