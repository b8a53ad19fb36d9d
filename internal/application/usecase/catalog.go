package usecase

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"kbcportal/internal/application/catalog"
	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/logger"
	"kbcportal/internal/infrastructure/repository"
	"kbcportal/internal/infrastructure/vimeo"
)

// CatalogUseCase composes the student-facing course pages from the video
// library and the persisted courses.
type CatalogUseCase struct {
	courses     *repository.CourseRepository
	orders      *repository.VideoOrderRepository
	videos      vimeo.VideoSource
	preview     catalog.PreviewPolicy
	playerHost  string
	definitions []catalog.Definition
	log         *logger.Logger
}

func NewCatalogUseCase(
	courses *repository.CourseRepository,
	orders *repository.VideoOrderRepository,
	videos vimeo.VideoSource,
	preview catalog.PreviewPolicy,
	playerHost string,
	log *logger.Logger,
) *CatalogUseCase {
	if preview == nil {
		panic("usecase: catalog preview policy is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogUseCase{
		courses:     courses,
		orders:      orders,
		videos:      videos,
		preview:     preview,
		playerHost:  playerHost,
		definitions: catalog.DefaultCatalog,
		log:         log.With("usecase", "catalog"),
	}
}

// WithDefinitions swaps the static catalog used while no course is active.
func (uc *CatalogUseCase) WithDefinitions(defs []catalog.Definition) *CatalogUseCase {
	uc.definitions = defs
	return uc
}

type CourseView struct {
	Slug         string             `json:"slug"`
	Title        string             `json:"title"`
	Meta         catalog.Meta       `json:"meta"`
	CoverImage   *string            `json:"coverImage"`
	HeroEmbedURL string             `json:"heroEmbedUrl"`
	Curriculum   catalog.Curriculum `json:"curriculum"`
}

type LessonView struct {
	CourseSlug  string             `json:"courseSlug"`
	CourseTitle string             `json:"courseTitle"`
	Meta        catalog.Meta       `json:"meta"`
	Curriculum  catalog.Curriculum `json:"curriculum"`
	Current     *catalog.Lesson    `json:"current"`
	Index       int                `json:"index"`
	Prev        *catalog.Lesson    `json:"prev"`
	Next        *catalog.Lesson    `json:"next"`
	Progress    int                `json:"progress"`
	EmbedURL    string             `json:"embedUrl"`
}

// fetchVideos never fails: an upstream error is logged and the page renders
// with no videos.
func (uc *CatalogUseCase) fetchVideos(ctx context.Context) []domain.Video {
	videos, err := uc.videos.ListVideos(ctx)
	if err != nil {
		uc.log.Warn("video library unavailable", "error", err)
		return []domain.Video{}
	}
	return videos
}

// ListGroups returns the course groups students see. Active persisted
// courses win; with none active the static catalog is matched against the
// library.
func (uc *CatalogUseCase) ListGroups(ctx context.Context) ([]catalog.Group, error) {
	var (
		videos []domain.Video
		active []domain.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		videos = uc.fetchVideos(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		active, err = uc.courses.ListActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uc.groups(ctx, active, videos)
}

func (uc *CatalogUseCase) groups(ctx context.Context, active []domain.Course, videos []domain.Video) ([]catalog.Group, error) {
	if len(active) == 0 {
		return catalog.Match(videos, uc.definitions), nil
	}
	ids := make([]uint, len(active))
	for i, c := range active {
		ids[i] = c.ID
	}
	rows, err := uc.orders.ListByCourseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return catalog.ManualGroups(active, repository.OrderMap(rows), videos), nil
}

// CourseDetail renders one course. An unknown slug falls back to the first
// group, and with no groups at all the "no content" state is returned.
func (uc *CatalogUseCase) CourseDetail(ctx context.Context, slug string) (*CourseView, error) {
	groups, err := uc.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	group, ok := catalog.FindGroup(groups, slug)
	if !ok {
		meta := catalog.DefaultMeta
		return &CourseView{
			Slug:         slug,
			Title:        meta.Title,
			Meta:         meta,
			Curriculum:   catalog.BuildCurriculum(nil, meta.HeroVideoID, uc.preview),
			HeroEmbedURL: catalog.EmbedURL(uc.playerHost, meta.HeroVideoID, ""),
		}, nil
	}

	cur := catalog.BuildCurriculum(group.Videos, group.Meta.HeroVideoID, uc.preview)
	return &CourseView{
		Slug:         group.Slug,
		Title:        group.Title,
		Meta:         group.Meta,
		CoverImage:   group.CoverImage,
		Curriculum:   cur,
		HeroEmbedURL: catalog.EmbedURL(uc.playerHost, cur.HeroVideoID, catalog.PlaybackHash(group.Videos, cur.HeroVideoID)),
	}, nil
}

// Lesson renders the player page. A persisted course with slug wins (in
// any status); otherwise the heuristic group with that exact slug is used.
func (uc *CatalogUseCase) Lesson(ctx context.Context, slug, lessonID string) (*LessonView, error) {
	var (
		videos []domain.Video
		course *domain.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		videos = uc.fetchVideos(gctx)
		return nil
	})
	g.Go(func() error {
		c, err := uc.courses.GetBySlug(gctx, slug)
		if errors.Is(err, domain.ErrCourseNotFound) {
			return nil
		}
		course = c
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		meta       catalog.Meta
		title      string
		courseSlug string
		selected   []domain.Video
	)
	if course != nil {
		ids, err := uc.orders.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		meta = catalog.CourseMeta(*course)
		title = course.Title
		courseSlug = course.Slug
		selected = catalog.ResolveOrder(ids, videos)
	} else {
		group, found := findExact(catalog.Match(videos, uc.definitions), slug)
		if !found {
			return nil, domain.ErrCourseNotFound
		}
		meta = group.Meta
		title = group.Title
		courseSlug = group.Slug
		selected = group.Videos
	}

	cur := catalog.BuildCurriculum(selected, meta.HeroVideoID, uc.preview)
	view := &LessonView{
		CourseSlug:  courseSlug,
		CourseTitle: title,
		Meta:        meta,
		Curriculum:  cur,
		Index:       -1,
	}

	lessons := cur.Lessons()
	if len(lessons) == 0 {
		return view, nil
	}

	idx, prev, next := catalog.Neighbors(lessons, lessonID)
	current := lessons[idx]
	view.Current = &current
	view.Index = idx
	view.Prev = prev
	view.Next = next
	view.Progress = progress(idx, len(lessons))
	view.EmbedURL = catalog.EmbedURL(uc.playerHost, current.ID, catalog.PlaybackHash(selected, current.ID))
	return view, nil
}

func findExact(groups []catalog.Group, slug string) (catalog.Group, bool) {
	for _, g := range groups {
		if g.Slug == slug {
			return g, true
		}
	}
	return catalog.Group{}, false
}

// progress is the rounded percentage of lessons up to and including idx.
func progress(idx, total int) int {
	if total == 0 {
		return 0
	}
	return ((idx+1)*200 + total) / (2 * total)
}
