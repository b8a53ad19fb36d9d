package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbcportal/internal/domain"
)

func TestManualGroupsDropDanglingIDs(t *testing.T) {
	courses := []domain.Course{
		{ID: 1, Slug: "romans", Title: "로마서", Instructor: "김목사"},
		{ID: 2, Slug: "empty", Title: "Empty"},
	}
	orders := map[uint][]string{
		1: {"v2", "gone", "v1"},
	}
	videos := []domain.Video{video("v1", "one", 60), video("v2", "two", 60)}

	groups := ManualGroups(courses, orders, videos)
	require.Len(t, groups, 2)

	assert.Equal(t, "romans", groups[0].Slug)
	assert.Equal(t, []string{"v2", "v1"}, ids(groups[0].Videos))
	assert.Equal(t, "2분", groups[0].TotalDuration)
	assert.Equal(t, "김목사", groups[0].Meta.Instructor)
	assert.Equal(t, DefaultMeta.Subtitle, groups[0].Meta.Subtitle)
	assert.Equal(t, "로마서", groups[0].Meta.Title)

	assert.Equal(t, 0, groups[1].TotalLectures)
	assert.Equal(t, "0분", groups[1].TotalDuration)
	assert.NotNil(t, groups[1].Videos)
}

func TestReorderedCourseDrivesCurriculum(t *testing.T) {
	course := domain.Course{ID: 7, Slug: "intro", Title: "Intro"}
	videos := []domain.Video{video("v1", "one", 60), video("v2", "two", 60)}

	before := BuildCurriculum(CourseGroup(course, []string{"v1", "v2"}, videos).Videos, "", NoPreview)
	assert.Equal(t, "v1", before.HeroVideoID)

	after := BuildCurriculum(CourseGroup(course, []string{"v2", "v1"}, videos).Videos, "", NoPreview)
	lessons := after.Lessons()
	require.Len(t, lessons, 2)
	assert.Equal(t, "v2", lessons[0].ID)
	assert.Equal(t, "v1", lessons[1].ID)
	assert.Equal(t, "v2", after.HeroVideoID)
}

func TestFindGroup(t *testing.T) {
	groups := []Group{{Slug: "a"}, {Slug: "b"}}

	g, ok := FindGroup(groups, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", g.Slug)

	g, ok = FindGroup(groups, "zzz")
	assert.True(t, ok)
	assert.Equal(t, "a", g.Slug)

	_, ok = FindGroup(nil, "a")
	assert.False(t, ok)
}

func TestEmbedURL(t *testing.T) {
	assert.Equal(t,
		"https://player.vimeo.com/video/123?h=abc123&title=0&byline=0&portrait=0",
		EmbedURL("", "123", "abc123"))
	assert.Equal(t,
		"https://player.example.com/video/123?title=0&byline=0&portrait=0",
		EmbedURL("player.example.com/", "123", ""))
}

func TestPlaybackHash(t *testing.T) {
	hash := "deadbeef"
	videos := []domain.Video{{ID: "1"}, {ID: "2", PlaybackHash: &hash}}
	assert.Equal(t, "deadbeef", PlaybackHash(videos, "2"))
	assert.Equal(t, "", PlaybackHash(videos, "1"))
	assert.Equal(t, "", PlaybackHash(videos, "3"))
}
