package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbcportal/internal/domain"
)

func TestBuildCurriculumEmpty(t *testing.T) {
	c := BuildCurriculum(nil, "76979871", FirstNPreview(2))
	assert.False(t, c.HasContent)
	assert.Equal(t, "0분", c.TotalDuration)
	assert.Equal(t, 0, c.TotalLectures)
	assert.Equal(t, "76979871", c.HeroVideoID)
	assert.Empty(t, c.Lessons())

	assert.Equal(t, "", BuildCurriculum([]domain.Video{}, "", NoPreview).HeroVideoID)
}

func TestBuildCurriculumKeepsOrderAndHero(t *testing.T) {
	videos := []domain.Video{
		video("v2", "Second", 90),
		video("v1", "First", 3661),
		video("v3", "Third", 0),
	}
	c := BuildCurriculum(videos, "fallback", NoPreview)

	require.True(t, c.HasContent)
	require.Len(t, c.Sections, 1)
	assert.Equal(t, FullCurriculumTitle, c.Sections[0].Title)
	assert.Equal(t, c.TotalDuration, c.Sections[0].TotalTime)
	assert.Equal(t, "v2", c.HeroVideoID)
	assert.Equal(t, 3, c.TotalLectures)
	assert.Equal(t, "1시간 02분", c.TotalDuration)

	lessons := c.Lessons()
	assert.Equal(t, []string{"v2", "v1", "v3"}, []string{lessons[0].ID, lessons[1].ID, lessons[2].ID})
	assert.Equal(t, "01:30", lessons[0].Duration)
	assert.Equal(t, "1시간 01분", lessons[1].Duration)
	assert.Equal(t, "--:--", lessons[2].Duration)
}

func TestBuildCurriculumPreviewPolicies(t *testing.T) {
	videos := []domain.Video{video("a", "a", 1), video("b", "b", 1), video("c", "c", 1)}

	firstTwo := BuildCurriculum(videos, "", FirstNPreview(2)).Lessons()
	assert.Equal(t, []bool{true, true, false}, []bool{firstTwo[0].Preview, firstTwo[1].Preview, firstTwo[2].Preview})

	none := BuildCurriculum(videos, "", NoPreview).Lessons()
	for _, l := range none {
		assert.False(t, l.Preview)
	}
}

func TestParsePreviewPolicy(t *testing.T) {
	p, err := ParsePreviewPolicy("first-two")
	require.NoError(t, err)
	assert.True(t, p.IsPreview(1))
	assert.False(t, p.IsPreview(2))

	p, err = ParsePreviewPolicy(" NONE ")
	require.NoError(t, err)
	assert.False(t, p.IsPreview(0))

	_, err = ParsePreviewPolicy("")
	assert.Error(t, err)
	_, err = ParsePreviewPolicy("all")
	assert.Error(t, err)
}

func TestNeighbors(t *testing.T) {
	lessons := []Lesson{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	idx, prev, next := Neighbors(lessons, "b")
	assert.Equal(t, 1, idx)
	assert.Equal(t, "a", prev.ID)
	assert.Equal(t, "c", next.ID)

	idx, prev, next = Neighbors(lessons, "missing")
	assert.Equal(t, 0, idx)
	assert.Nil(t, prev)
	assert.Equal(t, "b", next.ID)

	idx, _, next = Neighbors(lessons, "c")
	assert.Equal(t, 2, idx)
	assert.Nil(t, next)

	idx, prev, next = Neighbors(nil, "a")
	assert.Equal(t, -1, idx)
	assert.Nil(t, prev)
	assert.Nil(t, next)
}
