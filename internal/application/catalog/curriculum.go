package catalog

import (
	"fmt"
	"strings"

	"kbcportal/internal/domain"
)

// PreviewPolicy decides which lessons are free previews.
type PreviewPolicy interface {
	IsPreview(index int) bool
}

// FirstNPreview marks the first n lessons as previews.
type FirstNPreview int

func (n FirstNPreview) IsPreview(index int) bool { return index < int(n) }

type noPreview struct{}

func (noPreview) IsPreview(int) bool { return false }

// NoPreview marks no lesson as a preview.
var NoPreview PreviewPolicy = noPreview{}

const (
	PreviewPolicyFirstTwo = "first-two"
	PreviewPolicyNone     = "none"
)

// ParsePreviewPolicy resolves the configured policy name. There is no
// default: an empty or unknown name is an error.
func ParsePreviewPolicy(name string) (PreviewPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PreviewPolicyFirstTwo:
		return FirstNPreview(2), nil
	case PreviewPolicyNone:
		return NoPreview, nil
	case "":
		return nil, fmt.Errorf("preview policy is not configured (want %q or %q)", PreviewPolicyFirstTwo, PreviewPolicyNone)
	default:
		return nil, fmt.Errorf("unknown preview policy %q", name)
	}
}

type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Preview  bool   `json:"preview"`
}

type Section struct {
	Title     string   `json:"title"`
	TotalTime string   `json:"totalTime"`
	Lessons   []Lesson `json:"lessons"`
}

type Curriculum struct {
	Sections      []Section `json:"curriculum"`
	TotalLectures int       `json:"totalLectures"`
	TotalDuration string    `json:"totalDuration"`
	HeroVideoID   string    `json:"heroVideoId"`
	HasContent    bool      `json:"hasContent"`
}

// Lessons flattens all sections.
func (c Curriculum) Lessons() []Lesson {
	var out []Lesson
	for _, s := range c.Sections {
		out = append(out, s.Lessons...)
	}
	return out
}

// BuildCurriculum maps videos to lessons in input order. An empty list is
// the "no content" state and keeps fallbackHeroID as hero. policy is
// required; there is no implicit preview rule.
func BuildCurriculum(videos []domain.Video, fallbackHeroID string, policy PreviewPolicy) Curriculum {
	if len(videos) == 0 {
		return Curriculum{
			Sections:      []Section{},
			TotalLectures: 0,
			TotalDuration: FormatTotalDuration(0),
			HeroVideoID:   fallbackHeroID,
			HasContent:    false,
		}
	}
	lessons := make([]Lesson, len(videos))
	for i, v := range videos {
		lessons[i] = Lesson{
			ID:       v.ID,
			Title:    v.Title,
			Duration: FormatLessonDuration(v.DurationSeconds),
			Preview:  policy.IsPreview(i),
		}
	}

	total := FormatTotalDuration(TotalSeconds(videos))
	hero := lessons[0].ID
	if hero == "" {
		hero = fallbackHeroID
	}

	return Curriculum{
		Sections: []Section{{
			Title:     FullCurriculumTitle,
			TotalTime: total,
			Lessons:   lessons,
		}},
		TotalLectures: len(lessons),
		TotalDuration: total,
		HeroVideoID:   hero,
		HasContent:    true,
	}
}

// Neighbors locates lessonID in lessons. An unknown or empty id selects the
// first lesson. index is -1 when lessons is empty.
func Neighbors(lessons []Lesson, lessonID string) (index int, prev, next *Lesson) {
	if len(lessons) == 0 {
		return -1, nil, nil
	}
	index = 0
	for i, l := range lessons {
		if l.ID == lessonID {
			index = i
			break
		}
	}
	if index > 0 {
		prev = &lessons[index-1]
	}
	if index < len(lessons)-1 {
		next = &lessons[index+1]
	}
	return index, prev, next
}
