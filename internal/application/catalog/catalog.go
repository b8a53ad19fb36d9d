// Package catalog turns the video host library and the admin-curated course
// rows into render-ready course groups and curricula. Everything here is pure:
// no I/O, no errors, empty input gives empty output.
package catalog

import (
	"strings"

	"kbcportal/internal/domain"

	"golang.org/x/text/unicode/norm"
)

const (
	// OtherTitle collects videos no course definition claimed.
	OtherTitle = "기타"
	// FullCurriculumTitle is the title of the single curriculum section.
	FullCurriculumTitle = "전체 커리큘럼"
)

type MatchKind string

const (
	MatchPrefix   MatchKind = "prefix"
	MatchContains MatchKind = "contains"
	MatchEquals   MatchKind = "equals"
)

type MatchRule struct {
	Kind  MatchKind `json:"type"`
	Value string    `json:"value"`
}

// Meta is the presentational data shown on a course card and course page.
type Meta struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Instructor  string `json:"instructor"`
	Level       string `json:"level"`
	LastUpdated string `json:"lastUpdated"`
	HeroVideoID string `json:"heroVimeoId,omitempty"`
}

// Definition declares a course of the static catalog.
type Definition struct {
	Slug  string
	Title string
	Meta  Meta
	Match MatchRule
}

// Group is a course materialized for one render.
type Group struct {
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Meta          Meta           `json:"meta"`
	Videos        []domain.Video `json:"videos"`
	TotalLectures int            `json:"totalLectures"`
	TotalDuration string         `json:"totalDuration"`
	CoverImage    *string        `json:"coverImage"`
}

var DefaultMeta = Meta{
	Title:       "강의",
	Subtitle:    "하나님의 말씀을 깊이 묵상하고, 삶에 적용하는 체계적인 성경 훈련 과정입니다.",
	Instructor:  "킹덤바이블칼리지",
	Level:       "입문 - 초급",
	LastUpdated: "2026.02.01",
	HeroVideoID: "76979871",
}

// DefaultCatalog is used only while no course rows are active.
var DefaultCatalog = []Definition{
	{
		Slug:  "post-encounter",
		Title: "포스트인카운터",
		Meta: Meta{
			Title:       "포스트인카운터",
			Subtitle:    "사역과 은혜의 여정을 함께 배우는 집중 강의입니다.",
			Instructor:  "황성은 목사",
			Level:       "입문 - 초급",
			LastUpdated: "2026.02.01",
			HeroVideoID: "76979871",
		},
		Match: MatchRule{Kind: MatchPrefix, Value: "포스트인카운터"},
	},
}

// MergeMeta overlays the non-empty fields of m on DefaultMeta.
func MergeMeta(m Meta) Meta {
	out := DefaultMeta
	if m.Title != "" {
		out.Title = m.Title
	}
	if m.Subtitle != "" {
		out.Subtitle = m.Subtitle
	}
	if m.Instructor != "" {
		out.Instructor = m.Instructor
	}
	if m.Level != "" {
		out.Level = m.Level
	}
	if m.LastUpdated != "" {
		out.LastUpdated = m.LastUpdated
	}
	if m.HeroVideoID != "" {
		out.HeroVideoID = m.HeroVideoID
	}
	return out
}

func normalize(value string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(value)))
}

// Matches reports whether title satisfies rule, ignoring case and
// surrounding whitespace.
func Matches(title string, rule MatchRule) bool {
	source := normalize(title)
	target := normalize(rule.Value)

	switch rule.Kind {
	case MatchPrefix:
		return strings.HasPrefix(source, target)
	case MatchContains:
		return strings.Contains(source, target)
	default:
		return source == target
	}
}
