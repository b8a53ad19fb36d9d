package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"kbcportal/internal/domain"
)

var (
	lectureSuffix    = regexp.MustCompile(`^(.+?)\s*\d+\s*강`)
	seriesSeparators = []string{"_", " - ", " | ", " / "}
)

// Match partitions videos into course groups.
//
// With a non-empty catalog every definition claims, in catalog order, the
// still unclaimed videos its rule matches; whatever is left ends up in a
// trailing OtherTitle group. Without a catalog videos are grouped by
// SeriesTitle in first-seen order. Each video lands in exactly one group.
func Match(videos []domain.Video, definitions []Definition) []Group {
	if len(videos) == 0 {
		return []Group{}
	}
	if len(definitions) == 0 {
		return groupBySeries(videos)
	}

	claimed := make([]bool, len(videos))
	slugs := NewSlugger()
	groups := make([]Group, 0, len(definitions)+1)

	for i, def := range definitions {
		var items []domain.Video
		for j, v := range videos {
			if claimed[j] || !Matches(v.Title, def.Match) {
				continue
			}
			claimed[j] = true
			items = append(items, v)
		}

		meta := def.Meta
		if meta.Title == "" {
			meta.Title = def.Title
		}
		meta = MergeMeta(meta)
		groups = append(groups, newGroup(slugs.Assign(def.Slug, meta.Title, i), meta.Title, meta, items))
	}

	// contains "" matches everything that is left
	leftover := MatchRule{Kind: MatchContains, Value: ""}
	var rest []domain.Video
	for j, v := range videos {
		if !claimed[j] && Matches(v.Title, leftover) {
			rest = append(rest, v)
		}
	}
	if len(rest) > 0 {
		meta := MergeMeta(Meta{Title: OtherTitle})
		groups = append(groups, newGroup(slugs.Assign("", OtherTitle, len(groups)), OtherTitle, meta, rest))
	}

	return groups
}

func groupBySeries(videos []domain.Video) []Group {
	grouped := make(map[string][]domain.Video)
	var order []string

	for _, v := range videos {
		series := SeriesTitle(v.Title)
		if _, ok := grouped[series]; !ok {
			order = append(order, series)
		}
		grouped[series] = append(grouped[series], v)
	}

	slugs := NewSlugger()
	groups := make([]Group, 0, len(order))
	for i, title := range order {
		meta := MergeMeta(Meta{Title: title})
		groups = append(groups, newGroup(slugs.Assign("", title, i), title, meta, grouped[title]))
	}
	return groups
}

// SeriesTitle guesses the series a video belongs to from its title:
// "<series> 3강" gives "<series>", "<series>_<rest>" and friends give the
// head when it is at least two characters, anything else is its own series.
func SeriesTitle(title string) string {
	cleaned := strings.TrimSpace(title)
	if cleaned == "" {
		return OtherTitle
	}

	if m := lectureSuffix.FindStringSubmatch(cleaned); m != nil {
		if head := strings.TrimSpace(m[1]); head != "" {
			return head
		}
	}

	for _, sep := range seriesSeparators {
		idx := strings.Index(cleaned, sep)
		if idx <= 0 {
			continue
		}
		head := strings.TrimSpace(cleaned[:idx])
		if utf8.RuneCountInString(head) >= 2 {
			return head
		}
	}

	return cleaned
}

func newGroup(slug, title string, meta Meta, videos []domain.Video) Group {
	if videos == nil {
		videos = []domain.Video{}
	}
	var cover *string
	for _, v := range videos {
		if v.ThumbnailURL != nil && *v.ThumbnailURL != "" {
			cover = v.ThumbnailURL
			break
		}
	}
	return Group{
		Slug:          slug,
		Title:         title,
		Meta:          meta,
		Videos:        videos,
		TotalLectures: len(videos),
		TotalDuration: FormatTotalDuration(TotalSeconds(videos)),
		CoverImage:    cover,
	}
}
