package catalog

import (
	"fmt"
	"math"

	"kbcportal/internal/domain"
)

const LessonDurationPlaceholder = "--:--"

func validSeconds(seconds float64) bool {
	return !math.IsNaN(seconds) && !math.IsInf(seconds, 0) && seconds > 0
}

// FormatLessonDuration renders mm:ss, or "H시간 MM분" from one hour up.
func FormatLessonDuration(seconds float64) string {
	if !validSeconds(seconds) {
		return LessonDurationPlaceholder
	}
	minutes := int64(math.Floor(seconds / 60))
	secs := int64(math.Floor(math.Mod(seconds, 60)))
	if minutes >= 60 {
		return fmt.Sprintf("%d시간 %02d분", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatTotalDuration renders "H시간 MM분" from one hour up, else "M분".
// "0분" is reserved for an empty course: a positive total under a minute
// renders as "1분".
func FormatTotalDuration(seconds float64) string {
	if !validSeconds(seconds) {
		return "0분"
	}
	total := int64(math.Floor(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d시간 %02d분", hours, minutes)
	}
	if minutes == 0 {
		minutes = 1
	}
	return fmt.Sprintf("%d분", minutes)
}

// TotalSeconds sums the durations of videos, skipping non-finite and
// negative values.
func TotalSeconds(videos []domain.Video) float64 {
	var sum float64
	for _, v := range videos {
		if validSeconds(v.DurationSeconds) {
			sum += v.DurationSeconds
		}
	}
	return sum
}
