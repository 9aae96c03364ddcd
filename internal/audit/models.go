package audit

import (
	"strings"
	"time"
)

// Run is one persisted analysis run.
type Run struct {
	ID           string
	Title        string
	CreatedAt    time.Time
	VideoPaths   []string
	LogPath      string
	ReportPath   string
	ReportFormat string
	TestOutcome  string
	TotalSteps   int
	Observed     int
	Deviations   int
	Skipped      int
	NotVisible   int
	Altered      int
}

const videoPathSeparator = "\n"

func joinVideoPaths(paths []string) string {
	cleaned := make([]string, 0, len(paths))
	for _, path := range paths {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, videoPathSeparator)
}

func splitVideoPaths(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, videoPathSeparator)
}
