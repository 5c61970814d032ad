package output

import (
	"time"

	"github.com/ccollicutt/srtfix/pkg/fixer"
)

func createTestReport() *Report {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	result := &fixer.Result{
		Lines: make([]string, 12),
		Issues: []fixer.Issue{
			{
				Line:     2,
				Original: "01:00,900 --> 01:01,800",
				Fixed:    "00:01:00,900 --> 00:01:01,800",
				Tags:     []fixer.Tag{fixer.TagMissingHoursLeft, fixer.TagMissingHoursRight},
			},
			{
				Line:     6,
				Original: "1:3x,500 --> 2:00,500",
				Fixed:    "1:3x,500 --> 2:00,500",
				Tags:     []fixer.Tag{fixer.TagUnparseable},
				Error:    `start: timestamp "1:3x,500": non-numeric group "3x"`,
			},
			{
				Line:     10,
				Original: "1:30,500  2:00,500",
				Fixed:    "00:01:30,500 --> 00:02:00,500",
				Tags: []fixer.Tag{
					fixer.TagMissingHoursLeft, fixer.TagMissingHoursRight,
					fixer.TagMissingArrow, fixer.TagDigitPadding,
				},
			},
		},
		Metadata: fixer.Metadata{
			Source:         "movie.srt",
			TotalLines:     12,
			TimestampLines: 3,
			StartTime:      start,
			EndTime:        start.Add(3 * time.Millisecond),
		},
	}

	report := NewReport(result)
	report.Metadata.Output = "movie_fixed.srt"
	report.Metadata.Backup = "movie.srt.bak"
	return report
}
