package export

import (
	"fmt"
	"strings"
	"time"

	"helios-dashboard/internal/domain"
)

// RenderMarkdown renders a summary as Markdown string.
func RenderMarkdown(s *Summary) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Sensor Export\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Moving average window: %d samples\n\n", s.Window))
	if s.Range != nil {
		sb.WriteString(fmt.Sprintf("Range: %s\n\n", s.Range.String()))
	} else {
		sb.WriteString("Range: full series\n\n")
	}

	// Series
	sb.WriteString("## Series\n\n")
	if len(s.Series) > 0 {
		sb.WriteString("| Series | Points | From | To | Min | Max | Mean | Last MA |\n")
		sb.WriteString("|--------|--------|------|----|-----|-----|------|---------|\n")
		for _, row := range s.Series {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %.4f | %.4f | %.4f | %.4f |\n",
				row.Label, row.Points,
				formatTime(row.Start), formatTime(row.End),
				row.Min, row.Max, row.Mean, row.LastMA))
		}
	} else {
		sb.WriteString("No data for the selected sensors.\n")
	}
	sb.WriteString("\n")

	// Distribution
	if len(s.Series) > 0 {
		sb.WriteString("## Distribution\n\n")
		sb.WriteString("| Series | Std Dev | P10 | Median | P90 |\n")
		sb.WriteString("|--------|---------|-----|--------|-----|\n")
		for _, row := range s.Series {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %.4f |\n",
				row.Label, row.StdDev, row.P10, row.Median, row.P90))
		}
		sb.WriteString("\n")
	}

	// Skipped selections
	if len(s.Skipped) > 0 {
		sb.WriteString("## Skipped\n\n")
		for _, label := range s.Skipped {
			sb.WriteString(fmt.Sprintf("- %s\n", label))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(domain.WallClockLayout)
}
