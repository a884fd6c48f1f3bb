package pipeline

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/mirror-factory/event-sync-service/internal/domain"
)

// report logs the post-run quality summary: accepted counts per source,
// rejection breakdown, empty-description ratio, and duplicates merged. The
// point is that silent data loss shows up in the log of the run that caused
// it.
func (p *Pipeline) report(accepted []domain.Event, rejections map[domain.RejectReason]int, merged int, logger *slog.Logger) {
	type sourceCount struct {
		name  string
		count int
	}

	counts := make(map[string]int)
	emptyDescriptions := 0
	for _, e := range accepted {
		key := string(e.Source.Type)
		if e.Source.Site != "" {
			key = e.Source.Site
		}
		counts[key]++
		if strings.TrimSpace(e.Description) == "" {
			emptyDescriptions++
		}
	}

	bySource := make([]sourceCount, 0, len(counts))
	for name, count := range counts {
		bySource = append(bySource, sourceCount{name, count})
	}
	sort.Slice(bySource, func(i, j int) bool {
		if bySource[i].count != bySource[j].count {
			return bySource[i].count > bySource[j].count
		}
		return bySource[i].name < bySource[j].name
	})

	logger.Info("quality report", "accepted", len(accepted), "duplicates_merged", merged)
	for _, sc := range bySource {
		logger.Info("events by source", "source", sc.name, "count", sc.count)
	}

	totalRejected := 0
	for _, n := range rejections {
		totalRejected += n
	}
	if totalRejected > 0 {
		logger.Warn("events rejected", "total", totalRejected)
		for _, reason := range []domain.RejectReason{
			domain.RejectOutOfBounds,
			domain.RejectMissingCoords,
			domain.RejectDowntownFallback,
			domain.RejectSchemaInvalid,
		} {
			if n := rejections[reason]; n > 0 {
				logger.Warn("rejection reason", "reason", reason, "count", n)
			}
		}
	} else {
		logger.Info("no events rejected")
	}

	if emptyDescriptions > 0 && len(accepted) > 0 {
		pct := float64(emptyDescriptions) / float64(len(accepted)) * 100
		logger.Warn("events with empty descriptions", "count", emptyDescriptions, "percent", pct)
	}
}
