package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
	"github.com/hunterworks/hunter-factory/internal/logger"
)

const (
	// pushAttempts bounds push retries. Push failures are recorded, never
	// raised: by the time delivery runs the article already exists.
	pushAttempts = 3
	pushBackoff  = 2 * time.Second
)

// Delivery persists a packaged article and pushes a notification about it.
// Persistence comes first: a push is only attempted for an article that is
// durably stored, so a notification never points at nothing. Neither
// failure changes the run outcome.
type Delivery struct {
	output  driven.OutputStore
	channel driven.NotificationChannel
	filter  *ContentFilter

	sleep func(ctx context.Context, d time.Duration) error
}

// NewDelivery wires the delivery adapter. channel may be nil when push is
// not configured; the article is still persisted.
func NewDelivery(output driven.OutputStore, channel driven.NotificationChannel) *Delivery {
	return &Delivery{
		output:  output,
		channel: channel,
		filter:  NewContentFilter(nil, nil),
		sleep:   sleepCtx,
	}
}

// SetContentFilter replaces the default publication filter, for deployments
// with their own banned-phrase list.
func (d *Delivery) SetContentFilter(f *ContentFilter) {
	d.filter = f
}

// Deliver refines, persists, then pushes. Trace-phrase cleanup happens
// before the article is stored; banned phrases that survive cleanup block
// the push but not persistence, so a human can fix the stored copy. The
// returned result records exactly what happened; Deliver itself never
// fails.
func (d *Delivery) Deliver(ctx context.Context, runID string, article domain.PackagedArticle) domain.DeliveryResult {
	var result domain.DeliveryResult

	report := d.refine(&article)
	if len(report.Replaced) > 0 {
		logger.Debug("cleaned %d trace phrases for run %s", len(report.Replaced), runID)
	}

	location, err := d.output.Write(ctx, runID, renderArticle(article))
	if err != nil {
		result.Reason = fmt.Sprintf("persist failed: %v", err)
		logger.Warn("delivery for run %s: %s", runID, result.Reason)
		return result
	}
	result.Persisted = true
	result.Location = location
	logger.Info("article persisted at %s", location)

	if !report.Passed {
		result.Reason = fmt.Sprintf("push blocked: banned phrases: %s", strings.Join(report.Found, ", "))
		logger.Warn("delivery for run %s: %s", runID, result.Reason)
		return result
	}

	if d.channel == nil {
		result.Reason = "push not configured"
		return result
	}

	if err := d.push(ctx, article); err != nil {
		result.Reason = fmt.Sprintf("push failed: %v", err)
		logger.Warn("delivery for run %s: %s", runID, result.Reason)
		return result
	}
	result.Pushed = true
	return result
}

// refine cleans the article's title and body in place and reports what
// the filter found after cleanup.
func (d *Delivery) refine(article *domain.PackagedArticle) FilterReport {
	if d.filter == nil {
		return FilterReport{Passed: true}
	}

	cleanedTitle, titleReplaced := d.filter.Clean(article.Title)
	article.Title = cleanedTitle

	cleanedBody, report := d.filter.CheckAndClean(article.Body)
	article.Body = cleanedBody
	report.Replaced = append(titleReplaced, report.Replaced...)

	if titleReport := d.filter.Check(article.Title); !titleReport.Passed {
		report.Passed = false
		report.Found = append(report.Found, titleReport.Found...)
		sort.Strings(report.Found)
	}
	return report
}

func (d *Delivery) push(ctx context.Context, article domain.PackagedArticle) error {
	body := article.Summary
	if body == "" {
		body = article.Body
	}

	var lastErr error
	for attempt := 1; attempt <= pushAttempts; attempt++ {
		lastErr = d.channel.Send(ctx, article.Title, body)
		if lastErr == nil {
			return nil
		}
		if attempt < pushAttempts {
			if err := d.sleep(ctx, pushBackoff); err != nil {
				return lastErr
			}
		}
	}
	return fmt.Errorf("%w: %d attempts: %v", domain.ErrDeliveryFailure, pushAttempts, lastErr)
}

// renderArticle produces the persisted markdown form of an article.
func renderArticle(article domain.PackagedArticle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", article.Title)
	if article.Summary != "" {
		fmt.Fprintf(&b, "> %s\n\n", article.Summary)
	}
	b.WriteString(article.Body)
	if !strings.HasSuffix(article.Body, "\n") {
		b.WriteByte('\n')
	}
	if len(article.SEOKeywords) > 0 {
		fmt.Fprintf(&b, "\nKeywords: %s\n", strings.Join(article.SEOKeywords, ", "))
	}
	return b.String()
}
