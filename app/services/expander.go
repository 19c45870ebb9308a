package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultExpandDelay mimics the latency of a remote text generation call.
const DefaultExpandDelay = 1500 * time.Millisecond

const tracerName = "todo-ai/services"

// Expander breaks a free-text prompt into subtask titles.
type Expander interface {
	Expand(ctx context.Context, prompt string) ([]string, error)
}

type keywordGroup struct {
	name     string
	keywords []string
	titles   []string
}

// Matched in order; the first group with a keyword in the prompt wins.
var keywordGroups = []keywordGroup{
	{
		name:     "celebration",
		keywords: []string{"party", "birthday"},
		titles:   []string{"Order the cake", "Send invitations", "Select a playlist"},
	},
	{
		name:     "software",
		keywords: []string{"code", "app", "project"},
		titles:   []string{"Setup Git Repo", "Design Database Schema", "Initialize API"},
	},
	{
		name:     "cooking",
		keywords: []string{"food", "dinner"},
		titles:   []string{"Buy Groceries", "Pre-heat Oven", "Chop Vegetables"},
	},
	{
		name:     "travel",
		keywords: []string{"travel", "trip"},
		titles:   []string{"Book Flights", "Reserve Hotel", "Pack Suitcase"},
	},
}

// KeywordExpander is a canned Expander that picks titles by keyword after a
// fixed delay.
type KeywordExpander struct {
	delay  time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
	tracer trace.Tracer
}

// NewKeywordExpander creates a KeywordExpander that waits delay before answering.
func NewKeywordExpander(delay time.Duration) *KeywordExpander {
	return &KeywordExpander{
		delay:  delay,
		sleep:  sleepContext,
		tracer: otel.Tracer(tracerName),
	}
}

// Expand returns three subtask titles for prompt. It fails only when ctx is
// done before the delay elapses.
func (e *KeywordExpander) Expand(ctx context.Context, prompt string) ([]string, error) {
	ctx, span := e.tracer.Start(ctx, "expander.expand")
	defer span.End()

	if err := e.sleep(ctx, e.delay); err != nil {
		span.RecordError(err)
		return nil, err
	}

	group, titles := matchKeywords(prompt)
	span.SetAttributes(
		attribute.String("expander.group", group),
		attribute.Int("expander.titles", len(titles)),
	)
	return titles, nil
}

func matchKeywords(prompt string) (string, []string) {
	lower := strings.ToLower(prompt)
	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.name, append([]string(nil), g.titles...)
			}
		}
	}
	return "fallback", []string{
		"Research: " + lower,
		"Draft outline for " + lower,
		"Review final draft",
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
