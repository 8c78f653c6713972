package triage

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propos/maintenance-engine/internal/domain"
)

// minDescriptionLength is the threshold below which a tenant-supplied
// description is considered too thin and gets replaced by the image verdict.
const minDescriptionLength = 20

// ErrRateLimited signals a transient quota failure from the image classifier.
// It triggers exactly one retry after a fixed backoff.
var ErrRateLimited = errors.New("image classifier rate limited")

// ImageVerdict is the structured result of external image analysis.
type ImageVerdict struct {
	Priority    domain.TicketPriority
	Title       string
	Description string
}

// ImageClassifier is the external image-analysis collaborator.
type ImageClassifier interface {
	Analyze(ctx context.Context, imagePath string) (*ImageVerdict, error)
}

// TriageText determines priority from ticket text alone. Emergency keywords
// take precedence over urgent ones; with no match the default is MEDIUM.
// Pure and idempotent.
func TriageText(title, description string) domain.TicketPriority {
	text := strings.ToLower(title + " " + description)

	for _, keyword := range emergencyKeywords {
		if strings.Contains(text, keyword) {
			return domain.TicketPriorityEmergency
		}
	}
	for _, keyword := range urgentKeywords {
		if strings.Contains(text, keyword) {
			return domain.TicketPriorityHigh
		}
	}
	return domain.TicketPriorityMedium
}

// Severity runs the image path of triage: a time-bounded classifier call with
// a single fixed-backoff retry on rate limiting, degrading to the submitted
// values on any final failure.
type Severity struct {
	classifier ImageClassifier
	timeout    time.Duration
	backoff    time.Duration
	logger     *zap.Logger
}

// NewSeverity constructs the triage helper. A nil classifier disables the
// image path entirely.
func NewSeverity(classifier ImageClassifier, timeout, backoff time.Duration, logger *zap.Logger) *Severity {
	return &Severity{classifier: classifier, timeout: timeout, backoff: backoff, logger: logger}
}

// AnalyzeImage invokes the classifier, retrying once after the configured
// backoff when the first attempt is rate limited. Returns nil on failure.
func (s *Severity) AnalyzeImage(ctx context.Context, imagePath string) *ImageVerdict {
	if s.classifier == nil {
		return nil
	}

	verdict, err := s.analyzeOnce(ctx, imagePath)
	if err == nil {
		return verdict
	}
	if !errors.Is(err, ErrRateLimited) {
		s.logger.Warn("image analysis failed", zap.String("image", imagePath), zap.Error(err))
		return nil
	}

	s.logger.Warn("image classifier rate limited, retrying once",
		zap.String("image", imagePath),
		zap.Duration("backoff", s.backoff))
	select {
	case <-time.After(s.backoff):
	case <-ctx.Done():
		return nil
	}

	verdict, err = s.analyzeOnce(ctx, imagePath)
	if err != nil {
		s.logger.Warn("image analysis retry failed", zap.String("image", imagePath), zap.Error(err))
		return nil
	}
	return verdict
}

func (s *Severity) analyzeOnce(ctx context.Context, imagePath string) (*ImageVerdict, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.classifier.Analyze(callCtx, imagePath)
}

// ApplyVerdict folds an image verdict into the ticket: the verdict's priority
// always wins, and when the submitted description is shorter than the minimum
// length the verdict's title/description replace it. The ticket is marked as
// SYSTEM-sourced in both cases.
func ApplyVerdict(ticket *domain.Ticket, verdict *ImageVerdict) {
	if verdict == nil {
		return
	}
	if domain.ValidPriority(verdict.Priority) {
		ticket.Priority = verdict.Priority
	}
	if len(ticket.Description) < minDescriptionLength {
		if verdict.Title != "" {
			ticket.Title = verdict.Title
		}
		if verdict.Description != "" {
			ticket.Description = verdict.Description
		}
	}
	ticket.Source = domain.TicketSourceSystem
}
