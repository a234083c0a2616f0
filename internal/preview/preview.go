// Package preview builds link previews (title, image, price) for product URLs.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lukman83/giftlist-preview/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFetchTimeout  = 8 * time.Second
	DefaultHardDeadline  = 9 * time.Second
	DefaultMaxConcurrent = 4
)

type Options struct {
	// FetchTimeout bounds the HTTP request; expiry cancels it.
	FetchTimeout time.Duration
	// HardDeadline bounds the whole preview, even if the fetch ignores cancellation.
	HardDeadline time.Duration
	// MaxConcurrent limits parallel fetches in PreviewMany.
	MaxConcurrent int
}

func (o Options) withDefaults() Options {
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.HardDeadline <= 0 {
		o.HardDeadline = DefaultHardDeadline
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	return o
}

// Service builds previews. It is stateless between calls and safe for
// concurrent use.
type Service struct {
	fetcher *Fetcher
	logger  *zap.Logger
	opts    Options
}

func NewService(fetcher *Fetcher, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		logger:  logger,
		opts:    opts.withDefaults(),
	}
}

// Preview fetches rawURL and extracts its preview. It never fails: any
// error, timeout or panic yields Fallback for the cleaned URL.
func (s *Service) Preview(ctx context.Context, rawURL string) *models.Preview {
	cleaned, err := CleanTrackingParams(rawURL)
	if err != nil {
		s.logger.Debug("preview input rejected", zap.String("url", rawURL), zap.Error(err))
		return Fallback(strings.TrimSpace(rawURL))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		preview *models.Preview
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		p, err := s.run(runCtx, cleaned)
		done <- outcome{preview: p, err: err}
	}()

	timer := time.NewTimer(s.opts.HardDeadline)
	defer timer.Stop()

	select {
	case o := <-done:
		if o.err != nil {
			s.logger.Debug("preview degraded to fallback", zap.String("url", cleaned), zap.Error(o.err))
			return Fallback(cleaned)
		}
		return o.preview
	case <-timer.C:
		s.logger.Warn("preview hit hard deadline",
			zap.String("url", cleaned),
			zap.Duration("deadline", s.opts.HardDeadline))
		return Fallback(cleaned)
	case <-ctx.Done():
		s.logger.Debug("preview cancelled by caller", zap.String("url", cleaned), zap.Error(ctx.Err()))
		return Fallback(cleaned)
	}
}

func (s *Service) run(ctx context.Context, cleaned string) (*models.Preview, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	ReportProgress(ctx, fmt.Sprintf("Fetching %s...", hostFallback(cleaned)))
	page, err := s.fetcher.Fetch(fetchCtx, cleaned)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("fetch timed out after %s: %w", s.opts.FetchTimeout, err)
		}
		return nil, err
	}

	ReportProgress(ctx, fmt.Sprintf("Extracting metadata from %s...", page.URL.Host))
	doc, err := parseDocument(bytes.NewReader(page.Body))
	if err != nil {
		return nil, err
	}

	p := extract(doc, page.URL, cleaned)
	s.logger.Debug("preview extracted",
		zap.String("url", cleaned),
		zap.String("title_source", string(p.Source.Title)),
		zap.String("image_source", string(p.Source.Image)),
		zap.String("price_source", string(p.Source.Price)))
	return p, nil
}

// PreviewMany previews urls concurrently; results follow input order.
func (s *Service) PreviewMany(ctx context.Context, urls []string) []*models.Preview {
	results := make([]*models.Preview, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrent)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = s.Preview(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Fallback is the preview returned when nothing could be fetched or parsed.
func Fallback(pageURL string) *models.Preview {
	return &models.Preview{
		Title: hostFallback(pageURL),
		URL:   pageURL,
		Source: models.Source{
			Title: models.TitleFallback,
			Image: models.ImageNone,
			Price: models.PriceNone,
		},
	}
}
