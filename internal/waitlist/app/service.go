package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/ratelimit"

	"github.com/lockin-coffee/storefront/internal/waitlist/domain"
)

var ErrInvalidInput = errors.New("invalid input")

// Sender delivers one entry to the external form collector.
type Sender interface {
	Send(ctx context.Context, e domain.Entry) error
}

// Service accepts waitlist submissions fire-and-forget: Submit validates,
// enqueues and returns immediately; a background sender delivers at a capped
// rate. Delivery failures are logged and never surfaced — the UX contract is
// that a submission always reads as accepted.
type Service struct {
	sender Sender
	rl     ratelimit.Limiter
	log    *slog.Logger
	queue  chan domain.Entry
}

func NewService(sender Sender, perSecond, queueSize int, log *slog.Logger) *Service {
	if perSecond <= 0 {
		perSecond = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Service{
		sender: sender,
		rl:     ratelimit.New(perSecond),
		log:    log,
		queue:  make(chan domain.Entry, queueSize),
	}
}

// Submit validates and enqueues an entry. The timestamp is stamped here if
// the caller left it zero. A full queue drops the entry with a diagnostic;
// the caller still sees success.
func (s *Service) Submit(e domain.Entry) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)

	if e.Name == "" || !strings.Contains(e.Email, "@") {
		return ErrInvalidInput
	}
	if !e.Source.Valid() {
		return ErrInvalidInput
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	select {
	case s.queue <- e:
	default:
		s.log.Warn("waitlist queue full, dropping entry", slog.String("email", e.Email))
	}
	return nil
}

// Run drains the queue until ctx is done. Meant to be started once under the
// process run group.
func (s *Service) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-s.queue:
			s.rl.Take()
			if err := s.sender.Send(ctx, e); err != nil {
				// Deliberate: failures stay invisible to the user.
				s.log.Warn("waitlist delivery failed",
					slog.String("email", e.Email), slog.Any("err", err))
			} else {
				s.log.Info("waitlist entry delivered",
					slog.String("product", e.Product))
			}
		}
	}
}
