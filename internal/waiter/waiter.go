// Package waiter handles "call waiter" requests from a table.
package waiter

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// MaxTableLength bounds the table number input.
const MaxTableLength = 3

const defaultNotifyTimeout = 5 * time.Second

var (
	ErrTableRequired = errors.New("waiter: table number is required")
	ErrTableTooLong  = errors.New("waiter: table number is too long")
)

// Call is one accepted request for staff attention.
type Call struct {
	ID          string    `json:"id"`
	Table       string    `json:"table"`
	Lang        string    `json:"lang"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Notifier delivers calls to the staff.
type Notifier interface {
	Notify(ctx context.Context, call Call) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(context.Context, Call) error

func (f NotifierFunc) Notify(ctx context.Context, call Call) error { return f(ctx, call) }

// Option customises a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTimeout bounds each notification.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithEntropy replaces the ULID entropy source.
func WithEntropy(r io.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.entropy = r
		}
	}
}

// Service validates table numbers and forwards calls to a Notifier.
type Service struct {
	notifier Notifier
	now      func() time.Time
	timeout  time.Duration

	mu      sync.Mutex
	entropy io.Reader
}

func NewService(notifier Notifier, opts ...Option) *Service {
	s := &Service{
		notifier: notifier,
		now:      time.Now,
		timeout:  defaultNotifyTimeout,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeTable trims the input and enforces the length limit.
func NormalizeTable(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", ErrTableRequired
	}
	if utf8.RuneCountInString(table) > MaxTableLength {
		return "", ErrTableTooLong
	}
	return table, nil
}

// Call validates table and notifies the staff. Validation failures have no
// side effects.
func (s *Service) Call(ctx context.Context, table, lang string) (Call, error) {
	table, err := NormalizeTable(table)
	if err != nil {
		return Call{}, err
	}

	now := s.now().UTC()
	id, err := s.newID(now)
	if err != nil {
		return Call{}, fmt.Errorf("waiter: ticket id: %w", err)
	}
	call := Call{ID: id, Table: table, Lang: lang, RequestedAt: now}

	if s.notifier == nil {
		return call, nil
	}
	nctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.notifier.Notify(nctx, call); err != nil {
		return Call{}, fmt.Errorf("waiter: notify table %s: %w", table, err)
	}
	return call, nil
}

func (s *Service) newID(at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(at), s.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
