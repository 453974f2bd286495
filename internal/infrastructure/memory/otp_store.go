package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/pkg/clock"
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// OTPStore is a process-local OTPStore. One mutex guards the map, which makes
// every operation linearizable per key.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	clock   clock.Clocker
}

func NewOTPStore(c clock.Clocker) *OTPStore {
	if c == nil {
		c = clock.System{}
	}
	return &OTPStore{entries: make(map[string]otpEntry), clock: c}
}

func (s *OTPStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[email] = otpEntry{code: code, expiresAt: s.clock.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *OTPStore) Get(_ context.Context, email string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[email]
	if !ok {
		return "", false, nil
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(s.entries, email)
		return "", false, nil
	}
	return e.code, true, nil
}

func (s *OTPStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
	return nil
}

func (s *OTPStore) Consume(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[email]
	if !ok || e.code != code || !s.clock.Now().Before(e.expiresAt) {
		return false, nil
	}
	delete(s.entries, email)
	return true, nil
}

// Sweep drops every expired entry and reports how many were removed.
func (s *OTPStore) Sweep() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Run sweeps on every tick until ctx is done.
func (s *OTPStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

// Len is the number of stored entries, expired or not.
func (s *OTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ repository.OTPStore = (*OTPStore)(nil)
