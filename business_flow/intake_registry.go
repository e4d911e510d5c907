package businessflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oroshi-mobile/simdesk/utils"
)

// intakeEntry couples a session with its optional scan buffer and idle stamp
type intakeEntry struct {
	session    *IntakeSession
	buffer     *ScanBuffer
	lastAccess time.Time
	// lastBufferErr records the outcome of the most recent timer-driven
	// auto-submit, since no HTTP request is waiting on it
	lastBufferErr error
	errMu         sync.Mutex
}

func (e *intakeEntry) setBufferErr(err error) {
	e.errMu.Lock()
	e.lastBufferErr = err
	e.errMu.Unlock()
}

func (e *intakeEntry) takeBufferErr() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	err := e.lastBufferErr
	e.lastBufferErr = nil
	return err
}

// IntakeRegistry owns every live intake session, one per open admin view.
// Sessions in different browser tabs get distinct ids and never interfere.
// Idle sessions are evicted after a TTL so abandoned tabs do not leak.
type IntakeRegistry struct {
	mu      sync.RWMutex
	entries map[string]*intakeEntry
	ttl     time.Duration
}

// NewIntakeRegistry creates a registry evicting sessions idle longer than ttl
func NewIntakeRegistry(ttl time.Duration) *IntakeRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &IntakeRegistry{
		entries: make(map[string]*intakeEntry),
		ttl:     ttl,
	}
}

// Create registers a new session and returns its opaque id. For
// length-triggered mode a scan buffer is attached whose auto-submits feed the
// session directly; rejection from a timer-driven submit is retrievable on
// the next status call.
func (r *IntakeRegistry) Create(session *IntakeSession, settleDelay time.Duration) string {
	id := uuid.New().String()
	entry := &intakeEntry{
		session:    session,
		lastAccess: utils.UTCNow(),
	}
	if session.Mode() == ScanModeLengthTriggered {
		entry.buffer = NewScanBuffer(utils.ICCIDMinLength, settleDelay, func(token string) {
			entry.setBufferErr(session.SubmitToken(token))
		})
	}

	r.mu.Lock()
	r.entries[id] = entry
	r.mu.Unlock()
	return id
}

// Get returns the live session for id, touching its idle stamp
func (r *IntakeRegistry) Get(id string) (*IntakeSession, *ScanBuffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, nil, NewBusinessError("INTAKE_SESSION_NOT_FOUND", "Intake session not found or expired", ErrIntakeSessionNotFound)
	}
	entry.lastAccess = utils.UTCNow()
	return entry.session, entry.buffer, nil
}

// TakeBufferError returns and clears the most recent auto-submit rejection
func (r *IntakeRegistry) TakeBufferError(id string) error {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return entry.takeBufferErr()
}

// Drop removes a session (after commit, or on explicit abandon)
func (r *IntakeRegistry) Drop(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions
func (r *IntakeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// StartSweeper launches a background goroutine that periodically evicts idle
// sessions. The returned cancel function stops the sweeper.
func (r *IntakeRegistry) StartSweeper(parent context.Context, interval time.Duration) func() {
	sweepCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
	return cancel
}

func (r *IntakeRegistry) sweep() {
	cutoff := utils.UTCNow().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.entries {
		if entry.lastAccess.Before(cutoff) {
			delete(r.entries, id)
		}
	}
}
