package businessflow

import (
	"strings"
	"sync"
	"time"

	"github.com/oroshi-mobile/simdesk/utils"
)

// ScanMode selects how the physical barcode scanner terminates a read.
// The operator picks one before scanning begins; modes are mutually exclusive
// for the lifetime of a session.
type ScanMode string

const (
	// ScanModeAutoEnter: the scanner appends a submit keystroke after every
	// read, so each scan arrives as one complete token.
	ScanModeAutoEnter ScanMode = "auto_enter"
	// ScanModeLengthTriggered: the scanner emits bare characters; a token is
	// submitted automatically once the accumulated input reaches ICCID length
	// after a short settle delay, or when the operator presses Enter.
	ScanModeLengthTriggered ScanMode = "length_triggered"
)

func (m ScanMode) Valid() bool {
	switch m {
	case ScanModeAutoEnter, ScanModeLengthTriggered:
		return true
	default:
		return false
	}
}

// Assignment pairs one candidate slot with one scanned ICCID
type Assignment struct {
	LineID uint   `json:"line_id"`
	ICCID  string `json:"iccid"`
}

// IntakeSession converts a stream of scanned tokens into an ordered list of
// (slot, token) assignments against a fixed candidate slot list.
//
// The candidate list is computed once when the session starts and never
// grows; lines created afterwards are not picked up. Tokens fill slots
// strictly FIFO by scan arrival: no reordering, no best-fit matching.
// Submissions are serialized by the session mutex so each scan fully
// resolves (accept or reject) before the next one is examined.
type IntakeSession struct {
	mu sync.Mutex

	mode       ScanMode
	candidates []uint
	// existing is the authoritative ICCID set at session start; the sole
	// uniqueness surface for global duplicate detection.
	existing map[string]struct{}
	seen     map[string]struct{}

	assignments []Assignment
}

// NewIntakeSession starts an intake session over the given candidate slots.
// existingICCIDs is the full set of ICCIDs already on record, including ones
// on lines outside the candidate list.
func NewIntakeSession(mode ScanMode, candidates []uint, existingICCIDs []string) *IntakeSession {
	existing := make(map[string]struct{}, len(existingICCIDs))
	for _, id := range existingICCIDs {
		existing[id] = struct{}{}
	}
	return &IntakeSession{
		mode:        mode,
		candidates:  append([]uint(nil), candidates...),
		existing:    existing,
		seen:        make(map[string]struct{}),
		assignments: make([]Assignment, 0, len(candidates)),
	}
}

// Mode returns the scanner input mode chosen for this session
func (s *IntakeSession) Mode() ScanMode {
	return s.mode
}

// SubmitToken validates one scanned token and, when accepted, assigns it to
// the next unfilled candidate slot. A token that is empty after trimming is
// silently ignored (stray scanner newline). Rejections leave the session
// state untouched and are always recoverable: the operator corrects the read
// and scans again without losing prior progress.
func (s *IntakeSession) SubmitToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.assignments) >= len(s.candidates) {
		return NewBusinessError("INTAKE_EXHAUSTED", "All slots are filled", ErrIntakeExhausted)
	}
	if _, dup := s.seen[token]; dup {
		return NewBusinessError("DUPLICATE_SCAN", "Token already scanned in this session", ErrDuplicateScan)
	}
	if _, taken := s.existing[token]; taken {
		return NewBusinessError("ICCID_TAKEN", "ICCID already exists on another line", ErrICCIDTaken)
	}

	slot := s.candidates[len(s.assignments)]
	s.assignments = append(s.assignments, Assignment{LineID: slot, ICCID: token})
	s.seen[token] = struct{}{}
	return nil
}

// RemoveLast pops the most recent assignment, freeing its slot for
// re-assignment. Returns false when there is nothing to remove.
func (s *IntakeSession) RemoveLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.assignments) == 0 {
		return false
	}
	last := s.assignments[len(s.assignments)-1]
	s.assignments = s.assignments[:len(s.assignments)-1]
	delete(s.seen, last.ICCID)
	return true
}

// Reset clears all assignments; the candidate list is untouched so the
// session starts over against the same slots.
func (s *IntakeSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments = s.assignments[:0]
	s.seen = make(map[string]struct{})
}

// Finalize returns a snapshot of the assignments for batch commit
func (s *IntakeSession) Finalize() []Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Assignment(nil), s.assignments...)
}

// Assignments returns a copy of the current assignment list
func (s *IntakeSession) Assignments() []Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Assignment(nil), s.assignments...)
}

// Remaining returns the number of unfilled candidate slots
func (s *IntakeSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.candidates) - len(s.assignments)
}

// Exhausted reports whether every candidate slot is filled. A session whose
// candidate list was empty at start is exhausted from the beginning and the
// intake input is disabled immediately.
func (s *IntakeSession) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.assignments) >= len(s.candidates)
}

// CandidateCount returns the size of the fixed candidate slot list
func (s *IntakeSession) CandidateCount() int {
	return len(s.candidates)
}

// ScanBuffer accumulates raw scanner characters for length-triggered mode.
// Once the buffer reaches minLength the buffer arms a settle timer; if no
// further characters arrive within the delay the token is flushed to the
// submit callback. The delay prevents truncating an in-flight multi-character
// burst from the scanner. A manual Flush (Enter key) submits immediately,
// covering keyboard entry as well.
type ScanBuffer struct {
	mu          sync.Mutex
	buf         strings.Builder
	minLength   int
	settleDelay time.Duration
	timer       *time.Timer
	submit      func(token string)
}

// DefaultSettleDelay is how long the buffer waits after reaching ICCID length
// before auto-submitting.
const DefaultSettleDelay = 150 * time.Millisecond

// NewScanBuffer creates a buffer that auto-submits tokens of at least
// minLength characters after settleDelay of input silence.
func NewScanBuffer(minLength int, settleDelay time.Duration, submit func(token string)) *ScanBuffer {
	if minLength <= 0 {
		minLength = utils.ICCIDMinLength
	}
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &ScanBuffer{
		minLength:   minLength,
		settleDelay: settleDelay,
		submit:      submit,
	}
}

// Push appends scanner characters. Reaching the length threshold (re)arms the
// settle timer; every further chunk pushes the deadline out again.
func (b *ScanBuffer) Push(chunk string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf.WriteString(chunk)
	if b.buf.Len() < b.minLength {
		return
	}

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.settleDelay, b.settleFire)
}

// Flush submits whatever is buffered right now (manual Enter keypress)
func (b *ScanBuffer) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	token := b.buf.String()
	b.buf.Reset()
	b.mu.Unlock()

	if token != "" {
		b.submit(token)
	}
}

// Len returns the number of buffered characters
func (b *ScanBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func (b *ScanBuffer) settleFire() {
	b.mu.Lock()
	token := b.buf.String()
	b.buf.Reset()
	b.timer = nil
	b.mu.Unlock()

	if token != "" {
		b.submit(token)
	}
}
