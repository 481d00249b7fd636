package impl

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/entity"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// defaultBufferCap bounds the record buffer when no cap is configured
const defaultBufferCap = 10000

// TrackerImpl implements the TrackingService interface. All state is
// guarded by mu; recording is a lock, append, unlock. The buffer is
// bounded: overflow drops the oldest records, and the drops are logged
// once per drain rather than per record.
type TrackerImpl struct {
	mu          sync.Mutex
	records     []*entity.CallRecord
	subscribers map[int]chan *entity.CallRecord
	nextSubID   int
	bufferCap   int
	dropped     int
	logger      domain.Logger
	statusSvc   usecase.StatusService
}

// NewTracker creates a new tracking service implementation. A bufferCap
// below 1 selects the default cap.
func NewTracker(logger domain.Logger, statusSvc usecase.StatusService, bufferCap int) usecase.TrackingService {
	if bufferCap < 1 {
		bufferCap = defaultBufferCap
	}
	return &TrackerImpl{
		records:     make([]*entity.CallRecord, 0, 256),
		subscribers: make(map[int]chan *entity.CallRecord),
		bufferCap:   bufferCap,
		logger:      logger,
		statusSvc:   statusSvc,
	}
}

// RecordCall appends one completed call to the buffer. It never returns
// an error and never panics; a nil record is dropped with a warning.
func (t *TrackerImpl) RecordCall(record *entity.CallRecord) {
	if record == nil {
		t.logger.Warn(context.Background(), "Dropped nil call record")
		return
	}

	t.mu.Lock()
	t.records = append(t.records, record)
	t.enforceCapLocked()
	buffered := len(t.records)
	for _, ch := range t.subscribers {
		select {
		case ch <- record:
		default:
			// Slow subscriber loses this record rather than stall recording.
		}
	}
	t.mu.Unlock()

	if t.statusSvc != nil {
		_ = t.statusSvc.UpdateBufferedCalls(buffered)
		_ = t.statusSvc.IncrementTrackedCalls(1)
	}
}

// Instrument runs fn, times it, records the call, and returns fn's
// error untouched
func (t *TrackerImpl) Instrument(ctx context.Context, apiName string, fn func(ctx context.Context) error) error {
	return t.InstrumentWithMetadata(ctx, apiName, nil, fn)
}

// InstrumentWithMetadata is Instrument with caller metadata attached
func (t *TrackerImpl) InstrumentWithMetadata(ctx context.Context, apiName string, metadata map[string]interface{}, fn func(ctx context.Context) error) error {
	startedAt := time.Now()
	err := fn(ctx)
	duration := time.Since(startedAt)

	outcome := entity.OutcomeSuccess
	if err != nil {
		outcome = entity.OutcomeFailure
	}

	record, recErr := entity.NewCallRecord(apiName, startedAt, duration, outcome)
	if recErr != nil {
		// The instrumented call already ran; its result must not be
		// disturbed by tracking problems.
		t.logger.Warn(ctx, "Failed to build call record",
			domain.NewField("api", apiName),
			domain.NewField("error", recErr.Error()))
		return err
	}

	if err != nil {
		record = record.WithErrorClass(classifyError(ctx, err))
	}
	if len(metadata) > 0 {
		record = record.WithMetadata(entity.SanitizeMetadata(metadata))
	}

	t.RecordCall(record)
	return err
}

// enforceCapLocked trims the oldest records past the buffer cap. Callers
// must hold mu.
func (t *TrackerImpl) enforceCapLocked() {
	overflow := len(t.records) - t.bufferCap
	if overflow <= 0 {
		return
	}
	kept := make([]*entity.CallRecord, len(t.records)-overflow)
	copy(kept, t.records[overflow:])
	t.records = kept
	t.dropped += overflow
}

// Drain atomically removes and returns all buffered records
func (t *TrackerImpl) Drain() []*entity.CallRecord {
	t.mu.Lock()
	drained := t.records
	dropped := t.dropped
	t.dropped = 0
	t.records = make([]*entity.CallRecord, 0, 256)
	t.mu.Unlock()

	if dropped > 0 {
		t.logger.Warn(context.Background(), "Record buffer overflowed since last drain",
			domain.NewField("dropped", dropped),
			domain.NewField("buffer_cap", t.bufferCap))
	}
	if t.statusSvc != nil {
		_ = t.statusSvc.UpdateBufferedCalls(0)
	}
	return drained
}

// Restore puts records back at the front of the buffer, preserving
// their order relative to anything recorded since the drain
func (t *TrackerImpl) Restore(records []*entity.CallRecord) {
	if len(records) == 0 {
		return
	}

	t.mu.Lock()
	merged := make([]*entity.CallRecord, 0, len(records)+len(t.records))
	merged = append(merged, records...)
	merged = append(merged, t.records...)
	t.records = merged
	t.enforceCapLocked()
	buffered := len(t.records)
	t.mu.Unlock()

	if t.statusSvc != nil {
		_ = t.statusSvc.UpdateBufferedCalls(buffered)
	}
}

// BufferedCount returns the number of records currently buffered
func (t *TrackerImpl) BufferedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Subscribe registers a live feed for completed calls. The returned
// cancel func closes the channel and removes the subscription.
func (t *TrackerImpl) Subscribe(buffer int) (<-chan *entity.CallRecord, func()) {
	if buffer < 1 {
		buffer = 1
	}

	t.mu.Lock()
	id := t.nextSubID
	t.nextSubID++
	ch := make(chan *entity.CallRecord, buffer)
	t.subscribers[id] = ch
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		if existing, ok := t.subscribers[id]; ok {
			delete(t.subscribers, id)
			close(existing)
		}
		t.mu.Unlock()
	}
	return ch, cancel
}

// classifyError maps an instrumented call's error to the coarse class
// stored on the record
func classifyError(ctx context.Context, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return entity.ErrorClassTimeout
	}
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		return entity.ErrorClassCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return entity.ErrorClassTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests") || strings.Contains(msg, "429"):
		return entity.ErrorClassRateLimited
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "auth"):
		return entity.ErrorClassAuth
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return entity.ErrorClassTimeout
	default:
		return entity.ErrorClassUnknown
	}
}
