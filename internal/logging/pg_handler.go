package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const pgBatchSize = 50

// PGHandler is an slog.Handler that batches ERROR+ records into system_logs.
// It works with any gorm dialect; the name comes from the production database.
type PGHandler struct {
	db      *gorm.DB
	mu      sync.Mutex
	buffer  []models.SystemLog
	ticker  *time.Ticker
	done    chan struct{}
	stopped chan struct{}
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	return newPGHandler(db, 5*time.Second)
}

func newPGHandler(db *gorm.DB, interval time.Duration) *PGHandler {
	h := &PGHandler{
		db:      db,
		buffer:  make([]models.SystemLog, 0, pgBatchSize),
		ticker:  time.NewTicker(interval),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go h.flushLoop()
	return h
}

func (h *PGHandler) flushLoop() {
	defer close(h.stopped)
	for {
		select {
		case <-h.ticker.C:
			h.flush()
		case <-h.done:
			h.flush()
			return
		}
	}
}

func (h *PGHandler) flush() {
	h.mu.Lock()
	if len(h.buffer) == 0 {
		h.mu.Unlock()
		return
	}
	batch := h.buffer
	h.buffer = make([]models.SystemLog, 0, pgBatchSize)
	h.mu.Unlock()

	if err := h.db.CreateInBatches(batch, pgBatchSize).Error; err != nil {
		// the default logger may be this handler; stay out of the ERROR path
		slog.Warn("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop flushes whatever is buffered and waits for the flush loop to exit.
func (h *PGHandler) Stop() {
	h.ticker.Stop()
	close(h.done)
	<-h.stopped
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.NewString(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "org_id":
			entry.OrgID = a.Value.String()
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			switch v := a.Value.Any().(type) {
			case float64:
				entry.LatencyMs = int(math.Round(v))
			case int64:
				entry.LatencyMs = int(v)
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.mu.Lock()
	h.buffer = append(h.buffer, entry)
	needFlush := len(h.buffer) >= pgBatchSize
	h.mu.Unlock()

	if needFlush {
		go h.flush()
	}
	return nil
}

// WithAttrs returns a view sharing this handler's buffer with attrs
// prepended to every record.
func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &pgView{parent: h, attrs: append([]slog.Attr{}, attrs...)}
}

func (h *PGHandler) WithGroup(name string) slog.Handler {
	return h
}

type pgView struct {
	parent *PGHandler
	attrs  []slog.Attr
}

func (v *pgView) Enabled(ctx context.Context, level slog.Level) bool {
	return v.parent.Enabled(ctx, level)
}

func (v *pgView) Handle(ctx context.Context, record slog.Record) error {
	r := record.Clone()
	r.AddAttrs(v.attrs...)
	return v.parent.Handle(ctx, r)
}

func (v *pgView) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &pgView{parent: v.parent, attrs: append(append([]slog.Attr{}, v.attrs...), attrs...)}
}

func (v *pgView) WithGroup(string) slog.Handler { return v }
