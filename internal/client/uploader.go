package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultBatchSize     = 5
	DefaultBatchInterval = time.Second
)

// BirthdayCreator is the part of Client the uploader needs.
type BirthdayCreator interface {
	CreateBirthday(ctx context.Context, req birthdays.CreateBirthdayRequest) (*birthdays.CreateBirthdayResponse, error)
}

// Item is one record to upload. Row is the spreadsheet row, used in error
// messages only.
type Item struct {
	Row     int
	Request birthdays.CreateBirthdayRequest
}

type Failure struct {
	Item Item
	Err  error
}

// Tally counts the outcome of an upload. Succeeded counts new records,
// Replaced counts overwrites of existing ones.
type Tally struct {
	Succeeded int
	Replaced  int
	Failed    int
	Errors    []string
}

func (t *Tally) add(o Tally) {
	t.Succeeded += o.Succeeded
	t.Replaced += o.Replaced
	t.Failed += o.Failed
	t.Errors = append(t.Errors, o.Errors...)
}

// Uploader creates birthdays in batches: up to BatchSize requests run at
// once and each batch is followed by a BatchInterval pause before the next
// one starts. Items whose request failed are kept for RetryFailed.
type Uploader struct {
	creator   BirthdayCreator
	batchSize int
	interval  time.Duration

	mu     sync.Mutex
	failed []Failure
}

type UploaderOption func(*Uploader)

func WithBatchSize(n int) UploaderOption {
	return func(u *Uploader) {
		if n > 0 {
			u.batchSize = n
		}
	}
}

func WithBatchInterval(d time.Duration) UploaderOption {
	return func(u *Uploader) {
		if d > 0 {
			u.interval = d
		}
	}
}

func NewUploader(creator BirthdayCreator, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		creator:   creator,
		batchSize: DefaultBatchSize,
		interval:  DefaultBatchInterval,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload sends items and replaces the retained failures with this run's.
// A cancelled context stops before the next batch; items not yet sent are
// counted as failed.
func (u *Uploader) Upload(ctx context.Context, items []Item) (Tally, error) {
	var tally Tally
	var failed []Failure

	for start := 0; start < len(items); start += u.batchSize {
		end := start + u.batchSize
		if end > len(items) {
			end = len(items)
		}

		if start > 0 {
			if err := u.pause(ctx); err != nil {
				tally.add(failAll(items[start:], err, &failed))
				u.setFailed(failed)
				return tally, err
			}
		} else if err := ctx.Err(); err != nil {
			tally.add(failAll(items, err, &failed))
			u.setFailed(failed)
			return tally, err
		}

		batchTally, batchFailed := u.sendBatch(ctx, items[start:end])
		tally.add(batchTally)
		failed = append(failed, batchFailed...)
	}

	u.setFailed(failed)
	return tally, nil
}

// pause blocks for one interval counted from now, the end of the previous
// batch.
func (u *Uploader) pause(ctx context.Context) error {
	l := rate.NewLimiter(rate.Every(u.interval), 1)
	l.Allow()
	return l.Wait(ctx)
}

func failAll(items []Item, err error, failed *[]Failure) Tally {
	for _, it := range items {
		*failed = append(*failed, Failure{Item: it, Err: err})
	}
	return Tally{Failed: len(items)}
}

// RetryFailed re-submits only the items that failed in the last run.
func (u *Uploader) RetryFailed(ctx context.Context) (Tally, error) {
	pending := u.Failed()
	items := make([]Item, len(pending))
	for i, f := range pending {
		items[i] = f.Item
	}
	return u.Upload(ctx, items)
}

// Failed returns a copy of the items that failed in the last run.
func (u *Uploader) Failed() []Failure {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Failure(nil), u.failed...)
}

func (u *Uploader) setFailed(f []Failure) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failed = f
}

func (u *Uploader) sendBatch(ctx context.Context, batch []Item) (Tally, []Failure) {
	results := make([]error, len(batch))
	replaced := make([]bool, len(batch))

	// request errors are recorded per item, not returned, so one failure
	// does not cancel its siblings
	g, gctx := errgroup.WithContext(ctx)
	for i := range batch {
		i := i
		g.Go(func() error {
			resp, err := u.creator.CreateBirthday(gctx, batch[i].Request)
			if err != nil {
				results[i] = err
				return nil
			}
			replaced[i] = resp.WasReplaced
			return nil
		})
	}
	_ = g.Wait()

	var tally Tally
	var failed []Failure
	for i, err := range results {
		switch {
		case err != nil:
			tally.Failed++
			tally.Errors = append(tally.Errors, fmt.Sprintf("Row %d: %v", batch[i].Row, err))
			failed = append(failed, Failure{Item: batch[i], Err: err})
		case replaced[i]:
			tally.Replaced++
		default:
			tally.Succeeded++
		}
	}
	return tally, failed
}
