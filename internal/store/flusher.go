package store

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	defaultFlushInterval  = 5 * time.Minute
	defaultFlushBatchSize = 50
)

// Flusher periodically retries pushing locally-stranded orders to the remote
// API. Pushes are idempotent per order id: the legacy API rejects duplicates,
// which the flusher treats as already-delivered.
type Flusher struct {
	remote    *RemoteStore
	local     *LocalStore
	interval  time.Duration
	batchSize int
}

// NewFlusher builds a flusher with default cadence.
func NewFlusher(remote *RemoteStore, local *LocalStore) *Flusher {
	if remote == nil || local == nil {
		return nil
	}
	return &Flusher{
		remote:    remote,
		local:     local,
		interval:  defaultFlushInterval,
		batchSize: defaultFlushBatchSize,
	}
}

// Start launches the flush loop in a background goroutine.
func (f *Flusher) Start(ctx context.Context) {
	if f == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go f.run(ctx)
	log.Infof("order flusher started (interval=%s)", f.interval)
}

func (f *Flusher) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		f.flushOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		timer := time.NewTimer(f.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}

func (f *Flusher) flushOnce(ctx context.Context) {
	stranded, err := f.local.Stranded(ctx, f.batchSize)
	if err != nil {
		log.WithError(err).Warn("order flusher: list stranded failed")
		return
	}
	if len(stranded) == 0 {
		return
	}

	flushed := 0
	for _, o := range stranded {
		if ctx.Err() != nil {
			return
		}
		if errSave := f.remote.Save(ctx, o); errSave != nil && !isDuplicateRejection(errSave) {
			if errors.Is(errSave, ErrRemoteRejected) {
				// The remote refused this order outright; replaying the same
				// payload cannot succeed and must not block the rest of the
				// batch.
				log.WithError(errSave).Errorf("order flusher: %s rejected by remote, leaving stranded", o.ID)
				continue
			}
			log.WithError(errSave).Warnf("order flusher: push %s failed, will retry", o.ID)
			// The remote is likely still down; stop the batch early.
			break
		}
		if errMark := f.local.MarkFlushed(ctx, o.ID); errMark != nil {
			log.WithError(errMark).Warnf("order flusher: mark %s flushed failed", o.ID)
			continue
		}
		flushed++
	}

	if flushed > 0 {
		log.Infof("order flusher: pushed %d stranded orders", flushed)
	}
}

func isDuplicateRejection(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "already exists")
}
