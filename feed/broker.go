// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/vote-ledger/models"
)

// Broker pushes published snapshots to every watcher
type Broker struct {
	sync.RWMutex
	source   Source
	watchers map[string]*watcher
	version  uint64
}

type watcher struct {
	// holds at most the latest undelivered snapshot
	cchan chan models.Snapshot
}

func NewBroker(source Source) *Broker {
	return &Broker{
		source:   source,
		watchers: make(map[string]*watcher),
	}
}

// Publish @ConcurrentAccess
// Stamps the next version and replaces any snapshot a slow watcher has not
// picked up yet.
func (b *Broker) Publish(snap models.Snapshot) {
	b.Lock()
	defer b.Unlock()

	b.version++
	snap.Version = b.version

	for _, w := range b.watchers {
		select {
		case <-w.cchan:
		default:
		}
		w.cchan <- snap
	}
}

// Watch @ConcurrentAccess
func (b *Broker) Watch(ctx context.Context, notify func(models.Snapshot)) error {
	id := uuid.New().String()
	w := &watcher{cchan: make(chan models.Snapshot, 1)}

	// register before reading so nothing published in between is missed
	b.Lock()
	b.watchers[id] = w
	version := b.version
	b.Unlock()

	defer func() {
		b.Lock()
		delete(b.watchers, id)
		b.Unlock()
	}()

	current, err := b.source(ctx)
	if err != nil {
		return err
	}
	current.Version = version
	notify(current)

	slog.Debug("feed watcher attached", "watcher_id", id)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("feed watcher detached", "watcher_id", id)
			return nil
		case snap := <-w.cchan:
			if snap.Version <= version {
				continue
			}
			version = snap.Version
			notify(snap)
		}
	}
}

// NumWatchers @ConcurrentAccess
func (b *Broker) NumWatchers() int {
	b.RLock()
	defer b.RUnlock()
	return len(b.watchers)
}
