// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feed

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/danielhkuo/vote-ledger/models"
)

// Poller re-reads the source on a fixed interval and reports changes
type Poller struct {
	source   Source
	interval time.Duration
}

func NewPoller(source Source, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{source: source, interval: interval}
}

// Publish is a no-op: changes show up on the next poll
func (p *Poller) Publish(models.Snapshot) {}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

func (p *Poller) Watch(ctx context.Context, notify func(models.Snapshot)) error {
	last, err := p.source(ctx)
	if err != nil {
		return err
	}
	version := uint64(1)
	last.Version = version
	notify(last)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := p.source(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// keep polling, the next tick may succeed
				slog.Warn("feed poll failed", "error", err)
				continue
			}
			if sameState(last, snap) {
				continue
			}
			version++
			snap.Version = version
			last = snap
			notify(snap)
		}
	}
}

func sameState(a, b models.Snapshot) bool {
	return reflect.DeepEqual(a.Tally, b.Tally) && reflect.DeepEqual(a.Election, b.Election)
}
