// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/vote-ledger/models"
)

// Feed modes
const (
	ModePush = models.FeedModePush
	ModePoll = models.FeedModePoll
)

const DefaultPollInterval = models.DefaultPollInterval

var ErrNoSource = errors.New("feed has no snapshot source")

// Source reads the current snapshot straight from the stores
type Source func(ctx context.Context) (models.Snapshot, error)

// Feed delivers snapshots to observers regardless of transport
type Feed interface {
	// Publish must not block. Lost snapshots are acceptable: Watch always
	// starts from the current state.
	Publish(snap models.Snapshot)

	// Watch calls notify with the current snapshot, then with every change,
	// until ctx is done. Only one goroutine calls notify per Watch.
	Watch(ctx context.Context, notify func(models.Snapshot)) error
}

// New returns a Broker for ModePush and a Poller for ModePoll
func New(mode string, source Source, interval time.Duration) (Feed, error) {
	if source == nil {
		return nil, ErrNoSource
	}

	switch mode {
	case ModePush, "":
		return NewBroker(source), nil
	case ModePoll:
		return NewPoller(source, interval), nil
	default:
		return nil, fmt.Errorf("unknown feed mode %q", mode)
	}
}
