// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vote-ledger/feed"
	"github.com/danielhkuo/vote-ledger/models"
)

type FeedHandler struct {
	feed feed.Feed
}

func NewFeedHandler(f feed.Feed) *FeedHandler {
	return &FeedHandler{feed: f}
}

// StreamFeed handles GET /feed
// Server-sent events: one "snapshot" event now, then one per change
func (h *FeedHandler) StreamFeed(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	started := false
	err := h.feed.Watch(r.Context(), func(snap models.Snapshot) {
		if !started {
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := writeEvent(w, snap); err != nil {
			slog.Warn("failed to write feed event", "error", err)
			return
		}
		flusher.Flush()
	})
	if err != nil && !started {
		ledgerError(w, err, "stream_feed")
		return
	}
	if err != nil {
		slog.Warn("feed stream ended", "error", err)
	}
}

func writeEvent(w http.ResponseWriter, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Version, data)
	return err
}
