// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/vote-ledger/cliparse"
	"github.com/danielhkuo/vote-ledger/feed"
	"github.com/danielhkuo/vote-ledger/handlers"
	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/middleware"
)

func NewRouter(svc *ledger.Service, admin *ledger.Admin, f feed.Feed, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc, cfg)
	adminHandler := handlers.NewAdminHandler(admin, svc, cfg)
	feedHandler := handlers.NewFeedHandler(f)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting (public, identity from token when configured)
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /voters/{id}", middleware.WithLogging(votingHandler.GetVoter))

	// Read-only views
	mux.HandleFunc("GET /tally", middleware.WithLogging(resultsHandler.GetTally))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(resultsHandler.GetCandidates))
	mux.HandleFunc("GET /election", middleware.WithLogging(resultsHandler.GetElection))
	mux.HandleFunc("GET /winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /snapshot", middleware.WithLogging(resultsHandler.GetSnapshot))

	// Change notifications
	mux.HandleFunc("GET /feed", middleware.WithLogging(feedHandler.StreamFeed))

	// Admin operations (require X-Admin-Key)
	mux.HandleFunc("POST /admin/reveal", middleware.WithLogging(adminHandler.RevealWinner))
	mux.HandleFunc("POST /admin/reset", middleware.WithLogging(adminHandler.ResetElection))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("vote-ledger API v1"))
	})

	return mux
}
