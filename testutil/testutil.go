// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/vote-ledger/auth"
	"github.com/danielhkuo/vote-ledger/cliparse"
	"github.com/danielhkuo/vote-ledger/db"
	"github.com/danielhkuo/vote-ledger/feed"
	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/models"
	"github.com/danielhkuo/vote-ledger/store"
)

// TestElectionName is the election every test database is seeded with
const TestElectionName = "test-election"

// SetupTestDB creates a private in-memory sqlite database with the full
// schema and an open election. Candidates are not seeded.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	conn, err := db.Open(store.DialectSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	if err := db.SeedElection(context.Background(), conn, TestElectionName); err != nil {
		t.Fatalf("Failed to seed election: %v", err)
	}

	return conn
}

// SeedCandidates adds candidates with ids 1..n in the given order
func SeedCandidates(t *testing.T, conn *sql.DB, names ...string) {
	t.Helper()

	n, err := db.SeedCandidates(context.Background(), conn, names)
	if err != nil {
		t.Fatalf("Failed to seed candidates: %v", err)
	}
	if n != len(names) {
		t.Fatalf("Expected %d candidates seeded, got %d", len(names), n)
	}
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: store.DialectSQLite,
		DatabaseURL:  "file::memory:",
		AdminKeySalt: "test-admin-salt",
		ElectionName: TestElectionName,
		StoreTimeout: 2 * time.Second,
		FeedMode:     models.FeedModePush,
		PollInterval: models.MinPollInterval,
	}
}

// AdminKey returns the admin key for cfg
func AdminKey(cfg cliparse.Config) string {
	return auth.GenerateAdminKey(cfg.ElectionName, cfg.AdminKeySalt)
}

// Ledger bundles a wired service stack over one test database
type Ledger struct {
	DB      *sql.DB
	Store   *store.SQLStore
	Feed    *feed.Broker
	Service *ledger.Service
	Admin   *ledger.Admin
}

// NewLedger wires store, push feed, service and admin over conn
func NewLedger(t *testing.T, conn *sql.DB, cfg cliparse.Config) *Ledger {
	t.Helper()

	st := store.New(conn, store.DialectSQLite)
	broker := feed.NewBroker(ledger.SnapshotSource(st, cfg.StoreTimeout))
	svc := ledger.NewService(st, broker, cfg.StoreTimeout)

	return &Ledger{
		DB:      conn,
		Store:   st,
		Feed:    broker,
		Service: svc,
		Admin:   ledger.NewAdmin(svc),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
