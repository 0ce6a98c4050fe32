package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"

	"cloudpico-panel/internal/config"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu      sync.Mutex
	records []map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := map[string]slog.Value{"msg": slog.StringValue(r.Message)}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.records = append(h.records, m)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) sqlRecords() []map[string]slog.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []map[string]slog.Value
	for _, m := range h.records {
		if m["msg"].String() == "sql" {
			out = append(out, m)
		}
	}
	return out
}

func (h *captureHandler) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}

func openLogged(t *testing.T, h *captureHandler) *sql.DB {
	t.Helper()
	conn := sql.OpenDB(NewLoggingConnector("file::memory:", slog.New(h)))
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestLoggingConnector_execLogged(t *testing.T) {
	h := &captureHandler{}
	conn := openLogged(t, h)

	if _, err := conn.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY, secret TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	recs := h.sqlRecords()
	if len(recs) == 0 {
		t.Fatal("expected an sql record for Exec")
	}
	got := recs[len(recs)-1]
	if got["op"].String() != "exec" {
		t.Errorf("op = %q, want exec", got["op"].String())
	}
	if got["sql"].String() != `CREATE TABLE t (id INTEGER PRIMARY KEY, secret TEXT)` {
		t.Errorf("sql = %q", got["sql"].String())
	}
}

func TestLoggingConnector_argsAreNotLogged(t *testing.T) {
	h := &captureHandler{}
	conn := openLogged(t, h)

	if _, err := conn.Exec(`CREATE TABLE t (id INTEGER, secret TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	h.reset()

	if _, err := conn.Exec(`INSERT INTO t (id, secret) VALUES (?, ?)`, 1, "hunter22"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	recs := h.sqlRecords()
	if len(recs) == 0 {
		t.Fatal("expected an sql record for Exec with args")
	}
	got := recs[len(recs)-1]
	if got["nargs"].Int64() != 2 {
		t.Errorf("nargs = %v, want 2", got["nargs"])
	}
	for k, v := range got {
		if v.String() == "hunter22" {
			t.Errorf("attribute %q leaks an argument value", k)
		}
	}
	if _, ok := got["args"]; ok {
		t.Error("args attribute must not be logged")
	}
}

func TestLoggingConnector_queryLogged(t *testing.T) {
	h := &captureHandler{}
	conn := openLogged(t, h)

	var one int
	if err := conn.QueryRow(`SELECT 1`).Scan(&one); err != nil {
		t.Fatalf("query row: %v", err)
	}
	recs := h.sqlRecords()
	if len(recs) == 0 {
		t.Fatal("expected an sql record for QueryRow")
	}
	got := recs[len(recs)-1]
	if got["op"].String() != "query" {
		t.Errorf("op = %q, want query", got["op"].String())
	}
	if got["sql"].String() != `SELECT 1` {
		t.Errorf("sql = %q", got["sql"].String())
	}
}

func TestLoggingConnector_multiStatementExec(t *testing.T) {
	conn := openLogged(t, &captureHandler{})

	if _, err := conn.Exec(`CREATE TABLE a (id INTEGER); CREATE TABLE b (id INTEGER);`); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO b (id) VALUES (1)`); err != nil {
		t.Fatalf("second statement did not run: %v", err)
	}
}

func TestLoggingConnector_pingAndTx(t *testing.T) {
	conn := openLogged(t, &captureHandler{})
	if err := conn.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("exec in tx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestLoggingDriver_openUnsupported(t *testing.T) {
	if _, err := (loggingDriver{}).Open("file::memory:"); err == nil {
		t.Fatal("Open error = nil, want non-nil")
	}
}

func TestOpen_debugLevelUsesLoggingConnector(t *testing.T) {
	conn, err := Open(config.Config{SQLitePath: ":memory:", LogLevel: slog.LevelDebug})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = Close(conn) }()

	if _, ok := conn.Driver().(loggingDriver); !ok {
		t.Errorf("driver = %T, want loggingDriver", conn.Driver())
	}
}
