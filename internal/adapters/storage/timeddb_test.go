package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"genesis/internal/adapters/http/perf"
)

// openTimedTestDB returns an in-memory database with a search_history
// shaped table to exercise the wrapper against.
func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.Exec("CREATE TABLE search_history (id TEXT PRIMARY KEY, query TEXT)")
	return db
}

// TestTimedDB_ExecContext verifies writes are timed.
func TestTimedDB_ExecContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO search_history (id, query) VALUES (?, ?)", "s1", "volunteers")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_QueryContext verifies reads are timed and rows pass through.
func TestTimedDB_QueryContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	tdb.ExecContext(context.Background(), "INSERT INTO search_history (id, query) VALUES (?, ?)", "s1", "volunteers")

	rows, err := tdb.QueryContext(context.Background(), "SELECT id, query FROM search_history")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	defer rows.Close()
	count := 0
	for rows.Next() {
		count++
		var id, q string
		rows.Scan(&id, &q)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
	if collector.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2 (one exec, one query)", collector.TotalRecorded())
	}
}

// TestTimedDB_QueryRowContext verifies single-row reads pass through intact.
func TestTimedDB_QueryRowContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db, perf.NewCollector(100))

	tdb.ExecContext(context.Background(), "INSERT INTO search_history (id, query) VALUES (?, ?)", "s1", "volunteers")

	var q string
	err := tdb.QueryRowContext(context.Background(), "SELECT query FROM search_history WHERE id = ?", "s1").Scan(&q)
	if err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if q != "volunteers" {
		t.Errorf("query = %q, want volunteers", q)
	}
}

// TestTimedDB_BeginTx verifies transactions start through the wrapper.
func TestTimedDB_BeginTx(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	tx, err := tdb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	tx.Exec("INSERT INTO search_history (id, query) VALUES (?, ?)", "s1", "volunteers")
	tx.Commit()

	if collector.TotalRecorded() < 1 {
		t.Errorf("TotalRecorded = %d, want >= 1", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector verifies the wrapper works with logging only.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db, nil)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO search_history (id, query) VALUES (?, ?)", "s1", "volunteers")
	if err != nil {
		t.Fatalf("ExecContext with nil collector: %v", err)
	}
}

// TestTimedDB_ExecErrorPassthrough verifies SQL errors come back unchanged
// and the failed call is still timed.
func TestTimedDB_ExecErrorPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO no_such_table VALUES (?)")
	if err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1 (errors must still be timed)", collector.TotalRecorded())
	}
}

// TestTimedDB_QueryErrorPassthrough verifies query errors come back unchanged.
func TestTimedDB_QueryErrorPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	_, err := tdb.QueryContext(context.Background(), "SELECT * FROM no_such_table")
	if err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_NoRowsPassthrough verifies sql.ErrNoRows survives the wrapper.
func TestTimedDB_NoRowsPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	var q string
	err := tdb.QueryRowContext(context.Background(), "SELECT query FROM search_history WHERE id = ?", "missing").Scan(&q)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_CancelledContext verifies a cancelled context errors and is
// still timed, so context storms stay visible in the collector.
func TestTimedDB_CancelledContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tdb.ExecContext(ctx, "INSERT INTO search_history (id, query) VALUES (?, ?)", "s1", "volunteers")
	if err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1 (must record on cancelled ctx)", collector.TotalRecorded())
	}
}

// TestTimedDB_ResultPassthrough verifies sql.Result values survive the wrapper.
func TestTimedDB_ResultPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db, perf.NewCollector(100))

	result, err := tdb.ExecContext(context.Background(), "INSERT INTO search_history (id, query) VALUES (?, ?)", "s1", "tasks")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		t.Fatalf("RowsAffected: %v", err)
	}
	if affected != 1 {
		t.Errorf("RowsAffected = %d, want 1", affected)
	}
}

// TestTimedDB_RawDB verifies RawDB hands back the wrapped *sql.DB.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db, nil)

	if tdb.RawDB() != db {
		t.Error("RawDB() should return the original *sql.DB")
	}
}

// TestTimedDB_ConcurrentMixedOps runs writers and readers together to catch
// data races in the wrapper or the collector.
func TestTimedDB_ConcurrentMixedOps(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	collector := perf.NewCollector(1000)
	tdb := NewTimedDB(db, collector)

	tdb.ExecContext(context.Background(), "INSERT INTO search_history (id, query) VALUES (?, ?)", "seed", "messages")

	ctx := context.Background()
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				tdb.ExecContext(ctx, "INSERT OR REPLACE INTO search_history (id, query) VALUES (?, ?)", "w", "sheets")
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				rows, err := tdb.QueryContext(ctx, "SELECT id FROM search_history LIMIT 1")
				if err == nil {
					rows.Close()
				}
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				var q string
				tdb.QueryRowContext(ctx, "SELECT query FROM search_history WHERE id = ?", "seed").Scan(&q)
			}
		}
	}()

	time.Sleep(100 * time.Millisecond)
	close(done)
	wg.Wait()

	if collector.TotalRecorded() < 3 {
		t.Errorf("TotalRecorded = %d, want >= 3", collector.TotalRecorded())
	}
}

// BenchmarkTimedDB_Overhead compares wrapped vs raw reads of the same row to
// isolate the instrumentation cost.
func BenchmarkTimedDB_Overhead(b *testing.B) {
	db, _ := sql.Open("sqlite", ":memory:")
	defer db.Close()
	db.Exec("CREATE TABLE bench (id INTEGER PRIMARY KEY, val TEXT)")
	db.Exec("INSERT INTO bench VALUES (1, 'x')")
	collector := perf.NewCollector(perf.DefaultRingSize)

	ctx := context.Background()

	b.Run("RawDB", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			db.QueryRowContext(ctx, "SELECT val FROM bench WHERE id = 1")
		}
	})

	tdb := NewTimedDB(db, collector)
	b.Run("TimedDB", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			tdb.QueryRowContext(ctx, "SELECT val FROM bench WHERE id = 1")
		}
	})
}

// BenchmarkTimedDB_Parallel checks for contention under concurrent reads.
func BenchmarkTimedDB_Parallel(b *testing.B) {
	db, _ := sql.Open("sqlite", ":memory:")
	defer db.Close()
	db.Exec("CREATE TABLE bench (id INTEGER PRIMARY KEY, val TEXT)")
	collector := perf.NewCollector(perf.DefaultRingSize)
	tdb := NewTimedDB(db, collector)

	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tdb.QueryRowContext(ctx, "SELECT 1")
		}
	})
}
