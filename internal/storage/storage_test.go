package storage

import (
	"path/filepath"
	"testing"
	"time"

	"mailbox/internal/testutil"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := NewStore(path, false)
	testutil.AssertNoError(t, err, "NewStore")
	return s
}

func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mailbox.db")
	s := openStore(t, path)
	testutil.AssertNoError(t, s.InitDB(), "InitDB")
	testutil.AssertNoError(t, s.Close(), "Close")
	return path
}

func TestRecordAndQueryPositions(t *testing.T) {
	path := newTestDB(t)

	s := openStore(t, path)
	now := time.Now().UTC()
	s.RecordPosition(PositionRecord{PositionID: "p1", Placement: "8/8/8/8/8/8/8/R7", Turn: "w", CreatedAtUTC: now})
	s.RecordPosition(PositionRecord{PositionID: "p2", Placement: "8/8/8/8/8/8/8/r7", Turn: "b", CreatedAtUTC: now.Add(time.Second)})
	testutil.AssertNoError(t, s.Close(), "Close flushes pending writes")

	s = openStore(t, path)
	defer s.Close()

	all, err := s.QueryPositions("*")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(all), 2, "position count")
	testutil.AssertEqual(t, all[0].PositionID, "p2", "newest first")

	one, err := s.QueryPositions("p1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(one), 1)
	testutil.AssertEqual(t, one[0].Placement, "8/8/8/8/8/8/8/R7")
	testutil.AssertEqual(t, one[0].Turn, "w")
	testutil.AssertTrue(t, !one[0].CreatedAtUTC.IsZero(), "created_at scanned")

	testutil.AssertTrue(t, s.IsHealthy(), "store healthy")
}

func TestUpdateTurn(t *testing.T) {
	path := newTestDB(t)

	s := openStore(t, path)
	s.RecordPosition(PositionRecord{PositionID: "p1", Placement: "8/8/8/8/8/8/8/R7", Turn: "w", CreatedAtUTC: time.Now().UTC()})
	s.UpdateTurn("p1", "b")
	testutil.AssertNoError(t, s.Close())

	s = openStore(t, path)
	defer s.Close()

	got, err := s.QueryPositions("p1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(got), 1)
	testutil.AssertEqual(t, got[0].Turn, "b")
}

func TestGenerationsCascadeOnDelete(t *testing.T) {
	path := newTestDB(t)

	s := openStore(t, path)
	now := time.Now().UTC()
	s.RecordPosition(PositionRecord{PositionID: "p1", Placement: "8/8/8/8/8/8/8/R7", Turn: "w", CreatedAtUTC: now})
	s.RecordGeneration(GenerationRecord{PositionID: "p1", Turn: "w", PieceCount: 1, TargetCount: 14, GeneratedAtUTC: now})
	s.RecordGeneration(GenerationRecord{PositionID: "p1", Turn: "b", PieceCount: 0, TargetCount: 0, GeneratedAtUTC: now})
	testutil.AssertNoError(t, s.Close())

	s = openStore(t, path)
	gens, err := s.QueryGenerations("p1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(gens), 2)
	testutil.AssertEqual(t, gens[0].TargetCount, 14)
	testutil.AssertEqual(t, gens[1].Turn, "b")
	testutil.AssertTrue(t, gens[0].GenerationID < gens[1].GenerationID, "insertion order")

	s.DeletePosition("p1")
	testutil.AssertNoError(t, s.Close())

	s = openStore(t, path)
	defer s.Close()

	positions, err := s.QueryPositions("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(positions), 0)

	gens, err = s.QueryGenerations("p1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(gens), 0, "generations removed with their position")
}

func TestFailedWriteDegradesStore(t *testing.T) {
	path := newTestDB(t)

	s := openStore(t, path)
	now := time.Now().UTC()
	s.RecordPosition(PositionRecord{PositionID: "p1", Placement: "8/8/8/8/8/8/8/R7", Turn: "w", CreatedAtUTC: now})
	// duplicate primary key
	s.RecordPosition(PositionRecord{PositionID: "p1", Placement: "8/8/8/8/8/8/8/R7", Turn: "w", CreatedAtUTC: now})

	deadline := time.Now().Add(2 * time.Second)
	for s.IsHealthy() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	testutil.AssertTrue(t, !s.IsHealthy(), "store degraded after failed write")
	testutil.AssertNoError(t, s.Close())
}

func TestGenerationForMissingPositionSkipped(t *testing.T) {
	path := newTestDB(t)

	s := openStore(t, path)
	s.RecordGeneration(GenerationRecord{PositionID: "missing", Turn: "w", GeneratedAtUTC: time.Now().UTC()})
	testutil.AssertNoError(t, s.Close())
	testutil.AssertTrue(t, s.IsHealthy(), "orphan generation must not degrade the store")

	s = openStore(t, path)
	defer s.Close()

	gens, err := s.QueryGenerations("missing")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(gens), 0)
}

func TestForeignKeysWithQueryDSN(t *testing.T) {
	dsn := newTestDB(t) + "?mode=rwc"

	s := openStore(t, dsn)
	now := time.Now().UTC()
	s.RecordPosition(PositionRecord{PositionID: "p1", Placement: "8/8/8/8/8/8/8/R7", Turn: "w", CreatedAtUTC: now})
	s.RecordGeneration(GenerationRecord{PositionID: "p1", Turn: "w", PieceCount: 1, TargetCount: 14, GeneratedAtUTC: now})
	s.DeletePosition("p1")
	testutil.AssertNoError(t, s.Close())
	testutil.AssertTrue(t, s.IsHealthy())

	s = openStore(t, dsn)
	defer s.Close()

	gens, err := s.QueryGenerations("p1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(gens), 0, "cascade applies when the DSN already has parameters")
}

func TestDeleteDB(t *testing.T) {
	path := newTestDB(t)

	s := openStore(t, path)
	testutil.AssertNoError(t, s.DeleteDB())
	// already closed; second Close is a no-op
	testutil.AssertNoError(t, s.Close())

	matches, err := filepath.Glob(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(matches), 0, "database file removed")
}
