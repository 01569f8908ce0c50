package reasoner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/diregraph/dire/internal/ident"
	"github.com/diregraph/dire/internal/logcsv"
)

func drainTimedDeltas(t *testing.T, ch <-chan ident.TimedDelta, timeout time.Duration) []ident.TimedDelta {
	t.Helper()
	var out []ident.TimedDelta
	for {
		select {
		case d, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, d)
		case <-time.After(timeout):
			return out
		}
	}
}

// runPhase performs one round of the external done/terminator handshake
// for every worker, as the CLI orchestration loop does.
func runPhase(t *testing.T, h *Handle, workers int, cmd string) {
	t.Helper()
	for i := 0; i < workers; i++ {
		select {
		case <-h.Done:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for done signal %d/%d", i+1, workers)
		}
	}
	for i := 0; i < workers; i++ {
		h.Terminator <- cmd
	}
}

func TestEntrypointRDFSEndToEnd(t *testing.T) {
	h := Entrypoint(Config{
		Engine:    RDFS,
		Workers:   2,
		BatchSize: 10,
		IdleFlush: 5 * time.Millisecond,
	})

	person := uint32(1000)
	student := uint32(1001)
	teaches := uint32(1002)
	course := uint32(1003)
	alice := uint32(2000)
	bob := uint32(2001)
	cs101 := uint32(2002)

	h.TBoxIn <- ident.Update{Triple: ident.Triple{S: student, P: ident.SubClassOf, O: person}, Delta: 1}
	h.TBoxIn <- ident.Update{Triple: ident.Triple{S: teaches, P: ident.Domain, O: person}, Delta: 1}
	h.TBoxIn <- ident.Update{Triple: ident.Triple{S: teaches, P: ident.Range, O: course}, Delta: 1}

	h.ABoxIn <- ident.Update{Triple: ident.Triple{S: alice, P: ident.Type, O: student}, Delta: 1}
	h.ABoxIn <- ident.Update{Triple: ident.Triple{S: bob, P: teaches, O: cs101}, Delta: 1}

	runPhase(t, h, 2, cmdContinue)

	tboxDeltas := drainTimedDeltas(t, h.TBoxOut, 200*time.Millisecond)
	aboxDeltas := drainTimedDeltas(t, h.ABoxOut, 200*time.Millisecond)

	require.NotEmpty(t, tboxDeltas, "expected the TBox closure to emit at least its input back out")
	require.NotEmpty(t, aboxDeltas, "expected cax-sco/rdfs2/rdfs3 derivations over the seeded ABox")

	foundAliceIsPerson := false
	foundBobIsPerson := false
	foundCS101IsCourse := false
	for _, d := range aboxDeltas {
		if d.Delta <= 0 {
			continue
		}
		switch d.Triple {
		case ident.Triple{S: alice, P: ident.Type, O: person}:
			foundAliceIsPerson = true
		case ident.Triple{S: bob, P: ident.Type, O: person}:
			foundBobIsPerson = true
		case ident.Triple{S: cs101, P: ident.Type, O: course}:
			foundCS101IsCourse = true
		}
	}
	require.True(t, foundAliceIsPerson, "cax-sco should derive alice a person from student subClassOf person")
	require.True(t, foundBobIsPerson, "rdfs2 should derive bob a person from teaches domain person")
	require.True(t, foundCS101IsCourse, "rdfs3 should derive cs101 a course from teaches range course")

	runPhase(t, h, 2, cmdStop)
	require.NoError(t, h.Wait())
}

func TestEntrypointDummyEngineKeepsStreamsSeparate(t *testing.T) {
	h := Entrypoint(Config{Engine: Dummy, Workers: 1, BatchSize: 1, IdleFlush: 5 * time.Millisecond})

	tb := uint32(10)
	ab := uint32(20)
	h.TBoxIn <- ident.Update{Triple: ident.Triple{S: tb, P: ident.Type, O: ident.Class}, Delta: 1}
	h.ABoxIn <- ident.Update{Triple: ident.Triple{S: ab, P: ident.Type, O: ident.Class}, Delta: 1}

	runPhase(t, h, 1, cmdStop)

	tboxDeltas := drainTimedDeltas(t, h.TBoxOut, 200*time.Millisecond)
	aboxDeltas := drainTimedDeltas(t, h.ABoxOut, 200*time.Millisecond)

	require.Len(t, tboxDeltas, 1)
	require.Equal(t, tb, tboxDeltas[0].Triple.S)
	require.Len(t, aboxDeltas, 1)
	require.Equal(t, ab, aboxDeltas[0].Triple.S)

	require.NoError(t, h.Wait())
}

func TestEntrypointRecordsFileOnLogRows(t *testing.T) {
	h := Entrypoint(Config{Engine: Dummy, Workers: 1, BatchSize: 1, IdleFlush: 5 * time.Millisecond, File: "acme-abox"})

	h.ABoxIn <- ident.Update{Triple: ident.Triple{S: 1, P: ident.Type, O: ident.Class}, Delta: 1}

	runPhase(t, h, 1, cmdStop)

	var records []logcsv.Record
loop:
	for {
		select {
		case r, ok := <-h.Log:
			if !ok {
				break loop
			}
			records = append(records, r)
		case <-time.After(200 * time.Millisecond):
			break loop
		}
	}
	require.NotEmpty(t, records)
	for _, r := range records {
		require.Equal(t, "acme-abox", r.File)
	}

	require.NoError(t, h.Wait())
}

func TestTerminatorClosedIsChannelDisconnectedFatal(t *testing.T) {
	h := Entrypoint(Config{Engine: Dummy, Workers: 1, BatchSize: 1, IdleFlush: 5 * time.Millisecond})

	h.ABoxIn <- ident.Update{Triple: ident.Triple{S: 1, P: ident.Type, O: ident.Class}, Delta: 1}

	select {
	case <-h.Done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for done signal")
	}
	close(h.Terminator)

	require.ErrorIs(t, h.Wait(), ErrChannelClosed)
}
