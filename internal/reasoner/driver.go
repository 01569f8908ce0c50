package reasoner

import (
	"time"

	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
	"github.com/diregraph/dire/internal/logcsv"
)

// driver is the computing worker ("worker 0"): it owns the accumulated
// TBox/ABox state, performs ingestion, recomputes the closure each
// epoch, and drives the done/terminator phase barrier alongside the
// handshake-only workers in pool.
type driver struct {
	cfg Config
	mat materializers

	tboxIn <-chan ident.Update
	aboxIn <-chan ident.Update

	tboxOut chan<- ident.TimedDelta
	aboxOut chan<- ident.TimedDelta
	log     chan<- logcsv.Record

	done       chan<- struct{}
	terminator <-chan string
	pool       *handshakePool

	epoch     uint64
	tboxState collection.Collection[ident.Triple]
	aboxState collection.Collection[ident.Triple]
	prevTBox  collection.Collection[ident.Triple]
	prevABox  collection.Collection[ident.Triple]
}

// run implements the state machine: INGEST -> STEP -> PHASE_SYNC ->
// {INGEST | FINAL_FLUSH} -> EXIT.
func (d *driver) run() error {
	defer close(d.tboxOut)
	defer close(d.aboxOut)
	defer close(d.log)

	for {
		tUpd, aUpd, bothClosed := d.collectBatch()
		if len(tUpd)+len(aUpd) > 0 {
			d.ingestAndEmit(tUpd, aUpd)
		}

		if bothClosed {
			d.pool.close()
			return nil
		}

		// PHASE_SYNC: trigger every handshake worker's done signal, then
		// signal this worker's, and wait for this worker's terminator command.
		d.pool.phase()
		d.done <- struct{}{}
		cmd, ok := <-d.terminator
		if !ok {
			// The caller closed the terminator channel instead of sending
			// a command: the channel-disconnected fatal case, distinct
			// from the normal both-inputs-closed shutdown path above.
			d.pool.close()
			return ErrChannelClosed
		}

		if cmd == cmdStop {
			tUpd, aUpd = d.drainNonBlocking()
			if len(tUpd)+len(aUpd) > 0 {
				d.ingestAndEmit(tUpd, aUpd)
			}
			return nil
		}
	}
}

// collectBatch blocks until either batch-size updates have accumulated,
// the idle-flush timeout elapses, or both input channels have been closed
// by their producers. On the idle timeout it returns whatever is pending:
// a partial batch (the fix for the starvation bug noted against the
// source driver) or, with nothing pending, an empty one, so that run
// still reaches the phase barrier and can receive a terminator command.
func (d *driver) collectBatch() (tUpd, aUpd []ident.Update, bothClosed bool) {
	tCh, aCh := d.tboxIn, d.aboxIn
	idle := time.NewTimer(d.cfg.IdleFlush)
	defer idle.Stop()

	total := 0
	for {
		if tCh == nil && aCh == nil {
			return tUpd, aUpd, true
		}
		select {
		case u, ok := <-tCh:
			if !ok {
				tCh = nil
				continue
			}
			tUpd = append(tUpd, u)
			total++
		case u, ok := <-aCh:
			if !ok {
				aCh = nil
				continue
			}
			aUpd = append(aUpd, u)
			total++
		case <-idle.C:
			return tUpd, aUpd, false
		}
		if total >= d.cfg.BatchSize {
			return tUpd, aUpd, false
		}
		if !idle.Stop() {
			<-idle.C
		}
		idle.Reset(d.cfg.IdleFlush)
	}
}

// drainNonBlocking collects whatever remains on the input channels
// without blocking, used for the final flush after STOP.
func (d *driver) drainNonBlocking() (tUpd, aUpd []ident.Update) {
	tCh, aCh := d.tboxIn, d.aboxIn
	for tCh != nil || aCh != nil {
		select {
		case u, ok := <-tCh:
			if !ok {
				tCh = nil
				continue
			}
			tUpd = append(tUpd, u)
		case u, ok := <-aCh:
			if !ok {
				aCh = nil
				continue
			}
			aUpd = append(aUpd, u)
		default:
			return tUpd, aUpd
		}
	}
	return tUpd, aUpd
}

// ingestAndEmit applies one batch of updates, advances the epoch,
// recomputes the closure under the active profile, and emits the
// resulting deltas plus a phase log record.
func (d *driver) ingestAndEmit(tUpd, aUpd []ident.Update) {
	start := time.Now()
	d.epoch++

	for _, u := range tUpd {
		d.tboxState.Add(u.Triple, u.Delta)
	}
	for _, u := range aUpd {
		d.aboxState.Add(u.Triple, u.Delta)
	}

	tboxLive := liveSet(d.tboxState)
	tboxClosure, lists := d.mat.tbox(tboxLive)
	aboxLive := liveSet(d.aboxState)
	aboxClosure := d.mat.abox(tboxClosure, lists, aboxLive)

	tboxDeltas := collection.Diff(d.prevTBox, tboxClosure)
	aboxDeltas := collection.Diff(d.prevABox, aboxClosure)
	d.prevTBox = tboxClosure
	d.prevABox = aboxClosure

	added, removed := 0, 0
	for _, dl := range tboxDeltas {
		d.tboxOut <- ident.TimedDelta{Triple: dl.Elem, Epoch: d.epoch, Delta: dl.Delta}
		tally(&added, &removed, dl.Delta)
	}
	for _, dl := range aboxDeltas {
		d.aboxOut <- ident.TimedDelta{Triple: dl.Elem, Epoch: d.epoch, Delta: dl.Delta}
		tally(&added, &removed, dl.Delta)
	}

	d.log <- logcsv.Record{
		File:    d.cfg.File,
		Latency: time.Since(start),
		Added:   added,
		Removed: removed,
		Worker:  0,
	}
}

func tally(added, removed *int, delta int64) {
	if delta > 0 {
		*added++
	} else {
		*removed++
	}
}

func liveSet(c collection.Collection[ident.Triple]) collection.Collection[ident.Triple] {
	out := make(collection.Collection[ident.Triple], len(c))
	for t, mult := range c {
		if mult > 0 {
			out[t] = 1
		}
	}
	return out
}
