// Package reasoner implements the reasoner driver and entry point: the
// worker pool, epoch-driven ingestion, and phase-synchronized state
// machine that turns a stream of TBox/ABox updates into a stream of
// timestamped entailment deltas.
package reasoner

import (
	"fmt"
	"time"

	"github.com/diregraph/dire/internal/chanutil"
	"github.com/diregraph/dire/internal/collection"
	"github.com/diregraph/dire/internal/ident"
	"github.com/diregraph/dire/internal/logcsv"
	"github.com/diregraph/dire/internal/rules/owl2rl"
	"github.com/diregraph/dire/internal/rules/rdfs"
	"github.com/diregraph/dire/internal/rules/rdfspp"
)

// Engine selects the rule profile the reasoner materializes.
type Engine int

const (
	Dummy Engine = iota
	RDFS
	RDFSpp
	OWL2RL
)

// ParseEngine maps a CLI expressivity argument to an Engine; any value
// other than "rdfs"/"rdfspp"/"owl2rl" selects Dummy, per section 6.
func ParseEngine(s string) Engine {
	switch s {
	case "rdfs":
		return RDFS
	case "rdfspp":
		return RDFSpp
	case "owl2rl":
		return OWL2RL
	default:
		return Dummy
	}
}

func (e Engine) String() string {
	switch e {
	case RDFS:
		return "rdfs"
	case RDFSpp:
		return "rdfspp"
	case OWL2RL:
		return "owl2rl"
	default:
		return "dummy"
	}
}

type tboxFn func(collection.Collection[ident.Triple]) (collection.Collection[ident.Triple], []ident.List)
type aboxFn func(tboxClosure collection.Collection[ident.Triple], lists []ident.List, abox collection.Collection[ident.Triple]) collection.Collection[ident.Triple]

type materializers struct {
	tbox tboxFn
	abox aboxFn
}

func materializersFor(e Engine) materializers {
	switch e {
	case RDFS:
		return materializers{rdfs.TBoxClosure, rdfs.ABoxClosure}
	case RDFSpp:
		return materializers{rdfspp.TBoxClosure, rdfspp.ABoxClosure}
	case OWL2RL:
		return materializers{owl2rl.TBoxClosure, owl2rl.ABoxClosure}
	default:
		// Dummy passes each stream through to its own output cleanly:
		// TBox input contributes only to the TBox output, ABox input
		// only to the ABox output. The source's Dummy engine leaked
		// ABox content into the TBox channel in some paths; this keeps
		// the two streams separate as section 9 calls for.
		return materializers{dummyTBox, dummyABox}
	}
}

func dummyTBox(tbox collection.Collection[ident.Triple]) (collection.Collection[ident.Triple], []ident.List) {
	return tbox.Clone(), nil
}

func dummyABox(_ collection.Collection[ident.Triple], _ []ident.List, abox collection.Collection[ident.Triple]) collection.Collection[ident.Triple] {
	return abox.Clone()
}

const (
	cmdContinue = "CONTINUE"
	cmdStop     = "STOP"
)

// ErrChannelClosed is returned from a reasoner worker when its terminator
// channel is closed instead of receiving a command — the channel
// disconnected fatal error kind, distinct from the normal shutdown path
// where both input channels are closed and drained.
var ErrChannelClosed = fmt.Errorf("reasoner: terminator channel closed unexpectedly")

// Config is the runtime configuration for one reasoner instance.
type Config struct {
	Engine Engine
	// Workers is the total worker count, including the one worker that
	// performs ingestion and closure computation. Must be >= 1.
	Workers int
	// BatchSize bounds how many updates accumulate before a batch is
	// ingested; see section 6 for how CLI callers derive it from a fraction.
	BatchSize int
	// IdleFlush bounds how long a partial batch may sit before being
	// force-flushed, resolving the starvation bug noted in section 9.
	IdleFlush time.Duration
	// File is the ABox stem recorded on every logcsv.Record this reasoner
	// emits, matching the file column of section 6's CSV contract.
	File string
}

// DefaultIdleFlush is used when Config.IdleFlush is zero.
const DefaultIdleFlush = 20 * time.Millisecond

// Handle exposes the seven channels and the join handle the entry point
// contract promises: bounded TBox/ABox input sinks, unbounded TBox/ABox
// output sources, the done/terminator barrier pair, and the unbounded
// log source.
type Handle struct {
	TBoxIn     chan<- ident.Update
	ABoxIn     chan<- ident.Update
	TBoxOut    <-chan ident.TimedDelta
	ABoxOut    <-chan ident.TimedDelta
	Done       <-chan struct{}
	Terminator chan<- string
	Log        <-chan logcsv.Record

	errCh chan error
}

// Wait blocks until the reasoner worker has exited and returns its
// terminal error, if any (nil on a clean STOP). This is the join handle
// worker panics are surfaced through.
func (h *Handle) Wait() error {
	return <-h.errCh
}

// Entrypoint constructs the channels, spawns the reasoner's computing
// worker plus Config.Workers-1 handshake-only workers, and returns the
// channel handles immediately; the reasoner runs in the background until
// a terminator STOP is processed or both input channels are closed.
func Entrypoint(cfg Config) *Handle {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.IdleFlush <= 0 {
		cfg.IdleFlush = DefaultIdleFlush
	}

	tboxIn := make(chan ident.Update, cfg.BatchSize)
	aboxIn := make(chan ident.Update, cfg.BatchSize)
	tboxOutIn, tboxOutOut := chanutil.Unbounded[ident.TimedDelta]()
	aboxOutIn, aboxOutOut := chanutil.Unbounded[ident.TimedDelta]()
	logIn, logOut := chanutil.Unbounded[logcsv.Record]()
	done := make(chan struct{}, cfg.Workers)
	terminator := make(chan string, cfg.Workers)

	pool := newHandshakePool(cfg.Workers-1, done, terminator)

	d := &driver{
		cfg:           cfg,
		mat:           materializersFor(cfg.Engine),
		tboxIn:        tboxIn,
		aboxIn:        aboxIn,
		tboxOut:       tboxOutIn,
		aboxOut:       aboxOutIn,
		log:           logIn,
		done:          done,
		terminator:    terminator,
		pool:          pool,
		tboxState:     make(collection.Collection[ident.Triple]),
		aboxState:     make(collection.Collection[ident.Triple]),
		prevTBox:      make(collection.Collection[ident.Triple]),
		prevABox:      make(collection.Collection[ident.Triple]),
	}

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("reasoner: worker panic: %v", r)
			}
		}()
		errCh <- d.run()
	}()

	return &Handle{
		TBoxIn:     tboxIn,
		ABoxIn:     aboxIn,
		TBoxOut:    tboxOutOut,
		ABoxOut:    aboxOutOut,
		Done:       done,
		Terminator: terminator,
		Log:        logOut,
		errCh:      errCh,
	}
}
