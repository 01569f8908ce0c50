// Command dire is the CLI front end for the reasoner: it loads a TBox and
// ABox file, drives the reasoner entry point through an initial load and
// an optional update batch, and writes the CSV phase log.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diregraph/dire/internal/config"
	"github.com/diregraph/dire/internal/ident"
	"github.com/diregraph/dire/internal/logcsv"
	"github.com/diregraph/dire/internal/parser"
	"github.com/diregraph/dire/internal/reasoner"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dire:", err)
		os.Exit(1)
	}
}

// cliArgs is the parsed form of the 7 positional arguments from section 6.
type cliArgs struct {
	tboxPath     string
	aboxPath     string
	expressivity string
	workers      int
	batchSize    string
	hostfile     string
	updateFile   string
}

func parseArgs(raw []string) (cliArgs, error) {
	if len(raw) < 5 {
		return cliArgs{}, fmt.Errorf("usage: dire tbox abox expressivity workers batch_size [hostfile] [update_file]")
	}
	a := cliArgs{
		tboxPath:     raw[0],
		aboxPath:     raw[1],
		expressivity: raw[2],
		batchSize:    raw[4],
	}
	workers, err := strconv.Atoi(raw[3])
	if err != nil || workers < 1 {
		return cliArgs{}, fmt.Errorf("worker count must be a positive integer, got %q", raw[3])
	}
	a.workers = workers
	if len(raw) > 5 {
		a.hostfile = raw[5]
	}
	if len(raw) > 6 {
		a.updateFile = raw[6]
	}
	return a, nil
}

// resolveBatchSize turns the batch-size argument (absolute count or a
// 0 < f <= 1 fraction of the ABox size) into the absolute count the
// reasoner's Config expects. Zero means a single batch.
func resolveBatchSize(raw string, aboxSize int) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("batch size must be non-negative, got %d", n)
		}
		if n == 0 {
			if aboxSize < 1 {
				return 1, nil
			}
			return aboxSize, nil
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f > 1 {
		return 0, fmt.Errorf("batch size must be a positive integer or a fraction in (0, 1], got %q", raw)
	}
	n := int(f * float64(aboxSize))
	if n < 1 {
		n = 1
	}
	return n, nil
}

func run(raw []string) error {
	a, err := parseArgs(raw)
	if err != nil {
		return err
	}

	if a.hostfile != "" {
		if _, err := config.LoadCluster(a.hostfile); err != nil {
			return err
		}
	}

	var skipLog parser.SkipLogger
	if os.Getenv("DIRE_DEBUG_SKIPS") != "" {
		skipLog = func(line int, text string, reason error) {
			fmt.Fprintf(os.Stderr, "dire: skipped line %d (%q): %v\n", line, text, reason)
		}
	}

	tbox, err := parser.ReadFile(a.tboxPath, skipLog)
	if err != nil {
		return err
	}
	abox, err := parser.ReadFile(a.aboxPath, skipLog)
	if err != nil {
		return err
	}

	batchSize, err := resolveBatchSize(a.batchSize, len(abox))
	if err != nil {
		return err
	}

	aboxStem := stem(a.aboxPath)
	engine := reasoner.ParseEngine(a.expressivity)
	h := reasoner.Entrypoint(reasoner.Config{
		Engine:    engine,
		Workers:   a.workers,
		BatchSize: batchSize,
		File:      aboxStem,
	})

	logW, _, err := logcsv.Create(".", aboxStem, engine.String(), batchSize, a.workers, time.Now().UnixMilli())
	if err != nil {
		return err
	}

	// keepGoing answers every done/terminator round with CONTINUE; the
	// CLI never issues STOP itself, relying instead on closing the input
	// channels once all triples are sent, which the driver treats as the
	// terminal state per its collectBatch contract.
	go keepGoing(h, a.workers)

	var g errgroup.Group
	g.Go(func() error { return drainDeltas(h.TBoxOut) })
	g.Go(func() error { return drainDeltas(h.ABoxOut) })
	g.Go(func() error { return drainLog(logW, h.Log) })

	for _, t := range tbox {
		h.TBoxIn <- ident.Update{Triple: t, Delta: 1}
	}
	for _, t := range abox {
		h.ABoxIn <- ident.Update{Triple: t, Delta: 1}
	}

	if a.updateFile != "" {
		manifest, err := config.LoadUpdateManifest(a.updateFile)
		if err != nil {
			return err
		}
		updates, err := parser.ReadFile(manifest.TriplesPath, skipLog)
		if err != nil {
			return err
		}
		delta := int64(1)
		if manifest.Retract {
			delta = -1
		}
		for _, t := range updates {
			h.ABoxIn <- ident.Update{Triple: t, Delta: delta}
		}
	}

	close(h.TBoxIn)
	close(h.ABoxIn)

	if err := h.Wait(); err != nil {
		return err
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return logW.Flush()
}

// keepGoing answers every phase-barrier round for the lifetime of the
// reasoner. It leaks harmlessly once the reasoner exits on its own (the
// closed-channel path never issues a further done signal), which is fine
// for a short-lived CLI process.
func keepGoing(h *reasoner.Handle, workers int) {
	for {
		for i := 0; i < workers; i++ {
			if _, ok := <-h.Done; !ok {
				return
			}
		}
		for i := 0; i < workers; i++ {
			h.Terminator <- "CONTINUE"
		}
	}
}

func drainDeltas(ch <-chan ident.TimedDelta) error {
	for range ch {
	}
	return nil
}

func drainLog(w *logcsv.Writer, ch <-chan logcsv.Record) error {
	for r := range ch {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
