// solecheck hammers sole containers and audits the ownership ledger.
//
// Usage:
//
//	solecheck                        # all modes, default load
//	solecheck -mode own -rounds 500
//	solecheck -workers 16 -d 2s
//
// Each round builds one container, races publishers and readers
// over it, then tears everything down and checks the accounting:
// exactly one publish may win, and every value must be released
// exactly once. Exits non-zero if any round breaks the ledger.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dacapoday/sole"
	"github.com/dacapoday/sole/owned"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func main() {
	modeFlag := flag.String("mode", "all", "what to hammer: own, ref, weak or all")
	workersFlag := flag.Int("workers", 8, "goroutines per round")
	roundsFlag := flag.Int("rounds", 100, "rounds per mode")
	durationFlag := flag.Duration("d", 0, "time budget per mode (overrides -rounds)")
	quietFlag := flag.Bool("q", false, "only report failures")
	flag.Parse()

	checks := []struct {
		mode  string
		check func(workers int) error
	}{
		{"own", checkOwn},
		{"ref", checkRef},
		{"weak", checkWeak},
	}

	known := *modeFlag == "all"
	for _, c := range checks {
		if *modeFlag == c.mode {
			known = true
		}
	}
	if flag.NArg() > 0 || !known {
		fmt.Fprintln(os.Stderr, "Usage: solecheck [-mode own|ref|weak|all] [-workers n] [-rounds n] [-d duration] [-q]")
		os.Exit(1)
	}

	logger := newLogger(*quietFlag)

	failed := false
	for _, c := range checks {
		if *modeFlag != "all" && *modeFlag != c.mode {
			continue
		}
		if err := run(logger, c.mode, c.check, *workersFlag, *roundsFlag, *durationFlag); err != nil {
			failed = true
		}
	}

	logger.Sync()
	if failed {
		os.Exit(1)
	}
}

// newLogger picks console output on a terminal, JSON elsewhere.
func newLogger(quiet bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(logger *zap.Logger, mode string, check func(workers int) error, workers, rounds int, budget time.Duration) error {
	start := time.Now()
	deadline := start.Add(budget)

	round := 0
	for {
		if budget > 0 {
			if !time.Now().Before(deadline) {
				break
			}
		} else if round >= rounds {
			break
		}
		if err := check(workers); err != nil {
			logger.Error("ledger broken",
				zap.String("mode", mode),
				zap.Int("round", round),
				zap.Error(err))
			return err
		}
		round++
	}

	logger.Info("ledger clean",
		zap.String("mode", mode),
		zap.Int("rounds", round),
		zap.Int("workers", workers),
		zap.Duration("took", time.Since(start)))
	return nil
}

// checkOwn races exclusive publishes against reads on one slot.
func checkOwn(workers int) error {
	var drops atomic.Int32
	var wins atomic.Int32
	var slot sole.Own[int]

	var group errgroup.Group
	for i := range workers {
		group.Go(func() error {
			if slot.TrySet(owned.NewUnique(i, func(*int) { drops.Add(1) })) {
				wins.Add(1)
			}
			// Once any publish returned, the slot is never empty again.
			view, ok := slot.TryGet()
			if !ok {
				return errors.New("own: empty slot after publish")
			}
			if *view < 0 || *view >= workers {
				return fmt.Errorf("own: torn read %d", *view)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if w := wins.Load(); w != 1 {
		return fmt.Errorf("own: %d winners, want 1", w)
	}
	if d := drops.Load(); d != int32(workers-1) {
		return fmt.Errorf("own: %d losers released, want %d", d, workers-1)
	}

	slot.Close()
	if d := drops.Load(); d != int32(workers) {
		return fmt.Errorf("own: %d values released after close, want %d", d, workers)
	}
	return nil
}

// checkRef races shared publishes, clones and reads on one slot.
func checkRef(workers int) error {
	var drops atomic.Int32
	var wins atomic.Int32
	var slot sole.Ref[int]

	var group errgroup.Group
	for i := range workers {
		group.Go(func() error {
			if slot.TrySet(owned.NewShared(i, func(*int) { drops.Add(1) })) {
				wins.Add(1)
			}
			clone := slot.Clone()
			defer clone.Close()
			view, ok := clone.TryGet()
			if !ok {
				return errors.New("ref: empty clone after publish")
			}
			if *view < 0 || *view >= workers {
				return fmt.Errorf("ref: torn read %d", *view)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if w := wins.Load(); w != 1 {
		return fmt.Errorf("ref: %d winners, want 1", w)
	}
	if d := drops.Load(); d != int32(workers-1) {
		return fmt.Errorf("ref: %d losers released, want %d", d, workers-1)
	}

	slot.Close()
	if d := drops.Load(); d != int32(workers) {
		return fmt.Errorf("ref: %d values released after close, want %d", d, workers)
	}
	return nil
}

// checkWeak races upgrades against the last strong release.
func checkWeak(workers int) error {
	var drops atomic.Int32
	strong := owned.NewShared(42, func(*int) { drops.Add(1) })
	weak := strong.Weak()

	var group errgroup.Group
	for range workers {
		group.Go(func() error {
			for range 1000 {
				upgraded, ok := weak.Upgrade()
				if !ok {
					return nil
				}
				v := *upgraded.Value()
				upgraded.Release()
				if v != 42 {
					return fmt.Errorf("weak: upgrade saw %d", v)
				}
			}
			return nil
		})
	}
	strong.Release()
	if err := group.Wait(); err != nil {
		return err
	}

	if d := drops.Load(); d != 1 {
		return fmt.Errorf("weak: value released %d times, want 1", d)
	}
	if _, ok := weak.Upgrade(); ok {
		return errors.New("weak: upgrade succeeded after last release")
	}
	return nil
}
