package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"chess-search/engine"
	"chess-search/rules"
)

type suitePosition struct {
	name string
	fen  string
}

var suite = []suitePosition{
	{"start", rules.StartFEN},
	{"hanging queen", "rnb1kbnr/pppp1pp1/4p2p/6q1/4P3/5N1P/PPPP1PP1/RNBQKB1R w KQkq - 0 1"},
	{"mate in two", "r1bq2r1/b4pk1/p1pp1p2/1p2pP2/1P2P1PB/3P4/1PPQ2P1/R3K2R w - - 0 1"},
}

type variant struct {
	name                            string
	alphaBeta, ordering, quiescence bool
}

var variants = []variant{
	{"plain", false, false, false},
	{"alphabeta", true, false, false},
	{"alphabeta+ordering", true, true, false},
	{"alphabeta+ordering+quiescence", true, true, true},
}

// result is one variant searched on one suite position.
type result struct {
	variant string
	best    engine.ScoredMove
	stats   engine.SearchStats
	elapsed time.Duration
}

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", 3, "search depth in plies")
	fenFlag := flag.String("fen", "", "search only this FEN instead of the demo suite")
	backend := flag.String("backend", rules.BackendGoose, "rules backend: goose or dragon")
	seed := flag.Uint64("seed", 1, "seed for root tie-breaks")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to the working directory")
	memProfile := flag.Bool("memprofile", false, "write a heap profile to the working directory")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if *depthFlag < 0 {
		log.Fatal().Int("depth", *depthFlag).Msg("depth must not be negative")
	}

	// --- Optional profiling ---
	switch {
	case *cpuProfile:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case *memProfile:
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	positions := suite
	if *fenFlag != "" {
		positions = []suitePosition{{"custom", *fenFlag}}
	}

	fmt.Printf("searchbench: backend=%s depth=%d positions=%d\n", *backend, *depthFlag, len(positions))

	// Every worker opens its own board, so no position is ever shared
	// between goroutines.
	results := make([][]result, len(positions))
	g, ctx := errgroup.WithContext(context.Background())
	for i, sp := range positions {
		i, sp := i, sp
		g.Go(func() error {
			res, err := runPosition(ctx, *backend, sp, *depthFlag, *seed)
			if err != nil {
				return fmt.Errorf("%s: %w", sp.name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("searchbench failed")
	}

	for i, sp := range positions {
		report(sp, results[i])
	}
}

func runPosition(ctx context.Context, backend string, sp suitePosition, depth int, seed uint64) ([]result, error) {
	out := make([]result, 0, len(variants))
	for _, v := range variants {
		board, err := rules.Open(backend, sp.fen)
		if err != nil {
			return nil, err
		}
		r := result{variant: v.name}
		opts := engine.Options{
			AlphaBeta:  v.alphaBeta,
			Ordering:   v.ordering,
			Quiescence: v.quiescence,
			Stats:      &r.stats,
			Rand:       rand.New(rand.NewSource(seed)),
			Logger:     log.Logger.With().Str("position", sp.name).Str("variant", v.name).Logger(),
		}

		start := time.Now()
		r.best, err = engine.FindBestMove(ctx, board, depth, opts)
		if err != nil {
			return nil, err
		}
		r.elapsed = time.Since(start)
		out = append(out, r)
	}
	return out, nil
}

func report(sp suitePosition, results []result) {
	fmt.Printf("\n%s (%s)\n", sp.name, sp.fen)
	fmt.Println(strings.Repeat("-", 96))
	fmt.Printf("%-30s %-8s %-10s %12s %12s %12s %10s\n",
		"variant", "move", "score", "evaluations", "nodes", "qnodes", "time")

	var baseline uint64
	for i, r := range results {
		if i == 0 {
			baseline = r.stats.Evaluations
		}
		fmt.Printf("%-30s %-8s %-10s %12d %12d %12d %10v\n",
			r.variant, r.best.Move, engine.FormatScore(r.best.Score),
			r.stats.Evaluations, r.stats.Nodes, r.stats.QuiescenceNodes,
			r.elapsed.Round(time.Millisecond))
		if i > 0 && baseline > 0 {
			fmt.Printf("%-30s %.1f%% of plain evaluations\n", "",
				100*float64(r.stats.Evaluations)/float64(baseline))
		}
	}
}
