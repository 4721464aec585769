package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"chess-search/engine"
	"chess-search/rules"
)

func main() {
	// --- Flags ---
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	depthFlag := flag.Int("depth", 4, "search depth in plies")
	alphaBeta := flag.Bool("alphabeta", true, "enable alpha-beta pruning")
	ordering := flag.Bool("ordering", true, "order moves before searching them")
	quiescence := flag.Bool("quiescence", true, "extend the horizon with a capture search")
	seed := flag.Uint64("seed", 0, "seed for root tie-breaks (0 = random)")
	backend := flag.String("backend", rules.BackendGoose, "rules backend: goose or dragon")
	evalOnly := flag.Bool("eval", false, "print the evaluation breakdown and exit")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug || *evalOnly {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	fen := rules.StartFEN
	if *fenFlag != "" {
		fen = *fenFlag
	}
	board, err := rules.Open(*backend, fen)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up position")
	}

	if *evalOnly {
		score := engine.NewEvaluator(nil, log.Logger).Evaluate(board, true)
		log.Info().Str("fen", fen).Float64("score", score).Msg("static evaluation")
		return
	}

	opts := engine.Options{
		AlphaBeta:  *alphaBeta,
		Ordering:   *ordering,
		Quiescence: *quiescence,
		Stats:      &engine.SearchStats{},
		Logger:     log.Logger,
	}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}

	start := time.Now()
	best, err := engine.FindBestMove(context.Background(), board, *depthFlag, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}

	log.Info().
		Str("backend", *backend).
		Int("depth", *depthFlag).
		Stringer("move", best.Move).
		Str("san", toSAN(fen, best.Move)).
		Float64("score", best.Score).
		Dur("elapsed", time.Since(start)).
		Object("stats", opts.Stats).
		Msg("best move")
}

// toSAN renders m in standard algebraic notation. An empty string means the
// move could not be rendered, which only happens for the null move.
func toSAN(fen string, m engine.Move) string {
	if m.IsNull() {
		return ""
	}
	setup, err := chess.FEN(fen)
	if err != nil {
		return ""
	}
	pos := chess.NewGame(setup).Position()
	move, err := chess.UCINotation{}.Decode(pos, m.String())
	if err != nil {
		log.Debug().Err(err).Stringer("move", m).Msg("could not decode move for SAN")
		return ""
	}
	return chess.AlgebraicNotation{}.Encode(pos, move)
}
