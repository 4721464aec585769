package engine_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"chess-search/engine"
	"chess-search/rules"
)

// fixedRand always picks index i (modulo n) and remembers the last n it saw.
type fixedRand struct {
	i    int
	seen int
}

func (r *fixedRand) Intn(n int) int {
	r.seen = n
	return r.i % n
}

func plainOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.AlphaBeta = false
	opts.Ordering = false
	opts.Quiescence = false
	return opts
}

func search(t *testing.T, b rules.Board, plies int, opts engine.Options) engine.ScoredMove {
	t.Helper()
	fen := b.FEN()
	best, err := engine.FindBestMove(context.Background(), b, plies, opts)
	if err != nil {
		t.Fatalf("search %q: %v", fen, err)
	}
	if after := b.FEN(); after != fen {
		t.Fatalf("search did not restore the position: before %q after %q", fen, after)
	}
	return best
}

func TestFindBestMoveStartPosition(t *testing.T) {
	for _, backend := range []string{rules.BackendGoose, rules.BackendDragon} {
		b := openBoard(t, backend, rules.StartFEN)
		best := search(t, b, 1, engine.DefaultOptions())
		if _, err := b.ParseMove(best.Move.String()); err != nil {
			t.Fatalf("%s: returned move %s is not legal: %v", backend, best.Move, err)
		}
		if math.Abs(best.Score) >= 1 {
			t.Fatalf("%s: expected a small score, got %f", backend, best.Score)
		}
	}
}

func TestFindBestMoveBreaksTiesRandomly(t *testing.T) {
	// d2d4 and e2e4 both move a pawn from -0.1 to 0.165 on the placement
	// table; nothing else comes close at one ply.
	got := make(map[string]bool)
	for i := 0; i < 2; i++ {
		b := openBoard(t, rules.BackendGoose, rules.StartFEN)
		rng := &fixedRand{i: i}
		opts := plainOptions()
		opts.Rand = rng

		best := search(t, b, 1, opts)
		if rng.seen != 2 {
			t.Fatalf("expected a tie between 2 moves, got %d", rng.seen)
		}
		if !almostEqual(math.Round(best.Score*1000)/1000, 0.265) {
			t.Fatalf("expected score 0.265, got %f", best.Score)
		}
		got[best.Move.String()] = true
	}
	if !got["d2d4"] || !got["e2e4"] {
		t.Fatalf("expected both d2d4 and e2e4 to be picked, got %v", got)
	}
}

func TestFindBestMoveSeededRandIsRepeatable(t *testing.T) {
	pick := func() string {
		b := openBoard(t, rules.BackendGoose, rules.StartFEN)
		opts := plainOptions()
		opts.Rand = rand.New(rand.NewSource(42))
		return search(t, b, 1, opts).Move.String()
	}
	if first, second := pick(), pick(); first != second {
		t.Fatalf("same seed picked %s then %s", first, second)
	}
}

func TestAlphaBetaMatchesPlainSearch(t *testing.T) {
	fens := []string{
		rules.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"rnb1kbnr/pppp1pp1/4p2p/6q1/4P3/5N1P/PPPP1PP1/RNBQKB1R w KQkq - 0 1",
	}
	for _, fen := range fens {
		for _, plies := range []int{2, 3} {
			var plainStats, prunedStats, orderedStats engine.SearchStats

			opts := plainOptions()
			opts.Rand = &fixedRand{}
			opts.Stats = &plainStats
			plain := search(t, openBoard(t, rules.BackendGoose, fen), plies, opts)

			opts.AlphaBeta = true
			opts.Rand = &fixedRand{}
			opts.Stats = &prunedStats
			pruned := search(t, openBoard(t, rules.BackendGoose, fen), plies, opts)

			opts.Ordering = true
			opts.Rand = &fixedRand{}
			opts.Stats = &orderedStats
			ordered := search(t, openBoard(t, rules.BackendGoose, fen), plies, opts)

			if plain.Move != pruned.Move || plain.Score != pruned.Score {
				t.Fatalf("%q depth %d: plain %s %f, pruned %s %f",
					fen, plies, plain.Move, plain.Score, pruned.Move, pruned.Score)
			}
			if math.Abs(plain.Score-ordered.Score) >= engine.ScoreTolerance {
				t.Fatalf("%q depth %d: plain score %f, ordered %f", fen, plies, plain.Score, ordered.Score)
			}
			if prunedStats.Evaluations > plainStats.Evaluations {
				t.Fatalf("%q depth %d: pruned search evaluated more (%d > %d)",
					fen, plies, prunedStats.Evaluations, plainStats.Evaluations)
			}
			if orderedStats.BetaCutoffs == 0 && plies > 2 {
				t.Fatalf("%q depth %d: expected beta cutoffs with ordering", fen, plies)
			}
		}
	}
}

func TestAlphaBetaMatchesPlainSearchWithQuiescence(t *testing.T) {
	fens := []string{
		rules.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"rnb1kbnr/pppp1pp1/4p2p/6q1/4P3/5N1P/PPPP1PP1/RNBQKB1R w KQkq - 0 1",
		"rnb1k1nr/pppp1pp1/4p2p/6q1/1b2P3/3P1N1P/PPP2PP1/RNBQKB1R w KQkq - 1 2",
	}
	for _, fen := range fens {
		for _, plies := range []int{1, 2} {
			var plainStats, prunedStats engine.SearchStats

			opts := plainOptions()
			opts.Quiescence = true
			opts.Rand = &fixedRand{}
			opts.Stats = &plainStats
			plain := search(t, openBoard(t, rules.BackendGoose, fen), plies, opts)

			opts.AlphaBeta = true
			opts.Rand = &fixedRand{}
			opts.Stats = &prunedStats
			pruned := search(t, openBoard(t, rules.BackendGoose, fen), plies, opts)

			if plain.Move != pruned.Move || math.Abs(plain.Score-pruned.Score) > 1e-9 {
				t.Fatalf("%q depth %d: plain %s %f, pruned %s %f",
					fen, plies, plain.Move, plain.Score, pruned.Move, pruned.Score)
			}
			if prunedStats.Evaluations > plainStats.Evaluations {
				t.Fatalf("%q depth %d: pruned search evaluated more (%d > %d)",
					fen, plies, prunedStats.Evaluations, plainStats.Evaluations)
			}
		}
	}
}

func TestQuiescenceRespectsCheck(t *testing.T) {
	// White is in check from b4; the hanging g5 queen must not be taken.
	const fen = "rnb1k1nr/pppp1pp1/4p2p/6q1/1b2P3/3P1N1P/PPP2PP1/RNBQKB1R w KQkq - 1 2"
	for _, backend := range []string{rules.BackendGoose, rules.BackendDragon} {
		b := openBoard(t, backend, fen)
		var stats engine.SearchStats
		opts := engine.DefaultOptions()
		opts.Stats = &stats
		if _, err := engine.Quiescence(context.Background(), b, math.Inf(-1), math.Inf(1), opts); err != nil {
			t.Fatalf("%s: quiescence failed: %v", backend, err)
		}
		if backend == rules.BackendGoose && stats.IllegalCaptures == 0 {
			t.Fatalf("%s: expected f3g5 to be filtered as illegal", backend)
		}
		if b.FEN() != openBoard(t, backend, fen).FEN() {
			t.Fatalf("%s: quiescence did not restore the position", backend)
		}
	}
}

func TestFindBestMoveWinsHangingQueen(t *testing.T) {
	b := openBoard(t, rules.BackendGoose, "rnb1kbnr/pppp1pp1/4p2p/6q1/4P3/5N1P/PPPP1PP1/RNBQKB1R w KQkq - 0 1")
	best := search(t, b, 2, engine.DefaultOptions())
	if best.Move.String() != "f3g5" {
		t.Fatalf("expected f3g5, got %s (%f)", best.Move, best.Score)
	}
}

func TestQuiescenceAvoidsDefendedPawn(t *testing.T) {
	const fen = "4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1"

	opts := plainOptions()
	best := search(t, openBoard(t, rules.BackendGoose, fen), 1, opts)
	if best.Move.String() != "d1d5" {
		t.Fatalf("expected the horizon to grab d1d5 without quiescence, got %s", best.Move)
	}

	opts.Quiescence = true
	var stats engine.SearchStats
	opts.Stats = &stats
	best = search(t, openBoard(t, rules.BackendGoose, fen), 1, opts)
	if best.Move.String() == "d1d5" {
		t.Fatalf("quiescence still played d1d5 (%f)", best.Score)
	}
	if stats.QuiescenceNodes == 0 {
		t.Fatalf("expected quiescence nodes to be counted")
	}
}

func TestQuiescenceStandsPatInQuietPosition(t *testing.T) {
	b := openBoard(t, rules.BackendGoose, "4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1")
	score, err := engine.Quiescence(context.Background(), b, math.Inf(-1), math.Inf(1), engine.DefaultOptions())
	if err != nil {
		t.Fatalf("quiescence: %v", err)
	}
	if want := newEvaluator().Relative(b); score != want {
		t.Fatalf("expected stand-pat %f, got %f", want, score)
	}
}

func TestQuiescenceTakesFreeQueen(t *testing.T) {
	b := openBoard(t, rules.BackendGoose, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	score, err := engine.Quiescence(context.Background(), b, math.Inf(-1), math.Inf(1), engine.DefaultOptions())
	if err != nil {
		t.Fatalf("quiescence: %v", err)
	}
	if standPat := newEvaluator().Relative(b); score < standPat+5 {
		t.Fatalf("expected the queen capture to lift %f well above stand-pat %f", score, standPat)
	}
}

func TestFindBestMoveMateInOne(t *testing.T) {
	tests := []struct {
		fen  string
		want string
	}{
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8"},
		{"r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", "a8a1"},
	}
	for _, backend := range []string{rules.BackendGoose, rules.BackendDragon} {
		for _, tt := range tests {
			b := openBoard(t, backend, tt.fen)
			best := search(t, b, 1, engine.DefaultOptions())
			if best.Move.String() != tt.want || best.Score != engine.MateScore {
				t.Fatalf("%s %q: expected %s with MateScore, got %s %f", backend, tt.fen, tt.want, best.Move, best.Score)
			}
		}
	}
}

func TestFindBestMoveDecidedRoot(t *testing.T) {
	draw := openBoard(t, rules.BackendGoose, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	best := search(t, draw, 3, engine.DefaultOptions())
	if !best.Move.IsNull() || best.Score != engine.DrawScore {
		t.Fatalf("expected null move and draw score, got %s %f", best.Move, best.Score)
	}

	mated := openBoard(t, rules.BackendGoose, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	best = search(t, mated, 3, engine.DefaultOptions())
	if !best.Move.IsNull() || best.Score != -engine.MateScore {
		t.Fatalf("expected null move and -MateScore, got %s %f", best.Move, best.Score)
	}
}

func TestFindBestMoveRejectsNegativePlies(t *testing.T) {
	b := openBoard(t, rules.BackendGoose, rules.StartFEN)
	_, err := engine.FindBestMove(context.Background(), b, -1, engine.DefaultOptions())
	if !errors.Is(err, engine.ErrInvalidPlies) {
		t.Fatalf("expected ErrInvalidPlies, got %v", err)
	}
}

func TestFindBestMoveHonoursCancellation(t *testing.T) {
	for _, backend := range []string{rules.BackendGoose, rules.BackendDragon} {
		b := openBoard(t, backend, rules.StartFEN)
		fen := b.FEN()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := engine.FindBestMove(ctx, b, 4, engine.DefaultOptions())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: expected context.Canceled, got %v", backend, err)
		}
		if after := b.FEN(); after != fen {
			t.Fatalf("%s: cancelled search left %q, want %q", backend, after, fen)
		}
	}
}

func TestBackendsAgreeOnScores(t *testing.T) {
	fens := []string{
		rules.StartFEN,
		"r1bq2r1/b4pk1/p1pp1p2/1p2pP2/1P2P1PB/3P4/1PPQ2P1/R3K2R w - - 0 1",
		"4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1",
	}
	for _, fen := range fens {
		var scores []float64
		for _, backend := range []string{rules.BackendGoose, rules.BackendDragon} {
			opts := engine.DefaultOptions()
			opts.Rand = &fixedRand{}
			scores = append(scores, search(t, openBoard(t, backend, fen), 2, opts).Score)
		}
		if math.Abs(scores[0]-scores[1]) >= engine.ScoreTolerance {
			t.Fatalf("%q: goose %f, dragon %f", fen, scores[0], scores[1])
		}
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "cp 0"},
		{1.5, "cp 150"},
		{-0.25, "cp -25"},
		{engine.MateScore, "cp 32000"},
		{-engine.MateScore, "cp -32000"},
	}
	for _, tt := range tests {
		if got := engine.FormatScore(tt.score); got != tt.want {
			t.Fatalf("FormatScore(%f): expected %q, got %q", tt.score, tt.want, got)
		}
	}
}
