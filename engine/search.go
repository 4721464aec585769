package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"lukechampine.com/frand"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	// MateScore is the saturating checkmate score. It is finite so negating
	// it or adding ScoreTolerance stays well-defined.
	MateScore float64 = math.MaxFloat32
	DrawScore float64 = 0

	// ScoreTolerance is the window inside which two root scores count as equal.
	ScoreTolerance = 0.005
)

var (
	ErrInvalidPlies = errors.New("engine: max plies must be non-negative")
	ErrIllegalMove  = errors.New("engine: rules backend rejected a generated move")
)

// Rand is the random source used to break ties between equal root moves.
// Both *frand.RNG and *golang.org/x/exp/rand.Rand satisfy it.
type Rand interface {
	Intn(n int) int
}

// Options configures one FindBestMove call.
type Options struct {
	AlphaBeta  bool
	Ordering   bool
	Quiescence bool

	// Stats, when set, receives the counters of this search.
	Stats *SearchStats
	// Rand breaks root ties. Nil means a fresh frand generator.
	Rand Rand
	// Weights configures evaluation and ordering. Nil means DefaultWeights.
	Weights *EvaluationWeights
	Logger  zerolog.Logger
}

// DefaultOptions turns every search feature on.
func DefaultOptions() Options {
	return Options{
		AlphaBeta:  true,
		Ordering:   true,
		Quiescence: true,
		Logger:     zerolog.Nop(),
	}
}

type searcher struct {
	pos      Position
	maxPlies int
	opts     Options
	eval     *Evaluator
	stats    *SearchStats
	rng      Rand
}

func newSearcher(pos Position, maxPlies int, opts Options) *searcher {
	s := &searcher{
		pos:      pos,
		maxPlies: maxPlies,
		opts:     opts,
		eval:     NewEvaluator(opts.Weights, opts.Logger),
		stats:    opts.Stats,
		rng:      opts.Rand,
	}
	if s.stats == nil {
		s.stats = &SearchStats{}
	}
	if s.rng == nil {
		s.rng = frand.New()
	}
	return s
}

// rootPly is the ply of the position handed to FindBestMove. Root moves
// lead to rootPly+1, so maxPlies of 0 and 1 both look one move ahead.
const rootPly = 1

// FindBestMove searches pos to maxPlies and returns the chosen move with its
// score from the side to move's point of view. pos is restored before
// returning, whatever the outcome. An already drawn or mated position
// returns NullMove with DrawScore or -MateScore without searching.
//
// When several root moves score within ScoreTolerance of the best, one of
// them is picked at random with opts.Rand.
func FindBestMove(ctx context.Context, pos Position, maxPlies int, opts Options) (ScoredMove, error) {
	if maxPlies < 0 {
		return ScoredMove{Move: NullMove}, fmt.Errorf("%w: got %d", ErrInvalidPlies, maxPlies)
	}
	s := newSearcher(pos, maxPlies, opts)
	best, err := s.rootSearch(ctx)
	if err != nil {
		return ScoredMove{Move: NullMove}, err
	}
	s.opts.Logger.Debug().
		Int("maxPlies", maxPlies).
		Stringer("move", best.Move).
		Float64("score", best.Score).
		Object("stats", s.stats).
		Msg("search finished")
	return best, nil
}

// Quiescence runs a capture-only search of pos inside (alpha, beta) and
// returns the score from the side to move's point of view.
func Quiescence(ctx context.Context, pos Position, alpha, beta float64, opts Options) (float64, error) {
	s := newSearcher(pos, 0, opts)
	return s.quiescence(ctx, alpha, beta)
}

// =============================================================================
// ROOT
// =============================================================================

func (s *searcher) rootSearch(ctx context.Context) (ScoredMove, error) {
	if s.pos.IsDraw() {
		return ScoredMove{Move: NullMove, Score: DrawScore}, nil
	}
	if s.pos.IsCheckmate() {
		return ScoredMove{Move: NullMove, Score: s.relative(mateScore(s.pos))}, nil
	}

	moves := s.pos.LegalMoves()
	if len(moves) == 0 {
		return ScoredMove{Move: NullMove, Score: s.eval.Relative(s.pos)}, nil
	}
	if s.opts.Ordering {
		moves = RankMoves(s.pos, moves, s.eval.Weights())
	}

	alpha, beta := math.Inf(-1), math.Inf(1)
	best := ScoredMove{Move: NullMove, Score: math.Inf(-1)}
	ties := make([]ScoredMove, 0, 4)

	for i, m := range moves {
		score, err := s.searchMove(ctx, m, alpha, beta, rootPly)
		if err != nil {
			return ScoredMove{}, err
		}

		switch {
		case i == 0:
			best = ScoredMove{Move: m, Score: score}
			ties = append(ties, best)
		case math.Abs(score-best.Score) < ScoreTolerance:
			ties = append(ties, ScoredMove{Move: m, Score: score})
		case score > best.Score:
			best = ScoredMove{Move: m, Score: score}
			ties = append(ties[:0], best)
		}

		// The root never cuts off. Alpha trails the best score by twice the
		// tolerance so every move that could tie still gets an exact score,
		// and a move that fails low cannot land inside the tie window.
		if s.opts.AlphaBeta && best.Score < MateScore {
			alpha = math.Max(alpha, best.Score-2*ScoreTolerance)
		}
	}

	if len(ties) > 1 {
		best = ties[s.rng.Intn(len(ties))]
	}
	return best, nil
}

// =============================================================================
// NEGAMAX
// =============================================================================

// negamax returns the score of the current position for the side to move.
// alpha and beta are this frame's own copies.
func (s *searcher) negamax(ctx context.Context, alpha, beta float64, ply int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.stats.Nodes++

	if s.pos.IsDraw() {
		return DrawScore, nil
	}
	if s.pos.IsCheckmate() {
		return s.relative(mateScore(s.pos)), nil
	}

	if ply > s.maxPlies {
		s.stats.Evaluations++
		if s.opts.Quiescence {
			return s.quiescence(ctx, alpha, beta)
		}
		return s.eval.Relative(s.pos), nil
	}

	moves := s.pos.LegalMoves()
	if len(moves) == 0 {
		return s.eval.Relative(s.pos), nil
	}
	if s.opts.Ordering {
		moves = RankMoves(s.pos, moves, s.eval.Weights())
	}

	bestScore := math.Inf(-1)
	for _, m := range moves {
		score, err := s.searchMove(ctx, m, alpha, beta, ply)
		if err != nil {
			return 0, err
		}
		if score > bestScore {
			bestScore = score
		}

		if s.opts.AlphaBeta {
			alpha = math.Max(alpha, score)
			if alpha >= beta {
				s.stats.BetaCutoffs++
				break
			}
		}
	}
	return bestScore, nil
}

// searchMove plays m, scores the reply position one ply deeper and returns
// the result from the mover's point of view. The move is always taken back
// before returning.
func (s *searcher) searchMove(ctx context.Context, m Move, alpha, beta float64, ply int) (float64, error) {
	unapply, ok := applyMove(s.pos, m)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	defer unapply()

	childAlpha, childBeta := math.Inf(-1), math.Inf(1)
	if s.opts.AlphaBeta {
		childAlpha, childBeta = -beta, -alpha
	}
	score, err := s.negamax(ctx, childAlpha, childBeta, ply+1)
	return -score, err
}
