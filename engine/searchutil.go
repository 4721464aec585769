package engine

import (
	"context"
	"fmt"
	"io"
)

// quiescence searches captures only until the position is quiet. It is
// fail-hard: results are clamped to [alpha, beta].
func (s *searcher) quiescence(ctx context.Context, alpha, beta float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.stats.QuiescenceNodes++

	standPat := s.eval.Relative(s.pos)
	if standPat >= beta {
		s.stats.QStandPatCutoffs++
		return beta, nil
	}
	if standPat > alpha {
		alpha = standPat
	}

	captures := s.legalCaptures()
	if s.opts.Ordering {
		captures = RankMoves(s.pos, captures, s.eval.Weights())
	}

	for _, m := range captures {
		score, err := s.quiescenceMove(ctx, m, alpha, beta)
		if err != nil {
			return 0, err
		}
		if score >= beta {
			s.stats.QBetaCutoffs++
			return beta, nil
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha, nil
}

func (s *searcher) quiescenceMove(ctx context.Context, m Move, alpha, beta float64) (float64, error) {
	unapply, ok := applyMove(s.pos, m)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	defer unapply()

	score, err := s.quiescence(ctx, -beta, -alpha)
	return -score, err
}

// legalCaptures drops the pseudo-legal captures that would leave our own
// king attacked.
func (s *searcher) legalCaptures() []Move {
	pseudo := s.pos.PseudoLegalCaptures()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if !s.pos.MakeMove(m) {
			s.stats.IllegalCaptures++
			continue
		}
		s.pos.UnmakeMove()
		legal = append(legal, m)
	}
	return legal
}

// applyMove plays m and hands back the closure that takes it back.
func applyMove(pos Position, m Move) (unapply func(), ok bool) {
	if !pos.MakeMove(m) {
		return nil, false
	}
	return pos.UnmakeMove, true
}

// mateScore scores a checkmated position from White's side: whichever king
// is attacked is the one that is mated.
func mateScore(pos Position) float64 {
	if pos.SquareAttackedBy(pos.KingSquare(White), Black) {
		return -MateScore
	}
	return MateScore
}

func (s *searcher) relative(whiteScore float64) float64 {
	return s.pos.SideToMove().Sign() * whiteScore
}

// DumpMoveOrdering writes the ordering guesses for every legal move of pos
// as UCI "info string" lines.
func DumpMoveOrdering(w io.Writer, pos Position, weights *EvaluationWeights) {
	if weights == nil {
		weights = DefaultWeights()
	}
	scored := ScoreMoves(pos, pos.LegalMoves(), weights)
	fmt.Fprintln(w, "info string move ordering")
	for idx, entry := range scored {
		fmt.Fprintf(w, "info string #%d %s score=%.3f\n", idx+1, entry.Move, entry.Score)
	}
}

// The search does not track mate distance, so saturated scores are reported
// as this many centipawns.
const mateCentipawns = 32000

// FormatScore renders a search score as a UCI "cp" value.
func FormatScore(score float64) string {
	switch {
	case score >= MateScore:
		return fmt.Sprintf("cp %d", mateCentipawns)
	case score <= -MateScore:
		return fmt.Sprintf("cp %d", -mateCentipawns)
	}
	return fmt.Sprintf("cp %d", int(score*100))
}
