package engine

import (
	"math/bits"

	"github.com/rs/zerolog"
)

// Evaluator scores positions with a fixed weight set. Scores are from
// White's point of view: positive favours White.
type Evaluator struct {
	weights *EvaluationWeights
	logger  zerolog.Logger
}

// NewEvaluator binds an evaluator to w. A nil w selects DefaultWeights.
func NewEvaluator(w *EvaluationWeights, logger zerolog.Logger) *Evaluator {
	if w == nil {
		w = DefaultWeights()
	}
	return &Evaluator{weights: w, logger: logger}
}

// Weights exposes the evaluator's weight set for the move orderer.
func (e *Evaluator) Weights() *EvaluationWeights { return e.weights }

// Evaluate returns the static score of pos. Checkmate saturates to
// ±MateScore, signed against the mated side; draws score DrawScore. With
// debug set the component breakdown is logged at debug level.
func (e *Evaluator) Evaluate(pos Position, debug bool) float64 {
	if pos.IsCheckmate() {
		score := mateScore(pos)
		if debug {
			e.logger.Debug().Float64("score", score).Msg("checkmate")
		}
		return score
	}
	if pos.IsDraw() {
		if debug {
			e.logger.Debug().Msg("draw")
		}
		return DrawScore
	}

	bbs := readBoards(pos)
	endgameWeight := e.endgameWeight(&bbs)

	wMaterial := e.material(&bbs, White)
	bMaterial := e.material(&bbs, Black)

	wPlacement := e.placement(&bbs, White, endgameWeight)
	bPlacement := e.placement(&bbs, Black, endgameWeight)

	wPawns := e.pawnStructure(bbs[White][Pawn])
	bPawns := e.pawnStructure(bbs[Black][Pawn])

	kingSafetyScale := clamp(e.weights.KingSafetyPivot-endgameWeight, 0, 1)
	wKing := e.KingSafety(pos, White) * kingSafetyScale
	bKing := e.KingSafety(pos, Black) * kingSafetyScale

	wPosition := wPlacement + wPawns + wKing + e.Mobility(pos, White)
	bPosition := bPlacement + bPawns + bKing + e.Mobility(pos, Black)

	score := (wMaterial + wPosition) - (bMaterial + bPosition)

	if debug {
		e.logger.Debug().
			Float64("endgameWeight", endgameWeight).
			Float64("whiteMaterial", wMaterial).
			Float64("blackMaterial", bMaterial).
			Float64("whitePlacement", wPlacement).
			Float64("blackPlacement", bPlacement).
			Float64("whitePawnStructure", wPawns).
			Float64("blackPawnStructure", bPawns).
			Float64("whitePosition", wPosition).
			Float64("blackPosition", bPosition).
			Float64("score", score).
			Msg("evaluation")
	}
	return score
}

// Relative returns Evaluate(pos, false) from the side to move's point of view.
func (e *Evaluator) Relative(pos Position) float64 {
	return pos.SideToMove().Sign() * e.Evaluate(pos, false)
}

// EvaluateMaterial sums piece values for side, kings excluded.
func (e *Evaluator) EvaluateMaterial(pos Position, side Color) float64 {
	bbs := readBoards(pos)
	return e.material(&bbs, side)
}

// EndgameWeight is 0 with all material on the board and approaches 1 as it
// comes off.
func (e *Evaluator) EndgameWeight(pos Position) float64 {
	bbs := readBoards(pos)
	return e.endgameWeight(&bbs)
}

// EvaluatePlacement sums the placement table values for side.
func (e *Evaluator) EvaluatePlacement(pos Position, side Color) float64 {
	bbs := readBoards(pos)
	return e.placement(&bbs, side, e.endgameWeight(&bbs))
}

// EvaluatePawnStructure returns the (non-positive) pawn structure term for side.
func (e *Evaluator) EvaluatePawnStructure(pos Position, side Color) float64 {
	bbs := readBoards(pos)
	return e.pawnStructure(bbs[side][Pawn])
}

// KingSafety is unscaled; Evaluate fades it out as material comes off.
func (e *Evaluator) KingSafety(pos Position, side Color) float64 { return 0 }

func (e *Evaluator) Mobility(pos Position, side Color) float64 { return 0 }

func (e *Evaluator) material(bbs *pieceBoards, side Color) (score float64) {
	for pt := Pawn; pt <= Queen; pt++ {
		score += float64(bbs.count(side, pt)) * e.weights.PieceValue[pt]
	}
	return score
}

func (e *Evaluator) endgameWeight(bbs *pieceBoards) float64 {
	pawns := bbs.count(White, Pawn) + bbs.count(Black, Pawn)
	minors := bbs.count(White, Knight) + bbs.count(White, Bishop) +
		bbs.count(Black, Knight) + bbs.count(Black, Bishop)
	rooks := bbs.count(White, Rook) + bbs.count(Black, Rook)
	queens := bbs.count(White, Queen) + bbs.count(Black, Queen)

	remaining := e.weights.phaseMaterial(pawns, minors, rooks, queens)
	return clamp(1-remaining/e.weights.startingNonKingMaterialScore, 0, 1)
}

func (e *Evaluator) placement(bbs *pieceBoards, side Color, endgameWeight float64) (score float64) {
	w := e.weights
	for pt := Pawn; pt <= King; pt++ {
		pieces := bbs[side][pt]
		for pieces != 0 {
			sq := bits.TrailingZeros64(pieces)
			pieces &= pieces - 1
			idx := tableIndex(sq, side)

			switch pt {
			case Pawn:
				score += lerp(w.PawnMG[idx], w.PawnEG[idx], endgameWeight)
			case Knight:
				score += w.Knight[idx]
			case Bishop:
				score += w.Bishop[idx]
			case Rook:
				score += w.Rook[idx]
			case Queen:
				score += w.Queen[idx]
			case King:
				if endgameWeight > w.KingEndgameSnap {
					score += w.KingEG[idx]
				} else {
					score += lerp(w.KingMG[idx], w.KingEG[idx], endgameWeight)
				}
			}
		}
	}
	return score
}

// pawnStructure penalises each pawn beyond the first on a file, every
// isolated pawn, and adds the combined penalty for pawns that are both.
func (e *Evaluator) pawnStructure(pawns uint64) (score float64) {
	w := e.weights
	for file := 0; file < 8; file++ {
		n := bits.OnesCount64(pawns & onlyFile[file])
		if n == 0 {
			continue
		}
		doubled := n > 1
		isolated := pawns&adjacentFiles[file] == 0

		if doubled {
			score -= float64(n-1) * w.DoubledPawnPenalty
		}
		if isolated {
			score -= float64(n) * w.IsolatedPawnPenalty
		}
		if doubled && isolated {
			score -= float64(n) * w.DoubledAndIsolatedPawnExtra
		}
	}
	return score
}
