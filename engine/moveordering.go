package engine

import "sort"

// moveList is a slice of candidate moves with their ordering guesses. It
// sorts best-first.
type moveList []ScoredMove

func (l moveList) Len() int           { return len(l) }
func (l moveList) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }
func (l moveList) Less(i, j int) bool { return l[i].Score > l[j].Score }

// RankMoves reorders moves in place, most promising first, and returns the
// same slice. It only changes the order; every move is kept.
func RankMoves(pos Position, moves []Move, w *EvaluationWeights) []Move {
	list := ScoreMoves(pos, moves, w)
	for i := range list {
		moves[i] = list[i].Move
	}
	return moves
}

// ScoreMoves returns the ordering guess for every move, sorted best-first.
// Equal guesses keep their generation order.
func ScoreMoves(pos Position, moves []Move, w *EvaluationWeights) []ScoredMove {
	list := make(moveList, len(moves))
	for i, m := range moves {
		list[i] = ScoredMove{Move: m, Score: orderingGuess(pos, m, w)}
	}
	sort.Stable(list)
	return list
}

// orderingGuess scores one move before it is searched:
//   - landing on a square the opponent attacks and we do not defend costs the
//     mover's value;
//   - otherwise, if attacked, capturing up earns the value difference;
//   - on an unattacked square, promotion earns a queen and any capture is free;
//   - giving check is worth a pawn on top.
func orderingGuess(pos Position, m Move, w *EvaluationWeights) (guess float64) {
	mover := pos.PieceAt(m.From)
	victim := pos.PieceAt(m.To)
	us := mover.Color
	them := us.Other()

	moverValue := w.PieceValue[mover.Type]
	victimValue := w.PieceValue[victim.Type]

	if pos.SquareAttackedBy(m.To, them) {
		if !pos.SquareAttackedBy(m.To, us) {
			guess -= moverValue
		} else if !victim.IsNone() && moverValue < victimValue {
			guess += victimValue - moverValue
		}
	} else {
		if mover.Type == Pawn && isLastRank(m.To, us) {
			guess += w.PieceValue[Queen]
		}
		if !victim.IsNone() {
			guess += victimValue
		}
	}

	if givesCheck(pos, m) {
		guess += w.PieceValue[Pawn]
	}
	return guess
}

func isLastRank(sq Square, c Color) bool {
	if c == White {
		return sq.Rank() == 7
	}
	return sq.Rank() == 0
}

// givesCheck probes m with a make/unmake pair.
func givesCheck(pos Position, m Move) bool {
	us := pos.SideToMove()
	if !pos.MakeMove(m) {
		return false
	}
	defer pos.UnmakeMove()
	return pos.SquareAttackedBy(pos.KingSquare(us.Other()), us)
}
