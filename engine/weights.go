package engine

// EvaluationWeights holds every tunable constant the evaluator and move
// orderer read. Build it once with DefaultWeights and share it; nothing in
// this package writes to it after construction.
type EvaluationWeights struct {
	PieceValue [7]float64

	DoubledPawnPenalty           float64
	IsolatedPawnPenalty          float64
	DoubledAndIsolatedPawnExtra  float64
	KingEndgameSnap              float64 // above this endgame weight kings use the endgame table only
	KingSafetyPivot              float64 // king safety scales with clamp(pivot - endgameWeight, 0, 1)
	EndgamePawnDivisor           float64
	EndgameRookFactor            float64
	EndgameQueenFactor           float64
	startingNonKingMaterialScore float64

	// Placement tables are laid out from White's side: index 0 is a1, 63 is h8.
	// Black looks them up through FlipView.
	PawnMG [64]float64
	PawnEG [64]float64
	Knight [64]float64
	Bishop [64]float64
	Rook   [64]float64
	Queen  [64]float64
	KingMG [64]float64
	KingEG [64]float64
}

// FlipView mirrors a square vertically so Black can read White-oriented tables.
var FlipView = [64]int{
	56, 57, 58, 59, 60, 61, 62, 63,
	48, 49, 50, 51, 52, 53, 54, 55,
	40, 41, 42, 43, 44, 45, 46, 47,
	32, 33, 34, 35, 36, 37, 38, 39,
	24, 25, 26, 27, 28, 29, 30, 31,
	16, 17, 18, 19, 20, 21, 22, 23,
	8, 9, 10, 11, 12, 13, 14, 15,
	0, 1, 2, 3, 4, 5, 6, 7,
}

// DefaultWeights returns the stock weight set.
func DefaultWeights() *EvaluationWeights {
	w := &EvaluationWeights{
		PieceValue: [7]float64{
			NoPieceType: 0,
			Pawn:        1,
			Knight:      2.85,
			Bishop:      3,
			Rook:        5,
			Queen:       10,
			King:        0,
		},
		DoubledPawnPenalty:          0.095,
		IsolatedPawnPenalty:         0.105,
		DoubledAndIsolatedPawnExtra: 0.2,
		KingEndgameSnap:             0.7,
		KingSafetyPivot:             0.735,
		EndgamePawnDivisor:          2,
		EndgameRookFactor:           1.095,
		EndgameQueenFactor:          1.2,

		PawnMG: pawnTableMG,
		PawnEG: pawnTableEG,
		Knight: knightTable,
		Bishop: bishopTable,
		Rook:   rookTable,
		Queen:  queenTable,
		KingMG: kingTableMG,
		KingEG: kingTableEG,
	}
	w.startingNonKingMaterialScore = w.phaseMaterial(16, 8, 4, 2)
	return w
}

// phaseMaterial is the weighted material sum the endgame weight normalises.
// Minor pieces all count at bishop value.
func (w *EvaluationWeights) phaseMaterial(pawns, minors, rooks, queens int) float64 {
	return float64(pawns)*w.PieceValue[Pawn]/w.EndgamePawnDivisor +
		float64(minors)*w.PieceValue[Bishop] +
		float64(rooks)*w.PieceValue[Rook]*w.EndgameRookFactor +
		float64(queens)*w.PieceValue[Queen]*w.EndgameQueenFactor
}

// The tables below read like a board diagram turned upside down: the first
// row is rank 1.

var pawnTableMG = [64]float64{
	-0.175, -0.175, -0.175, -0.175, -0.175, -0.175, -0.175, -0.175,
	0.085, 0.085, 0.085, -0.1, -0.1, 0.085, 0.085, 0.085,
	0.035, 0, 0.035, 0.035, 0.035, 0, 0, 0.035,
	0.03, 0.065, 0.085, 0.165, 0.165, 0.085, 0.065, 0.03,
	0.025, 0.08, 0.13, 0.17, 0.17, 0.13, 0.08, 0.025,
	0.02, 0.045, 0.11, 0.155, 0.155, 0.11, 0.045, 0.02,
	0.075, 0.075, 0.1, 0.14, 0.14, 0.1, 0.075, 0.075,
	10, 10, 10, 10, 10, 10, 10, 10,
}

var pawnTableEG = [64]float64{
	-0.25, -0.25, -0.25, -0.25, -0.25, -0.25, -0.25, -0.25,
	-0.15, -0.15, -0.15, -0.15, -0.15, -0.15, -0.15, -0.15,
	-0.075, -0.075, -0.075, -0.075, -0.075, -0.075, -0.075, -0.075,
	0.175, 0.15, 0.125, 0.125, 0.125, 0.125, 0.15, 0.175,
	0.4, 0.3, 0.225, 0.225, 0.225, 0.225, 0.3, 0.4,
	1.75, 1.65, 1.6, 1.6, 1.6, 1.6, 1.65, 1.75,
	2.65, 2, 1.85, 1.85, 1.85, 1.85, 2, 2.65,
	10, 10, 10, 10, 10, 10, 10, 10,
}

var knightTable = [64]float64{
	-0.25, -0.1, -0.1, -0.1, -0.1, -0.1, -0.1, -0.25,
	-0.175, 0.035, 0.05, 0.05, 0.05, 0.05, 0.035, -0.175,
	-0.125, 0.1, 0.125, 0.1, 0.1, 0.125, 0.1, -0.125,
	-0.1, 0.125, 0.175, 0.175, 0.175, 0.175, 0.125, -0.1,
	-0.1, 0.125, 0.175, 0.175, 0.175, 0.175, 0.125, -0.1,
	-0.11, 0.1, 0.125, 0.1, 0.1, 0.125, 0.1, -0.11,
	-0.135, 0.035, 0.05, 0.05, 0.05, 0.05, 0.035, -0.135,
	-0.155, -0.075, -0.075, -0.075, -0.075, -0.075, -0.075, -0.155,
}

var bishopTable = [64]float64{
	-0.2, -0.25, -0.25, -0.25, -0.25, -0.25, -0.25, -0.2,
	-0.175, 0.125, 0.12, 0.12, 0.12, 0.12, 0.125, -0.175,
	-0.15, 0.14, 0.15, 0.15, 0.15, 0.15, 0.14, -0.15,
	-0.12, 0.155, 0.1675, 0.175, 0.175, 0.1675, 0.155, -0.12,
	-0.125, 0.165, 0.175, 0.18, 0.18, 0.175, 0.165, -0.125,
	0.15, 0.14, 0.15, 0.15, 0.15, 0.15, 0.14, 0.15,
	-0.175, 0.125, 0.12, 0.12, 0.12, 0.12, 0.125, -0.175,
	-0.2, -0.25, -0.25, -0.25, -0.25, -0.25, -0.25, -0.2,
}

var rookTable = [64]float64{
	-0.1, -0.075, 0.025, 0.075, 0.075, 0.025, -0.075, -0.1,
	-0.1, 0.065, 0.065, 0.085, 0.085, 0.065, 0.065, -0.1,
	0, 0.12, 0.12, 0.135, 0.135, 0.12, 0.12, 0,
	0.05, 0.145, 0.16, 0.19, 0.19, 0.16, 0.145, 0.05,
	0.085, 0.145, 0.16, 0.19, 0.19, 0.16, 0.145, 0.085,
	0.1, 0.135, 0.15, 0.15, 0.15, 0.15, 0.135, 0.1,
	0.125, 0.145, 0.16, 0.185, 0.185, 0.16, 0.145, 0.125,
	0.125, 0.145, 0.16, 0.185, 0.185, 0.16, 0.145, 0.125,
}

var queenTable = [64]float64{
	-0.125, -0.025, 0, 0.045, 0.045, 0, -0.025, -0.125,
	-0.075, 0.065, 0.065, 0.07, 0.07, 0.065, 0.065, -0.075,
	-0.035, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, -0.035,
	0, 0.085, 0.1, 0.185, 0.185, 0.1, 0.085, 0,
	0, 0.085, 0.1, 0.185, 0.185, 0.1, 0.085, 0,
	-0.035, 0.085, 0.1, 0.125, 0.125, 0.1, 0.085, -0.035,
	-0.075, 0.07, 0.095, 0.095, 0.095, 0.095, 0.07, -0.075,
	-0.125, 0.035, 0.045, 0.045, 0.045, 0.045, 0.035, -0.125,
}

var kingTableMG = [64]float64{
	0.175, 0.15, 0.1, -0.1, -0.1, 0.1, 0.15, 0.175,
	0.035, 0.035, 0.035, -0.115, -0.115, 0.035, 0.035, 0.035,
	-0.185, -0.3, -0.45, -0.75, -0.75, -0.45, -0.3, -0.185,
	-1, -1.75, -2.5, -4, -4, -2.5, -1.75, -1,
	-4, -5, -6, -8, -8, -6, -5, -4,
	-4, -5, -6, -8, -8, -6, -5, -4,
	-4, -5, -6, -8, -8, -6, -5, -4,
	-10, -10, -10, -10, -10, -10, -10, -10,
}

var kingTableEG = queenTable
