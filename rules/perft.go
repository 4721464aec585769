package rules

import "chess-search/engine"

// Perft counts the leaf nodes of the legal move tree of pos to depth. It
// walks the tree through the engine.Position interface, so it exercises
// exactly the calls the search makes.
func Perft(pos engine.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		if !pos.MakeMove(m) {
			continue
		}
		nodes += Perft(pos, depth-1)
		pos.UnmakeMove()
	}
	return nodes
}

// PerftDivide returns the Perft count below each root move.
func PerftDivide(pos engine.Position, depth int) map[engine.Move]uint64 {
	result := make(map[engine.Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range pos.LegalMoves() {
		if !pos.MakeMove(m) {
			continue
		}
		result[m] = Perft(pos, depth-1)
		pos.UnmakeMove()
	}
	return result
}
