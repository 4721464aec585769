package rules

import "chess-search/engine"

type pieceReader interface {
	PieceAt(sq engine.Square) engine.Piece
}

// insufficientMaterial reports the dead positions neither side can win:
// bare kings, a single minor piece, or one bishop each on same-coloured
// squares.
func insufficientMaterial(pos pieceReader) bool {
	var minors [2]int
	var bishopShade [2]int
	var bishops [2]int

	for sq := engine.Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		switch p.Type {
		case engine.Pawn, engine.Rook, engine.Queen:
			return false
		case engine.Knight:
			minors[p.Color]++
		case engine.Bishop:
			minors[p.Color]++
			bishops[p.Color]++
			bishopShade[p.Color] = (sq.File() + sq.Rank()) & 1
		}
	}

	total := minors[engine.White] + minors[engine.Black]
	switch {
	case total <= 1:
		return true
	case total == 2 && bishops[engine.White] == 1 && bishops[engine.Black] == 1:
		return bishopShade[engine.White] == bishopShade[engine.Black]
	}
	return false
}
