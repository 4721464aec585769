package engine

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// File bitboard mask for file A; the others are shifts of it.
var bitboardFileA uint64 = 0x0101010101010101

var onlyFile [8]uint64
var adjacentFiles [8]uint64

func init() {
	for file := 0; file < 8; file++ {
		onlyFile[file] = bitboardFileA << uint(file)
	}
	for file := 0; file < 8; file++ {
		if file > 0 {
			adjacentFiles[file] |= onlyFile[file-1]
		}
		if file < 7 {
			adjacentFiles[file] |= onlyFile[file+1]
		}
	}
}

// pieceBoards holds one bitboard per side and piece type, indexed
// [Color][PieceType]. Index 0 of the second dimension is the side's union.
type pieceBoards [2][7]uint64

// readBoards scans the position once so evaluation can work on bitboards no
// matter which rules backend produced the position.
func readBoards(pos Position) (bbs pieceBoards) {
	for sq := Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		if p.IsNone() {
			continue
		}
		bit := uint64(1) << uint(sq)
		bbs[p.Color][p.Type] |= bit
		bbs[p.Color][NoPieceType] |= bit
	}
	return bbs
}

func (bbs *pieceBoards) count(c Color, pt PieceType) int {
	return bits.OnesCount64(bbs[c][pt])
}

func lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

func clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// tableIndex returns the placement table index for a piece of color c on sq.
func tableIndex(sq int, c Color) int {
	if c == White {
		return sq
	}
	return FlipView[sq]
}
