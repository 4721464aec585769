package rules

import (
	"github.com/dylhunn/dragontoothmg"
)

// Leaper attack masks. dragontoothmg keeps its own copies unexported, so
// they are rebuilt here; sliders go through its exported magic lookups.
var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	// pawnAttacks[c][sq] holds the squares a pawn of color c on sq attacks.
	pawnAttacks [2][64]uint64
)

func init() {
	for sq := 0; sq < 64; sq++ {
		rank, file := sq/8, sq%8
		for _, d := range [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
			knightAttacks[sq] |= maskAt(rank+d[0], file+d[1])
		}
		for dr := -1; dr <= 1; dr++ {
			for df := -1; df <= 1; df++ {
				if dr != 0 || df != 0 {
					kingAttacks[sq] |= maskAt(rank+dr, file+df)
				}
			}
		}
		pawnAttacks[0][sq] = maskAt(rank+1, file-1) | maskAt(rank+1, file+1)
		pawnAttacks[1][sq] = maskAt(rank-1, file-1) | maskAt(rank-1, file+1)
	}
}

func maskAt(rank, file int) uint64 {
	if rank < 0 || rank > 7 || file < 0 || file > 7 {
		return 0
	}
	return 1 << uint(rank*8+file)
}

// squareAttacked reports whether any piece in attackers hits sq. byWhite
// picks the pawn direction.
func squareAttacked(sq uint8, byWhite bool, attackers *dragontoothmg.Bitboards, occupancy uint64) bool {
	if knightAttacks[sq]&attackers.Knights != 0 {
		return true
	}
	if kingAttacks[sq]&attackers.Kings != 0 {
		return true
	}
	// A pawn attacks sq exactly when a pawn of the other color on sq
	// would attack the pawn's square.
	defender := 0
	if byWhite {
		defender = 1
	}
	if pawnAttacks[defender][sq]&attackers.Pawns != 0 {
		return true
	}
	if dragontoothmg.CalculateBishopMoveBitboard(sq, occupancy)&(attackers.Bishops|attackers.Queens) != 0 {
		return true
	}
	return dragontoothmg.CalculateRookMoveBitboard(sq, occupancy)&(attackers.Rooks|attackers.Queens) != 0
}
