package engine

// Square indexes the board little-endian: a1 = 0, h1 = 7, a8 = 56, h8 = 63.
type Square int8

const NoSquare Square = -1

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// Color is the side owning a piece or holding the move.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// Sign is +1 for White and -1 for Black; it turns White-positive scores into
// side-relative ones.
func (c Color) Sign() float64 {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is the colorless kind of a piece.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [7]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

// Piece is a PieceType owned by a Color. The zero value is NoPiece.
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func (p Piece) IsNone() bool { return p.Type == NoPieceType }

// Move is a from/to/promotion triple. Code carries the rules backend's own
// encoding so a Position can replay the move without re-deriving it; core
// code never looks inside it.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Code      uint32
}

// NullMove is the sentinel returned when the root position is already decided.
var NullMove = Move{From: NoSquare, To: NoSquare}

func (m Move) IsNull() bool { return m.From == NoSquare }

// String renders the move in UCI long algebraic form (e2e4, e7e8q, 0000).
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(pieceLetters[m.Promotion])
	}
	return s
}

// ScoredMove pairs a move with its search or ordering score.
type ScoredMove struct {
	Move  Move
	Score float64
}

// Position is the mutable board the search walks. Implementations live in
// the rules package; the engine only ever mutates it through MakeMove and
// UnmakeMove, strictly LIFO.
type Position interface {
	SideToMove() Color
	// LegalMoves returns a freshly generated slice of legal moves.
	LegalMoves() []Move
	// PseudoLegalCaptures may include captures that leave the mover's king
	// attacked; MakeMove rejects those.
	PseudoLegalCaptures() []Move
	// MakeMove plays m and reports true, or reports false and leaves the
	// position untouched when m would leave the mover's king attacked.
	MakeMove(m Move) bool
	// UnmakeMove takes back the most recent successful MakeMove.
	UnmakeMove()
	IsDraw() bool
	IsCheckmate() bool
	SquareAttackedBy(sq Square, by Color) bool
	KingSquare(c Color) Square
	PieceAt(sq Square) Piece
}
