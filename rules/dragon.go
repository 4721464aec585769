package rules

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"

	"chess-search/engine"
)

// Dragon is an engine.Position backed by dragontoothmg. dragontoothmg only
// generates legal moves, so its pseudo-legal captures are already legal.
type Dragon struct {
	board   dragontoothmg.Board
	undo    []func()
	history stateStack
}

// NewDragon parses fen into a Dragon board. dragontoothmg does not report
// parse errors, so the FEN is validated first.
func NewDragon(fen string) (*Dragon, error) {
	if _, err := chess.FEN(fen); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	d := &Dragon{
		board: dragontoothmg.ParseFen(fen),
		undo:  make([]func(), 0, 64),
	}
	d.history.push(positionState{Key: positionKey(d.board.ToFen()), Rule50: halfmoveClock(fen)})
	return d, nil
}

func (d *Dragon) FEN() string { return d.board.ToFen() }

func (d *Dragon) SideToMove() engine.Color {
	if d.board.Wtomove {
		return engine.White
	}
	return engine.Black
}

func (d *Dragon) LegalMoves() []engine.Move {
	return d.convert(d.board.GenerateLegalMoves(), false)
}

func (d *Dragon) PseudoLegalCaptures() []engine.Move {
	return d.convert(d.board.GenerateLegalMoves(), true)
}

// MakeMove applies m and rejects it afterwards if the mover's king is left
// attacked.
func (d *Dragon) MakeMove(m engine.Move) bool {
	dm := dragontoothmg.Move(m.Code)
	mover := d.SideToMove()

	rule50 := d.history.top().Rule50 + 1
	if d.isPawn(dm.From()) || dragontoothmg.IsCapture(dm, &d.board) {
		rule50 = 0
	}

	unapply := d.board.Apply(dm)
	if d.SquareAttackedBy(d.KingSquare(mover), mover.Other()) {
		unapply()
		return false
	}
	d.undo = append(d.undo, unapply)
	d.history.push(positionState{Key: positionKey(d.board.ToFen()), Rule50: rule50})
	return true
}

func (d *Dragon) UnmakeMove() {
	n := len(d.undo)
	if n == 0 {
		panic("rules: UnmakeMove with empty stack")
	}
	d.undo[n-1]()
	d.undo = d.undo[:n-1]
	d.history.pop()
}

func (d *Dragon) IsDraw() bool {
	if d.history.isDraw() || insufficientMaterial(d) {
		return true
	}
	return len(d.board.GenerateLegalMoves()) == 0 && !d.board.OurKingInCheck()
}

func (d *Dragon) IsCheckmate() bool {
	return len(d.board.GenerateLegalMoves()) == 0 && d.board.OurKingInCheck()
}

func (d *Dragon) SquareAttackedBy(sq engine.Square, by engine.Color) bool {
	if sq == engine.NoSquare {
		return false
	}
	attackers := &d.board.White
	if by == engine.Black {
		attackers = &d.board.Black
	}
	occupancy := d.board.White.All | d.board.Black.All
	return squareAttacked(uint8(sq), by == engine.White, attackers, occupancy)
}

func (d *Dragon) KingSquare(c engine.Color) engine.Square {
	kings := d.board.White.Kings
	if c == engine.Black {
		kings = d.board.Black.Kings
	}
	if kings == 0 {
		return engine.NoSquare
	}
	return engine.Square(bits.TrailingZeros64(kings))
}

func (d *Dragon) PieceAt(sq engine.Square) engine.Piece {
	if pt, ok := pieceTypeAt(uint8(sq), &d.board.White); ok {
		return engine.Piece{Type: pt, Color: engine.White}
	}
	if pt, ok := pieceTypeAt(uint8(sq), &d.board.Black); ok {
		return engine.Piece{Type: pt, Color: engine.Black}
	}
	return engine.NoPiece
}

func (d *Dragon) ParseMove(uci string) (engine.Move, error) { return findMove(d, uci) }

func (d *Dragon) Play(uci string) error { return play(d, uci) }

func (d *Dragon) isPawn(sq uint8) bool {
	return (d.board.White.Pawns|d.board.Black.Pawns)&(uint64(1)<<sq) != 0
}

func (d *Dragon) convert(moves []dragontoothmg.Move, capturesOnly bool) []engine.Move {
	out := make([]engine.Move, 0, len(moves))
	for _, m := range moves {
		if capturesOnly && !dragontoothmg.IsCapture(m, &d.board) {
			continue
		}
		out = append(out, engine.Move{
			From:      engine.Square(m.From()),
			To:        engine.Square(m.To()),
			Promotion: engine.PieceType(m.Promote()),
			Code:      uint32(m),
		})
	}
	return out
}

// pieceTypeAt looks sq up in one side's bitboards.
func pieceTypeAt(sq uint8, bitboards *dragontoothmg.Bitboards) (engine.PieceType, bool) {
	bit := uint64(1) << sq
	switch {
	case bitboards.Pawns&bit != 0:
		return engine.Pawn, true
	case bitboards.Knights&bit != 0:
		return engine.Knight, true
	case bitboards.Bishops&bit != 0:
		return engine.Bishop, true
	case bitboards.Rooks&bit != 0:
		return engine.Rook, true
	case bitboards.Queens&bit != 0:
		return engine.Queen, true
	case bitboards.Kings&bit != 0:
		return engine.King, true
	}
	return engine.NoPieceType, false
}

// positionKey drops the move clocks from a FEN so equal positions compare
// equal.
func positionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

func halfmoveClock(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 5 {
		return 0
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return n
}
