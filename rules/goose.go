package rules

import (
	"fmt"
	"math/bits"

	gm "github.com/Oliverans/GooseEngineMG/goosemg"

	"chess-search/engine"
)

// Goose is an engine.Position backed by the GooseEngineMG move generator.
type Goose struct {
	board *gm.Board

	// made and states form the undo stack; history holds the Zobrist key of
	// every position reached, the current one last.
	made    []gm.Move
	states  []gm.MoveState
	history []uint64
}

// NewGoose parses fen into a Goose board.
func NewGoose(fen string) (*Goose, error) {
	b, err := gm.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	g := &Goose{
		board:   b,
		made:    make([]gm.Move, 0, 64),
		states:  make([]gm.MoveState, 0, 64),
		history: make([]uint64, 0, 128),
	}
	g.history = append(g.history, b.Hash())
	return g, nil
}

func (g *Goose) FEN() string { return g.board.ToFEN() }

func (g *Goose) SideToMove() engine.Color { return engine.Color(g.board.SideToMove()) }

func (g *Goose) LegalMoves() []engine.Move {
	return convertGooseMoves(g.board.GenerateMoves(), false)
}

// PseudoLegalCaptures skips the king-safety filter; MakeMove catches the
// captures that turn out illegal.
func (g *Goose) PseudoLegalCaptures() []engine.Move {
	return convertGooseMoves(g.board.GeneratePseudoMoves(), true)
}

// MakeMove applies m and rejects it if the mover's king is left attacked.
// goosemg only screens king moves, en passant and pinned pieces, so a
// capture that ignores an existing check is caught here.
func (g *Goose) MakeMove(m engine.Move) bool {
	gmMove := gm.Move(m.Code)
	mover := g.SideToMove()
	ok, st := g.board.MakeMove(gmMove)
	if !ok {
		return false
	}
	if g.SquareAttackedBy(g.KingSquare(mover), mover.Other()) {
		g.board.UnmakeMove(gmMove, st)
		return false
	}
	g.made = append(g.made, gmMove)
	g.states = append(g.states, st)
	g.history = append(g.history, g.board.Hash())
	return true
}

func (g *Goose) UnmakeMove() {
	n := len(g.made)
	if n == 0 {
		panic("rules: UnmakeMove with empty stack")
	}
	g.board.UnmakeMove(g.made[n-1], g.states[n-1])
	g.made = g.made[:n-1]
	g.states = g.states[:n-1]
	g.history = g.history[:len(g.history)-1]
}

func (g *Goose) IsDraw() bool {
	return g.board.IsDrawBy50() ||
		g.board.IsDrawByRepetition(g.repetitionWindow()) ||
		g.board.InStalemate() ||
		insufficientMaterial(g)
}

func (g *Goose) IsCheckmate() bool { return g.board.InCheckmate() }

func (g *Goose) SquareAttackedBy(sq engine.Square, by engine.Color) bool {
	if sq == engine.NoSquare {
		return false
	}
	return g.board.IsSquareAttacked(gm.Square(sq), gm.Color(by))
}

func (g *Goose) KingSquare(c engine.Color) engine.Square {
	kings := g.board.Bitboards(gm.Color(c)).Kings
	if kings == 0 {
		return engine.NoSquare
	}
	return engine.Square(bits.TrailingZeros64(kings))
}

func (g *Goose) PieceAt(sq engine.Square) engine.Piece {
	p := g.board.PieceAt(gm.Square(sq))
	if p == gm.NoPiece {
		return engine.NoPiece
	}
	return engine.Piece{Type: engine.PieceType(p.Type()), Color: engine.Color(p.Color())}
}

func (g *Goose) ParseMove(uci string) (engine.Move, error) { return findMove(g, uci) }

func (g *Goose) Play(uci string) error { return play(g, uci) }

// repetitionWindow trims the history to the positions since the last
// capture or pawn move.
func (g *Goose) repetitionWindow() []uint64 {
	start := len(g.history) - 1 - g.board.HalfmoveClock()
	if start < 0 {
		start = 0
	}
	return g.history[start:]
}

func convertGooseMoves(moves []gm.Move, capturesOnly bool) []engine.Move {
	out := make([]engine.Move, 0, len(moves))
	for _, m := range moves {
		if capturesOnly && m.CapturedPiece() == gm.NoPiece && m.Flags() != gm.FlagEnPassant {
			continue
		}
		out = append(out, engine.Move{
			From:      engine.Square(m.From()),
			To:        engine.Square(m.To()),
			Promotion: engine.PieceType(m.PromotionPieceType()),
			Code:      uint32(m),
		})
	}
	return out
}
