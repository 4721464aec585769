// Package rules adapts third-party move generators to engine.Position.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"chess-search/engine"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Backend names accepted by Open.
const (
	BackendGoose  = "goose"
	BackendDragon = "dragon"
)

const fiftyMoveLimit = 100

var (
	ErrUnknownBackend = errors.New("rules: unknown backend")
	ErrIllegalMove    = errors.New("rules: illegal move")
	ErrInvalidFEN     = errors.New("rules: invalid FEN")
)

// Board is an engine.Position that can also be set up and inspected by
// callers outside the search.
type Board interface {
	engine.Position
	// FEN renders the current position.
	FEN() string
	// ParseMove finds the legal move matching a UCI string such as e7e8q.
	ParseMove(uci string) (engine.Move, error)
	// Play makes a game move given in UCI notation.
	Play(uci string) error
}

// Open parses fen with the named backend.
func Open(backend, fen string) (Board, error) {
	var (
		b   Board
		err error
	)
	switch strings.ToLower(backend) {
	case BackendGoose, "":
		b, err = NewGoose(fen)
	case BackendDragon:
		b, err = NewDragon(fen)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// findMove matches uci against the legal moves of pos.
func findMove(pos engine.Position, uci string) (engine.Move, error) {
	uci = strings.ToLower(strings.TrimSpace(uci))
	for _, m := range pos.LegalMoves() {
		if m.String() == uci {
			return m, nil
		}
	}
	return engine.NullMove, fmt.Errorf("%w: %s", ErrIllegalMove, uci)
}

// play makes a game move on b. Game moves stay on the undo stack, so the
// repetition history covers the whole game.
func play(b Board, uci string) error {
	m, err := b.ParseMove(uci)
	if err != nil {
		return err
	}
	if !b.MakeMove(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	return nil
}
