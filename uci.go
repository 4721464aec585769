package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chess-search/engine"
	"chess-search/rules"
)

const defaultDepth = 4

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
	uciLoop(os.Stdin, os.Stdout, logger)
}

// uciSession is the state kept between UCI commands.
type uciSession struct {
	out     io.Writer
	logger  zerolog.Logger
	backend string
	board   rules.Board
	weights *engine.EvaluationWeights

	evalOnly         bool
	moveOrderingOnly bool
}

func uciLoop(in io.Reader, out io.Writer, logger zerolog.Logger) {
	s := &uciSession{
		out:     out,
		logger:  logger,
		backend: rules.BackendGoose,
		weights: engine.DefaultWeights(),
	}
	s.newGame()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "eval":
			s.evalOnly = true
		case "moveordering":
			s.moveOrderingOnly = true
		case "uci":
			fmt.Fprintln(out, "id name ChessSearch 0.1")
			fmt.Fprintln(out, "id author ChessSearch developers")
			fmt.Fprintln(out, "option name Backend type combo default goose var goose var dragon")
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			s.newGame()
		case "quit":
			return
		case "setoption":
			s.setOption(tokens[1:])
		case "position":
			s.position(tokens[1:])
		case "go":
			s.goCommand(tokens[1:])
		default:
			fmt.Fprintln(out, "info string Unknown command:", line)
		}
	}
}

func (s *uciSession) newGame() {
	board, err := rules.Open(s.backend, rules.StartFEN)
	if err != nil {
		s.logger.Error().Err(err).Msg("could not open start position")
		return
	}
	s.board = board
}

// setOption handles "setoption name Backend value dragon".
func (s *uciSession) setOption(tokens []string) {
	if len(tokens) != 4 || strings.ToLower(tokens[0]) != "name" || strings.ToLower(tokens[2]) != "value" {
		fmt.Fprintln(s.out, "info string Malformed setoption command")
		return
	}
	switch strings.ToLower(tokens[1]) {
	case "backend":
		prev := s.backend
		s.backend = strings.ToLower(tokens[3])
		if _, err := rules.Open(s.backend, rules.StartFEN); err != nil {
			fmt.Fprintln(s.out, "info string", err)
			s.backend = prev
			return
		}
		s.newGame()
	default:
		fmt.Fprintln(s.out, "info string Unknown option", tokens[1])
	}
}

func (s *uciSession) position(tokens []string) {
	if len(tokens) == 0 {
		fmt.Fprintln(s.out, "info string Malformed position command")
		return
	}

	var fen string
	rest := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		fen = rules.StartFEN
	case "fen":
		i := 0
		for i < len(rest) && strings.ToLower(rest[i]) != "moves" {
			i++
		}
		fen = strings.Join(rest[:i], " ")
		rest = rest[i:]
		if fen == "" {
			fmt.Fprintln(s.out, "info string Invalid fen position")
			return
		}
	default:
		fmt.Fprintln(s.out, "info string Invalid position subcommand")
		return
	}

	board, err := rules.Open(s.backend, fen)
	if err != nil {
		fmt.Fprintln(s.out, "info string", err)
		return
	}
	s.board = board

	if len(rest) == 0 || strings.ToLower(rest[0]) != "moves" {
		return
	}
	for _, moveStr := range rest[1:] {
		if err := s.board.Play(moveStr); err != nil {
			fmt.Fprintln(s.out, "info string Move", moveStr, "not found for position", s.board.FEN())
			return
		}
	}
}

func (s *uciSession) goCommand(tokens []string) {
	depth := defaultDepth
	var wTime, bTime, wInc, bInc, moveTime int
	for i := 0; i < len(tokens); i++ {
		nextToken := strings.ToLower(tokens[i])
		var target *int
		switch nextToken {
		case "infinite":
			continue
		case "depth":
			target = &depth
		case "wtime":
			target = &wTime
		case "btime":
			target = &bTime
		case "winc":
			target = &wInc
		case "binc":
			target = &bInc
		case "movetime":
			target = &moveTime
		default:
			fmt.Fprintln(s.out, "info string Unknown go subcommand", nextToken)
			continue
		}
		if i+1 >= len(tokens) {
			fmt.Fprintln(s.out, "info string Malformed go command option", nextToken)
			continue
		}
		i++
		v, err := strconv.Atoi(tokens[i])
		if err != nil {
			fmt.Fprintln(s.out, "info string Malformed go command option; could not convert", nextToken)
			continue
		}
		*target = v
	}

	clock := engine.Clock{MoveTime: time.Duration(moveTime) * time.Millisecond}
	if s.board.SideToMove() == engine.White {
		clock.Remaining = time.Duration(wTime) * time.Millisecond
		clock.Increment = time.Duration(wInc) * time.Millisecond
	} else {
		clock.Remaining = time.Duration(bTime) * time.Millisecond
		clock.Increment = time.Duration(bInc) * time.Millisecond
	}

	evaluator := engine.NewEvaluator(s.weights, s.logger)
	if s.evalOnly {
		breakdown := engine.NewEvaluator(s.weights,
			zerolog.New(infoStringWriter{s.out}).Level(zerolog.DebugLevel))
		fmt.Fprintf(s.out, "info string eval %.3f\n", breakdown.Evaluate(s.board, true))
		s.evalOnly = false
	}
	if s.moveOrderingOnly {
		engine.DumpMoveOrdering(s.out, s.board, s.weights)
		s.moveOrderingOnly = false
	}

	ctx := context.Background()
	if clock.IsSet() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, clock.Budget(evaluator.EndgameWeight(s.board)))
		defer cancel()
	}

	stats := &engine.SearchStats{}
	opts := engine.DefaultOptions()
	opts.Stats = stats
	opts.Weights = s.weights
	opts.Logger = s.logger

	start := time.Now()
	best, err := engine.FindBestMove(ctx, s.board, depth, opts)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		// Out of time: fall back to the move orderer's favourite.
		fmt.Fprintln(s.out, "info string search ran out of time at depth", depth)
		best = engine.ScoredMove{Move: engine.NullMove}
		if moves := s.board.LegalMoves(); len(moves) > 0 {
			best.Move = engine.RankMoves(s.board, moves, s.weights)[0]
		}
	case err != nil:
		fmt.Fprintln(s.out, "info string", err)
		fmt.Fprintln(s.out, "bestmove 0000")
		return
	default:
		fmt.Fprintf(s.out, "info depth %d score %s nodes %d time %d pv %s\n",
			depth, engine.FormatScore(best.Score), stats.Nodes+stats.QuiescenceNodes,
			time.Since(start).Milliseconds(), best.Move)
	}
	fmt.Fprintln(s.out, "bestmove", best.Move)
}

// infoStringWriter turns each log line into a UCI "info string" line.
type infoStringWriter struct {
	out io.Writer
}

func (w infoStringWriter) Write(p []byte) (int, error) {
	if _, err := fmt.Fprintf(w.out, "info string %s", p); err != nil {
		return 0, err
	}
	return len(p), nil
}
