package rules

// positionState captures what repetition and fifty-move checks need to know
// about one position in the game.
type positionState struct {
	Key    string
	Rule50 int
}

// stateStack mirrors the undo stack: one entry per position reached, the
// current position on top.
type stateStack []positionState

func (s *stateStack) push(st positionState) {
	*s = append(*s, st)
}

func (s *stateStack) pop() {
	if len(*s) == 0 {
		return
	}
	*s = (*s)[:len(*s)-1]
}

func (s stateStack) top() positionState {
	return s[len(s)-1]
}

// isDraw reports a fifty-move or threefold-repetition draw for the top
// position.
func (s stateStack) isDraw() bool {
	if len(s) == 0 {
		return false
	}
	curr := s.top()
	if curr.Rule50 >= fiftyMoveLimit {
		return true
	}
	return s.repetitions(curr) >= 2
}

// repetitions counts earlier occurrences of curr since the last irreversible
// move.
func (s stateStack) repetitions(curr positionState) (count int) {
	if len(s) <= 1 {
		return 0
	}
	start := len(s) - 1 - curr.Rule50
	if start < 0 {
		start = 0
	}
	for i := start; i <= len(s)-2; i++ {
		if s[i].Key == curr.Key {
			count++
		}
	}
	return count
}
