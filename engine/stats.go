package engine

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// SearchStats collects counters for a single FindBestMove call. Pass one in
// Options.Stats to read them back; Evaluations is the number of positions
// scored at the search horizon.
type SearchStats struct {
	Nodes            uint64
	Evaluations      uint64
	BetaCutoffs      uint64
	QuiescenceNodes  uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
	IllegalCaptures  uint64
}

// Reset zeroes every counter.
func (s *SearchStats) Reset() {
	*s = SearchStats{}
}

// Add folds o into s.
func (s *SearchStats) Add(o SearchStats) {
	s.Nodes += o.Nodes
	s.Evaluations += o.Evaluations
	s.BetaCutoffs += o.BetaCutoffs
	s.QuiescenceNodes += o.QuiescenceNodes
	s.QStandPatCutoffs += o.QStandPatCutoffs
	s.QBetaCutoffs += o.QBetaCutoffs
	s.IllegalCaptures += o.IllegalCaptures
}

// MarshalZerologObject lets the stats ride along on a log event with Object.
func (s *SearchStats) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", s.Nodes).
		Uint64("evaluations", s.Evaluations).
		Uint64("betaCutoffs", s.BetaCutoffs).
		Uint64("qNodes", s.QuiescenceNodes).
		Uint64("qStandPatCutoffs", s.QStandPatCutoffs).
		Uint64("qBetaCutoffs", s.QBetaCutoffs).
		Uint64("illegalCaptures", s.IllegalCaptures)
}

// Dump writes the counters as UCI "info string" lines.
func (s *SearchStats) Dump(w io.Writer) {
	fmt.Fprintln(w, "info string Search statistics:")
	fmt.Fprintf(w, "info string   Nodes: %d\n", s.Nodes)
	fmt.Fprintf(w, "info string   Horizon evaluations: %d\n", s.Evaluations)
	fmt.Fprintf(w, "info string   Beta cutoffs: %d\n", s.BetaCutoffs)
	fmt.Fprintf(w, "info string   Quiescence nodes: %d\n", s.QuiescenceNodes)
	fmt.Fprintf(w, "info string   QStandPat cutoffs: %d\n", s.QStandPatCutoffs)
	fmt.Fprintf(w, "info string   QBeta cutoffs: %d\n", s.QBetaCutoffs)
	fmt.Fprintf(w, "info string   Illegal captures filtered: %d\n", s.IllegalCaptures)
}
