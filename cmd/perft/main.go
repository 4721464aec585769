package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pkg/profile"

	"chess-search/engine"
	"chess-search/rules"
)

func main() {
	fen := flag.String("fen", rules.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	backend := flag.String("backend", rules.BackendGoose, "rules backend: goose or dragon")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.Bool("cpuprofile", false, "Write a CPU profile to the working directory")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := rules.Open(*backend, *fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open position: %v\n", err)
		os.Exit(2)
	}

	// Optional divide output
	if *divide {
		div := rules.PerftDivide(board, *depth)
		type kv struct {
			m engine.Move
			n uint64
		}
		arr := make([]kv, 0, len(div))
		var sum uint64
		for m, n := range div {
			arr = append(arr, kv{m, n})
			sum += n
		}
		sort.Slice(arr, func(i, j int) bool { return arr[i].m.String() < arr[j].m.String() })
		for _, x := range arr {
			fmt.Printf("%s: %d\n", x.m, x.n)
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	if *cpuProf {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	// Timing loop
	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += rules.Perft(board, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Label Backend Depth Nodes Time NPS
	fmt.Printf("%s \t%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *backend, *depth, totalNodes, elapsed, nps)
}
