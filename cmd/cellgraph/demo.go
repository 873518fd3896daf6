package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conterra/cellgraph/pkg/cell"
	"github.com/conterra/cellgraph/pkg/collection"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a small reactive graph and print what settles",
		Run: func(cmd *cobra.Command, args []string) {
			runDemo(cmd)
		},
	}
}

func runDemo(cmd *cobra.Command) {
	out := cmd.OutOrStdout()

	// Two sources, one derived sum, one watcher.
	r1 := cell.New(1)
	r2 := cell.New(2)
	sum := cell.Derive(func() int { return r1.Get() + r2.Get() })

	w := cell.Watch(func() {
		fmt.Fprintf(out, "sum = %d\n", sum.Get())
	})
	defer w.Destroy()

	// Both writes settle as one pass; the watcher fires once more.
	cell.Batch(func() {
		r1.Set(2)
		r2.Set(3)
	})

	// Per-slot collection invalidation.
	todos := collection.NewList("write code", "settle graph")
	lw := cell.Watch(func() {
		fmt.Fprintf(out, "first todo: %s\n", todos.At(0))
	})
	defer lw.Destroy()

	todos.SetAt(1, "ship it") // slot 1 only; the watcher above stays quiet
	todos.SetAt(0, "review code")

	stats := cell.ReadStats()
	fmt.Fprintf(out, "writes=%d recomputes=%d settle_passes=%d\n",
		stats.Writes, stats.Recomputes, stats.SettlePasses)
}
