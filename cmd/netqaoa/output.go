// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/katalvlaran/netqaoa/network"
	"github.com/katalvlaran/netqaoa/qaoa"
	"github.com/katalvlaran/netqaoa/qubo"
	"github.com/katalvlaran/netqaoa/sample"
	"github.com/katalvlaran/netqaoa/store"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown output format %q (text|json)", format)
	}
	return nil
}

func printReport(w io.Writer, format string, rep *qaoa.Report) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, rep)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "backend\t%s\n", rep.Backend)
	if rep.RunID != "" {
		fmt.Fprintf(tw, "run\t%s\n", rep.RunID)
	}
	fmt.Fprintf(tw, "variables\t%d\n", rep.Variables)
	fmt.Fprintf(tw, "feasible\t%t (deliverable %g)\n", rep.Feasible, rep.MaxDeliverable)
	if ref := rep.Reference; ref != nil {
		fmt.Fprintf(tw, "reference\t%s  energy %g  degeneracy %d\n", sample.Format(ref.Bits), ref.Energy, ref.Degeneracy)
	}
	o := rep.Optimization
	fmt.Fprintf(tw, "optimiser\t%s  iterations %d  evaluations %d\n", o.Status, o.Iterations, o.Evaluations)
	fmt.Fprintf(tw, "angles\t%v\n", o.Angles)
	fmt.Fprintf(tw, "best energy\t%g\n", o.Energy)
	fmt.Fprintf(tw, "final expected energy\t%g\n", rep.ExpectedEnergy)
	writeDecoded(tw, "most frequent", rep.MostFrequent)
	writeDecoded(tw, "lowest energy", rep.LowestEnergy)
	if rep.Reference != nil {
		fmt.Fprintf(tw, "reached reference\t%t\n", rep.FoundReference())
	}
	fmt.Fprintf(tw, "elapsed\t%s\n", rep.Elapsed.Round(time.Millisecond))
	return tw.Flush()
}

func writeDecoded(w io.Writer, label string, d qaoa.Decoded) {
	fmt.Fprintf(w, "%s\t%s  count %d  energy %g\n", label, d.Bitstring, d.Count, d.Energy)
	writeCheck(w, d.Flows, d.Check)
}

func writeCheck(w io.Writer, flows []string, c network.Report) {
	fmt.Fprintf(w, "  flows\t%s\n", strings.Join(flows, " "))
	fmt.Fprintf(w, "  cost\t%g (generation %g, relay %g)\n", c.TotalCost(), c.GenerationCost, c.RelayCost)
	if c.Satisfied() {
		fmt.Fprintf(w, "  constraints\tsatisfied\n")
		return
	}
	for _, v := range c.Violations {
		fmt.Fprintf(w, "  violation\t%s\n", v)
	}
}

func printExact(w io.Writer, format string, res exactResult) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, res)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "bitstring\t%s\n", sample.Format(res.Solution.Bits))
	fmt.Fprintf(tw, "energy\t%g\n", res.Solution.Energy)
	fmt.Fprintf(tw, "degeneracy\t%d\n", res.Solution.Degeneracy)
	fmt.Fprintf(tw, "visited\t%d\n", res.Solution.Visited)
	writeCheck(tw, res.Flows, res.Check)
	return tw.Flush()
}

func printCheck(w io.Writer, format string, res checkResult) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, res)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "bitstring\t%s\n", res.Bitstring)
	fmt.Fprintf(tw, "energy\t%g\n", res.Energy)
	writeCheck(tw, res.Flows, res.Check)
	return tw.Flush()
}

func writeTerms(w io.Writer, m *qubo.Model, arcs []network.Arc) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "offset\t%g\n", m.Offset)
	for _, t := range m.Terms() {
		if t.Linear() {
			fmt.Fprintf(tw, "%s\t%g\n", arcs[t.I].Name(), t.Weight)
			continue
		}
		fmt.Fprintf(tw, "%s*%s\t%g\n", arcs[t.I].Name(), arcs[t.J].Name(), t.Weight)
	}
	return tw.Flush()
}

func writeIsing(w io.Writer, is *qubo.Ising, arcs []network.Arc) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "constant\t%g\n", is.Constant)
	for i, h := range is.Bias {
		fmt.Fprintf(tw, "h[%d] %s\t%g\n", i, arcs[i].Name(), h)
	}
	for _, p := range is.Pairs() {
		fmt.Fprintf(tw, "J[%d,%d] %s*%s\t%g\n", p.I, p.J, arcs[p.I].Name(), arcs[p.J].Name(), is.Coupling[p])
	}
	return tw.Flush()
}

func printRuns(w io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tBACKEND\tCREATED\tFINISHED")
	for _, r := range runs {
		finished := "-"
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Status, r.Backend, r.CreatedAt.Format(time.RFC3339), finished)
	}
	return tw.Flush()
}
