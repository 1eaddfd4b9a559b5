package incgraph

import (
	"fmt"
	"slices"
	"strings"

	"amalgam/internal/diag"
	"amalgam/internal/include"
	"amalgam/internal/source"
)

// Graph has an edge from every file to each file it includes.
type Graph struct {
	Edges   [][]NodeID // Edges[from] = []to
	Indeg   []int      // входящие степени для Kahn (учитывает только загруженные файлы)
	Present []bool     // файл реально загружен (а не только упомянут в include)
}

// BuildGraph links files by their internal includes. Includes of names that
// were not loaded (keep-listed headers) add no edge to the ordering.
func BuildGraph(idx Index, files []include.FileIncludes, r diag.Reporter) Graph {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]NodeID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	for _, fi := range files {
		if id, ok := idx.NameToID[fi.File]; ok {
			g.Present[int(id)] = true
		}
	}

	for _, fi := range files {
		from, ok := idx.NameToID[fi.File]
		if !ok {
			continue
		}
		for _, name := range fi.Internal {
			to, ok := idx.NameToID[name]
			if !ok || !g.Present[int(to)] {
				continue
			}
			if from == to {
				r.Report(diag.IncSelfInclude, diag.SevInfo, source.Pos{File: fi.File},
					fmt.Sprintf("%q includes itself", fi.File))
				continue
			}
			if slices.Contains(g.Edges[from], to) {
				continue
			}
			g.Edges[from] = append(g.Edges[from], to)
			g.Indeg[int(to)]++
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}
	return g
}

// ReportCycles reports every file left in a cycle. Cycles are harmless to
// the merge, which emits each header once, so they are informational.
func ReportCycles(idx Index, topo *Topo, r diag.Reporter) {
	if r == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := idx.Names(topo.Cycles)
	summary := strings.Join(names, " -> ")
	for _, name := range names {
		msg := fmt.Sprintf("%q participates in an include cycle: %s", name, summary)
		r.Report(diag.IncCycle, diag.SevInfo, source.Pos{File: name}, msg)
	}
}
