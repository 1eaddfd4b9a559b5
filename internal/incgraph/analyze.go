package incgraph

import (
	"amalgam/internal/diag"
	"amalgam/internal/include"
)

// Analysis bundles the index, graph and ordering of one include set.
type Analysis struct {
	Index Index
	Graph Graph
	Topo  *Topo
}

// Analyze builds the graph for set and reports cycles to r.
func Analyze(set *include.Set, r diag.Reporter) *Analysis {
	idx := BuildIndex(set.PerFile)
	g := BuildGraph(idx, set.PerFile, r)
	topo := ToposortKahn(g)
	ReportCycles(idx, topo, r)
	return &Analysis{Index: idx, Graph: g, Topo: topo}
}

// Levels returns file names grouped by include depth.
func (a *Analysis) Levels() [][]string {
	out := make([][]string, len(a.Topo.Batches))
	for i, batch := range a.Topo.Batches {
		out[i] = a.Index.Names(batch)
	}
	return out
}

// Cycles returns the names of files that take part in include cycles.
func (a *Analysis) Cycles() []string {
	return a.Index.Names(a.Topo.Cycles)
}

// Includes returns the loaded files that name directly includes.
func (a *Analysis) Includes(name string) []string {
	id, ok := a.Index.NameToID[name]
	if !ok {
		return nil
	}
	return a.Index.Names(a.Graph.Edges[int(id)])
}
