// Package incgraph builds the graph of internal includes between loaded
// files and orders it by include depth.
package incgraph

import (
	"sort"

	"amalgam/internal/include"
)

type NodeID uint32

type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// собрать уникальные имена (файлы и их internal include), sort.Strings, раздать ID по порядку
func BuildIndex(files []include.FileIncludes) Index {
	uniq := make(map[string]struct{}, len(files))
	for _, fi := range files {
		if fi.File != "" {
			uniq[fi.File] = struct{}{}
		}
		for _, name := range fi.Internal {
			if name == "" {
				continue
			}
			uniq[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]NodeID, len(names))
	for i, name := range names {
		nameToID[name] = NodeID(i)
	}

	return Index{
		NameToID: nameToID,
		IDToName: names,
	}
}

// Names maps ids back to file names.
func (idx Index) Names(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
