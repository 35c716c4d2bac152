// Package dag implements the bipartite dependency graph at the heart of
// the pipeline engine: file-set nodes, function/mapping edges, graph
// construction (Add/FillIn/Prune), validation (missing fields + cycle
// detection), and the pre-run restart/skip classification walk.
//
// Nodes are interned by the value of their file set, not by any declared
// name, so two functions that happen to name the same files resolve to
// the same node.
package dag
