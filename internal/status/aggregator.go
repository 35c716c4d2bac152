// Package status implements the status aggregator: group
// function edges by analysisName, separate scatter (clone) and gather
// counts from the rest, derive an overall per-group status, and render
// one line per group for the log or a status-email body. An optional
// socket.io broadcaster pushes the same lines to a live dashboard.
package status

import (
	"github.com/vk/qgraph/internal/dag"
	"github.com/vk/qgraph/internal/qfunction"
)

// GroupStatus is the overall status derived for one analysisName group.
type GroupStatus string

const (
	GroupFailed  GroupStatus = "FAILED"
	GroupDone    GroupStatus = "DONE"
	GroupSkipped GroupStatus = "SKIPPED"
	GroupRunning GroupStatus = "RUNNING"
	GroupPending GroupStatus = "PENDING"
)

// Counts tallies total/done/failed/skipped edges within one category
// (main, scatter, or gather). PENDING and RUNNING are intentionally
// merged into one bucket at render time — see deriveStatus.
type Counts struct {
	Total, Done, Failed, Skipped int
}

// Group is one analysisName's aggregated status.
type Group struct {
	Name    string
	Main    Counts
	Scatter Counts // edges tagged CloneFunction
	Gather  Counts // edges tagged GatherFunction
	Status  GroupStatus
}

// Aggregate groups g's function edges by analysisName and computes each
// group's counts and overall status.
func Aggregate(g *dag.Graph) []Group {
	byName := make(map[string]*Group)
	var order []string

	for _, fe := range g.FunctionEdges() {
		name := fe.Fn.AnalysisName()
		grp, ok := byName[name]
		if !ok {
			grp = &Group{Name: name}
			byName[name] = grp
			order = append(order, name)
		}

		bucket := &grp.Main
		if c, ok := fe.Fn.(qfunction.CloneFunction); ok && c.IsClone() {
			bucket = &grp.Scatter
		} else if gf, ok := fe.Fn.(qfunction.GatherFunction); ok && gf.IsGather() {
			bucket = &grp.Gather
		}

		bucket.Total++
		switch fe.Status() {
		case qfunction.StatusDone:
			bucket.Done++
		case qfunction.StatusFailed:
			bucket.Failed++
		case qfunction.StatusSkipped:
			bucket.Skipped++
		}
	}

	groups := make([]Group, 0, len(order))
	for _, name := range order {
		grp := byName[name]
		grp.Status = deriveStatus(*grp)
		groups = append(groups, *grp)
	}
	return groups
}

// deriveStatus computes the overall group status: any failed
// -> FAILED; all done -> DONE; all done+skipped -> SKIPPED; any done ->
// RUNNING; otherwise PENDING.
func deriveStatus(g Group) GroupStatus {
	total := g.Main.Total + g.Scatter.Total + g.Gather.Total
	done := g.Main.Done + g.Scatter.Done + g.Gather.Done
	failed := g.Main.Failed + g.Scatter.Failed + g.Gather.Failed
	skipped := g.Main.Skipped + g.Scatter.Skipped + g.Gather.Skipped

	switch {
	case failed > 0:
		return GroupFailed
	case done == total:
		return GroupDone
	case done+skipped == total:
		return GroupSkipped
	case done > 0:
		return GroupRunning
	default:
		return GroupPending
	}
}
