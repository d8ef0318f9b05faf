// Package plan implements the limit-pushdown rewrite over an abstract
// logical plan tree, plus a small set of concrete nodes for planners that
// do not bring their own.
package plan

import (
	"github.com/onnimonni/gribflow/internal/domain"
	"github.com/onnimonni/gribflow/internal/ports"
)

// TableName is the table-function identity the rewrite matches on.
const TableName = "noaa_gfs_forecast_api"

// PushdownLimit walks the plan bottom-up looking for a limit node whose
// child, after skipping intervening projections, is a scan of this table
// function with a constant bound. When found, the bound is written into the
// scan's binding so execution stops fetching once it is satisfied. When the
// shape does not match, nothing happens: the surrounding engine still
// enforces the limit generically, the rewrite only avoids remote fetches.
func PushdownLimit(root ports.PlanNode) {
	if root == nil {
		return
	}

	if root.Kind() == ports.KindLimit {
		applyLimit(root)
	}

	for _, child := range root.Children() {
		PushdownLimit(child)
	}
}

func applyLimit(node ports.PlanNode) {
	limit, ok := node.(ports.LimitNode)
	if !ok {
		return
	}

	children := node.Children()
	if len(children) == 0 {
		return
	}

	child := children[0]
	for child.Kind() == ports.KindProjection {
		grand := child.Children()
		if len(grand) == 0 {
			return
		}
		child = grand[0]
	}

	if child.Kind() != ports.KindScan {
		return
	}
	scanNode, ok := child.(ports.ScanNode)
	if !ok || scanNode.Table() != TableName {
		return
	}

	bound, constant := limit.Bound()
	if !constant || bound < 0 {
		return
	}
	if b := scanNode.Binding(); b != nil {
		b.MaxResults = bound
	}
}

// Limit constructs a limit node with a compile-time constant bound.
func Limit(n int64, child ports.PlanNode) ports.PlanNode {
	return &limitNode{n: n, constant: true, child: child}
}

// ParamLimit constructs a limit node whose bound is a runtime parameter.
// Parameter bounds are never pushed down.
func ParamLimit(child ports.PlanNode) ports.PlanNode {
	return &limitNode{child: child}
}

// Projection constructs a pure projection node over one child.
func Projection(child ports.PlanNode) ports.PlanNode {
	return &node{kind: ports.KindProjection, children: []ports.PlanNode{child}}
}

// TableScan constructs a scan node for the named table function.
func TableScan(table string, binding *domain.FilterBinding) ports.PlanNode {
	return &scanNode{table: table, binding: binding}
}

// Node constructs an opaque operator with arbitrary children, for shapes
// the rewrite should walk through but never match.
func Node(children ...ports.PlanNode) ports.PlanNode {
	return &node{kind: ports.KindOther, children: children}
}

type node struct {
	kind     ports.NodeKind
	children []ports.PlanNode
}

func (n *node) Kind() ports.NodeKind       { return n.kind }
func (n *node) Children() []ports.PlanNode { return n.children }

type limitNode struct {
	n        int64
	constant bool
	child    ports.PlanNode
}

func (l *limitNode) Kind() ports.NodeKind       { return ports.KindLimit }
func (l *limitNode) Children() []ports.PlanNode { return []ports.PlanNode{l.child} }
func (l *limitNode) Bound() (int64, bool)       { return l.n, l.constant }

type scanNode struct {
	table   string
	binding *domain.FilterBinding
}

func (s *scanNode) Kind() ports.NodeKind       { return ports.KindScan }
func (s *scanNode) Children() []ports.PlanNode { return nil }
func (s *scanNode) Table() string              { return s.table }
func (s *scanNode) Binding() *domain.FilterBinding {
	return s.binding
}
