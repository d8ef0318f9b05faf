package ports

import "github.com/onnimonni/gribflow/internal/domain"

// NodeKind classifies logical plan nodes just enough for the limit-pushdown
// rewrite. Planners with richer operator sets map everything else to
// KindOther.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindLimit
	KindProjection
	KindScan
)

// PlanNode is the minimal view of a logical plan tree the rewriter walks.
// It deliberately knows nothing about any concrete planner's hierarchy.
type PlanNode interface {
	Kind() NodeKind
	Children() []PlanNode
}

// LimitNode is a PlanNode of KindLimit. Bound reports the row limit and
// whether it is a compile-time constant; runtime-parameter limits are not
// pushed down.
type LimitNode interface {
	PlanNode
	Bound() (n int64, constant bool)
}

// ScanNode is a PlanNode of KindScan. Table names the table function and
// Binding exposes its mutable scan configuration for the rewrite to update.
type ScanNode interface {
	PlanNode
	Table() string
	Binding() *domain.FilterBinding
}
