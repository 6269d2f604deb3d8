package nodetree

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type (
	// FuncID is the stable identity of a watched function, derived from
	// its declaring file and its name. Two calls with the same FuncID
	// aggregate into the same node, within a run and across reloads of
	// a persisted graph.
	FuncID string

	// Ident names a watched function at registration time.
	Ident struct {
		File string
		Name string
	}

	// Node is one distinct watched function in the call graph.
	Node struct {
		ID         FuncID
		InstanceID string
		Name       string
		FilePath   string
		FileName   string

		// Duration is the cumulative inclusive wall time over all
		// completed calls. ChildTime is the portion attributed to
		// direct children while this node was on the stack.
		Duration  time.Duration
		ChildTime time.Duration
		Called    uint64

		Children []*Node

		// childIDs holds referenced instance ids between loading a
		// persisted record and ResolveChildren.
		childIDs []string

		// renderHandle caches whatever a renderer attaches to this
		// node. Never persisted.
		renderHandle interface{}
	}
)

func (i Ident) Key() FuncID {
	return FuncID(i.File + "::" + i.Name)
}

// NewNode creates a node for a never-before-seen identity. The instance
// id is unique per run and is what child references resolve against
// after deserialization.
func NewNode(ident Ident) *Node {
	return &Node{
		ID:         ident.Key(),
		InstanceID: uuid.New().String(),
		Name:       ident.Name,
		FilePath:   ident.File,
		FileName:   filepath.Base(ident.File),
	}
}

// AddChild records a parent→child edge. Edges are deduplicated by
// identity and a node never records itself as its own child, which
// keeps the stored edge set acyclic even when a watched function
// recurses.
func (n *Node) AddChild(child *Node) {
	if n.ID == child.ID {
		return
	}
	for _, c := range n.Children {
		if c.ID == child.ID {
			return
		}
	}
	n.Children = append(n.Children, child)
}

// Record accounts one completed call of duration d.
func (n *Node) Record(d time.Duration) {
	n.Called++
	n.Duration += d
}

// SelfTime is the inclusive duration minus the time attributed to
// direct children while this node was active. With overhead reduction
// enabled this can come out slightly negative for very short calls;
// callers must not assume otherwise.
func (n *Node) SelfTime() time.Duration {
	return n.Duration - n.ChildTime
}

func (n *Node) FileFunctionName() string {
	return n.FileName + "::" + n.Name
}

func (n *Node) String() string {
	return n.FileFunctionName()
}

// RenderHandle returns the cached renderer attachment, if any.
func (n *Node) RenderHandle() interface{} {
	return n.renderHandle
}

func (n *Node) SetRenderHandle(h interface{}) {
	n.renderHandle = h
}

// CalledNodes filters out nodes that were registered but never
// completed a call.
func CalledNodes(nodes []*Node) []*Node {
	called := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Called > 0 {
			called = append(called, n)
		}
	}
	return called
}

// GroupByFile partitions nodes into one row per distinct declaring
// file, preserving first-seen file order. The input is not mutated.
func GroupByFile(nodes []*Node) [][]*Node {
	var order []string
	byFile := make(map[string][]*Node)
	for _, n := range nodes {
		if _, seen := byFile[n.FilePath]; !seen {
			order = append(order, n.FilePath)
		}
		byFile[n.FilePath] = append(byFile[n.FilePath], n)
	}
	rows := make([][]*Node, 0, len(order))
	for _, file := range order {
		rows = append(rows, byFile[file])
	}
	return rows
}

// MaxDuration returns the largest inclusive duration among nodes.
func MaxDuration(nodes []*Node) time.Duration {
	var max time.Duration
	for _, n := range nodes {
		if n.Duration > max {
			max = n.Duration
		}
	}
	return max
}
