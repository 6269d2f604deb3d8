package nodetree

import (
	"math"
	"time"
)

// Record is the persisted form of a Node. Children carry shallow
// records only, so a child's own statistics live solely in its own
// top-level record and the instance id is enough to stitch edges back
// together on load.
type Record struct {
	ID            string   `json:"id"`
	InstanceID    string   `json:"instance_id"`
	Name          string   `json:"name"`
	DeclaringFile string   `json:"declaring_file"`
	FileName      string   `json:"file_name"`
	Children      []Record `json:"children,omitempty"`
	Duration      float64  `json:"duration,omitempty"`
	CallCount     uint64   `json:"call_count,omitempty"`
}

// ToRecord snapshots the node. With shallow set, children, duration and
// call count are omitted; that form is only used to reference the node
// from its parent's child list.
func (n *Node) ToRecord(shallow bool) Record {
	r := Record{
		ID:            string(n.ID),
		InstanceID:    n.InstanceID,
		Name:          n.Name,
		DeclaringFile: n.FilePath,
		FileName:      n.FileName,
	}
	if shallow {
		return r
	}
	r.Duration = n.Duration.Seconds()
	r.CallCount = n.Called
	for _, c := range n.Children {
		r.Children = append(r.Children, c.ToRecord(true))
	}
	return r
}

// FromRecord rebuilds a node from its persisted form. Children are kept
// as bare instance id references until ResolveChildren is called with
// the full registry.
func FromRecord(r Record) *Node {
	n := Node{
		ID:         FuncID(r.ID),
		InstanceID: r.InstanceID,
		Name:       r.Name,
		FilePath:   r.DeclaringFile,
		FileName:   r.FileName,
		Duration:   time.Duration(math.Round(r.Duration * float64(time.Second))),
		Called:     r.CallCount,
	}
	for _, c := range r.Children {
		n.childIDs = append(n.childIDs, c.InstanceID)
	}
	return &n
}

// ResolveChildren replaces the node's referenced child ids with the
// matching nodes from all. Referenced ids with no match are returned so
// the caller can warn or fail instead of silently losing edges.
func (n *Node) ResolveChildren(all []*Node) []string {
	byInstance := make(map[string]*Node, len(all))
	for _, node := range all {
		byInstance[node.InstanceID] = node
	}
	n.Children = nil
	var unresolved []string
	for _, id := range n.childIDs {
		child, ok := byInstance[id]
		if !ok {
			unresolved = append(unresolved, id)
			continue
		}
		n.AddChild(child)
	}
	return unresolved
}
