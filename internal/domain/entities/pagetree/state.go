package pagetree

// Snapshot is a recorded pre-mutation fragment of the tree. Nodes maps every
// touched id to its prior value; a nil value means the node did not exist.
type Snapshot struct {
	Label      string           `json:"label"`
	Nodes      map[string]*Node `json:"nodes"`
	RootNodeID string           `json:"rootNodeId"`
}

// History is the linear undo/redo log
type History struct {
	Past   []Snapshot `json:"past"`
	Future []Snapshot `json:"future"`
}

// PageTreeState is the complete state of one editing session
type PageTreeState struct {
	Nodes          map[string]*Node `json:"nodes"`
	RootNodeID     string           `json:"rootNodeId,omitempty"`
	SelectedNodeID string           `json:"selectedNodeId,omitempty"`
	HoveredNodeID  string           `json:"hoveredNodeId,omitempty"`
	IsDirty        bool             `json:"isDirty"`
	History        History          `json:"-"`
}

// NewPageTreeState returns an empty state
func NewPageTreeState() *PageTreeState {
	return &PageTreeState{Nodes: make(map[string]*Node)}
}

// Clone returns a deep copy of the state, history included
func (s *PageTreeState) Clone() *PageTreeState {
	out := s.CloneTree()
	out.History.Past = cloneSnapshots(s.History.Past)
	out.History.Future = cloneSnapshots(s.History.Future)
	return out
}

// CloneTree returns a deep copy of the nodes and pointers with an empty
// history
func (s *PageTreeState) CloneTree() *PageTreeState {
	out := &PageTreeState{
		Nodes:          make(map[string]*Node, len(s.Nodes)),
		RootNodeID:     s.RootNodeID,
		SelectedNodeID: s.SelectedNodeID,
		HoveredNodeID:  s.HoveredNodeID,
		IsDirty:        s.IsDirty,
	}
	for id, n := range s.Nodes {
		out.Nodes[id] = n.Clone()
	}
	return out
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Label: s.Label, RootNodeID: s.RootNodeID, Nodes: make(map[string]*Node, len(s.Nodes))}
	for id, n := range s.Nodes {
		out.Nodes[id] = n.Clone()
	}
	return out
}

func cloneSnapshots(in []Snapshot) []Snapshot {
	if in == nil {
		return nil
	}
	out := make([]Snapshot, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
