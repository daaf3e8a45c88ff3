package html

// MutationType classifies a MutationRecord.
type MutationType int

const (
	ChildList MutationType = iota
	Attributes
	CharacterData
)

func (t MutationType) String() string {
	switch t {
	case ChildList:
		return "childList"
	case Attributes:
		return "attributes"
	case CharacterData:
		return "characterData"
	}
	return "unknown"
}

// MutationRecord describes one change to the surface. For ChildList the
// target is the parent whose children changed; for Attributes and
// CharacterData it is the changed node itself.
type MutationRecord struct {
	Type            MutationType
	Target          *Node
	AddedNodes      []*Node
	RemovedNodes    []*Node
	PreviousSibling *Node
	NextSibling     *Node
	AttributeName   string
	OldValue        string
}

// Observer accumulates records for every change inside the subtree of its
// root. Records are delivered only when the host asks for them with
// TakeRecords; there is no callback and no background delivery.
type Observer struct {
	doc     *Document
	root    *Node
	records []*MutationRecord
}

// Observe starts recording changes under root, which must belong to d.
func (d *Document) Observe(root *Node) *Observer {
	o := &Observer{doc: d, root: root}
	d.observers = append(d.observers, o)
	return o
}

// TakeRecords returns and clears the pending records.
func (o *Observer) TakeRecords() []*MutationRecord {
	records := o.records
	o.records = nil
	return records
}

// Pending reports how many records are waiting.
func (o *Observer) Pending() int {
	return len(o.records)
}

// Disconnect stops recording and drops pending records.
func (o *Observer) Disconnect() {
	o.records = nil
	if o.doc == nil {
		return
	}
	obs := o.doc.observers
	for i, other := range obs {
		if other == o {
			o.doc.observers = append(obs[:i], obs[i+1:]...)
			break
		}
	}
	o.doc = nil
}

func (n *Node) notify(rec *MutationRecord) {
	if n.doc == nil {
		return
	}
	for _, o := range n.doc.observers {
		if o.root.Contains(rec.Target) {
			o.records = append(o.records, rec)
		}
	}
}
