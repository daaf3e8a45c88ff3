package html

import "testing"

// tree parses src and returns the first root element, observed from the
// document root.
func tree(t *testing.T, src string) (*Node, *Observer) {
	t.Helper()
	doc, obs := observed(t, src)
	if len(doc.Root.Children) == 0 {
		t.Fatalf("no elements in %q", src)
	}
	return doc.Root.Children[0], obs
}

func tags(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TagName
	}
	return out
}

func sameTags(t *testing.T, got []*Node, want ...string) {
	t.Helper()
	names := tags(got)
	if len(names) != len(want) {
		t.Fatalf("children %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("children %v, want %v", names, want)
		}
	}
}

func TestRemoveChildRecordsNeighbours(t *testing.T) {
	div, obs := tree(t, `<div><span>a</span><p>b</p><em></em></div>`)
	span, p, em := div.Children[0], div.Children[1], div.Children[2]

	if got := div.RemoveChild(p); got != p {
		t.Fatalf("RemoveChild returned %v", got)
	}
	if p.Parent != nil || p.IsConnected() {
		t.Error("removed node is still attached")
	}
	sameTags(t, div.Children, "span", "em")

	records := obs.TakeRecords()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Type != ChildList || rec.Target != div || rec.RemovedNodes[0] != p {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.PreviousSibling != span || rec.NextSibling != em {
		t.Errorf("neighbours %v, %v", rec.PreviousSibling, rec.NextSibling)
	}

	if div.RemoveChild(p) != nil {
		t.Error("removing a non-child should return nil")
	}
	if obs.Pending() != 0 {
		t.Error("removing a non-child should not record")
	}
}

func TestInsertBeforeRecords(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(div *Node)
		want    []string
		records []MutationType
	}{
		{
			name:    "append new",
			edit:    func(div *Node) { div.InsertBefore(div.doc.CreateElement("b"), nil) },
			want:    []string{"span", "p", "b"},
			records: []MutationType{ChildList},
		},
		{
			name:    "before ref",
			edit:    func(div *Node) { div.InsertBefore(div.doc.CreateElement("b"), div.Children[1]) },
			want:    []string{"span", "b", "p"},
			records: []MutationType{ChildList},
		},
		{
			name:    "move existing",
			edit:    func(div *Node) { div.InsertBefore(div.Children[0], nil) },
			want:    []string{"p", "span"},
			records: []MutationType{ChildList, ChildList},
		},
		{
			name:    "before itself",
			edit:    func(div *Node) { div.InsertBefore(div.Children[0], div.Children[0]) },
			want:    []string{"span", "p"},
			records: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			div, obs := tree(t, `<div><span>a</span><p>b</p></div>`)
			tt.edit(div)
			sameTags(t, div.Children, tt.want...)
			for _, c := range div.Children {
				if c.Parent != div {
					t.Errorf("%s has parent %v", c.TagName, c.Parent)
				}
			}
			records := obs.TakeRecords()
			if len(records) != len(tt.records) {
				t.Fatalf("expected %d records, got %d", len(tt.records), len(records))
			}
			for i, rec := range records {
				if rec.Type != tt.records[i] {
					t.Errorf("record %d is %s", i, rec.Type)
				}
			}
		})
	}
}

func TestInsertBeforeMovesRemovalFirst(t *testing.T) {
	div, obs := tree(t, `<div><span>a</span><p>b</p></div>`)
	span := div.Children[0]
	div.InsertBefore(span, nil)

	records := obs.TakeRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if len(records[0].RemovedNodes) != 1 || records[0].RemovedNodes[0] != span {
		t.Errorf("first record should remove span: %+v", records[0])
	}
	if len(records[1].AddedNodes) != 1 || records[1].AddedNodes[0] != span || records[1].PreviousSibling.TagName != "p" {
		t.Errorf("second record should add span after p: %+v", records[1])
	}
}

func TestReplaceChild(t *testing.T) {
	div, obs := tree(t, `<div><span>a</span><p>b</p></div>`)
	span := div.Children[0]
	em := div.doc.CreateElement("em")

	if got := div.ReplaceChild(em, span); got != span {
		t.Fatalf("ReplaceChild returned %v", got)
	}
	sameTags(t, div.Children, "em", "p")
	records := obs.TakeRecords()
	if len(records) != 2 || records[0].AddedNodes[0] != em || records[1].RemovedNodes[0] != span {
		t.Fatalf("unexpected records %+v", records)
	}

	if div.ReplaceChild(div.doc.CreateElement("b"), span) != nil {
		t.Error("replacing a non-child should return nil")
	}
	if obs.Pending() != 0 {
		t.Error("replacing a non-child should not record")
	}
}

func TestRemoveChildrenLastFirst(t *testing.T) {
	div, obs := tree(t, `<div><span>a</span><p>b</p></div>`)
	div.RemoveChildren()
	if len(div.Children) != 0 {
		t.Fatalf("children left: %v", tags(div.Children))
	}
	records := obs.TakeRecords()
	if len(records) != 2 || records[0].RemovedNodes[0].TagName != "p" || records[1].RemovedNodes[0].TagName != "span" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestCloneNode(t *testing.T) {
	div, obs := tree(t, `<div id="x"><span>a</span></div>`)

	shallow := div.CloneNode(false)
	if shallow.Parent != nil || len(shallow.Children) != 0 || shallow.Attributes["id"] != "x" {
		t.Errorf("bad shallow clone %s", shallow.SerializeOuter())
	}
	shallow.SetAttribute("id", "y")
	if div.Attributes["id"] != "x" {
		t.Error("clone shares attributes with the original")
	}

	deep := div.CloneNode(true)
	if deep.SerializeOuter() != div.SerializeOuter() {
		t.Errorf("deep clone %s, want %s", deep.SerializeOuter(), div.SerializeOuter())
	}
	if deep.Children[0] == div.Children[0] || deep.Children[0].Parent != deep {
		t.Error("deep clone reuses children")
	}
	if deep.IsConnected() || deep.Document() != div.Document() {
		t.Error("clone should belong to the document without being attached")
	}
	if obs.Pending() != 0 {
		t.Error("editing a detached clone should not record")
	}
}

func TestTreeQueries(t *testing.T) {
	div, _ := tree(t, `<div><span>a</span><p>b</p></div>`)
	span, p := div.Children[0], div.Children[1]
	text := span.Children[0]

	if !div.Contains(div) || !div.Contains(text) || span.Contains(p) {
		t.Error("Contains")
	}
	if div.IndexInParent() != 0 || p.IndexInParent() != 1 || div.doc.Root.IndexInParent() != -1 {
		t.Error("IndexInParent")
	}
	if span.NextSibling() != p || p.PrevSibling() != span || p.NextSibling() != nil {
		t.Error("sibling links")
	}
	if div.FirstChild() != span || div.LastChild() != p || text.FirstChild() != nil {
		t.Error("first and last child")
	}
	if !text.IsConnected() {
		t.Error("parsed text should be connected")
	}
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		src, inner, outer string
	}{
		{`<div id="x"><span>a</span><p>b</p></div>`, `<span>a</span><p>b</p>`, `<div id="x"><span>a</span><p>b</p></div>`},
		{`<p>a<br>b</p>`, `a<br>b`, `<p>a<br>b</p>`},
		{`<p>&lt;b&gt;"q" &amp; 's'</p>`, `&lt;b&gt;"q" &amp; 's'`, `<p>&lt;b&gt;"q" &amp; 's'</p>`},
		{`<a href="/t" class="link">go</a>`, `go`, `<a class="link" href="/t">go</a>`},
	}
	for _, tt := range tests {
		n, _ := tree(t, tt.src)
		if got := n.Serialize(); got != tt.inner {
			t.Errorf("Serialize(%q) = %q, want %q", tt.src, got, tt.inner)
		}
		if got := n.SerializeOuter(); got != tt.outer {
			t.Errorf("SerializeOuter(%q) = %q, want %q", tt.src, got, tt.outer)
		}
	}
}
