package html

import "testing"

func observed(t *testing.T, src string) (*Document, *Observer) {
	t.Helper()
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc, doc.Observe(doc.Root)
}

func TestObserverChildList(t *testing.T) {
	doc, obs := observed(t, `<div><p>a</p></div>`)
	div := doc.Root.Children[0]
	em := doc.CreateElement("em")
	div.AddChild(em)
	div.RemoveChild(div.Children[0])

	records := obs.TakeRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Type != ChildList || records[0].Target != div || records[0].AddedNodes[0] != em {
		t.Errorf("unexpected add record %+v", records[0])
	}
	if records[1].RemovedNodes[0].TagName != "p" || records[1].NextSibling != em {
		t.Errorf("unexpected remove record %+v", records[1])
	}
	if obs.Pending() != 0 {
		t.Error("TakeRecords should drain the queue")
	}
}

func TestObserverAttributesAndData(t *testing.T) {
	doc, obs := observed(t, `<p class="x">a</p>`)
	p := doc.Root.Children[0]
	p.SetAttribute("class", "x") // unchanged, no record
	p.SetAttribute("class", "y")
	p.RemoveAttribute("class")
	p.RemoveAttribute("class") // absent, no record
	p.Children[0].SetData("b")

	records := obs.TakeRecords()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Type != Attributes || records[0].OldValue != "x" {
		t.Errorf("unexpected record %+v", records[0])
	}
	if records[2].Type != CharacterData || records[2].OldValue != "a" {
		t.Errorf("unexpected record %+v", records[2])
	}
}

func TestObserverSubtreeOnly(t *testing.T) {
	doc, err := Parse(`<div id="a"></div><div id="b"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	a, b := doc.Root.Children[0], doc.Root.Children[1]
	obs := doc.Observe(a)
	b.AppendText("outside")
	a.AppendText("inside")
	if got := obs.Pending(); got != 1 {
		t.Errorf("expected 1 record inside the observed subtree, got %d", got)
	}
	obs.Disconnect()
	a.AppendText("again")
	if obs.Pending() != 0 {
		t.Error("disconnected observer should not record")
	}
}

func TestSplitText(t *testing.T) {
	doc, obs := observed(t, `<p>héllo</p>`)
	p := doc.Root.Children[0]
	text := p.Children[0]
	after, err := text.SplitText(2)
	if err != nil {
		t.Fatal(err)
	}
	if text.Text != "hé" || after.Text != "llo" {
		t.Errorf("split produced %q / %q", text.Text, after.Text)
	}
	if len(p.Children) != 2 || p.Children[1] != after {
		t.Error("remainder should be the next sibling")
	}
	if got := len(obs.TakeRecords()); got != 2 {
		t.Errorf("expected childList and characterData records, got %d", got)
	}
	if _, err := text.SplitText(10); err == nil {
		t.Error("expected out of range error")
	}
}

func TestPrecedes(t *testing.T) {
	doc, err := Parse(`<div><p>a</p><p>b</p></div><span></span>`)
	if err != nil {
		t.Fatal(err)
	}
	div := doc.Root.Children[0]
	p1, p2 := div.Children[0], div.Children[1]
	span := doc.Root.Children[1]
	if !p1.Precedes(p2) || p2.Precedes(p1) {
		t.Error("siblings should compare by index")
	}
	if !div.Precedes(p1) {
		t.Error("ancestor should precede descendant")
	}
	if !p2.Children[0].Precedes(span) {
		t.Error("deep node should precede later cousin")
	}
	if p1.Precedes(doc.CreateElement("em")) {
		t.Error("disconnected nodes should not compare")
	}
}

func TestInlineStyle(t *testing.T) {
	doc := NewDocument()
	n := doc.CreateElement("span")
	n.SetStyle("color", "red")
	n.SetStyle("font-size", "12px")
	if got := n.Attributes["style"]; got != "color: red; font-size: 12px" {
		t.Errorf("unexpected style %q", got)
	}
	n.SetStyle("color", "")
	n.SetStyle("font-size", "")
	if _, ok := n.GetAttribute("style"); ok {
		t.Error("empty style attribute should be removed")
	}
	if CamelToKebab("backgroundColor") != "background-color" {
		t.Error("camelToKebab failed")
	}
}

func TestClasses(t *testing.T) {
	doc := NewDocument()
	n := doc.CreateElement("span")
	n.AddClass("a")
	n.AddClass("b")
	n.AddClass("a")
	if got := n.Attributes["class"]; got != "a b" {
		t.Errorf("unexpected class %q", got)
	}
	n.RemoveClass("a")
	n.RemoveClass("b")
	if _, ok := n.GetAttribute("class"); ok {
		t.Error("empty class attribute should be removed")
	}
}
