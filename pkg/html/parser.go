package html

import (
	"errors"
	"fmt"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Parser builds surface nodes from markup. Tokens come from the x/net/html
// tokenizer; tree construction is a simple open-element stack rather than
// the full HTML5 insertion algorithm, so fragments keep the shape they were
// written in.
type Parser struct {
	tokenizer *xhtml.Tokenizer
	doc       *Document
	root      *Node
	stack     []*Node
	inRawTag  string // "script" or "style" while inside one
	rawText   strings.Builder
}

// NewParser prepares a parser that appends into root, which must belong
// to doc.
func NewParser(doc *Document, root *Node, src string) *Parser {
	return &Parser{
		tokenizer: xhtml.NewTokenizer(strings.NewReader(src)),
		doc:       doc,
		root:      root,
	}
}

func (p *Parser) Parse() error {
	p.stack = []*Node{p.root}

	for {
		tt := p.tokenizer.Next()
		if tt == xhtml.ErrorToken {
			if err := p.tokenizer.Err(); !errors.Is(err, io.EOF) {
				return fmt.Errorf("tokenizer error: %w", err)
			}
			return nil
		}
		token := p.tokenizer.Token()

		switch tt {
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			tag := strings.ToLower(token.Data)
			if tag == "script" || tag == "style" {
				if tt == xhtml.StartTagToken {
					p.inRawTag = tag
					p.rawText.Reset()
				}
				continue // Don't add raw text tags to the tree
			}

			// Auto-close <p> when a block-level element is encountered inside it
			if isBlockElement(tag) {
				p.autoCloseP()
			}

			node := p.doc.CreateElement(tag)
			for _, attr := range token.Attr {
				node.Attributes[strings.ToLower(attr.Key)] = attr.Val
			}
			p.currentParent().AddChild(node)

			if tt == xhtml.StartTagToken && !isVoidElement(tag) {
				p.stack = append(p.stack, node)
			}

		case xhtml.TextToken:
			if p.inRawTag != "" {
				p.rawText.WriteString(token.Data)
				continue
			}
			p.currentParent().AppendText(token.Data)

		case xhtml.EndTagToken:
			tag := strings.ToLower(token.Data)
			if tag == p.inRawTag {
				if tag == "script" {
					p.doc.Scripts = append(p.doc.Scripts, p.rawText.String())
				}
				p.inRawTag = ""
				continue
			}
			p.closeTag(tag)
		}
	}
}

// currentParent returns the current parent node (top of stack)
func (p *Parser) currentParent() *Node {
	if len(p.stack) == 0 {
		return p.root
	}
	return p.stack[len(p.stack)-1]
}

// closeTag pops the stack until the matching tag is found and closed
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			return
		}
	}
	// Tag not found on stack; ignore the end tag
}

// autoCloseP closes an open <p> element if one is on the stack
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == "p" {
			p.stack = p.stack[:i]
			return
		}
		// Don't close past block-level containers
		if isBlockElement(p.stack[i].TagName) {
			return
		}
	}
}

// isBlockElement returns true for elements that auto-close <p>
func isBlockElement(tagName string) bool {
	switch tagName {
	case "address", "article", "aside", "blockquote", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

// Parse builds a new document whose root holds the parsed markup.
func Parse(src string) (*Document, error) {
	doc := NewDocument()
	if err := NewParser(doc, doc.Root, src).Parse(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseInto parses markup and appends the resulting nodes to parent.
func ParseInto(parent *Node, src string) error {
	doc := parent.doc
	if doc == nil {
		return fmt.Errorf("parse into %s: node has no document", parent)
	}
	return NewParser(doc, parent, src).Parse()
}

// ParseFragment parses markup into detached nodes owned by doc.
func ParseFragment(doc *Document, src string) ([]*Node, error) {
	holder := doc.CreateElement("template")
	if err := NewParser(doc, holder, src).Parse(); err != nil {
		return nil, err
	}
	children := holder.Children
	holder.Children = nil
	for _, child := range children {
		child.Parent = nil
	}
	return children, nil
}
