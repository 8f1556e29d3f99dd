package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Node is either an *Element or a *Text.
type Node interface {
	node()
}

// Attr is one attribute of an element, in source order.
type Attr struct {
	Key string
	Val string
}

// Element is a tag with attributes and children.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// Text holds decoded character data ("&nbsp;" is stored as U+00A0).
type Text struct {
	Content string
}

func (*Element) node() {}
func (*Text) node()    {}

const nbsp = "\u00a0"

var voidTags = map[string]bool{"br": true, "hr": true, "img": true, "wbr": true}

// Attr returns the value of attribute key.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Classes splits the class attribute.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether class is one of the element's classes.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// TextContent concatenates every text descendant of n.
func TextContent(n Node) string {
	var b strings.Builder
	Walk([]Node{n}, func(n Node) bool {
		if t, ok := n.(*Text); ok {
			b.WriteString(t.Content)
		}
		return true
	})
	return b.String()
}

// SetText replaces all children of e with a single text node.
func (e *Element) SetText(s string) {
	e.Children = []Node{&Text{Content: s}}
}

// Walk visits nodes depth-first in document order. Children of a node are
// skipped when fn returns false for it.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		if e, ok := n.(*Element); ok {
			Walk(e.Children, fn)
		}
	}
}

// FindClass returns the first descendant element of root carrying class.
func FindClass(root *Element, class string) *Element {
	var found *Element
	Walk(root.Children, func(n Node) bool {
		if found != nil {
			return false
		}
		if e, ok := n.(*Element); ok && e.HasClass(class) {
			found = e
			return false
		}
		return true
	})
	return found
}

// Parse reads the span/br markup produced by FixTab into a node forest.
// Unbalanced end tags are ignored and unclosed elements are closed at EOF.
func Parse(s string) ([]Node, error) {
	z := html.NewTokenizer(strings.NewReader(s))
	root := &Element{}
	stack := []*Element{root}
	top := func() *Element { return stack[len(stack)-1] }

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("tokenizing markup: %w", err)
			}
			return root.Children, nil
		case html.TextToken:
			text := string(z.Text())
			parent := top()
			if n := len(parent.Children); n > 0 {
				if prev, ok := parent.Children[n-1].(*Text); ok {
					prev.Content += text
					continue
				}
			}
			parent.Children = append(parent.Children, &Text{Content: text})
		case html.StartTagToken, html.SelfClosingTagToken:
			el := readElement(z)
			parent := top()
			parent.Children = append(parent.Children, el)
			if tt == html.StartTagToken && !voidTags[el.Tag] {
				stack = append(stack, el)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

func readElement(z *html.Tokenizer) *Element {
	name, hasAttr := z.TagName()
	el := &Element{Tag: string(name)}
	for hasAttr {
		var k, v []byte
		k, v, hasAttr = z.TagAttr()
		el.Attrs = append(el.Attrs, Attr{Key: string(k), Val: string(v)})
	}
	return el
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", nbsp, "&nbsp;")

// EscapeText encodes s for use as character data in the tab markup.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// Render serialises nodes back to markup. Void elements are written as
// "<br/>" so the output matches what FixTab produces.
func Render(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		render(&b, n)
	}
	return b.String()
}

func render(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		b.WriteString(EscapeText(n.Content))
	case *Element:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.Attrs {
			fmt.Fprintf(b, ` %s="%s"`, a.Key, html.EscapeString(a.Val))
		}
		if voidTags[n.Tag] {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			render(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}
