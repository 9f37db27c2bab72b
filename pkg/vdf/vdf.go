// Package vdf writes Valve KeyValues (VDF) documents.
//
// Entries keep their insertion order, which matters for the app build scripts
// consumed by SteamCMD.
package vdf

import (
	"bytes"
	"io"
	"strings"
)

// Node is either a key/value pair or a named block of child nodes.
type Node struct {
	Key      string
	Value    string
	Children []*Node
	isBlock  bool
}

// Pair creates a "key" "value" entry.
func Pair(key, value string) *Node {
	return &Node{Key: key, Value: value}
}

// Block creates a "key" { ... } entry holding children in the given order.
func Block(key string, children ...*Node) *Node {
	return &Node{Key: key, Children: children, isBlock: true}
}

// Add appends children to a block and returns it.
func (n *Node) Add(children ...*Node) *Node {
	n.isBlock = true
	n.Children = append(n.Children, children...)
	return n
}

// IsBlock reports whether the node renders as a brace-delimited block.
func (n *Node) IsBlock() bool {
	return n.isBlock
}

// Find returns the first direct child with the given key.
func (n *Node) Find(key string) *Node {
	for _, child := range n.Children {
		if child.Key == key {
			return child
		}
	}
	return nil
}

// Write renders root to w using tab indentation, one entry per line.
func Write(w io.Writer, root *Node) error {
	var buf bytes.Buffer
	writeNode(&buf, root, 0)
	_, err := w.Write(buf.Bytes())
	return err
}

// Marshal renders root into a byte slice.
func Marshal(root *Node) []byte {
	var buf bytes.Buffer
	writeNode(&buf, root, 0)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *Node, depth int) {
	indent := strings.Repeat("\t", depth)
	if !n.isBlock {
		buf.WriteString(indent + quote(n.Key) + " " + quote(n.Value) + "\n")
		return
	}

	buf.WriteString(indent + quote(n.Key) + "\n")
	buf.WriteString(indent + "{\n")
	for _, child := range n.Children {
		writeNode(buf, child, depth+1)
	}
	buf.WriteString(indent + "}\n")
}

// quote wraps s in double quotes. SteamCMD reads values verbatim, so embedded
// quotes are dropped and backslashes are left as they are.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "") + `"`
}
