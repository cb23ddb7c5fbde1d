package exprtree

import (
	"strings"
)

// node is a node in the expression tree.
type node struct {
	kind nodeKind

	// label is the numeral of a leaf or the operator symbol of an internal
	// node.
	label string

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // push num

	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(n.label)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.label)
		b.WriteByte(' ')
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("exprtree: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// inorder appends the labels of the subtree rooted at n in left, node, right
// order.
func (n *node) inorder(labels []string) []string {
	if n == nil {
		return labels
	}
	labels = n.left.inorder(labels)
	labels = append(labels, n.label)
	return n.right.inorder(labels)
}

// postorder appends the labels of the subtree rooted at n in left, right,
// node order.
func (n *node) postorder(labels []string) []string {
	if n == nil {
		return labels
	}
	labels = n.left.postorder(labels)
	labels = n.right.postorder(labels)
	return append(labels, n.label)
}

// opkind gets the node kind for an operator symbol. If text is not an
// operator, the result is nodeNone.
func opkind(text string) nodeKind {
	switch text {
	case "+":
		return nodeAdd
	case "-":
		return nodeSub
	case "*":
		return nodeMul
	case "/":
		return nodeDiv
	case "^":
		return nodePow
	default:
		return nodeNone
	}
}
