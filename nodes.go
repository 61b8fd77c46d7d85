package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Each node
// exclusively owns its children.
type node struct {
	kind nodeKind

	// n is the value of nodeInt, f of nodeFloat.
	n uint64
	f float64
	// c is the constant of nodeConst, fn the function of nodeFunc.
	c  constant
	fn function

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeInt   // n
	nodeFloat // f
	nodeConst // lookup(c)

	nodeNeg  // evaluate left, then negate
	nodeFact // evaluate left, then factorial
	nodeFunc // evaluate left, then apply fn

	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right
)

var nodeNames = [...]string{
	nodeNone:  "None",
	nodeInt:   "Int",
	nodeFloat: "Float",
	nodeConst: "Const",
	nodeNeg:   "Neg",
	nodeFact:  "Fact",
	nodeFunc:  "Func",
	nodeAdd:   "Add",
	nodeSub:   "Sub",
	nodeMul:   "Mul",
	nodeDiv:   "Div",
	nodePow:   "Pow",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeNames[k]
}

// binops maps binary node kinds to their printed operators.
var binops = [...]string{
	nodeAdd: " + ",
	nodeSub: " - ",
	nodeMul: " * ",
	nodeDiv: " / ",
	nodePow: " ^ ",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the fully parenthesized form of the tree. Leaves are bare and
// every other node is wrapped in parentheses, except that a function call
// supplies its own.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeInt:
		b.WriteString(strconv.FormatUint(n.n, 10))
	case nodeFloat:
		b.WriteString(strconv.FormatFloat(n.f, 'f', -1, 64))
	case nodeConst:
		b.WriteString(n.c.String())
	case nodeNeg:
		b.WriteString("(-")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeFact:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString("!)")
	case nodeFunc:
		b.WriteString(n.fn.String())
		if n.left.leaf() {
			b.WriteByte('(')
			n.left.fmt(b)
			b.WriteByte(')')
			return
		}
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString(binops[n.kind])
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// leaf reports whether n prints without surrounding parentheses.
func (n *node) leaf() bool {
	switch n.kind {
	case nodeInt, nodeFloat, nodeConst, nodeFunc:
		return true
	}
	return false
}

// depth returns the height of the tree rooted at n.
func (n *node) depth() int {
	if n == nil {
		return 0
	}
	l, r := n.left.depth(), n.right.depth()
	if r > l {
		l = r
	}
	return l + 1
}
