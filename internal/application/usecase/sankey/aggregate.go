// Package sankey folds ledger transactions into the weighted flow graph shown
// on the public transparency dashboard.
package sankey

import (
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// Node identifiers with no better source fall back to these literals.
const (
	HubNode             = "Account"
	FallbackIncomeNode  = "Income"
	FallbackExpenseNode = "Expenses"
)

// Node is one vertex of the flow graph.
type Node struct {
	ID string `json:"id"`
}

// Link is one weighted edge of the flow graph. Value is the exact yen sum of
// all contributing transactions.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int64  `json:"value"`
}

// Graph is the Sankey graph: deduplicated nodes and one link per
// (source,target) pair. Order follows first insertion, so repeated
// aggregation of the same input yields identical output.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Aggregate folds transactions into a flow graph around a single hub node.
// Income flows source → hub; expenses flow hub → category chain. Offsetting
// transactions are excluded entirely. The function is pure: it never mutates
// its input and holds no state between calls.
func Aggregate(transactions []*entity.Transaction) *Graph {
	b := newBuilder()

	for _, txn := range transactions {
		amount := txn.Amount()
		if amount <= 0 {
			continue
		}

		switch txn.Type {
		case entity.TransactionTypeIncome:
			source := firstNonEmpty(txn.CreditPartner, txn.FriendlyCategory, FallbackIncomeNode)
			b.addLink(source, HubNode, amount)
		case entity.TransactionTypeExpense:
			path := expensePath(txn)
			prev := HubNode
			for _, node := range path {
				b.addLink(prev, node, amount)
				prev = node
			}
		default:
			// Offsetting rows never appear in the graph.
		}
	}

	return b.graph()
}

// expensePath returns the category chain for an expense row, using only the
// levels present and collapsing consecutive repeats.
func expensePath(txn *entity.Transaction) []string {
	levels := []string{txn.FriendlyCategory, txn.Label, txn.DebitSubAccount}

	var path []string
	for _, level := range levels {
		if level == "" {
			continue
		}
		if len(path) > 0 && path[len(path)-1] == level {
			continue
		}
		path = append(path, level)
	}
	if len(path) == 0 {
		path = []string{FallbackExpenseNode}
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// builder accumulates nodes and links with stable first-insertion order.
type builder struct {
	nodeSeen  map[string]struct{}
	nodeOrder []string

	linkIndex map[[2]string]int
	links     []Link
}

func newBuilder() *builder {
	return &builder{
		nodeSeen:  make(map[string]struct{}),
		linkIndex: make(map[[2]string]int),
	}
}

func (b *builder) addNode(id string) {
	if _, ok := b.nodeSeen[id]; ok {
		return
	}
	b.nodeSeen[id] = struct{}{}
	b.nodeOrder = append(b.nodeOrder, id)
}

// addLink accumulates value onto the (source,target) link, creating it on
// first sight. The same pair from multiple transactions yields exactly one
// link whose value is the arithmetic sum.
func (b *builder) addLink(source, target string, value int64) {
	b.addNode(source)
	b.addNode(target)

	key := [2]string{source, target}
	if i, ok := b.linkIndex[key]; ok {
		b.links[i].Value += value
		return
	}
	b.linkIndex[key] = len(b.links)
	b.links = append(b.links, Link{Source: source, Target: target, Value: value})
}

func (b *builder) graph() *Graph {
	nodes := make([]Node, len(b.nodeOrder))
	for i, id := range b.nodeOrder {
		nodes[i] = Node{ID: id}
	}
	links := make([]Link, len(b.links))
	copy(links, b.links)
	return &Graph{Nodes: nodes, Links: links}
}
