package sankey

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

func incomeTxn(source string, amount int64) *entity.Transaction {
	return &entity.Transaction{
		ID:               uuid.New(),
		Date:             time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Type:             entity.TransactionTypeIncome,
		FriendlyCategory: source,
		Label:            source,
		DebitAccount:     "現金",
		DebitAmount:      amount,
		CreditAccount:    source,
		CreditAmount:     amount,
	}
}

func expenseTxn(category, label, subAccount string, amount int64) *entity.Transaction {
	return &entity.Transaction{
		ID:               uuid.New(),
		Date:             time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		Type:             entity.TransactionTypeExpense,
		FriendlyCategory: category,
		Label:            label,
		DebitAccount:     label,
		DebitSubAccount:  subAccount,
		DebitAmount:      amount,
		CreditAccount:    "現金",
		CreditAmount:     amount,
	}
}

func TestAggregate(t *testing.T) {
	t.Run("income and expense flow through the hub", func(t *testing.T) {
		transactions := []*entity.Transaction{
			incomeTxn("個人", 10000),
			incomeTxn("個人", 10000),
			expenseTxn("人件費", "人件費", "", 15000),
		}
		// Make the two income rows distinct events
		transactions[1].Description = "second donation"

		graph := Aggregate(transactions)

		wantNodes := []Node{{ID: "個人"}, {ID: HubNode}, {ID: "人件費"}}
		if !reflect.DeepEqual(graph.Nodes, wantNodes) {
			t.Errorf("unexpected nodes %+v", graph.Nodes)
		}

		wantLinks := []Link{
			{Source: "個人", Target: HubNode, Value: 20000},
			{Source: HubNode, Target: "人件費", Value: 15000},
		}
		if !reflect.DeepEqual(graph.Links, wantLinks) {
			t.Errorf("unexpected links %+v", graph.Links)
		}
	})

	t.Run("offsetting rows are excluded", func(t *testing.T) {
		transactions := []*entity.Transaction{
			incomeTxn("個人", 10000),
			{
				Type:          entity.TransactionTypeOffsetIncome,
				Label:         "事業主借",
				DebitAccount:  "現金",
				DebitAmount:   99999,
				CreditAccount: "事業主借",
				CreditAmount:  99999,
			},
			{
				Type:          entity.TransactionTypeOffsetExpense,
				Label:         "仮払金",
				DebitAccount:  "仮払金",
				DebitAmount:   88888,
				CreditAccount: "現金",
				CreditAmount:  88888,
			},
		}

		graph := Aggregate(transactions)

		for _, node := range graph.Nodes {
			if node.ID == "事業主借" || node.ID == "仮払金" {
				t.Errorf("offset account %s must not appear in the graph", node.ID)
			}
		}
		if len(graph.Links) != 1 {
			t.Fatalf("expected 1 link, got %d", len(graph.Links))
		}
		if graph.Links[0].Value != 10000 {
			t.Errorf("expected value 10000, got %d", graph.Links[0].Value)
		}
	})

	t.Run("expense chain expands distinct levels", func(t *testing.T) {
		graph := Aggregate([]*entity.Transaction{
			expenseTxn("組織活動費", "旅費交通費", "新幹線", 5000),
		})

		wantLinks := []Link{
			{Source: HubNode, Target: "組織活動費", Value: 5000},
			{Source: "組織活動費", Target: "旅費交通費", Value: 5000},
			{Source: "旅費交通費", Target: "新幹線", Value: 5000},
		}
		if !reflect.DeepEqual(graph.Links, wantLinks) {
			t.Errorf("unexpected links %+v", graph.Links)
		}
	})

	t.Run("consecutive identical levels collapse", func(t *testing.T) {
		graph := Aggregate([]*entity.Transaction{
			expenseTxn("人件費", "人件費", "", 15000),
		})

		wantLinks := []Link{{Source: HubNode, Target: "人件費", Value: 15000}}
		if !reflect.DeepEqual(graph.Links, wantLinks) {
			t.Errorf("unexpected links %+v", graph.Links)
		}
	})

	t.Run("empty expense levels fall back to the expense node", func(t *testing.T) {
		graph := Aggregate([]*entity.Transaction{
			expenseTxn("", "", "", 3000),
		})

		wantLinks := []Link{{Source: HubNode, Target: FallbackExpenseNode, Value: 3000}}
		if !reflect.DeepEqual(graph.Links, wantLinks) {
			t.Errorf("unexpected links %+v", graph.Links)
		}
	})

	t.Run("income prefers the credit partner over the category", func(t *testing.T) {
		txn := incomeTxn("個人献金", 8000)
		txn.CreditPartner = "山田太郎"

		graph := Aggregate([]*entity.Transaction{txn})

		if graph.Links[0].Source != "山田太郎" {
			t.Errorf("expected partner as source, got %s", graph.Links[0].Source)
		}
	})

	t.Run("zero and negative amounts are skipped", func(t *testing.T) {
		graph := Aggregate([]*entity.Transaction{
			incomeTxn("個人", 0),
		})
		if len(graph.Nodes) != 0 || len(graph.Links) != 0 {
			t.Errorf("expected empty graph, got %+v", graph)
		}
	})

	t.Run("aggregation is deterministic", func(t *testing.T) {
		transactions := []*entity.Transaction{
			incomeTxn("個人", 10000),
			expenseTxn("人件費", "人件費", "", 15000),
			expenseTxn("組織活動費", "旅費交通費", "", 5000),
		}
		first := Aggregate(transactions)
		second := Aggregate(transactions)
		if !reflect.DeepEqual(first, second) {
			t.Error("expected identical graphs for identical input")
		}
	})
}
