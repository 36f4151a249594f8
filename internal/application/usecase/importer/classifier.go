package importer

import (
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// FallbackCategoryKey is the lowest-priority bucket for accounts that have no
// entry in the category table.
const FallbackCategoryKey = "other"

// Category is a public-facing grouping for an account name.
type Category struct {
	Key   string
	Label string
}

// ClassifierConfig is the startup configuration for the classifier: which
// accounts are the organization's operating cash, which mark internal
// transfers/corrections, and how account names map to friendly categories.
type ClassifierConfig struct {
	CashAccounts   []string
	OffsetAccounts []string
	Categories     map[string]Category
}

// DefaultClassifierConfig returns the mapping used for Money Forward exports
// of political fund ledgers. The category labels follow the statutory
// political funds report groupings.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		CashAccounts: []string{"現金", "小口現金", "普通預金", "当座預金"},
		OffsetAccounts: []string{
			"事業主借", "事業主貸", "元入金", "前期繰越", "仮払金", "仮受金",
		},
		Categories: map[string]Category{
			// Income accounts
			"個人からの寄附":           {Key: "donation_individual", Label: "個人献金"},
			"法人その他の団体からの寄附":     {Key: "donation_corporate", Label: "企業・団体献金"},
			"政治団体からの寄附":         {Key: "donation_political", Label: "政治団体からの寄附"},
			"党費・会費":             {Key: "membership", Label: "党費・会費"},
			"機関紙誌の発行その他の事業による収入": {Key: "business_income", Label: "事業収入"},
			"借入金":               {Key: "borrowing", Label: "借入金"},
			"本部・支部交付金":          {Key: "grants", Label: "本部・支部交付金"},

			// Expense accounts
			"人件費":             {Key: "personnel", Label: "人件費"},
			"光熱水費":            {Key: "utilities", Label: "光熱水費"},
			"備品・消耗品費":         {Key: "supplies", Label: "備品・消耗品費"},
			"事務所費":            {Key: "office", Label: "事務所費"},
			"通信費":             {Key: "communication", Label: "事務所費"},
			"組織活動費":           {Key: "activities", Label: "組織活動費"},
			"選挙関係費":           {Key: "election", Label: "選挙関係費"},
			"機関紙誌の発行事業費":      {Key: "publication", Label: "機関紙誌の発行事業費"},
			"宣伝事業費":           {Key: "advertising", Label: "宣伝事業費"},
			"政治資金パーティー開催事業費":  {Key: "party_events", Label: "政治資金パーティー開催事業費"},
			"その他の事業費":         {Key: "other_business", Label: "その他の事業費"},
			"調査研究費":           {Key: "research", Label: "調査研究費"},
			"寄附・交付金":          {Key: "donations_made", Label: "寄附・交付金"},
			"旅費交通費":           {Key: "travel", Label: "組織活動費"},
			"その他の経費":          {Key: "other_expense", Label: "その他の経費"},
		},
	}
}

// Classified is a parsed row with its normalized type and public category.
type Classified struct {
	ParsedRow

	Type             entity.TransactionType
	CategoryKey      string
	FriendlyCategory string
	Label            string
}

// Classifier maps parsed rows to normalized transaction types and friendly
// categories. It is built once at startup and is immutable afterwards, so
// classification is deterministic and safe for concurrent use.
type Classifier struct {
	cash       map[string]struct{}
	offset     map[string]struct{}
	categories map[string]Category
}

// NewClassifier builds a classifier from the given configuration.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	c := &Classifier{
		cash:       make(map[string]struct{}, len(cfg.CashAccounts)),
		offset:     make(map[string]struct{}, len(cfg.OffsetAccounts)),
		categories: make(map[string]Category, len(cfg.Categories)),
	}
	for _, name := range cfg.CashAccounts {
		c.cash[name] = struct{}{}
	}
	for _, name := range cfg.OffsetAccounts {
		c.offset[name] = struct{}{}
	}
	for name, cat := range cfg.Categories {
		c.categories[name] = cat
	}
	return c
}

// Classify determines the transaction type and friendly category of a row.
// It is total: every row with its required fields present classifies without
// error, unmapped accounts falling back to a category named after the literal
// account name.
func (c *Classifier) Classify(row ParsedRow) Classified {
	debitCash := c.isCash(row.DebitAccount)
	creditCash := c.isCash(row.CreditAccount)

	var (
		txnType entity.TransactionType
		account string
	)

	switch {
	case debitCash && !creditCash:
		// Cash in: the credit side names where the money came from.
		account = row.CreditAccount
		if c.isOffset(account) {
			txnType = entity.TransactionTypeOffsetIncome
		} else {
			txnType = entity.TransactionTypeIncome
		}
	case creditCash && !debitCash:
		// Cash out: the debit side names what the money was spent on.
		account = row.DebitAccount
		if c.isOffset(account) {
			txnType = entity.TransactionTypeOffsetExpense
		} else {
			txnType = entity.TransactionTypeExpense
		}
	case debitCash && creditCash:
		// Internal transfer between operating accounts.
		account = row.DebitAccount
		txnType = entity.TransactionTypeOffsetExpense
	default:
		// Ledger adjustment touching no cash account.
		account = row.DebitAccount
		if c.isOffset(row.CreditAccount) && !c.isOffset(row.DebitAccount) {
			txnType = entity.TransactionTypeOffsetIncome
		} else {
			txnType = entity.TransactionTypeOffsetExpense
		}
	}

	category := c.lookup(account)

	return Classified{
		ParsedRow:        row,
		Type:             txnType,
		CategoryKey:      category.Key,
		FriendlyCategory: category.Label,
		Label:            account,
	}
}

func (c *Classifier) isCash(account string) bool {
	_, ok := c.cash[account]
	return ok
}

func (c *Classifier) isOffset(account string) bool {
	_, ok := c.offset[account]
	return ok
}

// lookup never fails: unmapped account names become their own category under
// the fallback key.
func (c *Classifier) lookup(account string) Category {
	if cat, ok := c.categories[account]; ok {
		return cat
	}
	return Category{Key: FallbackCategoryKey, Label: account}
}
