package importer

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
)

// journalDateFormat is the date layout used by the Money Forward journal export.
const journalDateFormat = "2006/01/02"

// Column layout of the Money Forward journal CSV export.
const (
	colRecordNo = iota
	colDate
	colDebitAccount
	colDebitSubAccount
	colDebitDepartment
	colDebitPartner
	colDebitTaxCategory
	colDebitInvoice
	colDebitAmount
	colDebitTaxAmount
	colCreditAccount
	colCreditSubAccount
	colCreditDepartment
	colCreditPartner
	colCreditTaxCategory
	colCreditInvoice
	colCreditAmount
	colCreditTaxAmount
	colDescription
	colMemo

	journalNumFields = colMemo + 1
)

// headerSignature is the first cell of the journal export header row.
const headerSignature = "取引No"

// ParsedRow is one structurally valid journal row.
type ParsedRow struct {
	Line int // 1-based line number in the uploaded file

	Date time.Time

	DebitAccount     string
	DebitSubAccount  string
	DebitDepartment  string
	DebitPartner     string
	DebitTaxCategory string
	DebitAmount      int64

	CreditAccount     string
	CreditSubAccount  string
	CreditDepartment  string
	CreditPartner     string
	CreditTaxCategory string
	CreditAmount      int64

	Description string
	Memo        string
}

// InvalidRow is a row excluded from further processing, with a human-readable
// reason surfaced to the caller.
type InvalidRow struct {
	Line   int
	Cells  []string
	Reason string
}

// ParseResult holds the outcome of parsing one uploaded file.
type ParseResult struct {
	Rows    []ParsedRow
	Invalid []InvalidRow
}

// ParseJournal parses the journal CSV text. Structural problems (unreadable
// CSV, missing header, zero data rows) are fatal; individual bad rows are
// collected in Invalid and do not abort the batch.
func ParseJournal(text string) (*ParseResult, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // cell counts are validated per row

	records, err := reader.ReadAll()
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeUnrecognizedHeader,
			"failed to read CSV",
			err,
		)
	}
	if len(records) == 0 {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeNoDataRows,
			"CSV contains no rows",
			domainerror.ErrNoDataRows,
		)
	}

	if !isHeaderRow(records[0]) {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeUnrecognizedHeader,
			"first row does not match the journal export header",
			domainerror.ErrUnrecognizedHeader,
		)
	}

	result := &ParseResult{}
	for i, cells := range records[1:] {
		line := i + 2 // 1-based, after the header
		if isBlankRow(cells) {
			continue
		}

		if len(cells) != journalNumFields {
			result.Invalid = append(result.Invalid, InvalidRow{
				Line:   line,
				Cells:  cells,
				Reason: fmt.Sprintf("expected %d columns, got %d", journalNumFields, len(cells)),
			})
			continue
		}

		row, reason := parseRow(line, cells)
		if reason != "" {
			result.Invalid = append(result.Invalid, InvalidRow{Line: line, Cells: cells, Reason: reason})
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	if len(result.Rows) == 0 && len(result.Invalid) == 0 {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeNoDataRows,
			"CSV contains no data rows",
			domainerror.ErrNoDataRows,
		)
	}

	return result, nil
}

func isHeaderRow(cells []string) bool {
	return len(cells) > 0 && strings.TrimSpace(cells[colRecordNo]) == headerSignature
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseRow converts one record into a ParsedRow. A non-empty reason marks the
// row invalid.
func parseRow(line int, cells []string) (ParsedRow, string) {
	dateStr := strings.TrimSpace(cells[colDate])
	if dateStr == "" {
		return ParsedRow{}, "transaction date is required"
	}
	date, err := time.Parse(journalDateFormat, dateStr)
	if err != nil {
		return ParsedRow{}, fmt.Sprintf("unparsable date %q", dateStr)
	}

	debitAccount := strings.TrimSpace(cells[colDebitAccount])
	creditAccount := strings.TrimSpace(cells[colCreditAccount])
	if debitAccount == "" {
		return ParsedRow{}, "debit account is required"
	}
	if creditAccount == "" {
		return ParsedRow{}, "credit account is required"
	}

	debitAmount, reason := parseAmount(cells[colDebitAmount], "debit")
	if reason != "" {
		return ParsedRow{}, reason
	}
	creditAmount, reason := parseAmount(cells[colCreditAmount], "credit")
	if reason != "" {
		return ParsedRow{}, reason
	}
	if debitAmount == 0 && creditAmount == 0 {
		return ParsedRow{}, "amount must be positive"
	}

	return ParsedRow{
		Line: line,
		Date: date,

		DebitAccount:     debitAccount,
		DebitSubAccount:  strings.TrimSpace(cells[colDebitSubAccount]),
		DebitDepartment:  strings.TrimSpace(cells[colDebitDepartment]),
		DebitPartner:     strings.TrimSpace(cells[colDebitPartner]),
		DebitTaxCategory: strings.TrimSpace(cells[colDebitTaxCategory]),
		DebitAmount:      debitAmount,

		CreditAccount:     creditAccount,
		CreditSubAccount:  strings.TrimSpace(cells[colCreditSubAccount]),
		CreditDepartment:  strings.TrimSpace(cells[colCreditDepartment]),
		CreditPartner:     strings.TrimSpace(cells[colCreditPartner]),
		CreditTaxCategory: strings.TrimSpace(cells[colCreditTaxCategory]),
		CreditAmount:      creditAmount,

		Description: strings.TrimSpace(cells[colDescription]),
		Memo:        strings.TrimSpace(cells[colMemo]),
	}, ""
}

// parseAmount parses a yen amount cell, stripping thousands separators.
// An empty cell is zero (one-sided rows leave the other side blank).
func parseAmount(cell, side string) (int64, string) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, ""
	}
	s = strings.ReplaceAll(s, ",", "")
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Sprintf("non-numeric %s amount %q", side, cell)
	}
	if value < 0 {
		return 0, fmt.Sprintf("%s amount must not be negative", side)
	}
	return value, ""
}
