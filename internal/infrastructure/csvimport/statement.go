package csvimport

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/shopspring/decimal"
)

// Column aliases accepted in statement files. Brazilian bank exports use
// the Portuguese names.
var (
	dateColumns        = []string{"date", "data"}
	descriptionColumns = []string{"description", "descricao", "historico"}
	amountColumns      = []string{"amount", "valor"}
	typeColumns        = []string{"type", "tipo"}
)

// Column order assumed for files without a header row.
var headerlessColumns = []string{"date", "description", "amount", "type"}

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// LineError is a statement row that could not be parsed
type LineError struct {
	LineNumber int
	Message    string
}

// StatementParseResult holds the parsed statement lines plus the rows
// that failed. A bad row never aborts the rest of the file.
type StatementParseResult struct {
	Lines  []banking.StatementLine
	Errors []LineError
	Total  int
}

// ParseStatement parses a bank statement CSV into normalized lines.
// Amounts come out positive with an explicit direction. The header row
// is optional: a file whose first field is a date is treated as
// headerless with the columns date, description, amount, type.
func ParseStatement(data []byte, opts ...ParserOption) (*StatementParseResult, error) {
	parser, err := ParseFromBytes(data, opts...)
	if err != nil {
		return nil, err
	}
	withHeader, err := statementHasHeader(data, opts...)
	if err != nil {
		return nil, err
	}

	dateCol, descCol := headerlessColumns[0], headerlessColumns[1]
	amountCol, typeCol := headerlessColumns[2], headerlessColumns[3]
	if withHeader {
		if err := parser.ParseHeader(); err != nil {
			return nil, err
		}
		var ok bool
		if dateCol, ok = firstPresent(parser, dateColumns); !ok {
			return nil, fmt.Errorf("%w: date column not found", ErrMissingHeader)
		}
		if amountCol, ok = firstPresent(parser, amountColumns); !ok {
			return nil, fmt.Errorf("%w: amount column not found", ErrMissingHeader)
		}
		descCol, _ = firstPresent(parser, descriptionColumns)
		typeCol, _ = firstPresent(parser, typeColumns)
	} else {
		parser.SetHeaders(headerlessColumns)
	}

	result := &StatementParseResult{}
	for {
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Total++
			result.Errors = append(result.Errors, LineError{
				LineNumber: parser.currentRow,
				Message:    err.Error(),
			})
			continue
		}
		if row.IsEmpty() {
			continue
		}
		result.Total++

		line, err := parseStatementLine(row, dateCol, descCol, amountCol, typeCol)
		if err != nil {
			result.Errors = append(result.Errors, LineError{
				LineNumber: row.LineNumber,
				Message:    err.Error(),
			})
			continue
		}
		result.Lines = append(result.Lines, line)
	}

	return result, nil
}

// statementHasHeader reads the first record of a fresh parser and
// decides whether it is a header row. A data row starts with a date;
// anything else is taken as a header.
func statementHasHeader(data []byte, opts ...ParserOption) (bool, error) {
	sniff, err := ParseFromBytes(data, opts...)
	if err != nil {
		return false, err
	}
	record, err := sniff.reader.Read()
	if err != nil || len(record) == 0 {
		// Let ParseHeader surface the malformed first row
		return true, nil
	}
	_, dateErr := parseDate(strings.TrimSpace(record[0]))
	return dateErr != nil, nil
}

func firstPresent(p *CSVParser, candidates []string) (string, bool) {
	for _, c := range candidates {
		if p.HasHeader(c) {
			return c, true
		}
	}
	return "", false
}

func parseStatementLine(row *Row, dateCol, descCol, amountCol, typeCol string) (banking.StatementLine, error) {
	var line banking.StatementLine
	line.LineNumber = row.LineNumber

	date, err := parseDate(row.Get(dateCol))
	if err != nil {
		return line, err
	}
	line.Date = date

	if descCol != "" {
		line.Description = row.Get(descCol)
	}

	amount, err := parseAmount(row.Get(amountCol))
	if err != nil {
		return line, err
	}
	if amount.IsZero() {
		return line, fmt.Errorf("amount must not be zero")
	}

	txType := banking.TransactionType("")
	if typeCol != "" {
		txType, err = parseDirection(row.Get(typeCol))
		if err != nil {
			return line, err
		}
	}
	if txType == "" {
		// No direction column: the sign decides
		if amount.IsNegative() {
			txType = banking.TransactionTypeExpense
		} else {
			txType = banking.TransactionTypeIncome
		}
	}

	line.Amount = amount.Abs()
	line.Type = txType
	return line, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// parseAmount accepts both decimal-point and Brazilian decimal-comma
// formats, e.g. "1234.56" and "1.234,56".
func parseAmount(value string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(value, " ", "")
	normalized = strings.TrimPrefix(normalized, "R$")
	if strings.Contains(normalized, ",") {
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", value)
	}
	return amount, nil
}

func parseDirection(value string) (banking.TransactionType, error) {
	switch strings.ToUpper(value) {
	case "C", "CREDIT", "CREDITO", "ENTRADA":
		return banking.TransactionTypeIncome, nil
	case "D", "DEBIT", "DEBITO", "SAIDA":
		return banking.TransactionTypeExpense, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid direction %q", value)
	}
}
