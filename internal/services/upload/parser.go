// Package upload shapes uploaded CSV files into normalized transaction
// records for the reconciliation engine. It is a pure data-shaping step: no
// persistence, no matching.
package upload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

// ColumnMapping pins uploaded columns to record fields. Zero-value fields
// fall back to header auto-detection; "none" disables an optional field.
type ColumnMapping struct {
	TransactionID   string `json:"transaction_id"`
	Amount          string `json:"amount"`
	ReferenceNumber string `json:"reference_number"`
	Date            string `json:"date"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Vendor          string `json:"vendor"`
}

// Report summarizes one parse pass.
type Report struct {
	TotalRows int `json:"total_rows"`
	Accepted  int `json:"accepted"`
	Skipped   int `json:"skipped"`
}

// Header aliases recognized during auto-detection.
var headerAliases = map[string][]string{
	"transaction_id":   {"transaction_id", "txn_id", "id"},
	"amount":           {"amount"},
	"reference_number": {"reference_number", "ref_number", "reference"},
	"date":             {"date", "transaction_date"},
	"description":      {"description"},
	"category":         {"category"},
	"vendor":           {"vendor", "supplier"},
}

// ParseCSV reads a CSV stream into transaction records. Rows that fail
// required-field validation (empty transaction ID, non-positive amount,
// unparseable date) are skipped and counted, never fatal.
func ParseCSV(r io.Reader, mapping *ColumnMapping) ([]models.Transaction, Report, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, Report{}, nil
		}
		return nil, Report{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := resolveColumns(header, mapping)

	var (
		records []models.Transaction
		report  Report
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row; skip it rather than abort the upload.
			report.TotalRows++
			report.Skipped++
			continue
		}
		report.TotalRows++

		record, ok := normalizeRow(row, columns)
		if !ok {
			report.Skipped++
			continue
		}
		records = append(records, record)
		report.Accepted++
	}
	return records, report, nil
}

// columnIndexes maps record fields to CSV column positions; -1 means absent.
type columnIndexes struct {
	transactionID   int
	amount          int
	referenceNumber int
	date            int
	description     int
	category        int
	vendor          int
}

func resolveColumns(header []string, mapping *ColumnMapping) columnIndexes {
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.ToLower(strings.TrimSpace(name))] = i
	}

	find := func(field, mapped string) int {
		if mapped == "none" {
			return -1
		}
		if mapped != "" {
			if i, ok := position[strings.ToLower(mapped)]; ok {
				return i
			}
			return -1
		}
		for _, alias := range headerAliases[field] {
			if i, ok := position[alias]; ok {
				return i
			}
		}
		return -1
	}

	var m ColumnMapping
	if mapping != nil {
		m = *mapping
	}
	return columnIndexes{
		transactionID:   find("transaction_id", m.TransactionID),
		amount:          find("amount", m.Amount),
		referenceNumber: find("reference_number", m.ReferenceNumber),
		date:            find("date", m.Date),
		description:     find("description", m.Description),
		category:        find("category", m.Category),
		vendor:          find("vendor", m.Vendor),
	}
}

func normalizeRow(row []string, cols columnIndexes) (models.Transaction, bool) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	txnID := cell(cols.transactionID)
	if txnID == "" {
		return models.Transaction{}, false
	}

	amount, err := parseAmount(cell(cols.amount))
	if err != nil || !amount.IsPositive() {
		return models.Transaction{}, false
	}

	date, err := parseDate(cell(cols.date))
	if err != nil {
		return models.Transaction{}, false
	}

	return models.Transaction{
		TransactionID:   txnID,
		Amount:          amount,
		ReferenceNumber: cell(cols.referenceNumber),
		Date:            date,
		Description:     cell(cols.description),
		Category:        cell(cols.category),
		Vendor:          cell(cols.vendor),
	}, true
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	return decimal.NewFromString(s)
}

// Date layouts accepted in uploads, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

// FileStats describes the accepted records of one upload for the response
// payload.
type FileStats struct {
	TotalRecords int             `json:"total_records"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Earliest     time.Time       `json:"earliest"`
	Latest       time.Time       `json:"latest"`
	Categories   []string        `json:"categories"`
	Vendors      []string        `json:"vendors"`
}

// Stats aggregates the accepted records. Empty input yields zero stats.
func Stats(records []models.Transaction) FileStats {
	stats := FileStats{
		TotalRecords: len(records),
		TotalAmount:  decimal.Zero,
	}
	categories := make(map[string]struct{})
	vendors := make(map[string]struct{})

	for i, rec := range records {
		stats.TotalAmount = stats.TotalAmount.Add(rec.Amount)
		if i == 0 || rec.Date.Before(stats.Earliest) {
			stats.Earliest = rec.Date
		}
		if i == 0 || rec.Date.After(stats.Latest) {
			stats.Latest = rec.Date
		}
		if rec.Category != "" {
			if _, seen := categories[rec.Category]; !seen {
				categories[rec.Category] = struct{}{}
				stats.Categories = append(stats.Categories, rec.Category)
			}
		}
		if rec.Vendor != "" {
			if _, seen := vendors[rec.Vendor]; !seen {
				vendors[rec.Vendor] = struct{}{}
				stats.Vendors = append(stats.Vendors, rec.Vendor)
			}
		}
	}
	return stats
}
