// Package importer bulk-loads partner, product and sales history rows from
// spreadsheet exports. It runs once at startup, before the HTTP listener,
// and can be re-run on demand through the admin endpoint.
package importer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"partnerdesk-backend/internal/models"
	"partnerdesk-backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// tableSpec describes one importable table: its source file, the columns the
// file must carry, and the row-level upsert. Tables are iterated uniformly;
// there is no dispatch on table names.
type tableSpec struct {
	table   string
	file    string
	columns []string
	upsert  func(tx *store.Store, row map[string]string) error
}

var tables = []tableSpec{
	{
		table:   "Partners",
		file:    "partners.xlsx",
		columns: []string{"PartnerID", "Name", "Phone", "Email", "Address", "RegistrationDate"},
		upsert:  upsertPartnerRow,
	},
	{
		table:   "Products",
		file:    "products.xlsx",
		columns: []string{"ProductID", "Name", "Description", "Price"},
		upsert:  upsertProductRow,
	},
	{
		table:   "SalesHistory",
		file:    "sales_history.xlsx",
		columns: []string{"SaleID", "PartnerID", "ProductID", "Quantity", "SaleDate"},
		upsert:  upsertSaleRow,
	},
}

// TableError records a failed table. The table's uncommitted rows were
// rolled back; other tables are unaffected.
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("import table %s: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// Summary reports what one import run did, per table.
type Summary struct {
	Imported map[string]int `json:"imported"` // table -> row count
	Skipped  []string       `json:"skipped"`  // missing file or wrong columns
	Failed   []string       `json:"failed"`   // rolled back, error message included
}

// ImportAll processes the three spreadsheet files found in dir. Each table
// is upserted inside its own transaction: a row failure rolls back that
// table only and processing continues with the next one. A missing file or
// a wrong column set skips the table without importing anything from it.
// Nothing here is fatal; problems are logged and reported in the summary.
func ImportAll(st *store.Store, dir string) *Summary {
	summary := &Summary{Imported: make(map[string]int)}

	for _, spec := range tables {
		path := filepath.Join(dir, spec.file)

		if _, err := os.Stat(path); err != nil {
			log.Printf("Import: file %s not found, skipping table %s", spec.file, spec.table)
			summary.Skipped = append(summary.Skipped, spec.table)
			continue
		}

		rows, err := readSheet(path)
		if err != nil {
			log.Printf("Import: could not read %s: %v", spec.file, err)
			summary.Skipped = append(summary.Skipped, spec.table)
			continue
		}

		if missing := missingColumns(rows.header, spec.columns); len(missing) > 0 {
			log.Printf("Import: file %s is missing columns %v, skipping table %s", spec.file, missing, spec.table)
			summary.Skipped = append(summary.Skipped, spec.table)
			continue
		}

		count := 0
		err = st.Transaction(func(tx *store.Store) error {
			for i, row := range rows.records {
				if err := spec.upsert(tx, row); err != nil {
					return fmt.Errorf("row %d: %w", i+2, err) // +2: 1-based, after header
				}
				count++
			}
			return nil
		})
		if err != nil {
			tErr := &TableError{Table: spec.table, Err: err}
			log.Printf("Import: %v (table rolled back)", tErr)
			summary.Failed = append(summary.Failed, tErr.Error())
			continue
		}

		summary.Imported[spec.table] = count
		log.Printf("Import: table %s imported (%d rows)", spec.table, count)
	}

	return summary
}

type sheet struct {
	header  []string
	records []map[string]string
}

// readSheet loads the first worksheet and returns its rows keyed by the
// header row. Cells missing at the end of short rows read as "".
func readSheet(path string) (*sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", filepath.Base(path))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet in %s", filepath.Base(path))
	}

	header := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		header = append(header, strings.TrimSpace(h))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(row) {
				record[col] = strings.TrimSpace(row[i])
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}

	return &sheet{header: header, records: records}, nil
}

func missingColumns(header, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func upsertPartnerRow(tx *store.Store, row map[string]string) error {
	id, err := parseID(row["PartnerID"])
	if err != nil {
		return fmt.Errorf("PartnerID: %w", err)
	}
	registered, err := parseDate(row["RegistrationDate"])
	if err != nil {
		return fmt.Errorf("RegistrationDate: %w", err)
	}
	return tx.UpsertPartner(&models.Partner{
		ID:               id,
		Name:             row["Name"],
		Phone:            row["Phone"],
		Email:            row["Email"],
		Address:          row["Address"],
		RegistrationDate: registered,
	})
}

func upsertProductRow(tx *store.Store, row map[string]string) error {
	id, err := parseID(row["ProductID"])
	if err != nil {
		return fmt.Errorf("ProductID: %w", err)
	}
	price, err := decimal.NewFromString(row["Price"])
	if err != nil {
		return fmt.Errorf("Price: %w", err)
	}
	return tx.UpsertProduct(&models.Product{
		ID:          id,
		Name:        row["Name"],
		Description: row["Description"],
		Price:       price,
	})
}

func upsertSaleRow(tx *store.Store, row map[string]string) error {
	id, err := parseID(row["SaleID"])
	if err != nil {
		return fmt.Errorf("SaleID: %w", err)
	}
	partnerID, err := parseID(row["PartnerID"])
	if err != nil {
		return fmt.Errorf("PartnerID: %w", err)
	}
	productID, err := parseID(row["ProductID"])
	if err != nil {
		return fmt.Errorf("ProductID: %w", err)
	}
	quantity, err := strconv.Atoi(row["Quantity"])
	if err != nil {
		return fmt.Errorf("Quantity: %w", err)
	}
	saleDate, err := parseDate(row["SaleDate"])
	if err != nil {
		return fmt.Errorf("SaleDate: %w", err)
	}
	return tx.UpsertSale(&models.Sale{
		ID:        id,
		PartnerID: partnerID,
		ProductID: productID,
		Quantity:  quantity,
		SaleDate:  saleDate,
	})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// dateLayouts covers the formats excelize renders date cells in, plus the
// ISO form plain-text exports use.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"02.01.2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
