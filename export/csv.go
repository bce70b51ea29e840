/*
csv.go - Sectioned CSV codec for ledger snapshots

One file, three titled sections, each a self-contained CSV table:

  === ACCOUNTS ===
  id,name,balance
  ...

  === CATEGORIES ===
  id,name,kind
  ...

  === OPERATIONS ===
  id,kind,amount,date,account_id,account_name,category_id,category_name,description
  ...
*/
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const (
	sectionAccounts   = "=== ACCOUNTS ==="
	sectionCategories = "=== CATEGORIES ==="
	sectionOperations = "=== OPERATIONS ==="
)

var (
	accountHeader   = []string{"id", "name", "balance"}
	categoryHeader  = []string{"id", "name", "kind"}
	operationHeader = []string{"id", "kind", "amount", "date", "account_id", "account_name", "category_id", "category_name", "description"}
)

func encodeCSV(w io.Writer, snapshot Snapshot) error {
	write := func(title string, header []string, rows [][]string) error {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}

	var accountRows [][]string
	for _, a := range snapshot.Accounts {
		accountRows = append(accountRows, []string{a.ID, a.Name, a.Balance})
	}
	var categoryRows [][]string
	for _, c := range snapshot.Categories {
		categoryRows = append(categoryRows, []string{c.ID, c.Name, c.Kind})
	}
	var operationRows [][]string
	for _, o := range snapshot.Operations {
		operationRows = append(operationRows, []string{
			o.ID, o.Kind, o.Amount, o.Date,
			o.AccountID, o.AccountName, o.CategoryID, o.CategoryName, o.Description,
		})
	}

	if err := write(sectionAccounts, accountHeader, accountRows); err != nil {
		return err
	}
	if err := write(sectionCategories, categoryHeader, categoryRows); err != nil {
		return err
	}
	return write(sectionOperations, operationHeader, operationRows)
}

func decodeCSV(r io.Reader) (Snapshot, error) {
	sections := map[string][]string{}
	current := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case sectionAccounts, sectionCategories, sectionOperations:
			current = strings.TrimSpace(line)
		default:
			if current == "" {
				return Snapshot{}, fmt.Errorf("csv import: data before any section title")
			}
			sections[current] = append(sections[current], line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, err
	}

	parse := func(title string, wantCols int) ([][]string, error) {
		lines := sections[title]
		if len(lines) == 0 {
			return nil, nil
		}
		cr := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		cr.FieldsPerRecord = wantCols
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("csv import: %s: %w", title, err)
		}
		// First row is the header.
		if len(rows) > 0 {
			rows = rows[1:]
		}
		return rows, nil
	}

	var snapshot Snapshot

	accountRows, err := parse(sectionAccounts, len(accountHeader))
	if err != nil {
		return Snapshot{}, err
	}
	for _, row := range accountRows {
		snapshot.Accounts = append(snapshot.Accounts, AccountRecord{
			ID: row[0], Name: row[1], Balance: row[2],
		})
	}

	categoryRows, err := parse(sectionCategories, len(categoryHeader))
	if err != nil {
		return Snapshot{}, err
	}
	for _, row := range categoryRows {
		snapshot.Categories = append(snapshot.Categories, CategoryRecord{
			ID: row[0], Name: row[1], Kind: row[2],
		})
	}

	operationRows, err := parse(sectionOperations, len(operationHeader))
	if err != nil {
		return Snapshot{}, err
	}
	for _, row := range operationRows {
		snapshot.Operations = append(snapshot.Operations, OperationRecord{
			ID: row[0], Kind: row[1], Amount: row[2], Date: row[3],
			AccountID: row[4], AccountName: row[5],
			CategoryID: row[6], CategoryName: row[7], Description: row[8],
		})
	}

	return snapshot, nil
}
