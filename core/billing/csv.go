package billing

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/pkg/errors"
)

// ledgerColumns is the fixed column set of the fee ledger export.
var ledgerColumns = []string{
	"Invoice ID",
	"Student Name",
	"Student ID",
	"Class",
	"Fee Title",
	"Type",
	"Total Amount",
	"Paid Amount",
	"Balance Due",
	"Status",
	"Issued Date",
	"Due Date",
}

// ExportLedgerCSV renders the fee ledger as CSV, for all students or for a
// single one when studentID is set. Quoting and escaping follow RFC 4180 via
// encoding/csv, so embedded quotes and commas in titles round-trip.
func (svc *Service) ExportLedgerCSV(studentID string) ([]byte, error) {
	var fees []FeeRecord
	var err error
	if studentID != "" {
		fees, err = svc.QueryFeesByStudent(studentID)
	} else {
		fees, err = svc.QueryFees()
	}
	if err != nil {
		return nil, err
	}

	students, err := svc.dir.QueryStudents()
	if err != nil {
		return nil, err
	}
	byUID := make(map[string]int, len(students))
	for i, s := range students {
		byUID[s.UID] = i
	}

	var buff bytes.Buffer
	w := csv.NewWriter(&buff)
	if err = w.Write(ledgerColumns); err != nil {
		return nil, errors.Wrap(err, "writing CSV header")
	}

	amount := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, f := range fees {
		name, sID, class := "Unknown", "N/A", "N/A"
		if i, ok := byUID[f.StudentID]; ok {
			name, sID, class = students[i].Name, students[i].StudentID, students[i].Class
		}
		row := []string{
			f.ID,
			name,
			sID,
			class,
			f.Title,
			f.Type,
			amount(f.TotalAmount),
			amount(f.PaidAmount),
			amount(f.Balance()),
			string(f.Status),
			f.IssuedDate,
			f.DueDate,
		}
		if err = w.Write(row); err != nil {
			return nil, errors.Wrap(err, "writing CSV row")
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return nil, errors.Wrap(err, "flushing CSV")
	}
	return buff.Bytes(), nil
}
