// Package importer turns uploaded birthday spreadsheets into records.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxXLSRows = 100000

var ErrEmptyFile = errors.New("file contains no rows")

// ReadRows returns the cells of the first worksheet (or the CSV body) of
// the file. The reader is consumed in full.
func ReadRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		rows, err = readCSV(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		rows, err = readXLSX(data)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return rows, nil
}

func readXLS(data []byte) (rows [][]string, err error) {
	// the xls decoder panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("invalid xls: %v", r)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("invalid xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, errors.New("no worksheet found")
	}
	return workbook.ReadAllCells(maxXLSRows), nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no worksheet found")
	}

	// raw values keep date cells as serial numbers instead of locale text
	return file.GetRows(sheetName, excelize.Options{RawCellValue: true})
}
