package crm

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"BdsCrm/api/constants"
)

// ParseGridFile turns an uploaded spreadsheet into a raw string grid.
// The extension picks the decoder: .xlsx via excelize, legacy .xls via
// xlsReader, .csv via the stdlib reader with ragged rows allowed. When
// the extension lies (a renamed file), the xlsx and xls decoders are
// tried in turn before giving up on CSV.
func ParseGridFile(filename string, content []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseXlsx(content)
	case ".xls":
		rows, err := parseXls(content)
		if err != nil {
			// Some exporters ship OOXML content under a .xls name.
			if xlsxRows, xlsxErr := parseXlsx(content); xlsxErr == nil {
				return xlsxRows, nil
			}
			return nil, err
		}
		return rows, nil
	case ".csv":
		return parseCsv(content)
	default:
		return nil, errors.New(constants.ErrUnsupportedFileType)
	}
}

func parseXlsx(content []byte) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %v", err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New(constants.ErrEmptySheet)
	}
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %v", err)
	}
	if len(rows) == 0 {
		return nil, errors.New(constants.ErrEmptySheet)
	}
	return rows, nil
}

// parseXls writes to a temp file first since xlsReader works with file
// paths only.
func parseXls(content []byte) ([][]string, error) {
	tmp, err := os.CreateTemp("", "crm-upload-*.xls")
	if err != nil {
		return nil, fmt.Errorf("temp xls: %v", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp xls: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp xls: %v", err)
	}

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("open xls: %v", err)
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, errors.New(constants.ErrEmptySheet)
	}

	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var vals []string
		for _, col := range xlsRow.GetCols() {
			vals = append(vals, col.GetString())
		}
		rows = append(rows, vals)
	}
	if len(rows) == 0 {
		return nil, errors.New(constants.ErrEmptySheet)
	}
	return rows, nil
}

func parseCsv(content []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %v", err)
	}
	if len(rows) == 0 {
		return nil, errors.New(constants.ErrEmptySheet)
	}
	return rows, nil
}
