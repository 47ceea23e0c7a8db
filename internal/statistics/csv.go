package statistics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// csvColumns is the expected header of an ingested statistics file.
// 원천 엑셀에서 변환된 파일: 숫자 필드는 구분자/퍼센트 기호가 이미 제거됨.
var csvColumns = []string{
	"region", "district", "auction_count", "sale_count",
	"appraisal_value_total", "sale_value_total", "sale_rate_pct", "sale_price_rate_pct",
}

// LoadCSV reads pre-cleaned statistics rows from r. Row order is the
// index's load order.
func LoadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(csvColumns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(csvColumns), len(header))
	}
	for i, col := range csvColumns {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i, col, header[i])
		}
	}

	var rows []Row
	for lineNo := 2; ; lineNo++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadDir loads every *.csv file in dir, in file-name order so reloads
// are deterministic.
func LoadDir(dir string) ([]Row, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no statistics files in %s", dir)
	}
	sort.Strings(matches)

	var rows []Row
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}

		fileRows, err := LoadCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		rows = append(rows, fileRows...)
	}

	return rows, nil
}

func parseRow(record []string) (Row, error) {
	if len(record) != len(csvColumns) {
		return Row{}, fmt.Errorf("expected %d fields, got %d", len(csvColumns), len(record))
	}

	auctionCount, err := parseCount(record[2], "auction_count")
	if err != nil {
		return Row{}, err
	}
	saleCount, err := parseCount(record[3], "sale_count")
	if err != nil {
		return Row{}, err
	}
	appraisalTotal, err := parseCount(record[4], "appraisal_value_total")
	if err != nil {
		return Row{}, err
	}
	saleTotal, err := parseCount(record[5], "sale_value_total")
	if err != nil {
		return Row{}, err
	}
	saleRate, err := parseRate(record[6], "sale_rate_pct")
	if err != nil {
		return Row{}, err
	}
	salePriceRate, err := parseRate(record[7], "sale_price_rate_pct")
	if err != nil {
		return Row{}, err
	}

	return Row{
		Region:              strings.TrimSpace(record[0]),
		District:            strings.TrimSpace(record[1]),
		AuctionCount:        auctionCount,
		SaleCount:           saleCount,
		AppraisalValueTotal: appraisalTotal,
		SaleValueTotal:      saleTotal,
		SaleRatePct:         saleRate,
		SalePriceRatePct:    salePriceRate,
	}, nil
}

func parseCount(s, field string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: negative value %d", field, v)
	}
	return v, nil
}

func parseRate(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: negative value %g", field, v)
	}
	return v, nil
}
