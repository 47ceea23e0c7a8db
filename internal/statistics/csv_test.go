package statistics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `region,district,auction_count,sale_count,appraisal_value_total,sale_value_total,sale_rate_pct,sale_price_rate_pct
서울특별시,강남구,120,42,96000000000,33600000000,35.0,87.5
서울특별시,서초구,90,30,81000000000,27000000000,33.3,85.0
`

func TestLoadCSV(t *testing.T) {
	rows, err := LoadCSV(strings.NewReader(validCSV))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "서울특별시", rows[0].Region)
	assert.Equal(t, "강남구", rows[0].District)
	assert.Equal(t, int64(120), rows[0].AuctionCount)
	assert.Equal(t, 35.0, rows[0].SaleRatePct)
	assert.Equal(t, "서초구", rows[1].District)
}

func TestLoadCSV_HeaderMismatch(t *testing.T) {
	bad := "region,district,count\n서울특별시,강남구,1\n"
	_, err := LoadCSV(strings.NewReader(bad))
	assert.Error(t, err)

	renamed := strings.Replace(validCSV, "sale_rate_pct", "rate", 1)
	_, err = LoadCSV(strings.NewReader(renamed))
	assert.Error(t, err)
}

func TestLoadCSV_BadValues(t *testing.T) {
	// 숫자 아님
	bad := strings.Replace(validCSV, "120", "백이십", 1)
	_, err := LoadCSV(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	// 음수 거부
	negative := strings.Replace(validCSV, "35.0", "-35.0", 1)
	_, err = LoadCSV(strings.NewReader(negative))
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	// 파일명 역순으로 만들어도 정렬 순서로 적재된다
	second := `region,district,auction_count,sale_count,appraisal_value_total,sale_value_total,sale_rate_pct,sale_price_rate_pct
경기도,분당구,80,20,40000000000,13000000000,25.0,81.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_gyeonggi.csv"), []byte(second), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_seoul.csv"), []byte(validCSV), 0o644))

	rows, err := LoadDir(dir)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "강남구", rows[0].District, "files load in name order")
	assert.Equal(t, "분당구", rows[2].District)
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.Error(t, err, "a directory without csv files is a configuration error")
}
