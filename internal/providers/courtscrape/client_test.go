package courtscrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultPage = `
<html><body>
<table>
  <tr><th>공지</th><th>날짜</th></tr>
  <tr><td>휴정 안내</td><td>2026-08-01</td></tr>
</table>
<table>
  <tr><th>사건번호</th><th>소재지</th><th>감정가</th><th>최저입찰가</th></tr>
  <tr><td>2024타경11111</td><td>서울특별시 강남구</td><td>3억원</td><td>2억 1,000만원</td></tr>
  <tr><td>2024타경12345</td><td>경기도 수원시 영통구</td><td>4억 5,000만원</td><td>3억 1,500만원</td></tr>
</table>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractRecord(t *testing.T) {
	c := &Client{}
	doc := parseDoc(t, resultPage)

	rec := c.extractRecord(doc, "2024타경12345")
	require.NotNil(t, rec)

	assert.Equal(t, int64(450_000_000), rec.AppraisalPrice)
	assert.Equal(t, int64(315_000_000), rec.MinimumBid)
	assert.Equal(t, "경기도 수원시 영통구", rec.Location)
	// 시세 컬럼이 없으면 감정가의 110%로 보정
	assert.Equal(t, int64(495_000_000), rec.MarketPrice)
}

func TestExtractRecord_PicksMatchingRow(t *testing.T) {
	c := &Client{}
	doc := parseDoc(t, resultPage)

	rec := c.extractRecord(doc, "2024타경11111")
	require.NotNil(t, rec)
	assert.Equal(t, int64(300_000_000), rec.AppraisalPrice)
	assert.Equal(t, "서울특별시 강남구", rec.Location)
}

func TestExtractRecord_NoMatch(t *testing.T) {
	c := &Client{}
	doc := parseDoc(t, resultPage)

	assert.Nil(t, c.extractRecord(doc, "2024타경99999"))
}

func TestExtractRecord_AlternateHeaders(t *testing.T) {
	// 사이트 개편으로 헤더 표기가 바뀌어도 키워드로 매핑한다
	html := `
<table>
  <tr><th>사건</th><th>위치</th><th>평가액</th><th>시작가</th><th>시장가</th></tr>
  <tr><td>2023타경777</td><td>부산광역시 해운대구</td><td>2억원</td><td>1억 4,000만원</td><td>2억 2,000만원</td></tr>
</table>`

	c := &Client{}
	rec := c.extractRecord(parseDoc(t, html), "2023타경777")
	require.NotNil(t, rec)

	assert.Equal(t, int64(200_000_000), rec.AppraisalPrice)
	assert.Equal(t, int64(140_000_000), rec.MinimumBid)
	assert.Equal(t, int64(220_000_000), rec.MarketPrice, "explicit market column wins over inference")
}
