package courtscrape

import (
	"regexp"
	"strconv"
	"strings"
)

var digitsPattern = regexp.MustCompile(`[\d,]+`)

// ParseKoreanPrice converts price text from the auction site into won.
// "3억 5,000만원", "450,000천원", "350,000,000" 형태를 모두 처리하고
// 해석이 안 되면 0을 돌려준다.
func ParseKoreanPrice(text string) int64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	var total int64
	rest := text

	if idx := strings.Index(rest, "억"); idx >= 0 {
		total += extractNumber(rest[:idx]) * 100_000_000
		rest = rest[idx+len("억"):]
	}
	if idx := strings.Index(rest, "만"); idx >= 0 {
		total += extractNumber(rest[:idx]) * 10_000
		rest = rest[idx+len("만"):]
	} else if idx := strings.Index(rest, "천"); idx >= 0 {
		total += extractNumber(rest[:idx]) * 1_000
		rest = rest[idx+len("천"):]
	} else if total == 0 {
		// 단위 없는 콤마 숫자는 원 단위 그대로
		return extractNumber(rest)
	} else {
		total += extractNumber(rest)
	}

	return total
}

func extractNumber(text string) int64 {
	match := digitsPattern.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(match, ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
