package commands

import (
	"fmt"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// FormatWon renders a won amount in 억/만원 units
// Example: 352_000_000 → "3억 5,200만원"
func FormatWon(amount int64) string {
	if amount == 0 {
		return "0원"
	}

	eok := amount / 100_000_000
	man := (amount % 100_000_000) / 10_000

	switch {
	case eok > 0 && man > 0:
		return fmt.Sprintf("%d억 %s만원", eok, groupDigits(man))
	case eok > 0:
		return fmt.Sprintf("%d억원", eok)
	case man > 0:
		return fmt.Sprintf("%s만원", groupDigits(man))
	default:
		return fmt.Sprintf("%d원", amount)
	}
}

// groupDigits inserts thousands separators
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
