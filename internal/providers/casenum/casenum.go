// Package casenum parses Korean court-auction case identifiers
// (예: "2024타경12345").
package casenum

import (
	"fmt"
	"regexp"
	"strconv"
)

// 사건번호 형식: <연도>타경<일련번호>
var pattern = regexp.MustCompile(`^(\d{4})타경(\d+)$`)

// CaseNumber is a parsed case identifier
type CaseNumber struct {
	Year   int
	Serial int64
	Raw    string
}

// Parse validates and decomposes a case number
func Parse(raw string) (CaseNumber, error) {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return CaseNumber{}, fmt.Errorf("malformed case number %q", raw)
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return CaseNumber{}, fmt.Errorf("case number year: %w", err)
	}
	serial, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return CaseNumber{}, fmt.Errorf("case number serial: %w", err)
	}

	return CaseNumber{Year: year, Serial: serial, Raw: raw}, nil
}

// Valid reports whether raw is a well-formed case number
func Valid(raw string) bool {
	return pattern.MatchString(raw)
}
