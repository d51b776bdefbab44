// Package codemap maps code lists onto warehouse tables as flag columns.
//
// A codelist is a CSV of diagnosis codes (code, code_type, descr). Cells
// may hold several comma-separated codes and ranges at once, e.g.
// "170-176,V10.71,V10.72". The package explodes those cells, turns plain
// codes into regex patterns grouped per description, keeps ranges as
// bounded BETWEEN pairs, and flags every matching source row into a
// destination table carrying three extra columns: map_code, map_code_type,
// and map_descr.
package codemap

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// rangeHighWidth pads the high bound of a code range so a range like
// 170-182 still matches codes such as 1822.
const rangeHighWidth = 7

// Entry is one exploded codelist row: a single code or range with its
// type and description.
type Entry struct {
	// Code is the exploded code or range, spaces removed
	Code string

	// CodeOrig is the cell value the code was exploded from
	CodeOrig string

	// CodeType is the normalized code type ("9" or "10")
	CodeType string

	// Descr is the flag description carried into map_descr
	Descr string
}

// RegexGroup is the combined regex pattern for all plain codes sharing a
// code type and description.
type RegexGroup struct {
	CodeType string
	Descr    string
	Pattern  string
}

// Range is a code range matched with BETWEEN.
type Range struct {
	Code     string
	CodeType string
	Descr    string
	Low      string
	High     string
}

// Codelist holds the exploded code entries from one codelist file.
type Codelist struct {
	Entries []Entry
}

// Load reads and parses a codelist CSV file. descrColumn names the column
// used for flag descriptions (default "descr" when empty).
func Load(path, descrColumn string) (*Codelist, error) {
	f, err := os.Open(path) //nolint:gosec // Path is caller-supplied by contract
	if err != nil {
		return nil, fmt.Errorf("failed to open codelist: %w", err)
	}
	defer func() { _ = f.Close() }()

	list, err := Parse(f, descrColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse codelist %s: %w", path, err)
	}
	return list, nil
}

// Parse reads a codelist CSV from r. Only rows whose code_type mentions
// ICD are kept; the type is normalized to "9" or "10". Comma-separated
// cells are exploded into one Entry per code or range.
func Parse(r io.Reader, descrColumn string) (*Codelist, error) {
	if descrColumn == "" {
		descrColumn = "descr"
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read codelist header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"code", "code_type", strings.ToLower(descrColumn)} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("codelist is missing required column %q", required)
		}
	}

	list := &Codelist{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read codelist row: %w", err)
		}

		codeType := strings.TrimSpace(record[idx["code_type"]])
		if !strings.Contains(strings.ToUpper(codeType), "ICD") {
			continue
		}
		codeType = normalizeCodeType(codeType)

		codeOrig := strings.TrimSpace(record[idx["code"]])
		descr := strings.TrimSpace(record[idx[strings.ToLower(descrColumn)]])

		// A cell can mix individual codes and ranges
		code := strings.ReplaceAll(codeOrig, " ", "")
		for _, piece := range strings.Split(code, ",") {
			if piece == "" {
				continue
			}
			list.Entries = append(list.Entries, Entry{
				Code:     piece,
				CodeOrig: codeOrig,
				CodeType: codeType,
				Descr:    descr,
			})
		}
	}

	return list, nil
}

// normalizeCodeType maps codelist type labels (ICD9, ICD-10, ...) to the
// bare revision numbers stored in warehouse code-type columns.
func normalizeCodeType(codeType string) string {
	switch {
	case strings.Contains(codeType, "9"):
		return "9"
	case strings.Contains(codeType, "10"):
		return "10"
	}
	return codeType
}

// RegexGroups returns the plain (non-range) codes as regex patterns,
// grouped per code type and description in first-seen order. An 'x' in a
// code is a single-character wildcard, and every pattern matches any
// suffix, mirroring the warehouse's implicitly anchored regex semantics.
func (c *Codelist) RegexGroups() []RegexGroup {
	type key struct{ codeType, descr string }
	patterns := make(map[key][]string)
	var order []key

	for _, e := range c.Entries {
		if strings.Contains(e.Code, "-") {
			continue
		}
		k := key{e.CodeType, e.Descr}
		if _, seen := patterns[k]; !seen {
			order = append(order, k)
		}
		patterns[k] = append(patterns[k], strings.ReplaceAll(e.Code, "x", ".")+".*")
	}

	groups := make([]RegexGroup, 0, len(order))
	for _, k := range order {
		groups = append(groups, RegexGroup{
			CodeType: k.codeType,
			Descr:    k.descr,
			Pattern:  strings.Join(patterns[k], "|"),
		})
	}
	return groups
}

// Ranges returns the range entries with their BETWEEN bounds. The high
// bound is right-padded with 'Z' so a range like 170-182 also matches
// longer codes such as 1822.
func (c *Codelist) Ranges() []Range {
	var ranges []Range
	for _, e := range c.Entries {
		low, high, ok := strings.Cut(e.Code, "-")
		if !ok {
			continue
		}
		for len(high) < rangeHighWidth {
			high += "Z"
		}
		ranges = append(ranges, Range{
			Code:     e.Code,
			CodeType: e.CodeType,
			Descr:    e.Descr,
			Low:      low,
			High:     high,
		})
	}
	return ranges
}
