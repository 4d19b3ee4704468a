package infra

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
)

// CompiledPatterns bundles the regular expressions the parser needs, compiled
// once at startup.
type CompiledPatterns struct {
	DetailIDPattern   *regexp.Regexp // id embedded in a detail-page path
	ApplyIDPattern    *regexp.Regexp // id embedded in a response-link query
	DigitsPattern     *regexp.Regexp // maximal digit runs
	FromMarkerPattern *regexp.Regexp // lower-bound marker ("от ...")
	ToMarkerPattern   *regexp.Regexp // upper-bound marker ("до ...")
}

// CurrencyMarker binds one substring marker to its currency.
type CurrencyMarker struct {
	Marker   string
	Currency model.Currency
}

// VacancyParser turns raw page strings into structured values. All methods
// are pure and total: bad input yields an absent value, never a panic.
type VacancyParser struct {
	patterns        CompiledPatterns
	currencyMarkers []CurrencyMarker
	grossMarkers    []string
}

func NewVacancyParser(patterns CompiledPatterns, currencyMarkers []CurrencyMarker, grossMarkers []string) *VacancyParser {
	return &VacancyParser{
		patterns:        patterns,
		currencyMarkers: currencyMarkers,
		grossMarkers:    grossMarkers,
	}
}

// ParseVacancyID extracts the canonical vacancy id from a listing URL.
// Detail links carry it as a path segment, response links as a query
// parameter; both forms yield the same id. ok is false when neither pattern
// matches; callers must then skip the item instead of keying on the raw URL,
// because detail and response URLs for the same vacancy differ.
func (p *VacancyParser) ParseVacancyID(rawURL string) (string, bool) {
	if m := p.patterns.DetailIDPattern.FindStringSubmatch(rawURL); len(m) == 2 {
		return m[1], true
	}
	if m := p.patterns.ApplyIDPattern.FindStringSubmatch(rawURL); len(m) == 2 {
		return m[1], true
	}
	return "", false
}

// ParseSalary converts a free-text salary string into a structured Salary.
// nil is returned only for empty input; a non-empty string with no detectable
// number still yields a Salary with nil amounts.
func (p *VacancyParser) ParseSalary(text string) *model.Salary {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	salary := &model.Salary{}

	// First marker in the table wins.
	for _, cm := range p.currencyMarkers {
		if strings.Contains(lower, cm.Marker) {
			currency := cm.Currency
			salary.Currency = &currency
			break
		}
	}

	cleaned := lower
	for _, marker := range p.grossMarkers {
		if strings.Contains(cleaned, marker) {
			salary.Gross = true
			// Strip the marker so "до вычета" is not misread as an
			// upper-bound marker below.
			cleaned = strings.ReplaceAll(cleaned, marker, "")
		}
	}

	hasFrom := p.patterns.FromMarkerPattern.MatchString(cleaned)
	hasTo := p.patterns.ToMarkerPattern.MatchString(cleaned)

	numbers := p.extractNumbers(cleaned)
	if len(numbers) == 0 {
		return salary
	}

	switch {
	case hasFrom && hasTo:
		salary.From = &numbers[0]
		if len(numbers) > 1 {
			salary.To = &numbers[1]
		}
	case hasFrom:
		salary.From = &numbers[0]
	case hasTo:
		salary.To = &numbers[0]
	default:
		// A single bare figure is an exact amount, not a range.
		salary.From = &numbers[0]
		if len(numbers) > 1 {
			salary.To = &numbers[1]
		} else {
			salary.To = &numbers[0]
		}
	}

	return salary
}

// extractNumbers strips every whitespace rune (salary figures use NBSP group
// separators) and returns the maximal digit runs left to right.
func (p *VacancyParser) extractNumbers(text string) []int {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	runs := p.patterns.DigitsPattern.FindAllString(compact, -1)
	numbers := make([]int, 0, len(runs))
	for _, run := range runs {
		n, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}
