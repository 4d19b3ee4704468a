package infra

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLDocument extracts values from a captured HTML string via CSS selectors.
type HTMLDocument interface {
	ExtractText(html string, selector string) ([]string, error)
	ExtractAttribute(html string, selector, attr string) ([]string, error)
	ExtractTextByRegex(html, selector, pattern string) ([]string, error)
}

type htmlDocument struct{}

func NewHTMLDocument() HTMLDocument {
	return &htmlDocument{}
}

// ExtractText returns the text of every element matching selector.
func (h *htmlDocument) ExtractText(html string, selector string) ([]string, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var texts []string
	document.Find(selector).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})

	return texts, nil
}

// ExtractAttribute returns the attribute value of every element matching
// selector where the attribute is present.
func (h *htmlDocument) ExtractAttribute(html string, selector, attr string) ([]string, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var attributes []string
	document.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if value, exists := s.Attr(attr); exists {
			attributes = append(attributes, value)
		}
	})

	return attributes, nil
}

// ExtractTextByRegex applies pattern to the text of every element matching
// selector and returns all matches, e.g. pulling a date out of
// "Вакансия опубликована 12 января 2026".
func (h *htmlDocument) ExtractTextByRegex(html, selector, pattern string) ([]string, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	var matches []string
	document.Find(selector).Each(func(_ int, s *goquery.Selection) {
		found := re.FindAllString(s.Text(), -1)
		if found != nil {
			matches = append(matches, found...)
		}
	})

	return matches, nil
}
