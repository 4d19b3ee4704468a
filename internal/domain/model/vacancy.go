package model

import "time"

type Currency string

const (
	RUB Currency = "RUB"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// Salary holds the structured form of a free-text salary string.
// From/To/Currency stay nil when the text carries no detectable value.
type Salary struct {
	From     *int      `json:"from"`
	To       *int      `json:"to"`
	Currency *Currency `json:"currency"`
	Gross    bool      `json:"gross"`
}

type Company struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Contacts struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phones []string `json:"phones"`
}

// Vacancy is the immutable record extracted from one detail page.
// Every field except ID and URL is optional; a missing field stays at its
// zero value rather than failing the whole record.
type Vacancy struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Company     Company   `json:"company"`
	Salary      *Salary   `json:"salary"`
	Experience  string    `json:"experience"`
	Employment  string    `json:"employment"`
	Schedule    string    `json:"schedule"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	Contacts    *Contacts `json:"contacts"`
	PublishedAt string    `json:"published_at"`
	ParsedAt    time.Time `json:"parsed_at"`
}
