package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
)

// CollectionMeta heads the vacancy output artifact.
type CollectionMeta struct {
	TotalVacancies int    `json:"totalVacancies"`
	ParsedAt       string `json:"parsedAt"`
	SourceURLs     int    `json:"sourceUrls"`
}

// VacancyCollection is the full vacancy output artifact. It is rewritten
// wholesale after every addition rather than appended to.
type VacancyCollection struct {
	Meta      CollectionMeta  `json:"meta"`
	Vacancies []model.Vacancy `json:"vacancies"`
}

// LedgerMeta heads the ignored-items artifact.
type LedgerMeta struct {
	TotalIgnored int    `json:"totalIgnored"`
	ParsedAt     string `json:"parsedAt"`
}

// IgnoredLedger is the full ignored-items artifact.
type IgnoredLedger struct {
	Meta      LedgerMeta             `json:"meta"`
	Vacancies []model.IgnoredVacancy `json:"vacancies"`
}

// VacancyStore reads and rewrites the vacancy collection artifact.
type VacancyStore interface {
	Load() (VacancyCollection, error)
	Save(vacancies []model.Vacancy) error
}

// IgnoredLedgerStore reads and rewrites the ignored-items artifact.
type IgnoredLedgerStore interface {
	Load() ([]model.IgnoredVacancy, error)
	Save(entries []model.IgnoredVacancy) error
}

type vacancyFileStore struct {
	path string
}

func NewVacancyFileStore(path string) VacancyStore {
	return &vacancyFileStore{path: path}
}

// Load reads the current collection; a missing file yields an empty one.
func (s *vacancyFileStore) Load() (VacancyCollection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return VacancyCollection{}, nil
		}
		return VacancyCollection{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var collection VacancyCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return VacancyCollection{}, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return collection, nil
}

// Save rewrites the whole artifact with a fresh meta block.
func (s *vacancyFileStore) Save(vacancies []model.Vacancy) error {
	collection := VacancyCollection{
		Meta: CollectionMeta{
			TotalVacancies: len(vacancies),
			ParsedAt:       time.Now().Format(time.RFC3339),
			SourceURLs:     len(vacancies),
		},
		Vacancies: vacancies,
	}
	return writeJSONFile(s.path, collection)
}

type ignoredLedgerStore struct {
	path string
}

func NewIgnoredLedgerStore(path string) IgnoredLedgerStore {
	return &ignoredLedgerStore{path: path}
}

func (s *ignoredLedgerStore) Load() ([]model.IgnoredVacancy, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var ledger IgnoredLedger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return ledger.Vacancies, nil
}

func (s *ignoredLedgerStore) Save(entries []model.IgnoredVacancy) error {
	ledger := IgnoredLedger{
		Meta: LedgerMeta{
			TotalIgnored: len(entries),
			ParsedAt:     time.Now().Format(time.RFC3339),
		},
		Vacancies: entries,
	}
	return writeJSONFile(s.path, ledger)
}

// JSONFileWriter persists an arbitrary report structure as a JSON file.
type JSONFileWriter interface {
	Write(v any) error
}

type jsonFileWriter struct {
	path string
}

func NewJSONFileWriter(path string) JSONFileWriter {
	return &jsonFileWriter{path: path}
}

func (w *jsonFileWriter) Write(v any) error {
	return writeJSONFile(w.path, v)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
