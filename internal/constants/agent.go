package constants

import (
	"regexp"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/infra"
)

// Artifact names inside the configured output directory.
const (
	VacanciesFileName    = "vacancies.json"
	IgnoredFileName      = "ignored.json"
	SessionStateFileName = "session_state.json"
	AnalysisFileName     = "analysis_results.json"
)

const DefaultConfigPath = "settings/agent.yaml"

// GetAgentCompiledPatterns returns the compiled regular expressions used by
// the vacancy parser. Detail links carry the id as a path segment, response
// links carry it as a query parameter; both resolve to the same id.
func GetAgentCompiledPatterns() infra.CompiledPatterns {
	return infra.CompiledPatterns{
		DetailIDPattern:   regexp.MustCompile(`/vacancy/(\d+)`),
		ApplyIDPattern:    regexp.MustCompile(`[?&]vacancyId=(\d+)`),
		DigitsPattern:     regexp.MustCompile(`\d+`),
		FromMarkerPattern: regexp.MustCompile(`(?:^|\s)от\s`),
		ToMarkerPattern:   regexp.MustCompile(`(?:^|\s)до\s`),
	}
}

// GetCurrencyMarkers returns the ordered currency marker table. The first
// marker found in the text wins, so the order is part of the contract.
func GetCurrencyMarkers() []infra.CurrencyMarker {
	return []infra.CurrencyMarker{
		{Marker: "руб", Currency: model.RUB},
		{Marker: "₽", Currency: model.RUB},
		{Marker: "$", Currency: model.USD},
		{Marker: "usd", Currency: model.USD},
		{Marker: "€", Currency: model.EUR},
		{Marker: "eur", Currency: model.EUR},
	}
}

// GetGrossMarkers returns substrings that mark a salary as quoted before tax.
// They are stripped before range detection so that "до вычета" is never read
// as an upper-bound marker.
func GetGrossMarkers() []string {
	return []string{"до вычета", "gross"}
}

// KeywordPattern names one regex probe used by the analyzer tables.
type KeywordPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// GetSoftSkillPatterns matches soft-skill phrasings in both Russian and
// English skill tags.
func GetSoftSkillPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`коммуникаб`),
		regexp.MustCompile(`ответствен`),
		regexp.MustCompile(`стрессоуст`),
		regexp.MustCompile(`самостоятел`),
		regexp.MustCompile(`инициатив`),
		regexp.MustCompile(`обучаем`),
		regexp.MustCompile(`внимател`),
		regexp.MustCompile(`командн`),
		regexp.MustCompile(`работа в команд`),
		regexp.MustCompile(`team.?work`),
		regexp.MustCompile(`communication`),
		regexp.MustCompile(`leadership`),
		regexp.MustCompile(`лидерств`),
		regexp.MustCompile(`многозадачн`),
		regexp.MustCompile(`тайм.?менеджмент`),
		regexp.MustCompile(`time.?management`),
		regexp.MustCompile(`problem.?solving`),
		regexp.MustCompile(`решение проблем`),
		regexp.MustCompile(`переговор`),
		regexp.MustCompile(`презентац`),
	}
}

// GetLanguagePatterns matches language-proficiency markers like
// "Английский — B2" that should not count as technical skills.
func GetLanguagePatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)английский.*[—\-–].*[A-C][1-2]`),
		regexp.MustCompile(`(?i)english.*[—\-–].*[A-C][1-2]`),
		regexp.MustCompile(`(?i)^[A-C][1-2]\s*[—\-–]`),
		regexp.MustCompile(`(?i)(intermediate|upper|beginner|advanced|native|fluent)`),
		regexp.MustCompile(`(?i)(средний|продвинут|начальн|свободн|базов).*уровень`),
	}
}

// GetSeniorityPatterns returns the ordered seniority table for title
// classification; the first matching level wins.
func GetSeniorityPatterns() []KeywordPattern {
	return []KeywordPattern{
		{Name: "Junior", Pattern: regexp.MustCompile(`junior|джуниор|младш|\bjr\b`)},
		{Name: "Middle", Pattern: regexp.MustCompile(`middle|миддл|\bmid\b`)},
		{Name: "Senior", Pattern: regexp.MustCompile(`senior|сеньор|старш|\bsr\b`)},
		{Name: "Lead", Pattern: regexp.MustCompile(`lead|лид|ведущ|principal|staff`)},
		{Name: "Architect", Pattern: regexp.MustCompile(`architect|архитектор`)},
	}
}

// GetRolePatterns returns the ordered role table for title classification.
func GetRolePatterns() []KeywordPattern {
	return []KeywordPattern{
		{Name: "Backend", Pattern: regexp.MustCompile(`backend|back-end|back end|бэкенд|бекенд`)},
		{Name: "Fullstack", Pattern: regexp.MustCompile(`fullstack|full-stack|full stack|фулстек`)},
		{Name: "DevOps/SRE", Pattern: regexp.MustCompile(`devops|sre|platform|infrastructure|инфраструктур`)},
		{Name: "Data/ML", Pattern: regexp.MustCompile(`\bdata\b|\bml\b|machine|аналитик`)},
		{Name: "Frontend", Pattern: regexp.MustCompile(`frontend|front-end|front end|фронтенд`)},
	}
}

// GetDescriptionKeywordPatterns returns the concept probes applied to
// vacancy descriptions.
func GetDescriptionKeywordPatterns() []KeywordPattern {
	return []KeywordPattern{
		{Name: "Микросервисы", Pattern: regexp.MustCompile(`микросервис|microservice`)},
		{Name: "Highload", Pattern: regexp.MustCompile(`высоконагруж|highload|high.?load|нагрузк`)},
		{Name: "Распределённые системы", Pattern: regexp.MustCompile(`распределен|distributed`)},
		{Name: "Тестирование", Pattern: regexp.MustCompile(`\bтест|test|unit.?test|интеграцион`)},
		{Name: "Agile/Scrum", Pattern: regexp.MustCompile(`agile|scrum|kanban|спринт`)},
		{Name: "REST API", Pattern: regexp.MustCompile(`rest\s*api|restful`)},
		{Name: "gRPC", Pattern: regexp.MustCompile(`grpc`)},
		{Name: "GraphQL", Pattern: regexp.MustCompile(`graphql`)},
		{Name: "Cloud", Pattern: regexp.MustCompile(`облак|cloud|aws|gcp|azure|yandex.?cloud`)},
		{Name: "Безопасность", Pattern: regexp.MustCompile(`безопасност|security|защит`)},
		{Name: "Оптимизация", Pattern: regexp.MustCompile(`оптимизац|optimization|performance|производительн`)},
		{Name: "Архитектура", Pattern: regexp.MustCompile(`архитектур|architecture|design.?pattern`)},
		{Name: "CI/CD", Pattern: regexp.MustCompile(`ci.?cd|деплой|deploy|pipeline`)},
		{Name: "Мониторинг", Pattern: regexp.MustCompile(`мониторинг|monitoring|observability|метрик`)},
		{Name: "Код-ревью", Pattern: regexp.MustCompile(`код.?ревью|code.?review|ревью кода`)},
		{Name: "Менторство", Pattern: regexp.MustCompile(`ментор|mentor|обучен|наставн`)},
	}
}

// GetRemotePatterns matches remote-work mentions in descriptions.
func GetRemotePatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`удален`),
		regexp.MustCompile(`remote`),
		regexp.MustCompile(`дистанц`),
		regexp.MustCompile(`из любой точки`),
		regexp.MustCompile(`home\s*office`),
	}
}

// GetHybridPattern matches hybrid-schedule mentions in descriptions.
func GetHybridPattern() *regexp.Regexp {
	return regexp.MustCompile(`гибрид|hybrid|офис.*удален|удален.*офис`)
}
