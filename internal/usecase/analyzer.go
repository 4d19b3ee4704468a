package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nrad-K/go-hh-agent/internal/constants"
	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
	"golang.org/x/sync/errgroup"
)

const unknownLabel = "Не указан"

// grossToNetRate converts before-tax figures to take-home amounts (13% NDFL).
const grossToNetRate = 0.87

// NameCount is one "label: count" row, kept as a slice to preserve ordering
// in the JSON artifact.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ComboCount struct {
	Pair  [2]string `json:"pair"`
	Count int       `json:"count"`
}

type SkillsAnalysis struct {
	Technical     []NameCount  `json:"technical"`
	Soft          []NameCount  `json:"soft"`
	Languages     []NameCount  `json:"languages"`
	TotalMentions int          `json:"total_mentions"`
	UniqueSkills  int          `json:"unique_skills"`
	Combinations  []ComboCount `json:"combinations"`
}

type ExperienceStats struct {
	Min    int `json:"min"`
	Max    int `json:"max"`
	Avg    int `json:"avg"`
	Median int `json:"median"`
	P25    int `json:"p25"`
	P75    int `json:"p75"`
	Count  int `json:"count"`
}

type SalaryAnalysis struct {
	WithSalary    int                        `json:"with_salary"`
	WithoutSalary int                        `json:"without_salary"`
	Min           int                        `json:"min"`
	Max           int                        `json:"max"`
	Avg           int                        `json:"avg"`
	Median        int                        `json:"median"`
	P10           int                        `json:"p10"`
	P25           int                        `json:"p25"`
	P75           int                        `json:"p75"`
	P90           int                        `json:"p90"`
	Distribution  []NameCount                `json:"distribution"`
	ByExperience  map[string]ExperienceStats `json:"by_experience"`
}

type CompanyAnalysis struct {
	All   []NameCount `json:"all"`
	Total int         `json:"total"`
}

type TitleAnalysis struct {
	Seniority map[string]int `json:"seniority"`
	Roles     map[string]int `json:"roles"`
}

type LocationAnalysis struct {
	Cities         []NameCount `json:"cities"`
	RemoteMentions int         `json:"remote_mentions"`
	HybridMentions int         `json:"hybrid_mentions"`
	RemotePercent  float64     `json:"remote_percent"`
}

type DescriptionAnalysis struct {
	Keywords             []NameCount `json:"keywords"`
	TotalWithDescription int         `json:"total_with_description"`
}

type Insight struct {
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Items []string `json:"items"`
}

type AnalysisMeta struct {
	Total      int    `json:"total"`
	AnalyzedAt string `json:"analyzed_at"`
}

// AnalysisResult is the full analysis artifact.
type AnalysisResult struct {
	Meta         AnalysisMeta        `json:"meta"`
	Skills       SkillsAnalysis      `json:"skills"`
	Salaries     SalaryAnalysis      `json:"salaries"`
	Experience   []NameCount         `json:"experience"`
	Companies    CompanyAnalysis     `json:"companies"`
	Titles       TitleAnalysis       `json:"titles"`
	Locations    LocationAnalysis    `json:"locations"`
	Descriptions DescriptionAnalysis `json:"descriptions"`
	Insights     []Insight           `json:"insights"`
}

// AnalyzerArgs holds the dependencies of the offline analyzer.
type AnalyzerArgs struct {
	Store  infra.VacancyStore
	Writer infra.JSONFileWriter
	Logger logger.AppLogger
}

// AnalyzeVacanciesUseCase turns the collected vacancy artifact into an
// aggregated market report used for resume tuning. It never touches the
// browser, so its sections run concurrently.
type AnalyzeVacanciesUseCase struct {
	store  infra.VacancyStore
	writer infra.JSONFileWriter
	logger logger.AppLogger
}

func NewAnalyzeVacanciesUseCase(args AnalyzerArgs) *AnalyzeVacanciesUseCase {
	return &AnalyzeVacanciesUseCase{
		store:  args.Store,
		writer: args.Writer,
		logger: args.Logger,
	}
}

func (u *AnalyzeVacanciesUseCase) Run(ctx context.Context) error {
	collection, err := u.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load vacancy collection: %w", err)
	}
	vacancies := collection.Vacancies
	if len(vacancies) == 0 {
		return fmt.Errorf("no vacancies to analyze")
	}
	u.logger.Info("analyzing vacancies", "count", len(vacancies))

	result := u.Analyze(ctx, vacancies)

	if err := u.writer.Write(result); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	u.logger.Info("analysis complete", "vacancies", result.Meta.Total)
	return nil
}

// Analyze computes every report section over the given vacancies.
func (u *AnalyzeVacanciesUseCase) Analyze(ctx context.Context, vacancies []model.Vacancy) AnalysisResult {
	result := AnalysisResult{
		Meta: AnalysisMeta{
			Total:      len(vacancies),
			AnalyzedAt: time.Now().Format("2006-01-02"),
		},
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { result.Skills = analyzeSkills(vacancies); return nil })
	g.Go(func() error { result.Salaries = analyzeSalaries(vacancies); return nil })
	g.Go(func() error { result.Experience = analyzeExperience(vacancies); return nil })
	g.Go(func() error { result.Companies = analyzeCompanies(vacancies); return nil })
	g.Go(func() error { result.Titles = analyzeTitles(vacancies); return nil })
	g.Go(func() error { result.Locations = analyzeLocations(vacancies); return nil })
	g.Go(func() error { result.Descriptions = analyzeDescriptions(vacancies); return nil })
	g.Wait()

	// Insights read the finished sections, so they run after the group.
	result.Insights = generateInsights(result)
	return result
}

func analyzeSkills(vacancies []model.Vacancy) SkillsAnalysis {
	softPatterns := constants.GetSoftSkillPatterns()
	languagePatterns := constants.GetLanguagePatterns()

	isSoft := func(skill string) bool {
		lower := strings.ToLower(skill)
		for _, p := range softPatterns {
			if p.MatchString(lower) {
				return true
			}
		}
		return false
	}
	isLanguage := func(skill string) bool {
		for _, p := range languagePatterns {
			if p.MatchString(skill) {
				return true
			}
		}
		return false
	}

	counts := make(map[string]int)
	totalMentions := 0
	for _, v := range vacancies {
		for _, skill := range v.Skills {
			counts[skill]++
			totalMentions++
		}
	}

	analysis := SkillsAnalysis{
		TotalMentions: totalMentions,
		UniqueSkills:  len(counts),
	}
	for _, row := range sortedCounts(counts) {
		switch {
		case isLanguage(row.Name):
			analysis.Languages = append(analysis.Languages, row)
		case isSoft(row.Name):
			analysis.Soft = append(analysis.Soft, row)
		default:
			analysis.Technical = append(analysis.Technical, row)
		}
	}

	// Pairwise co-occurrence over technical skills only.
	combos := make(map[[2]string]int)
	for _, v := range vacancies {
		unique := make([]string, 0, len(v.Skills))
		seen := make(map[string]bool)
		for _, skill := range v.Skills {
			if seen[skill] || isSoft(skill) || isLanguage(skill) {
				continue
			}
			seen[skill] = true
			unique = append(unique, skill)
		}
		sort.Strings(unique)
		for i, s1 := range unique {
			for _, s2 := range unique[i+1:] {
				combos[[2]string{s1, s2}]++
			}
		}
	}

	pairs := make([]ComboCount, 0, len(combos))
	for pair, count := range combos {
		pairs = append(pairs, ComboCount{Pair: pair, Count: count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Pair[0] < pairs[j].Pair[0]
	})
	if len(pairs) > 30 {
		pairs = pairs[:30]
	}
	analysis.Combinations = pairs

	return analysis
}

func analyzeSalaries(vacancies []model.Vacancy) SalaryAnalysis {
	type sample struct {
		value      int
		experience string
	}

	samples := make([]sample, 0, len(vacancies))
	withSalary := 0
	for _, v := range vacancies {
		if v.Salary == nil {
			continue
		}
		withSalary++

		multiplier := 1.0
		if v.Salary.Gross {
			multiplier = grossToNetRate
		}

		from, to := v.Salary.From, v.Salary.To
		var avg int
		switch {
		case from != nil && to != nil:
			avg = int(float64(*from+*to) / 2 * multiplier)
		case from != nil:
			avg = int(float64(*from) * multiplier)
		case to != nil:
			avg = int(float64(*to) * multiplier)
		default:
			continue
		}

		exp := v.Experience
		if exp == "" {
			exp = unknownLabel
		}
		samples = append(samples, sample{value: avg, experience: exp})
	}

	analysis := SalaryAnalysis{
		WithSalary:    withSalary,
		WithoutSalary: len(vacancies) - withSalary,
	}
	if len(samples) == 0 {
		return analysis
	}

	values := make([]int, 0, len(samples))
	byExperience := make(map[string][]int)
	for _, s := range samples {
		values = append(values, s.value)
		byExperience[s.experience] = append(byExperience[s.experience], s.value)
	}
	sort.Ints(values)

	sum := 0
	for _, v := range values {
		sum += v
	}

	analysis.Min = values[0]
	analysis.Max = values[len(values)-1]
	analysis.Avg = sum / len(values)
	analysis.Median = values[len(values)/2]
	analysis.P10 = percentile(values, 10)
	analysis.P25 = percentile(values, 25)
	analysis.P75 = percentile(values, 75)
	analysis.P90 = percentile(values, 90)

	// Distribution over 50k-wide bands; empty bands are omitted.
	const step = 50000
	for current := (analysis.Min / step) * step; current <= analysis.Max; current += step {
		next := current + step
		count := 0
		for _, v := range values {
			if current <= v && v < next {
				count++
			}
		}
		if count > 0 {
			analysis.Distribution = append(analysis.Distribution, NameCount{
				Name:  fmt.Sprintf("%dk-%dk", current/1000, next/1000),
				Count: count,
			})
		}
	}

	analysis.ByExperience = make(map[string]ExperienceStats, len(byExperience))
	for exp, vals := range byExperience {
		sort.Ints(vals)
		s := 0
		for _, v := range vals {
			s += v
		}
		analysis.ByExperience[exp] = ExperienceStats{
			Min:    vals[0],
			Max:    vals[len(vals)-1],
			Avg:    s / len(vals),
			Median: vals[len(vals)/2],
			P25:    percentile(vals, 25),
			P75:    percentile(vals, 75),
			Count:  len(vals),
		}
	}

	return analysis
}

// percentile interpolates linearly between the two nearest ranks of the
// sorted input.
func percentile(sorted []int, p float64) int {
	if len(sorted) == 0 {
		return 0
	}
	k := float64(len(sorted)-1) * p / 100
	f := int(k)
	c := f + 1
	if c >= len(sorted) {
		c = f
	}
	return int(float64(sorted[f]) + (k-float64(f))*float64(sorted[c]-sorted[f]))
}

func analyzeExperience(vacancies []model.Vacancy) []NameCount {
	counts := make(map[string]int)
	for _, v := range vacancies {
		exp := v.Experience
		if exp == "" {
			exp = unknownLabel
		}
		counts[exp]++
	}
	return sortedCounts(counts)
}

func analyzeCompanies(vacancies []model.Vacancy) CompanyAnalysis {
	counts := make(map[string]int)
	for _, v := range vacancies {
		name := v.Company.Name
		if name == "" {
			name = "Не указана"
		}
		counts[name]++
	}
	return CompanyAnalysis{
		All:   sortedCounts(counts),
		Total: len(counts),
	}
}

func analyzeTitles(vacancies []model.Vacancy) TitleAnalysis {
	seniorityPatterns := constants.GetSeniorityPatterns()
	rolePatterns := constants.GetRolePatterns()

	analysis := TitleAnalysis{
		Seniority: make(map[string]int),
		Roles:     make(map[string]int),
	}

	for _, v := range vacancies {
		title := strings.ToLower(v.Title)

		level := unknownLabel
		for _, p := range seniorityPatterns {
			if p.Pattern.MatchString(title) {
				level = p.Name
				break
			}
		}
		analysis.Seniority[level]++

		role := "Developer"
		for _, p := range rolePatterns {
			if p.Pattern.MatchString(title) {
				role = p.Name
				break
			}
		}
		analysis.Roles[role]++
	}

	return analysis
}

func analyzeLocations(vacancies []model.Vacancy) LocationAnalysis {
	remotePatterns := constants.GetRemotePatterns()
	hybridPattern := constants.GetHybridPattern()

	cities := make(map[string]int)
	remote, hybrid := 0, 0

	for _, v := range vacancies {
		if v.Location != "" {
			city := strings.TrimSpace(strings.SplitN(v.Location, ",", 2)[0])
			cities[city]++
		} else {
			cities[unknownLabel]++
		}

		desc := strings.ToLower(v.Description)
		for _, p := range remotePatterns {
			if p.MatchString(desc) {
				remote++
				break
			}
		}
		if hybridPattern.MatchString(desc) {
			hybrid++
		}
	}

	percent := 0.0
	if len(vacancies) > 0 {
		percent = float64(remote) / float64(len(vacancies)) * 100
		percent = float64(int(percent*10+0.5)) / 10
	}

	return LocationAnalysis{
		Cities:         sortedCounts(cities),
		RemoteMentions: remote,
		HybridMentions: hybrid,
		RemotePercent:  percent,
	}
}

func analyzeDescriptions(vacancies []model.Vacancy) DescriptionAnalysis {
	patterns := constants.GetDescriptionKeywordPatterns()

	analysis := DescriptionAnalysis{}
	counts := make([]NameCount, 0, len(patterns))
	for _, kp := range patterns {
		count := 0
		for _, v := range vacancies {
			if kp.Pattern.MatchString(strings.ToLower(v.Description)) {
				count++
			}
		}
		if count > 0 {
			counts = append(counts, NameCount{Name: kp.Name, Count: count})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	analysis.Keywords = counts

	for _, v := range vacancies {
		if v.Description != "" {
			analysis.TotalWithDescription++
		}
	}

	return analysis
}

// generateInsights derives resume-oriented takeaways from the finished
// sections.
func generateInsights(result AnalysisResult) []Insight {
	var insights []Insight
	total := result.Meta.Total

	keywordSet := make(map[string]bool)
	for i, row := range result.Skills.Technical {
		if i >= 12 {
			break
		}
		keywordSet[row.Name] = true
	}
	for i, row := range result.Descriptions.Keywords {
		if i >= 5 {
			break
		}
		keywordSet[row.Name] = true
	}
	keywords := make([]string, 0, len(keywordSet))
	for k := range keywordSet {
		keywords = append(keywords, k)
	}
	sort.Slice(keywords, func(i, j int) bool {
		return strings.ToLower(keywords[i]) < strings.ToLower(keywords[j])
	})
	insights = append(insights, Insight{
		Title: "Ключевые слова для резюме",
		Text:  "Обязательно включите эти технологии и концепции в свое резюме, чтобы пройти HR-фильтры.",
		Items: keywords,
	})

	combos := result.Skills.Combinations
	if len(combos) > 5 {
		combos = combos[:5]
	}
	comboItems := make([]string, 0, len(combos))
	for _, c := range combos {
		comboItems = append(comboItems, fmt.Sprintf("%s + %s", c.Pair[0], c.Pair[1]))
	}
	insights = append(insights, Insight{
		Title: "Частые комбинации навыков",
		Text:  "Эти навыки часто требуются вместе. Знание этих связок — большой плюс.",
		Items: comboItems,
	})

	if len(result.Experience) > 0 {
		top := result.Experience[0]
		items := make([]string, 0, len(result.Experience))
		for _, row := range result.Experience {
			items = append(items, fmt.Sprintf("%s: %d вак.", row.Name, row.Count))
		}
		insights = append(insights, Insight{
			Title: "Востребованный опыт",
			Text: fmt.Sprintf("Самое частое требование к опыту: %s (%d из %d вакансий). Убедитесь, что ваш опыт соответствует этому.",
				top.Name, top.Count, total),
			Items: items,
		})
	}

	if len(result.Titles.Roles) > 0 {
		roles := make([]NameCount, 0, len(result.Titles.Roles))
		for name, count := range result.Titles.Roles {
			roles = append(roles, NameCount{Name: name, Count: count})
		}
		sort.Slice(roles, func(i, j int) bool {
			if roles[i].Count != roles[j].Count {
				return roles[i].Count > roles[j].Count
			}
			return roles[i].Name < roles[j].Name
		})
		items := make([]string, 0, len(roles))
		for _, r := range roles {
			items = append(items, fmt.Sprintf("%s: %d%%", r.Name, r.Count*100/total))
		}
		insights = append(insights, Insight{
			Title: "Как назвать свою должность",
			Text: fmt.Sprintf("Большинство позиций — это '%s'. Рассмотрите возможность использования этого или похожего названия должности в резюме.",
				roles[0].Name),
			Items: items,
		})
	}

	return insights
}

// sortedCounts flattens a count map into rows ordered by descending count,
// ties broken alphabetically for stable output.
func sortedCounts(counts map[string]int) []NameCount {
	rows := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, NameCount{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
