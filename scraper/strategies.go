package scraper

import (
	"fmt"
	"iter"

	"kasus_scraper/config"
	"kasus_scraper/models"
)

// Strategy enumerates one slice of the search space.
type Strategy interface {
	Name() string
	Criteria() iter.Seq[models.SearchCriteria]
}

// RandomStrategy submits the unconstrained form Iterations times and relies
// on the server returning varying result sets.
type RandomStrategy struct {
	Iterations int
}

func (s RandomStrategy) Name() string { return "random" }

func (s RandomStrategy) Criteria() iter.Seq[models.SearchCriteria] {
	return func(yield func(models.SearchCriteria) bool) {
		for i := 0; i < s.Iterations; i++ {
			if !yield(models.SearchCriteria{}) {
				return
			}
		}
	}
}

// ListStrategy issues one search per value of a fixed list.
type ListStrategy struct {
	name   string
	values []string
	build  func(value string) models.SearchCriteria
}

func (s ListStrategy) Name() string { return s.name }

func (s ListStrategy) Criteria() iter.Seq[models.SearchCriteria] {
	return func(yield func(models.SearchCriteria) bool) {
		for _, v := range s.values {
			if !yield(s.build(v)) {
				return
			}
		}
	}
}

func CityStrategy(cities []string) ListStrategy {
	return ListStrategy{name: "city", values: cities, build: func(v string) models.SearchCriteria {
		return models.SearchCriteria{City: v}
	}}
}

func IndustryStrategy(industries []string) ListStrategy {
	return ListStrategy{name: "industry", values: industries, build: func(v string) models.SearchCriteria {
		return models.SearchCriteria{Industries: []string{v}}
	}}
}

func SurnameStrategy(surnames []string) ListStrategy {
	return ListStrategy{name: "surname", values: surnames, build: func(v string) models.SearchCriteria {
		return models.SearchCriteria{Name: v}
	}}
}

// PostalRangeStrategy searches two-digit postal code prefixes From..To.
type PostalRangeStrategy struct {
	From int
	To   int
}

func (s PostalRangeStrategy) Name() string { return "postal" }

func (s PostalRangeStrategy) Criteria() iter.Seq[models.SearchCriteria] {
	return func(yield func(models.SearchCriteria) bool) {
		for p := s.From; p <= s.To; p++ {
			if !yield(models.SearchCriteria{PostalCode: fmt.Sprintf("%02d", p)}) {
				return
			}
		}
	}
}

// StrategiesFromConfig builds the enabled strategies in configured order,
// falling back to the built-in lists.
func StrategiesFromConfig(cfg config.StrategyConfig) ([]Strategy, error) {
	var out []Strategy
	for _, name := range cfg.Enabled {
		switch name {
		case "random":
			out = append(out, RandomStrategy{Iterations: cfg.RandomIterations})
		case "city":
			out = append(out, CityStrategy(orDefault(cfg.Cities, DefaultCities)))
		case "industry":
			out = append(out, IndustryStrategy(orDefault(cfg.Industries, DefaultIndustries)))
		case "surname":
			out = append(out, SurnameStrategy(orDefault(cfg.Surnames, DefaultSurnames)))
		case "postal":
			from, to := cfg.PostalPrefixFrom, cfg.PostalPrefixTo
			if from == 0 && to == 0 {
				from, to = 1, 99
			}
			out = append(out, PostalRangeStrategy{From: from, To: to})
		default:
			return nil, fmt.Errorf("unknown strategy: %s", name)
		}
	}
	return out, nil
}

func orDefault(values, defaults []string) []string {
	if len(values) > 0 {
		return values
	}
	return defaults
}
