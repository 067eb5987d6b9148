package scraper

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasus_scraper/config"
	"kasus_scraper/models"
)

func TestRandomStrategy_YieldsEmptyCriteria(t *testing.T) {
	got := slices.Collect(RandomStrategy{Iterations: 4}.Criteria())
	require.Len(t, got, 4)
	for _, c := range got {
		assert.True(t, c.IsEmpty())
	}
	assert.Empty(t, slices.Collect(RandomStrategy{}.Criteria()))
}

func TestListStrategies(t *testing.T) {
	city := slices.Collect(CityStrategy([]string{"Berlin", "Hamburg"}).Criteria())
	assert.Equal(t, []models.SearchCriteria{{City: "Berlin"}, {City: "Hamburg"}}, city)

	industry := slices.Collect(IndustryStrategy([]string{"Handwerk"}).Criteria())
	assert.Equal(t, []models.SearchCriteria{{Industries: []string{"Handwerk"}}}, industry)

	surname := slices.Collect(SurnameStrategy([]string{"Müller"}).Criteria())
	assert.Equal(t, []models.SearchCriteria{{Name: "Müller"}}, surname)
}

func TestPostalRangeStrategy(t *testing.T) {
	got := slices.Collect(PostalRangeStrategy{From: 1, To: 99}.Criteria())
	require.Len(t, got, 99)
	assert.Equal(t, "01", got[0].PostalCode)
	assert.Equal(t, "10", got[9].PostalCode)
	assert.Equal(t, "99", got[98].PostalCode)
}

func TestStrategy_StopsWhenConsumerBreaks(t *testing.T) {
	n := 0
	for range CityStrategy(DefaultCities).Criteria() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestStrategiesFromConfig_Defaults(t *testing.T) {
	strategies, err := StrategiesFromConfig(config.StrategyConfig{
		Enabled:          config.AllStrategies,
		RandomIterations: 200,
	})
	require.NoError(t, err)

	var names []string
	for _, s := range strategies {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"random", "city", "industry", "surname", "postal"}, names)

	count := func(s Strategy) int {
		n := 0
		for range s.Criteria() {
			n++
		}
		return n
	}
	assert.Equal(t, 200, count(strategies[0]))
	assert.Equal(t, len(DefaultCities), count(strategies[1]))
	assert.Equal(t, len(DefaultIndustries), count(strategies[2]))
	assert.Equal(t, len(DefaultSurnames), count(strategies[3]))
	assert.Equal(t, 99, count(strategies[4]))
}

func TestStrategiesFromConfig_Overrides(t *testing.T) {
	strategies, err := StrategiesFromConfig(config.StrategyConfig{
		Enabled:          []string{"postal", "city"},
		Cities:           []string{"Kiel"},
		PostalPrefixFrom: 20,
		PostalPrefixTo:   22,
	})
	require.NoError(t, err)
	require.Len(t, strategies, 2)

	assert.Equal(t, []models.SearchCriteria{{PostalCode: "20"}, {PostalCode: "21"}, {PostalCode: "22"}},
		slices.Collect(strategies[0].Criteria()))
	assert.Equal(t, []models.SearchCriteria{{City: "Kiel"}}, slices.Collect(strategies[1].Criteria()))
}

func TestStrategiesFromConfig_UnknownName(t *testing.T) {
	_, err := StrategiesFromConfig(config.StrategyConfig{Enabled: []string{"city", "zodiac"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zodiac")
}

func TestDefaultLists(t *testing.T) {
	assert.GreaterOrEqual(t, len(DefaultCities), 75)
	assert.GreaterOrEqual(t, len(DefaultIndustries), 30)
	assert.GreaterOrEqual(t, len(DefaultSurnames), 50)
}

func TestPacer_NextWithinBounds(t *testing.T) {
	p := NewPacer(10*time.Millisecond, 20*time.Millisecond)
	for i := 0; i < 100; i++ {
		d := p.Next()
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 20*time.Millisecond)
	}

	var nilPacer *Pacer
	assert.Zero(t, nilPacer.Next())
	assert.Equal(t, 5*time.Millisecond, NewPacer(5*time.Millisecond, 5*time.Millisecond).Next())
}

func TestPacer_WaitHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := NewPacer(time.Minute, 2*time.Minute).Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
