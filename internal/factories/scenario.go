package factories

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/jaswdr/faker"
)

// ScenarioFactory produces synthetic but well-formed scenarios. The same seed
// always yields the same sequence.
type ScenarioFactory struct {
	fake  faker.Faker
	count int
}

func NewScenarioFactory(seed int64) *ScenarioFactory {
	return &ScenarioFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

func (sf *ScenarioFactory) CreateScenario() models.Scenario {
	sf.count++
	name := sf.fake.Company().Name()

	return models.Scenario{
		ID:   fmt.Sprintf("synthetic_%03d_%s", sf.count, slug(name)),
		Name: name,
		City: sf.fake.Address().City(),
		Context: models.ScenarioContext{
			Weather:        pick(sf.fake, models.Weathers),
			LocalEvent:     pick(sf.fake, models.LocalEvents),
			DayType:        pick(sf.fake, models.DayTypes),
			ReviewVelocity: pick(sf.fake, models.ReviewVelocities),
		},
		HistoricalFillByHour: sf.fillByHour(),
		NoShowRate:           sf.fake.Float64(2, 0, 25) / 100,
		WalkInStrength:       sf.fake.Float64(2, 5, 95) / 100,
	}
}

// CreateScenarios returns n consecutive scenarios.
func (sf *ScenarioFactory) CreateScenarios(n int) []models.Scenario {
	out := make([]models.Scenario, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sf.CreateScenario())
	}
	return out
}

// fillByHour leaves roughly one hour in five unrecorded so the default fill
// path is exercised.
func (sf *ScenarioFactory) fillByHour() map[int]float64 {
	fill := make(map[int]float64)
	for h := 0; h < 24; h++ {
		if sf.fake.IntBetween(0, 4) == 0 {
			continue
		}
		fill[h] = sf.fake.Float64(2, 5, 98) / 100
	}
	return fill
}

func pick[T ~string](fake faker.Faker, options []T) T {
	return options[fake.IntBetween(0, len(options)-1)]
}

func slug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)
}
