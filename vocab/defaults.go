package vocab

import "sync"

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
)

// Default returns the built-in residential rental vocabulary.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		defaultVocab = New(DefaultFeatures())
	})
	return defaultVocab
}

// DefaultFeatures returns a fresh copy of the built-in feature list.
func DefaultFeatures() []Feature {
	return []Feature{
		{
			Name:         "AC",
			Key:          "ac",
			Synonyms:     []string{"acs", "a/c", "air conditioner", "air conditioners", "air conditioning", "air-conditioned", "aircon", "split ac"},
			Partial:      []string{"window ac", "window air conditioner", "portable ac"},
			Alternatives: []string{"air cooler", "cooler"},
		},
		{
			Name:         "parking",
			Key:          "parking",
			Synonyms:     []string{"car parking", "covered parking", "reserved parking", "garage", "car park"},
			Partial:      []string{"two wheeler parking", "bike parking", "street parking", "open parking"},
			Alternatives: []string{"visitor parking"},
		},
		{
			Name:        "power backup",
			Key:         "power backup",
			Synonyms:    []string{"backup power", "full power backup"},
			Equivalents: []string{"inverter", "generator", "dg backup", "dg set"},
			Partial:     []string{"partial power backup", "lift backup"},
		},
		{
			Name:        "internet",
			Key:         "internet",
			Synonyms:    []string{"wifi", "wi-fi", "broadband", "internet connection"},
			Equivalents: []string{"fiber", "fibre", "lan connection"},
		},
		{
			Name:        "security",
			Key:         "security",
			Synonyms:    []string{"24x7 security", "security guard", "security guards"},
			Equivalents: []string{"cctv", "gated community", "gated society", "guards", "intercom"},
			Implies:     []string{"gated community", "gated society"},
		},
		{
			Name:         "TV",
			Key:          "tv",
			Synonyms:     []string{"tvs", "television", "smart tv", "led tv"},
			Alternatives: []string{"projector"},
		},
		{
			Name:     "fridge",
			Key:      "fridge",
			Synonyms: []string{"fridges", "refrigerator", "refrigerators"},
			Partial:  []string{"mini fridge"},
		},
		{
			Name:         "washing machine",
			Key:          "washing machine",
			Synonyms:     []string{"washer", "washing machines"},
			Alternatives: []string{"laundry", "laundry service"},
		},
		{
			Name:     "geyser",
			Key:      "geyser",
			Synonyms: []string{"geysers", "water heater", "hot water"},
		},
		{
			Name:         "microwave",
			Key:          "microwave",
			Synonyms:     []string{"microwave oven"},
			Alternatives: []string{"oven", "otg"},
		},
		{
			Name:     "lift",
			Key:      "lift",
			Synonyms: []string{"lifts", "elevator", "elevators"},
		},
		{
			Name:         "gym",
			Key:          "gym",
			Synonyms:     []string{"gymnasium", "fitness center", "fitness centre"},
			Alternatives: []string{"yoga room"},
		},
		{
			Name:     "swimming pool",
			Key:      "swimming pool",
			Synonyms: []string{"pool"},
		},
		{
			Name:         "balcony",
			Key:          "balcony",
			Synonyms:     []string{"balconies"},
			Alternatives: []string{"terrace", "sit out"},
		},
		{
			Name:         "garden",
			Key:          "garden",
			Synonyms:     []string{"lawn"},
			Alternatives: []string{"park"},
		},
		{
			Name:      "furnished",
			Key:       "furnished",
			Synonyms:  []string{"fully furnished", "furniture"},
			Partial:   []string{"semi furnished", "semi-furnished", "partly furnished"},
			Adjective: true,
		},
		{
			Name:     "modular kitchen",
			Key:      "modular kitchen",
			Synonyms: []string{"modular kitchens"},
		},
		{
			Name:        "water supply",
			Key:         "water supply",
			Synonyms:    []string{"24x7 water", "24 hour water"},
			Equivalents: []string{"borewell", "water tank"},
		},
		{
			Name:     "clubhouse",
			Key:      "clubhouse",
			Synonyms: []string{"club house"},
		},
	}
}
