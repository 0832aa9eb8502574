package lexicon

// Nominative lemmas of Russian cardinal numerals
var (
	russianUnits = map[string]int{
		"ноль":         0,
		"один":         1,
		"два":          2,
		"три":          3,
		"четыре":       4,
		"пять":         5,
		"шесть":        6,
		"семь":         7,
		"восемь":       8,
		"девять":       9,
		"десять":       10,
		"одиннадцать":  11,
		"двенадцать":   12,
		"тринадцать":   13,
		"четырнадцать": 14,
		"пятнадцать":   15,
		"шестнадцать":  16,
		"семнадцать":   17,
		"восемнадцать": 18,
		"девятнадцать": 19,
	}

	russianTens = map[string]int{
		"двадцать":    20,
		"тридцать":    30,
		"сорок":       40,
		"пятьдесят":   50,
		"шестьдесят":  60,
		"семьдесят":   70,
		"восемьдесят": 80,
		"девяносто":   90,
	}

	russianHundreds = map[string]int{
		"сто":       100,
		"двести":    200,
		"триста":    300,
		"четыреста": 400,
		"пятьсот":   500,
		"шестьсот":  600,
		"семьсот":   700,
		"восемьсот": 800,
		"девятьсот": 900,
	}
)

// Default returns the built-in Russian numeral lexicon
func Default() *Lexicon {
	l, err := New(FromTiers(russianUnits, russianTens, russianHundreds))
	if err != nil {
		panic("lexicon: built-in table is invalid: " + err.Error())
	}
	return l
}

// FromTiers flattens per-tier maps into entries
func FromTiers(units, tens, hundreds map[string]int) []Entry {
	entries := make([]Entry, 0, len(units)+len(tens)+len(hundreds))
	for lemma, v := range units {
		entries = append(entries, Entry{Lemma: lemma, Value: v, Tier: TierUnit})
	}
	for lemma, v := range tens {
		entries = append(entries, Entry{Lemma: lemma, Value: v, Tier: TierTen})
	}
	for lemma, v := range hundreds {
		entries = append(entries, Entry{Lemma: lemma, Value: v, Tier: TierHundred})
	}
	return entries
}
