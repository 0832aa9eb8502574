package lemma

// Dictionary resolves words through a fixed form -> lemma table.
// Unknown words come back lowercased.
type Dictionary struct {
	forms map[string]string
}

// NewDictionary builds a dictionary from lemma -> inflected forms.
// Every lemma also maps to itself.
func NewDictionary(paradigms map[string][]string) *Dictionary {
	forms := make(map[string]string)
	for lemma, inflections := range paradigms {
		base := normalize(lemma)
		forms[base] = base
		for _, f := range inflections {
			forms[normalize(f)] = base
		}
	}
	return &Dictionary{forms: forms}
}

// Lemmatize returns the lemma of word
func (d *Dictionary) Lemmatize(word string) string {
	w := normalize(word)
	if base, ok := d.forms[w]; ok {
		return base
	}
	return w
}

// Len returns the number of known forms
func (d *Dictionary) Len() int {
	return len(d.forms)
}

// Default returns a dictionary covering the case forms of Russian cardinals
func Default() *Dictionary {
	return NewDictionary(russianNumerals)
}

// Oblique case forms of Russian cardinal numerals (genitive, dative,
// instrumental, prepositional; feminine/neuter for один and два)
var russianNumerals = map[string][]string{
	"ноль":         {"нуль", "ноля", "нуля", "нолю", "нулю", "нолём", "нулём", "ноле", "нуле"},
	"один":         {"одна", "одно", "одни", "одного", "одной", "одному", "одним", "одном", "одну", "одними", "одних"},
	"два":          {"две", "двух", "двум", "двумя"},
	"три":          {"трёх", "трех", "трём", "трем", "тремя"},
	"четыре":       {"четырёх", "четырех", "четырём", "четырем", "четырьмя"},
	"пять":         {"пяти", "пятью"},
	"шесть":        {"шести", "шестью"},
	"семь":         {"семи", "семью"},
	"восемь":       {"восьми", "восемью", "восьмью"},
	"девять":       {"девяти", "девятью"},
	"десять":       {"десяти", "десятью"},
	"одиннадцать":  {"одиннадцати", "одиннадцатью"},
	"двенадцать":   {"двенадцати", "двенадцатью"},
	"тринадцать":   {"тринадцати", "тринадцатью"},
	"четырнадцать": {"четырнадцати", "четырнадцатью"},
	"пятнадцать":   {"пятнадцати", "пятнадцатью"},
	"шестнадцать":  {"шестнадцати", "шестнадцатью"},
	"семнадцать":   {"семнадцати", "семнадцатью"},
	"восемнадцать": {"восемнадцати", "восемнадцатью"},
	"девятнадцать": {"девятнадцати", "девятнадцатью"},
	"двадцать":     {"двадцати", "двадцатью"},
	"тридцать":     {"тридцати", "тридцатью"},
	"сорок":        {"сорока"},
	"пятьдесят":    {"пятидесяти", "пятьюдесятью"},
	"шестьдесят":   {"шестидесяти", "шестьюдесятью"},
	"семьдесят":    {"семидесяти", "семьюдесятью"},
	"восемьдесят":  {"восьмидесяти", "восемьюдесятью"},
	"девяносто":    {"девяноста"},
	"сто":          {"ста"},
	"двести":       {"двухсот", "двумстам", "двумястами", "двухстах"},
	"триста":       {"трёхсот", "трехсот", "трёмстам", "тремстам", "тремястами", "трёхстах", "трехстах"},
	"четыреста":    {"четырёхсот", "четырехсот", "четырёмстам", "четыремстам", "четырьмястами", "четырёхстах", "четырехстах"},
	"пятьсот":      {"пятисот", "пятистам", "пятьюстами", "пятистах"},
	"шестьсот":     {"шестисот", "шестистам", "шестьюстами", "шестистах"},
	"семьсот":      {"семисот", "семистам", "семьюстами", "семистах"},
	"восемьсот":    {"восьмисот", "восьмистам", "восьмьюстами", "восемьюстами", "восьмистах"},
	"девятьсот":    {"девятисот", "девятистам", "девятьюстами", "девятистах"},
}
