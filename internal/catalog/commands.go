package catalog

// Command groups the phrases of one label. Name is the representative phrase.
type Command struct {
	ID      int      `yaml:"id"`
	Name    string   `yaml:"name"`
	Phrases []string `yaml:"phrases,omitempty"`
}

// Shunting-yard commands spoken to a locomotive driver.
// Labels 4 and 10 take a wagon count.
var shuntingCommands = []Command{
	{ID: 0, Name: "отказ"},
	{ID: 1, Name: "отмена", Phrases: []string{"отменить"}},
	{ID: 2, Name: "подтверждение", Phrases: []string{"подтверждаю"}},
	{ID: 3, Name: "начать осаживание"},
	{ID: 4, Name: "осадить на вагон", Phrases: []string{"осади на вагон"}},
	{ID: 5, Name: "продолжаем осаживание"},
	{ID: 6, Name: "зарядка тормозной магистрали"},
	{ID: 7, Name: "вышел из межвагонного пространства"},
	{ID: 8, Name: "продолжаем роспуск"},
	{ID: 9, Name: "растянуть автосцепки"},
	{ID: 10, Name: "протянуть на вагон", Phrases: []string{"протяни на вагон"}},
	{ID: 11, Name: "отцепка"},
	{ID: 12, Name: "назад на башмак"},
	{ID: 13, Name: "захожу в межвагонное пространство"},
	{ID: 14, Name: "остановка", Phrases: []string{"стоп"}},
	{ID: 15, Name: "вперед на башмак"},
	{ID: 16, Name: "сжать автосцепки"},
	{ID: 17, Name: "назад с башмака"},
	{ID: 18, Name: "тише"},
	{ID: 19, Name: "вперед с башмака"},
	{ID: 20, Name: "прекратить зарядку тормозной магистрали"},
	{ID: 21, Name: "тормозить", Phrases: []string{"тормози"}},
	{ID: 22, Name: "отпустить", Phrases: []string{"отпусти"}},
}

// Default returns the built-in shunting command catalog
func Default() *Catalog {
	c, err := FromCommands(shuntingCommands)
	if err != nil {
		panic("catalog: built-in table is invalid: " + err.Error())
	}
	return c
}

// FromCommands builds a catalog where each command's Name is its representative
func FromCommands(cmds []Command) (*Catalog, error) {
	var phrases []Phrase
	reps := make(map[int]string, len(cmds))

	for _, cmd := range cmds {
		phrases = append(phrases, Phrase{Text: cmd.Name, Label: cmd.ID})
		for _, p := range cmd.Phrases {
			phrases = append(phrases, Phrase{Text: p, Label: cmd.ID})
		}
		if _, ok := reps[cmd.ID]; !ok {
			reps[cmd.ID] = cmd.Name
		}
	}

	return New(phrases, reps)
}
