package journal

// Settings holds the category lists the trade form offers as dropdowns.
type Settings struct {
	Accounts      []string `json:"accounts" yaml:"accounts" validate:"dive,required"`
	Models        []string `json:"models" yaml:"models" validate:"dive,required"`
	Sessions      []string `json:"sessions" yaml:"sessions" validate:"dive,required"`
	EntryTFs      []string `json:"entryTFs" yaml:"entry_tfs" validate:"dive,required"`
	SetupGrades   []string `json:"setupGrades" yaml:"setup_grades" validate:"dive,required"`
	KeyLevels     []string `json:"keyLevels" yaml:"key_levels" validate:"dive,required"`
	Mistakes      []string `json:"mistakes" yaml:"mistakes" validate:"dive,required"`
	TiltThreshold int      `json:"tiltThreshold" yaml:"tilt_threshold" validate:"gte=0"`
}

// DefaultSettings returns a fresh copy of the built in category lists.
func DefaultSettings() Settings {
	return Settings{
		Accounts: []string{
			"5K Evaluation",
			"5K Funded",
			"10K Challenge",
			"25K Challenge",
			"50K Challenge",
			"100K Challenge",
			"Demo",
		},
		Models:      []string{"Continuation Model", "Retracement Model"},
		Sessions:    []string{"London", "Asia", "London Lunch", "NY"},
		EntryTFs:    []string{"5 Min", "15 Min", "3 Min"},
		SetupGrades: []string{"A+", "A", "B", "Retard"},
		KeyLevels:   []string{"1H", "4H", "M30"},
		Mistakes: []string{
			"Against 1H OF",
			"1H Consolidation",
			"Trapped OF",
			"Overextended Prev Session/Day",
		},
		TiltThreshold: 2,
	}
}

// WithDefaults fills every list the stored settings lack from the defaults.
// Stored records carry no schema version, so this best effort merge is all
// the migration there is.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	out := Settings{
		Accounts:      pick(s.Accounts, d.Accounts),
		Models:        pick(s.Models, d.Models),
		Sessions:      pick(s.Sessions, d.Sessions),
		EntryTFs:      pick(s.EntryTFs, d.EntryTFs),
		SetupGrades:   pick(s.SetupGrades, d.SetupGrades),
		KeyLevels:     pick(s.KeyLevels, d.KeyLevels),
		Mistakes:      pick(s.Mistakes, d.Mistakes),
		TiltThreshold: s.TiltThreshold,
	}
	if out.TiltThreshold <= 0 {
		out.TiltThreshold = d.TiltThreshold
	}
	return out
}

func pick(v, fallback []string) []string {
	if v == nil {
		return fallback
	}
	return copyStrings(v)
}
