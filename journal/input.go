package journal

import (
	"time"
)

// NewTrade is the create payload. Id is assigned by the store.
type NewTrade struct {
	Date        string   `json:"date" validate:"required,tradedate"`
	Symbol      string   `json:"symbol" validate:"required,max=32"`
	Account     string   `json:"account" validate:"max=64"`
	Model       string   `json:"model" validate:"max=64"`
	Session     string   `json:"session" validate:"max=64"`
	EntryTF     string   `json:"entryTF" validate:"max=32"`
	Position    string   `json:"position" validate:"omitempty,oneof=Long Short"`
	RiskPercent *float64 `json:"riskPercent" validate:"omitempty,finite,gte=0,lte=100"`
	RealisedR   *float64 `json:"realisedR" validate:"required,finite"`
	MaxR        *float64 `json:"maxR" validate:"omitempty,finite"`
	SetupGrade  string   `json:"setupGrade" validate:"max=32"`
	KeyLevels   []string `json:"keyLevels" validate:"dive,required"`
	Mistakes    []string `json:"mistakes" validate:"dive,required"`
	Screenshots string   `json:"screenshots"`
	Notes       string   `json:"notes"`
	CreatedAt   int64    `json:"createdAt" validate:"gte=0"`
}

// Build turns a validated payload into a Trade. MaxR falls back to
// RealisedR and a zero CreatedAt is stamped with now.
func (n NewTrade) Build(id string, now time.Time) Trade {
	t := Trade{
		ID:          id,
		Date:        n.Date,
		Symbol:      n.Symbol,
		Account:     n.Account,
		Model:       n.Model,
		Session:     n.Session,
		EntryTF:     n.EntryTF,
		Position:    n.Position,
		SetupGrade:  n.SetupGrade,
		KeyLevels:   copyStrings(n.KeyLevels),
		Mistakes:    copyStrings(n.Mistakes),
		Screenshots: n.Screenshots,
		Notes:       n.Notes,
		CreatedAt:   n.CreatedAt,
	}
	if t.Position == "" {
		t.Position = "Long"
	}
	if n.RiskPercent != nil {
		v := *n.RiskPercent
		t.RiskPercent = &v
	}
	if n.RealisedR != nil {
		t.RealisedR = *n.RealisedR
	}
	t.MaxR = t.RealisedR
	if n.MaxR != nil {
		t.MaxR = *n.MaxR
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = now.UnixMilli()
	}
	return t
}

// TradePatch is a partial update. Nil fields are left untouched and the id
// can never change.
type TradePatch struct {
	Date        *string   `json:"date" validate:"omitempty,tradedate"`
	Symbol      *string   `json:"symbol" validate:"omitempty,min=1,max=32"`
	Account     *string   `json:"account" validate:"omitempty,max=64"`
	Model       *string   `json:"model" validate:"omitempty,max=64"`
	Session     *string   `json:"session" validate:"omitempty,max=64"`
	EntryTF     *string   `json:"entryTF" validate:"omitempty,max=32"`
	Position    *string   `json:"position" validate:"omitempty,oneof=Long Short"`
	RiskPercent *float64  `json:"riskPercent" validate:"omitempty,finite,gte=0,lte=100"`
	RealisedR   *float64  `json:"realisedR" validate:"omitempty,finite"`
	MaxR        *float64  `json:"maxR" validate:"omitempty,finite"`
	SetupGrade  *string   `json:"setupGrade" validate:"omitempty,max=32"`
	KeyLevels   *[]string `json:"keyLevels" validate:"omitempty,dive,required"`
	Mistakes    *[]string `json:"mistakes" validate:"omitempty,dive,required"`
	Screenshots *string   `json:"screenshots"`
	Notes       *string   `json:"notes"`
	CreatedAt   *int64    `json:"createdAt" validate:"omitempty,gte=0"`
}

// Apply returns a copy of t with the patch merged over it.
func (p TradePatch) Apply(t Trade) Trade {
	out := t.Clone()
	setString(&out.Date, p.Date)
	setString(&out.Symbol, p.Symbol)
	setString(&out.Account, p.Account)
	setString(&out.Model, p.Model)
	setString(&out.Session, p.Session)
	setString(&out.EntryTF, p.EntryTF)
	setString(&out.Position, p.Position)
	setString(&out.SetupGrade, p.SetupGrade)
	setString(&out.Screenshots, p.Screenshots)
	setString(&out.Notes, p.Notes)
	if p.RiskPercent != nil {
		v := *p.RiskPercent
		out.RiskPercent = &v
	}
	if p.RealisedR != nil {
		out.RealisedR = *p.RealisedR
	}
	if p.MaxR != nil {
		out.MaxR = *p.MaxR
	}
	if p.KeyLevels != nil {
		out.KeyLevels = copyStrings(*p.KeyLevels)
	}
	if p.Mistakes != nil {
		out.Mistakes = copyStrings(*p.Mistakes)
	}
	if p.CreatedAt != nil {
		out.CreatedAt = *p.CreatedAt
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
