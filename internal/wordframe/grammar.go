package wordframe

// Grammar selects the words spelling hour:minute. Implementations may
// assume hour in 0..11 and minute in 0..59.
type Grammar interface {
	Compose(hour, minute int, add func(Word))
	// Name returns the token name of w, or "" if w is not part of the grammar.
	Name(w Word) string
	// Width and Height return the front plate geometry.
	Width() int
	Height() int
}

// Composer builds frames for one grammar.
type Composer struct {
	Grammar Grammar
}

// NewComposer returns a Composer for g.
func NewComposer(g Grammar) Composer {
	return Composer{Grammar: g}
}

// FromTime returns a new frame for hour:minute.
func (c Composer) FromTime(hour, minute int) (*Frame, error) {
	f, err := NewFrame(c.Grammar.Width(), c.Grammar.Height())
	if err != nil {
		return nil, err
	}
	if err := f.FromTime(c.Grammar, hour, minute); err != nil {
		return nil, err
	}
	return f, nil
}

// Words lists the token names the grammar would light for hour:minute,
// in phrase order.
func (c Composer) Words(hour, minute int) ([]string, error) {
	if hour < 0 || hour > 11 || minute < 0 || minute > 59 {
		return nil, ErrOutOfRange
	}
	var names []string
	c.Grammar.Compose(hour, minute, func(w Word) {
		names = append(names, c.Grammar.Name(w))
	})
	return names, nil
}

// PhraseMinute folds a minute onto the 0..20 index of the "minutes
// past/to the half/hour" phrase table.
func PhraseMinute(minute int) int {
	switch {
	case minute >= 21 && minute <= 29:
		return 30 - minute
	case minute >= 31 && minute <= 39:
		return minute - 30
	case minute >= 40 && minute <= 59:
		return 60 - minute
	}
	return minute
}

// DisplayedHour returns the hour named in the phrase: from minute 21 on the
// phrase refers to the coming hour.
func DisplayedHour(hour, minute int) int {
	if minute >= 21 {
		return (hour + 1) % 12
	}
	return hour
}
