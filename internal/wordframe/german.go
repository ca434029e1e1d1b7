package wordframe

// Front plate of the 13x11 German clock ('.' marks filler letters):
//
//	ESKISTLDREINE
//	ZWANZIGZWEINS
//	SIEBENEUNACHT
//	ZWÖLFÜNFSECHS
//	VIERTELF.ZEHN
//	.MINUTEN.VOR.
//	NACHTHALB.ELF
//	EINSECHSIEBEN
//	FÜNFZWEIDREI.
//	.ZEHNEUNACHT.
//	VIERZWÖLF.UHR
var (
	WordEs         = Word{X: 0, Y: 0, Len: 2}
	WordIst        = Word{X: 3, Y: 0, Len: 3}
	WordMinDrei    = Word{X: 7, Y: 0, Len: 4}
	WordMinEine    = Word{X: 9, Y: 0, Len: 4}
	WordMinZwanzig = Word{X: 0, Y: 1, Len: 7}
	WordMinZwei    = Word{X: 7, Y: 1, Len: 4}
	WordMinSieb    = Word{X: 0, Y: 2, Len: 4}
	WordMinSieben  = Word{X: 0, Y: 2, Len: 6}
	WordMinNeun    = Word{X: 5, Y: 2, Len: 4}
	WordMinAcht    = Word{X: 9, Y: 2, Len: 4}
	WordMinZwoelf  = Word{X: 0, Y: 3, Len: 5}
	WordMinFuenf   = Word{X: 4, Y: 3, Len: 4}
	WordMinSech    = Word{X: 8, Y: 3, Len: 4}
	WordMinSechs   = Word{X: 8, Y: 3, Len: 5}
	WordMinVier    = Word{X: 0, Y: 4, Len: 4}
	WordViertel    = Word{X: 0, Y: 4, Len: 7}
	WordMinElf     = Word{X: 5, Y: 4, Len: 3}
	WordMinZehn    = Word{X: 9, Y: 4, Len: 4}
	WordMinute     = Word{X: 1, Y: 5, Len: 6}
	WordMinuten    = Word{X: 1, Y: 5, Len: 7}
	WordVor        = Word{X: 9, Y: 5, Len: 3}
	WordNach       = Word{X: 0, Y: 6, Len: 4}
	WordHalb       = Word{X: 5, Y: 6, Len: 4}
	WordElf        = Word{X: 10, Y: 6, Len: 3}
	WordEin        = Word{X: 0, Y: 7, Len: 3}
	WordEins       = Word{X: 0, Y: 7, Len: 4}
	WordSechs      = Word{X: 3, Y: 7, Len: 5}
	WordSieben     = Word{X: 7, Y: 7, Len: 6}
	WordFuenf      = Word{X: 0, Y: 8, Len: 4}
	WordZwei       = Word{X: 4, Y: 8, Len: 4}
	WordDrei       = Word{X: 8, Y: 8, Len: 4}
	WordZehn       = Word{X: 1, Y: 9, Len: 4}
	WordNeun       = Word{X: 4, Y: 9, Len: 4}
	WordAcht       = Word{X: 8, Y: 9, Len: 4}
	WordVier       = Word{X: 0, Y: 10, Len: 4}
	WordZwoelf     = Word{X: 4, Y: 10, Len: 5}
	WordUhr        = Word{X: 10, Y: 10, Len: 3}
)

var germanNames = map[Word]string{
	WordEs: "ES", WordIst: "IST",
	WordMinDrei: "DREI", WordMinEine: "EINE", WordMinZwanzig: "ZWANZIG",
	WordMinZwei: "ZWEI", WordMinSieb: "SIEB", WordMinSieben: "SIEBEN",
	WordMinNeun: "NEUN", WordMinAcht: "ACHT", WordMinZwoelf: "ZWÖLF",
	WordMinFuenf: "FÜNF", WordMinSech: "SECH", WordMinSechs: "SECHS",
	WordMinVier: "VIER", WordViertel: "VIERTEL", WordMinElf: "ELF",
	WordMinZehn: "ZEHN", WordMinute: "MINUTE", WordMinuten: "MINUTEN",
	WordVor: "VOR", WordNach: "NACH", WordHalb: "HALB", WordElf: "ELF",
	WordEin: "EIN", WordEins: "EINS", WordSechs: "SECHS", WordSieben: "SIEBEN",
	WordFuenf: "FÜNF", WordZwei: "ZWEI", WordDrei: "DREI", WordZehn: "ZEHN",
	WordNeun: "NEUN", WordAcht: "ACHT", WordVier: "VIER", WordZwoelf: "ZWÖLF",
	WordUhr: "UHR",
}

// German is the phrase grammar of the German front plate.
var German Grammar = german{}

type german struct{}

func (german) Width() int  { return 13 }
func (german) Height() int { return 11 }

func (german) Name(w Word) string {
	return germanNames[w]
}

func (german) Compose(hour, minute int, add func(Word)) {
	m := PhraseMinute(minute)
	h := DisplayedHour(hour, minute)

	add(WordEs)
	add(WordIst)

	switch m {
	case 1:
		add(WordMinEine)
	case 2:
		add(WordMinZwei)
	case 3:
		add(WordMinDrei)
	case 4:
		add(WordMinVier)
	case 5:
		add(WordMinFuenf)
	case 6:
		add(WordMinSechs)
	case 7:
		add(WordMinSieben)
	case 8:
		add(WordMinAcht)
	case 9:
		add(WordMinNeun)
	case 10:
		add(WordMinZehn)
	case 11:
		add(WordMinElf)
	case 12:
		add(WordMinZwoelf)
	case 13:
		add(WordMinDrei)
		add(WordMinZehn)
	case 14:
		add(WordMinVier)
		add(WordMinZehn)
	case 15:
		add(WordViertel)
	case 16:
		add(WordMinSech)
		add(WordMinZehn)
	case 17:
		add(WordMinSieb)
		add(WordMinZehn)
	case 18:
		add(WordMinAcht)
		add(WordMinZehn)
	case 19:
		add(WordMinNeun)
		add(WordMinZehn)
	case 20:
		add(WordMinZwanzig)
	}

	if m == 1 {
		add(WordMinute)
	} else if minute%5 > 0 {
		add(WordMinuten)
	}

	if (minute >= 1 && minute <= 20) || (minute >= 31 && minute <= 39) {
		add(WordNach)
	}
	if (minute >= 21 && minute <= 29) || (minute >= 40 && minute <= 59) {
		add(WordVor)
	}
	if minute >= 21 && minute <= 39 {
		add(WordHalb)
	}

	switch h {
	case 0:
		add(WordZwoelf)
	case 1:
		if minute == 0 {
			add(WordEin)
		} else {
			add(WordEins)
		}
	case 2:
		add(WordZwei)
	case 3:
		add(WordDrei)
	case 4:
		add(WordVier)
	case 5:
		add(WordFuenf)
	case 6:
		add(WordSechs)
	case 7:
		add(WordSieben)
	case 8:
		add(WordAcht)
	case 9:
		add(WordNeun)
	case 10:
		add(WordZehn)
	case 11:
		add(WordElf)
	}

	if minute == 0 {
		add(WordUhr)
	}
}
