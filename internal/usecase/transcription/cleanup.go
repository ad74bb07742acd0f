package transcription

import (
	"regexp"
	"strings"
)

// ivrPhrases are automated call-centre announcements that diarization
// attributes to a speaker.
var ivrPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)prosimy\s+(?:o\s+)?(?:chwil[eę]\s+)?(?:cierpliwo[sś][cć]|poczeka[cć])[^.!?]*[.!?]?`),
	regexp.MustCompile(`(?i)(?:twoje\s+)?po[lł][aą]czenie\s+(?:zosta[lł]o\s+)?zawieszone[^.!?]*[.!?]?`),
	regexp.MustCompile(`(?i)rozmowa\s+(?:mo[zż]e\s+by[cć]|jest)\s+nagrywana[^.!?]*[.!?]?`),
	regexp.MustCompile(`(?i)konsultant\s+odbierze\s+(?:po[lł][aą]czenie\s+)?wkr[oó]tce[^.!?]*[.!?]?`),
	regexp.MustCompile(`(?i)dzi[eę]kujemy\s+za\s+oczekiwanie[^.!?]*[.!?]?`),
	regexp.MustCompile(`(?i)(?:please\s+)?(?:hold|stay\s+on\s+the\s+line)[^.!?]*(?:connected|available|shortly)[^.!?]*[.!?]?`),
	regexp.MustCompile(`(?i)this\s+call\s+(?:may|will)\s+be\s+recorded[^.!?]*[.!?]?`),
}

// junkWords mark hold-queue utterances
var junkWords = []string{
	"prosimy", "poczekać", "zawiesił", "połączenie", "kontynuować",
	"wkrótce", "rozmowę", "będziesz", "mógł", "oczekiwanie",
}

var (
	spaceRun     = regexp.MustCompile(`[ \t\f\v]+`)
	spaceBefore  = regexp.MustCompile(` +([,.!?;:])`)
	repeatedMark = regexp.MustCompile(`([,.])(?:\s*[,.])+`)
)

// Cleaner removes boilerplate and filler words from utterance text
type Cleaner struct {
	filler *regexp.Regexp
}

// NewCleaner builds a cleaner for the given filler words. Matching is
// case-insensitive and only whole words are removed.
func NewCleaner(fillerWords []string) *Cleaner {
	quoted := make([]string, 0, len(fillerWords))
	for _, w := range fillerWords {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	c := &Cleaner{}
	if len(quoted) > 0 {
		c.filler = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)([^\p{L}\p{N}]|$)`)
	}
	return c
}

// Clean strips IVR phrases and filler words and collapses whitespace
func (c *Cleaner) Clean(text string) string {
	for _, re := range ivrPhrases {
		text = re.ReplaceAllString(text, " ")
	}
	if c.filler != nil {
		// adjacent fillers share a separator, so repeat until stable
		for {
			next := c.filler.ReplaceAllString(text, "$1$2")
			if next == text {
				break
			}
			text = next
		}
	}
	text = spaceRun.ReplaceAllString(text, " ")
	text = spaceBefore.ReplaceAllString(text, "$1")
	text = repeatedMark.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(text)
	return strings.TrimLeft(text, ",.;: ")
}

// IsJunk reports whether an utterance is hold-queue noise. The first two
// utterances are dropped on any marker word; later ones need three.
func IsJunk(text string, index int) bool {
	lower := strings.ToLower(text)
	hits := 0
	for _, w := range junkWords {
		if strings.Contains(lower, w) {
			hits++
		}
	}
	if index < 2 {
		return hits > 0
	}
	return hits >= 3
}
