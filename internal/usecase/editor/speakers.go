package editor

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// AllSpeakers returns the sorted union of explicit speaker ids and implicit
// labels found in content. A label counts as implicit when it is not already
// the display name of a known id.
func AllSpeakers(item *entities.TranscriptItem) []string {
	if item == nil {
		return nil
	}

	set := make(map[string]struct{}, len(item.SpeakerNames))
	known := make(map[string]struct{}, len(item.SpeakerNames))
	for id, name := range item.SpeakerNames {
		set[id] = struct{}{}
		if name = strings.TrimSpace(name); name != "" {
			known[name] = struct{}{}
		}
	}

	for _, line := range ParseLines(item.Content) {
		if line.Kind != LineLabel {
			continue
		}
		if _, ok := known[line.Label]; ok {
			continue
		}
		set[line.Label] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// HasSpeaker reports whether id is an explicit or implicit speaker of item
func HasSpeaker(item *entities.TranscriptItem, id string) bool {
	if _, ok := item.SpeakerNames[id]; ok {
		return true
	}
	for _, s := range AllSpeakers(item) {
		if s == id {
			return true
		}
	}
	return false
}

// labelFor returns the label text written in content for id: the mapped
// name when one is set, otherwise the id itself.
func labelFor(item *entities.TranscriptItem, id string) string {
	if name := strings.TrimSpace(item.SpeakerNames[id]); name != "" {
		return name
	}
	return id
}

// SpeakerWord is the localized noun used for default speaker names
func SpeakerWord(tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "pl":
		return "Rozmówca"
	default:
		return "Speaker"
	}
}

// SpeakerName resolves the display name for id
func (e *Editor) SpeakerName(item *entities.TranscriptItem, id string) string {
	if item != nil {
		if name := strings.TrimSpace(item.SpeakerNames[id]); name != "" {
			return name
		}
	}
	if id == "A" || id == "B" {
		return SpeakerWord(e.locale) + " " + id
	}
	return id
}

// OrdinalName returns the default name for the n-th diarized speaker
// ("SPEAKER A", "SPEAKER B", ... "SPEAKER AA").
func (e *Editor) OrdinalName(n int) string {
	return e.Upper(SpeakerWord(e.locale)) + " " + ordinalLetters(n)
}

func ordinalLetters(n int) string {
	s := ""
	for n >= 0 {
		s = string(rune('A'+n%26)) + s
		n = n/26 - 1
	}
	return s
}

// Upper upper-cases a name using the editor locale's casing rules
func (e *Editor) Upper(s string) string {
	return cases.Upper(e.locale).String(s)
}

// NormalizeName trims and upper-cases a user-typed speaker name
func (e *Editor) NormalizeName(name string) (string, error) {
	name = e.Upper(strings.TrimSpace(name))
	if err := validateName(name); err != nil {
		return "", err
	}
	return name, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, ":\r\n") {
		return fmt.Errorf("%w: %q contains a colon or line break", ErrInvalidName, name)
	}
	if len([]rune(name)) >= MaxLabelLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidName, MaxLabelLength-1)
	}
	return nil
}

// UniqueName suffixes candidate with _1, _2, ... until it no longer collides,
// case-insensitively, with the name of any speaker other than exclude.
func UniqueName(item *entities.TranscriptItem, exclude, candidate string) string {
	taken := make(map[string]struct{})
	for _, id := range AllSpeakers(item) {
		if id == exclude {
			continue
		}
		taken[fold(labelFor(item, id))] = struct{}{}
	}
	if _, ok := taken[fold(candidate)]; !ok {
		return candidate
	}
	for n := 1; ; n++ {
		next := fmt.Sprintf("%s_%d", candidate, n)
		if _, ok := taken[fold(next)]; !ok {
			return next
		}
	}
}

func fold(s string) string {
	return cases.Fold().String(s)
}
