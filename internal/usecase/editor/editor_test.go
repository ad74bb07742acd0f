package editor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

func newTestEditor(locale language.Tag) *Editor {
	n := 0
	return New(locale,
		WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("spk_%d", n)
		}),
	)
}

func item(content string, names map[string]string) *entities.TranscriptItem {
	if names == nil {
		names = map[string]string{}
	}
	return &entities.TranscriptItem{ID: "item-1", Title: "t", Content: content, SpeakerNames: names}
}

const twoSpeakers = "A:\nhello\n\nB:\nworld\n"

func TestParseLines(t *testing.T) {
	long := strings.Repeat("x", MaxLabelLength) + ": tail"
	lines := ParseLines("MAREK: hi\nplain text\n  B :\n" + long + "\n:empty")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[0].Kind != LineLabel || lines[0].Label != "MAREK" || lines[0].Rest != "hi" {
		t.Fatalf("unexpected first line %+v", lines[0])
	}
	if lines[1].Kind != LineBody {
		t.Fatalf("plain text should be body")
	}
	if lines[2].Kind != LineLabel || lines[2].Label != "B" {
		t.Fatalf("padded label should be trimmed, got %+v", lines[2])
	}
	if lines[3].Kind != LineBody {
		t.Fatalf("caption of %d chars should not be a label", MaxLabelLength)
	}
	if lines[4].Kind != LineBody {
		t.Fatalf("empty label should not count")
	}
	if lines[1].Offset != len("MAREK: hi\n") {
		t.Fatalf("unexpected offset %d", lines[1].Offset)
	}
}

func TestAllSpeakers(t *testing.T) {
	tests := []struct {
		name string
		item *entities.TranscriptItem
		want []string
	}{
		{"implicit labels", item(twoSpeakers, nil), []string{"A", "B"}},
		{"mapped names are not implicit", item("MAREK:\nhi\n\nB:\nyo\n", map[string]string{"A": "MAREK"}), []string{"A", "B"}},
		{"names match labels by exact case", item("MAREK:\nhi\n", map[string]string{"spk_1": "Marek"}), []string{"MAREK", "spk_1"}},
		{"labels differing in case are distinct", item("A:\nx\n\na:\ny\n", nil), []string{"A", "a"}},
		{"empty value keeps key", item(twoSpeakers, map[string]string{"A": ""}), []string{"A", "B"}},
		{"long caption excluded", item(strings.Repeat("word ", 12)+":\nbody\n", nil), []string{}},
		{"sorted and deduplicated", item("Zed:\n1\nAda:\n2\nZed:\n3\n", map[string]string{"C": ""}), []string{"Ada", "C", "Zed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllSpeakers(tt.item)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestSpeakerName(t *testing.T) {
	pl := newTestEditor(language.Polish)
	en := newTestEditor(language.English)
	it := item("", map[string]string{"C": "Celina", "D": ""})

	cases := []struct {
		e    *Editor
		id   string
		want string
	}{
		{pl, "C", "Celina"},
		{pl, "A", "Rozmówca A"},
		{en, "B", "Speaker B"},
		{en, "D", "D"},
		{en, "GUEST", "GUEST"},
	}
	for _, c := range cases {
		if got := c.e.SpeakerName(it, c.id); got != c.want {
			t.Errorf("SpeakerName(%q) = %q want %q", c.id, got, c.want)
		}
	}
}

func TestOrdinalName(t *testing.T) {
	e := newTestEditor(language.English)
	if got := e.OrdinalName(0); got != "SPEAKER A" {
		t.Fatalf("got %q", got)
	}
	if got := e.OrdinalName(25); got != "SPEAKER Z" {
		t.Fatalf("got %q", got)
	}
	if got := e.OrdinalName(26); got != "SPEAKER AA" {
		t.Fatalf("got %q", got)
	}
	if got := newTestEditor(language.Polish).OrdinalName(1); got != "ROZMÓWCA B" {
		t.Fatalf("got %q", got)
	}
}

func TestRenameSpeaker(t *testing.T) {
	e := newTestEditor(language.English)
	it := item(twoSpeakers, map[string]string{"A": ""})

	id, name, err := e.RenameSpeaker(it, "A", "MAREK")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if id != "A" || name != "MAREK" {
		t.Fatalf("unexpected id/name %q %q", id, name)
	}
	if it.Content != "MAREK:\nhello\n\nB:\nworld\n" {
		t.Fatalf("unexpected content %q", it.Content)
	}
	if !reflect.DeepEqual(it.SpeakerNames, map[string]string{"A": "MAREK"}) {
		t.Fatalf("unexpected names %v", it.SpeakerNames)
	}
}

func TestRenameSpeakerOnlyTouchesLineStartLabels(t *testing.T) {
	e := newTestEditor(language.English)
	var b strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "Jan:\nturn %d mentions Jan: in passing\n\n", i)
	}
	b.WriteString("We met Jan: yesterday\nJanina:\nhello\n")
	it := item(b.String(), map[string]string{"J": "Jan"})

	if _, _, err := e.RenameSpeaker(it, "J", "KAROL"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if n := strings.Count(it.Content, "\nKAROL:\n") + boolToInt(strings.HasPrefix(it.Content, "KAROL:\n")); n != 5 {
		t.Fatalf("expected 5 relabelled turns, got %d in %q", n, it.Content)
	}
	if strings.Count(it.Content, "mentions Jan: in passing") != 5 {
		t.Fatalf("mid-sentence mentions must stay intact: %q", it.Content)
	}
	if !strings.Contains(it.Content, "We met Jan: yesterday") || !strings.Contains(it.Content, "Janina:") {
		t.Fatalf("unrelated labels changed: %q", it.Content)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestRenameSpeakerCollisionIsSuffixed(t *testing.T) {
	e := newTestEditor(language.English)
	it := item("Anna:\nx\n\nBob:\ny\n", map[string]string{"A": "Anna", "B": "Bob"})

	_, name, err := e.RenameSpeaker(it, "A", "bob")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if name != "bob_1" {
		t.Fatalf("expected suffixed name, got %q", name)
	}
	if it.SpeakerNames["A"] == it.SpeakerNames["B"] {
		t.Fatalf("speakers fused: %v", it.SpeakerNames)
	}
	if !reflect.DeepEqual(AllSpeakers(it), []string{"A", "B"}) {
		t.Fatalf("unexpected speakers %v", AllSpeakers(it))
	}

	_, name, err = e.RenameSpeaker(it, "A", "BOB")
	if err != nil {
		t.Fatalf("second rename failed: %v", err)
	}
	if name != "BOB_1" {
		t.Fatalf("renaming onto own suffixed name should keep it unique, got %q", name)
	}
}

func TestRewritesKeepCaseDistinctSpeakersApart(t *testing.T) {
	e := newTestEditor(language.English)
	const content = "A:\nx\n\na:\ny\n"

	it := item(content, nil)
	id, _, err := e.RenameSpeaker(it, "A", "MAREK")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if it.Content != "MAREK:\nx\n\na:\ny\n" {
		t.Fatalf("unexpected content %q", it.Content)
	}
	if !reflect.DeepEqual(AllSpeakers(it), []string{"a", id}) {
		t.Fatalf("unexpected speakers %v", AllSpeakers(it))
	}

	it = item(content, nil)
	if err := e.DeleteSpeaker(it, "a", true); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if it.Content != "A:\nx\n\ny\n" {
		t.Fatalf("unexpected content %q", it.Content)
	}

	it = item(content, nil)
	if err := e.MergeSpeakers(it, "a", "A"); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if it.Content != "A:\nx\n\nA:\ny\n" || !reflect.DeepEqual(AllSpeakers(it), []string{"A"}) {
		t.Fatalf("unexpected merge result %q %v", it.Content, AllSpeakers(it))
	}
}

func TestRenameImplicitSpeakerGetsSyntheticID(t *testing.T) {
	e := newTestEditor(language.English)
	it := item(twoSpeakers, nil)

	id, _, err := e.RenameSpeaker(it, "B", "Basia")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if id != "spk_1" || it.SpeakerNames["spk_1"] != "Basia" {
		t.Fatalf("expected synthetic id, got %q %v", id, it.SpeakerNames)
	}
	if !reflect.DeepEqual(AllSpeakers(it), []string{"A", "spk_1"}) {
		t.Fatalf("unexpected speakers %v", AllSpeakers(it))
	}
}

func TestRenameSpeakerErrors(t *testing.T) {
	e := newTestEditor(language.English)
	it := item(twoSpeakers, nil)
	if _, _, err := e.RenameSpeaker(it, "Z", "X"); !errors.Is(err, ErrSpeakerNotFound) {
		t.Fatalf("expected ErrSpeakerNotFound, got %v", err)
	}
	if _, _, err := e.RenameSpeaker(it, "A", "  "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, _, err := e.RenameSpeaker(it, "A", "a:b"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestDeleteSpeaker(t *testing.T) {
	e := newTestEditor(language.English)
	it := item("A:\nhello\n\nBob:\nworld\nBob: again\n", map[string]string{"B": "Bob"})

	if err := e.DeleteSpeaker(it, "B", false); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := e.DeleteSpeaker(it, "B", true); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if it.Content != "A:\nhello\n\nworld\nagain\n" {
		t.Fatalf("unexpected content %q", it.Content)
	}
	if _, ok := it.SpeakerNames["B"]; ok {
		t.Fatalf("speaker still mapped")
	}
	for _, s := range AllSpeakers(it) {
		if s == "B" || s == "Bob" {
			t.Fatalf("deleted speaker still reported: %v", AllSpeakers(it))
		}
	}
}

func TestMergeSpeakers(t *testing.T) {
	e := newTestEditor(language.English)
	it := item(twoSpeakers, nil)

	if err := e.MergeSpeakers(it, "B", "A"); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if it.Content != "A:\nhello\n\nA:\nworld\n" {
		t.Fatalf("unexpected content %q", it.Content)
	}
	if _, ok := it.SpeakerNames["B"]; ok {
		t.Fatalf("source still mapped")
	}
	if !reflect.DeepEqual(AllSpeakers(it), []string{"A"}) {
		t.Fatalf("unexpected speakers %v", AllSpeakers(it))
	}
	if err := e.MergeSpeakers(it, "A", "A"); !errors.Is(err, ErrInvalidMerge) {
		t.Fatalf("expected ErrInvalidMerge, got %v", err)
	}
}

func TestAddNewSpeakerDeduplicates(t *testing.T) {
	e := newTestEditor(language.English)
	it := item("", map[string]string{"x": "Marek"})

	id, name, cursor, err := e.AddNewSpeaker(it, " Marek ", nil, 0)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if name != "MAREK_1" || it.SpeakerNames[id] != "MAREK_1" {
		t.Fatalf("expected MAREK_1, got %q", name)
	}
	if cursor != nil || it.Content != "" {
		t.Fatalf("content must stay untouched without a position")
	}

	_, name, _, _ = e.AddNewSpeaker(it, "marek", nil, 0)
	if name != "MAREK_2" {
		t.Fatalf("expected MAREK_2, got %q", name)
	}
}

func TestInsertThenResolveListsSpeaker(t *testing.T) {
	e := newTestEditor(language.English)
	it := item("A:\nhi\n", nil)

	cursor, err := e.InsertAtCursor(it, "A", 6, 120)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if it.Content != "A:\nhi\n\n\nA:\n" {
		t.Fatalf("unexpected content %q", it.Content)
	}
	if cursor.Caret != 11 || cursor.ScrollTop != 120 {
		t.Fatalf("unexpected cursor %+v", cursor)
	}

	pos := 2
	id, name, c, err := e.AddNewSpeaker(it, "Ola", &pos, 0)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.HasPrefix(it.Content, "A:\n\nOLA:\n") || c.Caret != 2+len("\n\nOLA:\n") {
		t.Fatalf("unexpected splice %q %+v", it.Content, c)
	}
	found := false
	for _, s := range AllSpeakers(it) {
		if s == id {
			found = true
		}
		if s == name {
			t.Fatalf("inserted name reported as implicit speaker: %v", AllSpeakers(it))
		}
	}
	if !found {
		t.Fatalf("inserted speaker %q not listed: %v", id, AllSpeakers(it))
	}
}

func TestInsertAtCursorUsesRuneOffsets(t *testing.T) {
	e := newTestEditor(language.Polish)
	it := item("Zażółć:\ngęślą\n", nil)

	cursor, err := e.InsertAtCursor(it, "Zażółć", 6, 0)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !strings.HasPrefix(it.Content, "Zażółć\n\nZAŻÓŁĆ:\n:") {
		t.Fatalf("unexpected content %q", it.Content)
	}
	if cursor.Caret != 6+len([]rune("\n\nZAŻÓŁĆ:\n")) {
		t.Fatalf("unexpected caret %d", cursor.Caret)
	}
}

func TestCommitSpeakerMode(t *testing.T) {
	e := newTestEditor(language.English)
	it := item("A:\nhello\nmarek", nil)

	id, name, cursor, changed, err := e.CommitSpeakerMode(it, len([]rune(it.Content)), 0)
	if err != nil || !changed {
		t.Fatalf("commit failed: %v changed=%v", err, changed)
	}
	if name != "MAREK" || it.SpeakerNames[id] != "MAREK" {
		t.Fatalf("unexpected speaker %q %v", name, it.SpeakerNames)
	}
	if it.Content != "A:\nhello\nMAREK:\n" || cursor.Caret != len(it.Content) {
		t.Fatalf("unexpected result %q caret=%d", it.Content, cursor.Caret)
	}

	empty := item("hello\n", nil)
	_, _, _, changed, err = e.CommitSpeakerMode(empty, 6, 0)
	if err != nil || changed || empty.Content != "hello\n" {
		t.Fatalf("empty line must exit without mutation")
	}
}

func TestReduce(t *testing.T) {
	e := newTestEditor(language.English)
	original := item("", map[string]string{"A": "SPEAKER A", "B": "SPEAKER B"})
	original.Utterances = []entities.Utterance{{Speaker: "A", Text: "hi"}, {Speaker: "B", Text: "yo"}}

	out, err := e.Reduce(original, Action{Type: ActionRenameSpeaker, SpeakerID: "A", Name: "OLA"})
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	if out.Item.Content != "OLA:\nhi\n\nSPEAKER B:\nyo\n" {
		t.Fatalf("unexpected content %q", out.Item.Content)
	}
	if len(out.Item.Utterances) != 0 {
		t.Fatalf("utterances must be cleared once content is edited")
	}
	if len(original.Utterances) != 2 || original.SpeakerNames["A"] != "SPEAKER A" {
		t.Fatalf("input item was mutated")
	}
	if !out.Item.Date.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("date not refreshed: %v", out.Item.Date)
	}

	edited, err := e.Reduce(original, Action{Type: ActionEditContent, Content: "free text"})
	if err != nil || edited.Item.Content != "free text" || len(edited.Item.Utterances) != 0 {
		t.Fatalf("edit content failed: %v %+v", err, edited)
	}

	if _, err := e.Reduce(original, Action{Type: ActionRenameTitle, Title: "  "}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := e.Reduce(original, Action{Type: "NOPE"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestDisplayText(t *testing.T) {
	e := newTestEditor(language.Polish)
	it := item("stored", nil)
	if e.DisplayText(it) != "stored" {
		t.Fatalf("content should be used verbatim without utterances")
	}
	it.Utterances = []entities.Utterance{{Speaker: "A", Text: " hej "}}
	if got := e.DisplayText(it); got != "ROZMÓWCA A:\nhej\n" {
		t.Fatalf("unexpected render %q", got)
	}
}
