package taxonomy

import "strings"

// Canonical labels. The taxonomy is fixed: fifteen labels across three
// disjoint dimensions. Provider output and heuristic output both collapse
// onto this set.
const (
	// Format dimension
	LabelReaction      = "Reaction"
	LabelJuxtaposition = "Juxtaposition"
	LabelNarrative     = "Narrative"
	LabelDialogue      = "Dialogue"
	LabelAbsurdist     = "Absurdist Visual"

	// Cognitive dimension
	LabelWordplay     = "Wordplay"
	LabelMeta         = "Meta"
	LabelSubversion   = "Subversion"
	LabelExaggeration = "Exaggeration"
	LabelLiteral      = "Literal"

	// Emotional dimension
	LabelWholesome       = "Wholesome"
	LabelPlayful         = "Playful"
	LabelSarcastic       = "Sarcastic"
	LabelSelfDeprecating = "Self-Deprecating"
	LabelDark            = "Dark"
)

// FormatLabels lists the canonical format-dimension labels in display order.
var FormatLabels = []string{
	LabelReaction, LabelJuxtaposition, LabelNarrative, LabelDialogue, LabelAbsurdist,
}

// CognitiveLabels lists the canonical cognitive-dimension labels.
var CognitiveLabels = []string{
	LabelWordplay, LabelMeta, LabelSubversion, LabelExaggeration, LabelLiteral,
}

// EmotionalLabels lists the canonical emotional-dimension labels.
var EmotionalLabels = []string{
	LabelWholesome, LabelPlayful, LabelSarcastic, LabelSelfDeprecating, LabelDark,
}

// synonym pairs a lowercased free-text descriptor with its canonical label.
// The table is ordered so substring matching stays deterministic.
type synonym struct {
	key   string
	label string
}

var synonymTable = []synonym{
	{"reaction image", LabelReaction},
	{"reaction face", LabelReaction},
	{"relatable", LabelReaction},
	{"comparison", LabelJuxtaposition},
	{"side by side", LabelJuxtaposition},
	{"versus", LabelJuxtaposition},
	{"contrast", LabelJuxtaposition},
	{"storyline", LabelNarrative},
	{"story", LabelNarrative},
	{"comic", LabelNarrative},
	{"multi-panel", LabelNarrative},
	{"conversation", LabelDialogue},
	{"chat", LabelDialogue},
	{"text exchange", LabelDialogue},
	{"surreal", LabelAbsurdist},
	{"absurd", LabelAbsurdist},
	{"cursed", LabelAbsurdist},
	{"random", LabelAbsurdist},
	{"play on words", LabelWordplay},
	{"pun", LabelWordplay},
	{"double meaning", LabelWordplay},
	{"self-aware", LabelMeta},
	{"fourth wall", LabelMeta},
	{"meme about memes", LabelMeta},
	{"plot twist", LabelSubversion},
	{"twist", LabelSubversion},
	{"unexpected", LabelSubversion},
	{"anticlimax", LabelSubversion},
	{"hyperbole", LabelExaggeration},
	{"over the top", LabelExaggeration},
	{"overstatement", LabelExaggeration},
	{"deadpan", LabelLiteral},
	{"literal-minded", LabelLiteral},
	{"heartwarming", LabelWholesome},
	{"cute", LabelWholesome},
	{"feel-good", LabelWholesome},
	{"funny", LabelPlayful},
	{"silly", LabelPlayful},
	{"goofy", LabelPlayful},
	{"lighthearted", LabelPlayful},
	{"humorous", LabelPlayful},
	{"ironic", LabelSarcastic},
	{"irony", LabelSarcastic},
	{"snarky", LabelSarcastic},
	{"sardonic", LabelSarcastic},
	{"self-roast", LabelSelfDeprecating},
	{"self deprecating", LabelSelfDeprecating},
	{"self-own", LabelSelfDeprecating},
	{"dark humor", LabelDark},
	{"morbid", LabelDark},
	{"bleak", LabelDark},
	{"gallows humor", LabelDark},
}

// canonicalOrder is the full label set in dimension order, used for exact
// and substring matching against canonical names.
var canonicalOrder = func() []string {
	out := make([]string, 0, 15)
	out = append(out, FormatLabels...)
	out = append(out, CognitiveLabels...)
	out = append(out, EmotionalLabels...)
	return out
}()

// Normalize collapses a free-text label list onto the canonical taxonomy.
// Match order per label: exact case-insensitive, synonym lookup, substring
// containment against synonym keys, substring containment against canonical
// labels. Unmatched entries are dropped silently; order of first match is
// preserved and duplicates are removed. Normalizing an already-canonical
// list returns it unchanged.
func Normalize(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		canonical, ok := match(tag)
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out
}

func match(tag string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(tag))
	if needle == "" {
		return "", false
	}
	for _, label := range canonicalOrder {
		if needle == strings.ToLower(label) {
			return label, true
		}
	}
	for _, syn := range synonymTable {
		if needle == syn.key {
			return syn.label, true
		}
	}
	for _, syn := range synonymTable {
		if strings.Contains(needle, syn.key) {
			return syn.label, true
		}
	}
	for _, label := range canonicalOrder {
		if strings.Contains(needle, strings.ToLower(label)) {
			return label, true
		}
	}
	return "", false
}
