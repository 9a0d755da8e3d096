package taxonomy

import (
	"fmt"
	"strings"
)

// Classification holds the per-dimension labels picked by the heuristic
// classifier. Each slice keeps insertion order and is capped at two labels.
type Classification struct {
	Format    []string
	Cognitive []string
	Emotional []string
}

// cueRule maps a set of substring cues to a canonical label. Rules are
// checked in table order; the first cue hit selects the label.
type cueRule struct {
	label string
	cues  []string
}

var formatRules = []cueRule{
	{LabelReaction, []string{"when ", "me when", "my face", "that moment", "mfw", "tfw", "my reaction", "reacting", "pov:"}},
	{LabelJuxtaposition, []string{" vs ", " vs.", "versus", "compared to", "comparison", "before and after", "expectation", "reality:"}},
	{LabelNarrative, []string{"story", "chapter", "episode", "part 1", "part 2", "saga", "timeline", "day 1", "the journey"}},
	{LabelDialogue, []string{"said", "says", "replies", "texted", "texts", "interviewer", "conversation", "nobody:", "no one:"}},
	{LabelAbsurdist, []string{"absurd", "surreal", "cursed", "fever dream", "dream", "chaos", "random", "why does", "what is happening"}},
}

// formatKeywords is the secondary single-keyword pass used when no format
// rule fires on the title or URL.
var formatKeywords = []cueRule{
	{LabelReaction, []string{"face", "react"}},
	{LabelJuxtaposition, []string{"vs"}},
	{LabelNarrative, []string{"comic", "panel"}},
	{LabelDialogue, []string{"chat", "text"}},
}

var cognitiveRules = []cueRule{
	{LabelWordplay, []string{"pun", "wordplay", "literally called", "play on words", "rhyme"}},
	{LabelMeta, []string{"meme about", "meta", "fourth wall", "this template", "this format", "the algorithm"}},
	{LabelSubversion, []string{"plot twist", "twist", "unexpected", "surprise", "didn't see", "did not see", "turns out"}},
	{LabelExaggeration, []string{"always", "never", "every time", "every single", "literally dying", "a million", "1000", "100%", "the entire"}},
	{LabelLiteral, []string{"how to", "why ", "explained", "technically", "actually"}},
}

var emotionalRules = []cueRule{
	{LabelWholesome, []string{"wholesome", "heartwarming", "faith in humanity", "love", "♥", "❤", "adorable"}},
	{LabelPlayful, []string{"lol", "lmao", "haha", "funny", "silly", "goofy", "shenanigans"}},
	{LabelSarcastic, []string{"yeah right", "sure buddy", "totally", "obviously", "thanks, i", "oh great"}},
	{LabelSelfDeprecating, []string{"me when i", "i'm the problem", "my fault", "why am i like", "i did this to myself"}},
	{LabelDark, []string{"dead inside", "doom", "despair", "suffering", "existential", "the void", "no hope"}},
}

// wholesomeCues decide the emotional default when nothing else fires.
var wholesomeCues = []string{"heart", "wholesome", "♥", "❤"}

const maxLabelsPerDimension = 2

// Classify runs the deterministic heuristic classifier over a meme title
// and image URL. It is pure: identical input always yields identical output,
// which makes it both the last-resort fallback and the non-AI baseline.
func Classify(title, imageURL string) Classification {
	loweredTitle := strings.ToLower(title)
	loweredURL := strings.ToLower(imageURL)

	return Classification{
		Format:    pickFormat(loweredTitle, loweredURL),
		Cognitive: pickCognitive(loweredTitle),
		Emotional: pickEmotional(loweredTitle),
	}
}

func pickFormat(title, url string) []string {
	haystack := title + " " + url
	picked := applyRules(formatRules, haystack, nil)

	// Dense quoted speech reads as dialogue even without explicit markers.
	if strings.Count(title, `"`)+strings.Count(title, "“")+strings.Count(title, "”") >= 4 {
		picked = appendLabel(picked, LabelDialogue)
	}

	if len(picked) == 0 {
		picked = applyRules(formatKeywords, haystack, picked)
	}
	if len(picked) == 0 {
		picked = []string{LabelAbsurdist}
	}
	return capLabels(picked)
}

func pickCognitive(title string) []string {
	picked := applyRules(cognitiveRules[:4], title, nil)
	if len(picked) == 0 {
		// Explanatory phrasing only counts when no sharper cue matched.
		picked = applyRules(cognitiveRules[4:], title, nil)
	}
	if len(picked) == 0 {
		picked = []string{LabelLiteral}
	}
	return capLabels(picked)
}

func pickEmotional(title string) []string {
	picked := applyRules(emotionalRules, title, nil)
	if len(picked) == 0 {
		if containsAny(title, wholesomeCues) {
			picked = []string{LabelWholesome}
		} else {
			picked = []string{LabelPlayful}
		}
	}
	return capLabels(picked)
}

func applyRules(rules []cueRule, haystack string, picked []string) []string {
	for _, rule := range rules {
		if containsAny(haystack, rule.cues) {
			picked = appendLabel(picked, rule.label)
		}
	}
	return picked
}

func containsAny(haystack string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(haystack, cue) {
			return true
		}
	}
	return false
}

func appendLabel(labels []string, label string) []string {
	for _, existing := range labels {
		if existing == label {
			return labels
		}
	}
	return append(labels, label)
}

func capLabels(labels []string) []string {
	if len(labels) > maxLabelsPerDimension {
		return labels[:maxLabelsPerDimension]
	}
	return labels
}

// phrases maps each canonical label to the descriptive clause used when
// synthesizing a summary sentence.
var phrases = map[string]string{
	LabelReaction:        "a reaction-image setup",
	LabelJuxtaposition:   "a side-by-side contrast",
	LabelNarrative:       "a mini storyline",
	LabelDialogue:        "a back-and-forth exchange",
	LabelAbsurdist:       "an absurdist visual",
	LabelWordplay:        "a wordplay twist",
	LabelMeta:            "a meta wink at the format",
	LabelSubversion:      "a last-second subversion",
	LabelExaggeration:    "an over-the-top exaggeration",
	LabelLiteral:         "a painfully literal read",
	LabelWholesome:       "a wholesome glow",
	LabelPlayful:         "a playful mood",
	LabelSarcastic:       "a sarcastic bite",
	LabelSelfDeprecating: "a self-deprecating shrug",
	LabelDark:            "a dark undercurrent",
}

// Summarize builds a one-sentence summary from the classification, using the
// quoted title as subject. Clause joining uses an Oxford comma for three or
// more clauses and "X and Y" for two. With no labels at all the generic
// quick-laugh sentence is returned.
func Summarize(title string, c Classification) string {
	subject := "This meme"
	if title != "" {
		subject = fmt.Sprintf("“%s”", title)
	}

	clauses := make([]string, 0, 3)
	for _, labels := range [][]string{c.Format, c.Cognitive, c.Emotional} {
		if len(labels) > 0 {
			if phrase, ok := phrases[labels[0]]; ok {
				clauses = append(clauses, phrase)
			}
		}
	}

	if len(clauses) == 0 {
		return subject + " delivers a quick laugh."
	}
	return subject + " leans on " + joinClauses(clauses) + "."
}

// Tags flattens a classification into the tag list shown to callers: the
// first label of each dimension in format, cognitive, emotional order.
func Tags(c Classification) []string {
	tags := make([]string, 0, 3)
	for _, labels := range [][]string{c.Format, c.Cognitive, c.Emotional} {
		if len(labels) > 0 {
			tags = appendLabel(tags, labels[0])
		}
	}
	return tags
}

func joinClauses(clauses []string) string {
	switch len(clauses) {
	case 1:
		return clauses[0]
	case 2:
		return clauses[0] + " and " + clauses[1]
	default:
		return strings.Join(clauses[:len(clauses)-1], ", ") + ", and " + clauses[len(clauses)-1]
	}
}
