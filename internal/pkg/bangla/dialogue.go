package bangla

import (
	"strings"
)

// DialogueMarker is the em-dash that opens a spoken line in Bengali prose
const DialogueMarker = "—"

// DefaultSpeechVerbs is the closed lexicon of dialogue-attribution verb
// forms that mark a line as spoken. Matching is exact substring containment
// on the trimmed line; no stemming, no regex.
var DefaultSpeechVerbs = []string{
	"বলল",        // said
	"বললেন",      // said (honorific)
	"বলছি",       // am saying
	"জিজ্ঞেস করল", // asked
}

// DialogueFormatter rewrites lines that look like spoken dialogue into the
// dialogue-dash convention of Bengali typesetting.
//
// This is a heuristic, not a parser: a line containing a colon for an
// unrelated reason still gets dashed, and that is acceptable. Lines that
// already start with the marker are never dashed twice, so re-running the
// formatter over formatted text is a no-op.
type DialogueFormatter struct {
	verbs []string
}

// NewDialogueFormatter creates a formatter with the default verb lexicon
func NewDialogueFormatter() *DialogueFormatter {
	return &DialogueFormatter{verbs: DefaultSpeechVerbs}
}

// NewDialogueFormatterWithVerbs creates a formatter with a custom lexicon
func NewDialogueFormatterWithVerbs(verbs []string) *DialogueFormatter {
	return &DialogueFormatter{verbs: verbs}
}

// Format rewrites candidate lines to "— " + trimmed content. Non-candidate
// lines, including blank ones, pass through byte-for-byte. The line count
// of the output always equals the input's.
func (f *DialogueFormatter) Format(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if f.isCandidate(trimmed) {
			// Candidate lines lose their original indentation
			lines[i] = DialogueMarker + " " + trimmed
		}
	}
	return strings.Join(lines, "\n")
}

func (f *DialogueFormatter) isCandidate(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, DialogueMarker) {
		return false
	}
	if strings.Contains(trimmed, ":") {
		return true
	}
	for _, verb := range f.verbs {
		if strings.Contains(trimmed, verb) {
			return true
		}
	}
	return false
}
