package ai

// Persona a named generation style preset for the writing assistant
type Persona string

const (
	PersonaClassic  Persona = "classic"  // measured literary prose
	PersonaThriller Persona = "thriller" // tense, fast-paced narration
	PersonaDialogue Persona = "dialogue" // conversation-heavy scenes
	PersonaBold     Persona = "bold"     // mature themes, 18+
)

// String returns the persona name
func (p Persona) String() string {
	return string(p)
}

// IsValid reports whether p names a known persona
func (p Persona) IsValid() bool {
	switch p {
	case PersonaClassic, PersonaThriller, PersonaDialogue, PersonaBold:
		return true
	}
	return false
}

// Available reports whether the persona may be selected under the current
// content-filter setting. Bold requires the relaxed filter.
func (p Persona) Available(contentFilterRelaxed bool) bool {
	if p == PersonaBold {
		return contentFilterRelaxed
	}
	return p.IsValid()
}

// Personas lists every persona selectable under the given filter setting
func Personas(contentFilterRelaxed bool) []Persona {
	all := []Persona{PersonaClassic, PersonaThriller, PersonaDialogue, PersonaBold}
	out := make([]Persona, 0, len(all))
	for _, p := range all {
		if p.Available(contentFilterRelaxed) {
			out = append(out, p)
		}
	}
	return out
}

// styleInstruction returns the persona-specific slice of the system prompt
func (p Persona) styleInstruction() string {
	switch p {
	case PersonaThriller:
		return "Write tense, fast-paced scenes. Short sentences, rising stakes, cliff edges."
	case PersonaDialogue:
		return "Favor dialogue over narration. Open spoken lines with the Bengali dialogue dash (—)."
	case PersonaBold:
		return "You may explore mature themes, complex human emotions, and intense drama suitable for adult readers (18+), while keeping literary quality."
	default:
		return "Write measured literary prose in the tradition of classic Bengali fiction."
	}
}
