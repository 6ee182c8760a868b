package domain

// AfterglowPhase is a step of the closing sequence.
type AfterglowPhase string

const (
	PhaseNone        AfterglowPhase = ""
	PhaseIntro       AfterglowPhase = "intro"
	PhasePrompt      AfterglowPhase = "prompt"
	PhaseAffirmation AfterglowPhase = "affirmation"
)

// AfterglowPhases lists the phases in display order. The last one is terminal.
var AfterglowPhases = []AfterglowPhase{PhaseIntro, PhasePrompt, PhaseAffirmation}

// Index returns the position of the phase, or -1.
func (p AfterglowPhase) Index() int {
	for i, phase := range AfterglowPhases {
		if phase == p {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the phase holds until dismissal.
func (p AfterglowPhase) IsTerminal() bool {
	return p.Index() == len(AfterglowPhases)-1
}

// Headline returns the copy shown for the phase.
func (p AfterglowPhase) Headline() string {
	switch p {
	case PhaseIntro:
		return "Session Complete"
	case PhasePrompt:
		return "Feel lighter?"
	case PhaseAffirmation:
		return "✓"
	default:
		return ""
	}
}
