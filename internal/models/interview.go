package models

// Difficulty is the interview difficulty tier. It is chosen once on the
// setup screen and immutable for the lifetime of a session.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyCrisis       Difficulty = "crisis"
)

// Difficulties lists the selectable tiers in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyCrisis}
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyCrisis:
		return true
	}
	return false
}

// InterviewPhase is the coarse stage label describing where the conversation
// stands. The witness simulation reports the current phase on every turn and
// whatever valid phase it reports becomes current.
type InterviewPhase string

const (
	PhaseRapport       InterviewPhase = "rapport"
	PhaseProbing       InterviewPhase = "probing"
	PhaseConfrontation InterviewPhase = "confrontation"
	PhaseClosing       InterviewPhase = "closing"
)

// Valid reports whether p is a known phase enumerant.
func (p InterviewPhase) Valid() bool {
	switch p {
	case PhaseRapport, PhaseProbing, PhaseConfrontation, PhaseClosing:
		return true
	}
	return false
}

// RegulatoryExposure grades how exposed the scenario company is to its regulator.
type RegulatoryExposure string

const (
	ExposureLow    RegulatoryExposure = "low"
	ExposureMedium RegulatoryExposure = "medium"
	ExposureHigh   RegulatoryExposure = "high"
)

func (e RegulatoryExposure) Valid() bool {
	switch e {
	case ExposureLow, ExposureMedium, ExposureHigh:
		return true
	}
	return false
}

// Scenario is the immutable setting of one interview session. HiddenGroundTruth
// and KeyRiskNodes are known to the witness simulation and the final scoring
// but never shown to the interviewer.
type Scenario struct {
	InvestigationType   string             `json:"investigationType"`
	CompanyBackground   string             `json:"companyBackground"`
	Jurisdiction        string             `json:"jurisdiction"`
	RegulatoryExposure  RegulatoryExposure `json:"regulatoryExposure"`
	WitnessRole         string             `json:"witnessRole"`
	WitnessArchetype    string             `json:"witnessArchetype"`
	WitnessIntroduction string             `json:"witnessIntroduction"`
	DocumentUniverse    string             `json:"documentUniverse"`
	HiddenGroundTruth   string             `json:"hiddenGroundTruth"`
	KeyRiskNodes        []string           `json:"keyRiskNodes"`
}

// InternalState is the hidden simulation of the witness's psychological and
// legal condition. It is produced solely by the witness simulation; nothing in
// this codebase computes these numbers.
type InternalState struct {
	Truthfulness  int     `json:"truthfulness"`
	Stress        int     `json:"stress"`
	Defensiveness int     `json:"defensiveness"`
	Cooperation   int     `json:"cooperation"`
	Memory        int     `json:"memory"`
	Exposure      int     `json:"exposure"`
	LegalRisk     float64 `json:"legalRisk"`
}

// BaselineInternalState is the fixed starting condition of every witness.
func BaselineInternalState() InternalState {
	return InternalState{
		Truthfulness:  70,
		Stress:        10,
		Defensiveness: 20,
		Cooperation:   80,
		Memory:        90,
		Exposure:      5,
		LegalRisk:     0,
	}
}

// InBounds reports whether every attribute sits inside [0, 100].
func (s InternalState) InBounds() bool {
	for _, v := range []int{s.Truthfulness, s.Stress, s.Defensiveness, s.Cooperation, s.Memory, s.Exposure} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return s.LegalRisk >= 0 && s.LegalRisk <= 100
}

// MessageRole identifies the author of a transcript entry.
type MessageRole string

const (
	RoleUser    MessageRole = "user"
	RoleWitness MessageRole = "witness"
)

// Message is one ordered transcript entry. Witness messages carry the phase
// and a snapshot of the internal state that produced them; user messages
// leave both zero-valued. The snapshot lives on the message rather than in
// global state so the trajectory stays inspectable after the fact.
type Message struct {
	Role  MessageRole
	Text  string
	Phase InterviewPhase
	State *InternalState
}

// FinalReport is the terminal evaluation of a concluded interview. Scores are
// integers in [0, 100]; scoring is entirely delegated to the witness
// simulation's evaluator.
type FinalReport struct {
	TimelineScore         int      `json:"timelineScore"`
	ContradictionScore    int      `json:"contradictionScore"`
	RiskAwarenessScore    int      `json:"riskAwarenessScore"`
	InterviewControlScore int      `json:"interviewControlScore"`
	BehavioralAnalysis    string   `json:"behavioralAnalysis"`
	LegalExposureAnalysis string   `json:"legalExposureAnalysis"`
	MissedFollowUps       []string `json:"missedFollowUps"`
	ImprovedPaths         []string `json:"improvedPaths"`
}

// Scores lists the four scores in a fixed order for validation and display.
func (r FinalReport) Scores() []int {
	return []int{r.TimelineScore, r.ContradictionScore, r.RiskAwarenessScore, r.InterviewControlScore}
}
