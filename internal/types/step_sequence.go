package types

// SequenceStep is one required action of an ordered incident-response drill.
type SequenceStep struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Action      string `json:"action" yaml:"action"`
	Description string `json:"description" yaml:"description"`
}

// StepSequence is the immutable ordered list of required actions for one
// procedural simulation type.
type StepSequence struct {
	ScenarioType string         `json:"scenario_type" yaml:"scenario_type"`
	Steps        []SequenceStep `json:"steps" yaml:"steps"`
}
