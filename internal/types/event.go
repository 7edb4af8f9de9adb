package types

import (
	"fmt"
	"strings"
)

// EventKind is the closed set of user reactions the engine records. Unknown
// kinds are rejected at the boundary instead of becoming new behavior.
type EventKind string

const (
	EventClick      EventKind = "click"
	EventReport     EventKind = "report"
	EventIgnore     EventKind = "ignore"
	EventHesitate   EventKind = "hesitate"
	EventStepAction EventKind = "step_action"
	EventDecision   EventKind = "decision"
)

func ParseEventKind(raw string) (EventKind, error) {
	switch EventKind(strings.TrimSpace(strings.ToLower(raw))) {
	case EventClick:
		return EventClick, nil
	case EventReport:
		return EventReport, nil
	case EventIgnore:
		return EventIgnore, nil
	case EventHesitate:
		return EventHesitate, nil
	case EventStepAction:
		return EventStepAction, nil
	case EventDecision:
		return EventDecision, nil
	}
	return "", fmt.Errorf("unknown event kind %q", raw)
}

// Trigger is a psychological pressure tag attached to a simulated stimulus.
type Trigger string

const (
	TriggerUrgency   Trigger = "urgency"
	TriggerAuthority Trigger = "authority"
	TriggerCuriosity Trigger = "curiosity"
	TriggerFear      Trigger = "fear"
	TriggerTrust     Trigger = "trust"
)

// AllTriggers is the fixed tag order used for tie-breaking in insights.
var AllTriggers = []Trigger{
	TriggerUrgency,
	TriggerAuthority,
	TriggerCuriosity,
	TriggerFear,
	TriggerTrust,
}

func ParseTrigger(raw string) (Trigger, error) {
	t := Trigger(strings.TrimSpace(strings.ToLower(raw)))
	for _, known := range AllTriggers {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown trigger %q", raw)
}

func ParseTriggers(raw []string) ([]Trigger, error) {
	out := make([]Trigger, 0, len(raw))
	seen := map[Trigger]bool{}
	for _, r := range raw {
		t, err := ParseTrigger(r)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
