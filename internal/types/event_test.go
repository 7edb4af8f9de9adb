package types

import "testing"

func TestParseEventKind(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    EventKind
		wantErr bool
	}{
		{name: "click", raw: "click", want: EventClick},
		{name: "report_uppercase", raw: "REPORT", want: EventReport},
		{name: "hesitate_padded", raw: "  hesitate ", want: EventHesitate},
		{name: "step_action", raw: "step_action", want: EventStepAction},
		{name: "unknown", raw: "double_click", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseEventKind(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseEventKind(%q) succeeded, want error", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEventKind(%q) error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("ParseEventKind(%q)=%q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseTriggers(t *testing.T) {
	got, err := ParseTriggers([]string{"urgency", "URGENCY", " trust "})
	if err != nil {
		t.Fatalf("ParseTriggers error: %v", err)
	}
	if len(got) != 2 || got[0] != TriggerUrgency || got[1] != TriggerTrust {
		t.Fatalf("ParseTriggers=%v, want deduplicated [urgency trust]", got)
	}

	if _, err := ParseTriggers([]string{"greed"}); err == nil {
		t.Fatalf("ParseTriggers accepted unknown tag, want error")
	}
}
