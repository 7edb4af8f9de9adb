package content

import "testing"

func TestLoadLibrary(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(lib.Scenarios) == 0 {
		t.Fatalf("Load() returned no scenarios")
	}
	for _, s := range lib.Scenarios {
		if err := s.Graph.Validate(); err != nil {
			t.Fatalf("scenario %q invalid: %v", s.Title, err)
		}
	}
}

func TestDefaultSequences(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	for _, scenarioType := range []string{"crypto_locker", "file_encrypt"} {
		if !lib.HasSequence(scenarioType) {
			t.Fatalf("HasSequence(%q)=false, want true", scenarioType)
		}
		seq := lib.Sequence(scenarioType)
		if len(seq.Steps) != 8 {
			t.Fatalf("sequence %q has %d steps, want 8", scenarioType, len(seq.Steps))
		}
		for i, step := range seq.Steps {
			if step.ID != i+1 {
				t.Fatalf("sequence %q step %d has id %d, want %d", scenarioType, i, step.ID, i+1)
			}
		}
	}

	crypto := lib.Sequence("crypto_locker")
	if crypto.Steps[0].Action != "disconnect_network" {
		t.Fatalf("crypto_locker first action=%q, want disconnect_network", crypto.Steps[0].Action)
	}
	if crypto.Steps[7].Action != "report_incident" {
		t.Fatalf("crypto_locker last action=%q, want report_incident", crypto.Steps[7].Action)
	}
}

func TestSequenceFallsBackToCryptoLocker(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	seq := lib.Sequence("never_authored")
	if seq.ScenarioType != "crypto_locker" {
		t.Fatalf("Sequence fallback=%q, want crypto_locker", seq.ScenarioType)
	}
}

func TestFallbackPhishingTemplateClamps(t *testing.T) {
	cases := []struct {
		name       string
		difficulty int
		want       int
	}{
		{name: "below_range", difficulty: 0, want: 1},
		{name: "in_range", difficulty: 3, want: 3},
		{name: "above_range", difficulty: 9, want: 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FallbackPhishingTemplate(tc.difficulty)
			if got.Subject != phishingTemplates[tc.want].Subject {
				t.Fatalf("FallbackPhishingTemplate(%d).Subject=%q, want template %d", tc.difficulty, got.Subject, tc.want)
			}
			if got.Subject == "" || got.Sender == "" || got.Content == "" {
				t.Fatalf("template %d missing required fields", tc.want)
			}
		})
	}
}
