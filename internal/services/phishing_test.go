package services

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/cyberdrill-backend/internal/types"
)

func TestClickLikelihood(t *testing.T) {
	t.Run("no_triggers_uses_click_rate", func(t *testing.T) {
		p := types.NewDefaultProfile(uuid.New())
		p.ClickRate = 0.42
		if got := ClickLikelihood(p, nil); got != 0.42 {
			t.Fatalf("ClickLikelihood=%v, want 0.42", got)
		}
	})

	t.Run("weights_susceptibility_and_click_rate", func(t *testing.T) {
		p := types.NewDefaultProfile(uuid.New())
		p.UrgencySusceptibility = 1.0
		p.ClickRate = 0.0
		got := ClickLikelihood(p, []types.Trigger{types.TriggerUrgency})
		if math.Abs(got-0.7) > 1e-9 {
			t.Fatalf("ClickLikelihood=%v, want 0.7", got)
		}
	})

	t.Run("averages_across_triggers", func(t *testing.T) {
		p := types.NewDefaultProfile(uuid.New())
		p.UrgencySusceptibility = 1.0
		p.TrustSusceptibility = 0.0
		p.ClickRate = 0.5
		got := ClickLikelihood(p, []types.Trigger{types.TriggerUrgency, types.TriggerTrust})
		// 0.7*0.5 + 0.3*0.5
		if math.Abs(got-0.5) > 1e-9 {
			t.Fatalf("ClickLikelihood=%v, want 0.5", got)
		}
	})
}
