package types

import (
	"reflect"
	"strings"
	"testing"
)

// IDs and timestamps are assigned from Go, never by database functions:
// sqlite (the DB_DRIVER=sqlite local mode) rejects DDL containing
// uuid_generate_v4() or now() defaults outright.
func TestModelTagsCarryNoDatabaseFunctionDefaults(t *testing.T) {
	models := []interface{}{
		User{},
		UserToken{},
		BehaviorEvent{},
		BehaviorProfile{},
		TrainingScenario{},
		ScenarioProgress{},
		DecisionOutcome{},
		SimulationRun{},
		SimulationStepRecord{},
		PhishingEmail{},
	}
	for _, m := range models {
		rt := reflect.TypeOf(m)
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			tag := field.Tag.Get("gorm")
			if strings.Contains(tag, "uuid_generate_v4") || strings.Contains(tag, "now()") || strings.Contains(tag, "gen_random_uuid") {
				t.Fatalf("%s.%s gorm tag %q uses a database function default", rt.Name(), field.Name, tag)
			}
		}
	}
}
