package conditionals

import (
	"testing"

	"github.com/ewhitmore/focal/internal/models"
)

func TestParseOutcomeSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    models.Outcome
		wantErr bool
	}{
		{
			name: "activate",
			spec: "success:activate:Visa approved",
			want: models.Outcome{ID: "o1", Type: models.OutcomeSuccess, Action: models.ActionActivate, Label: "Visa approved"},
		},
		{
			name: "postpone with days",
			spec: "delayed:postpone:14:Decision pushed back",
			want: models.Outcome{ID: "o1", Type: models.OutcomeDelayed, Action: models.ActionPostpone, PostponeDays: 14, Label: "Decision pushed back"},
		},
		{
			name: "switch fallback",
			spec: "failed:switch_fallback:Plan B",
			want: models.Outcome{ID: "o1", Type: models.OutcomeFailed, Action: models.ActionSwitchFallback, Label: "Plan B"},
		},
		{
			name: "label keeps embedded colons",
			spec: "success:activate:Deadline: 17:00 sharp",
			want: models.Outcome{ID: "o1", Type: models.OutcomeSuccess, Action: models.ActionActivate, Label: "Deadline: 17:00 sharp"},
		},
		{name: "too few parts", spec: "success:activate", wantErr: true},
		{name: "postpone missing days", spec: "delayed:postpone:Waiting", wantErr: true},
		{name: "postpone zero days", spec: "delayed:postpone:0:Waiting", wantErr: true},
		{name: "postpone garbage days", spec: "delayed:postpone:soon:Waiting", wantErr: true},
		{name: "empty label", spec: "success:activate:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOutcomeSpec(1, tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOutcomeSpec(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseOutcomeSpec(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseOutcomeSpecNumbersIDs(t *testing.T) {
	a, err := parseOutcomeSpec(1, "success:activate:Yes")
	if err != nil {
		t.Fatal(err)
	}
	b, err := parseOutcomeSpec(2, "failed:switch_fallback:No")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "o1" || b.ID != "o2" {
		t.Errorf("ids = %s, %s", a.ID, b.ID)
	}
}
