package agent

import "testing"

func TestEvaluatePolicy(t *testing.T) {
	tests := []struct {
		name string
		in   PolicyInput
		want PolicyDecision
	}{
		{
			name: "factual claim without citations falls back",
			in:   PolicyInput{Intent: IntentFAQ, HasFactualClaims: true, HasCitations: false, KBResultsCount: 2},
			want: PolicyDecision{Allow: false, Reason: "Factual response requires citations.", RequireCitations: true, UseFallback: true},
		},
		{
			name: "factual claim without kb evidence falls back",
			in:   PolicyInput{Intent: IntentListingQuestion, HasFactualClaims: true, HasCitations: true, KBResultsCount: 0},
			want: PolicyDecision{Allow: false, Reason: "No supporting KB evidence found.", RequireCitations: true, UseFallback: true},
		},
		{
			name: "factual claim with evidence allowed",
			in:   PolicyInput{Intent: IntentFAQ, HasFactualClaims: true, HasCitations: true, KBResultsCount: 3},
			want: PolicyDecision{Allow: true, RequireCitations: true},
		},
		{
			name: "buyer intent requires lead capture",
			in:   PolicyInput{Intent: IntentBuyerLead},
			want: PolicyDecision{Allow: true, RequireLeadCapture: true},
		},
		{
			name: "seller intent requires lead capture",
			in:   PolicyInput{Intent: IntentSellerLead},
			want: PolicyDecision{Allow: true, RequireLeadCapture: true},
		},
		{
			name: "lead capture survives fallback",
			in:   PolicyInput{Intent: IntentBuyerLead, HasFactualClaims: true, HasCitations: false},
			want: PolicyDecision{Allow: false, Reason: "Factual response requires citations.", RequireCitations: true, RequireLeadCapture: true, UseFallback: true},
		},
		{
			name: "other intent passes through",
			in:   PolicyInput{Intent: IntentOther},
			want: PolicyDecision{Allow: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluatePolicy(tt.in)
			if got != tt.want {
				t.Errorf("EvaluatePolicy(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEvaluatePolicy_Pure(t *testing.T) {
	in := PolicyInput{Intent: IntentBuyerLead, HasFactualClaims: true, HasCitations: true, KBResultsCount: 1}
	first := EvaluatePolicy(in)
	second := EvaluatePolicy(in)
	if first != second {
		t.Errorf("same input produced different decisions: %+v vs %+v", first, second)
	}
}
