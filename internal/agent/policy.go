package agent

// PolicyInput is everything the policy engine is allowed to see.
type PolicyInput struct {
	Intent           Intent
	HasCitations     bool
	HasFactualClaims bool
	KBResultsCount   int
}

type PolicyDecision struct {
	Allow              bool   `json:"allow"`
	Reason             string `json:"reason,omitempty"`
	RequireCitations   bool   `json:"require_citations"`
	RequireLeadCapture bool   `json:"require_lead_capture"`
	UseFallback        bool   `json:"use_fallback"`
}

// EvaluatePolicy is a pure decision function. Any answer classified as
// factual must be backed by at least one retrieved passage, otherwise
// the caller substitutes the fallback message instead of an answer.
func EvaluatePolicy(in PolicyInput) PolicyDecision {
	requireLeadCapture := in.Intent == IntentBuyerLead || in.Intent == IntentSellerLead
	requireCitations := in.HasFactualClaims

	if requireCitations && !in.HasCitations {
		return PolicyDecision{
			Allow:              false,
			Reason:             "Factual response requires citations.",
			RequireCitations:   requireCitations,
			RequireLeadCapture: requireLeadCapture,
			UseFallback:        true,
		}
	}
	if in.HasFactualClaims && in.KBResultsCount == 0 {
		return PolicyDecision{
			Allow:              false,
			Reason:             "No supporting KB evidence found.",
			RequireCitations:   requireCitations,
			RequireLeadCapture: requireLeadCapture,
			UseFallback:        true,
		}
	}
	return PolicyDecision{
		Allow:              true,
		RequireCitations:   requireCitations,
		RequireLeadCapture: requireLeadCapture,
	}
}
