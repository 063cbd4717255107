package agent

import "strings"

type Intent string

const (
	IntentBuyerLead       Intent = "BUYER_LEAD"
	IntentSellerLead      Intent = "SELLER_LEAD"
	IntentListingQuestion Intent = "LISTING_QUESTION"
	IntentFAQ             Intent = "FAQ"
	IntentOther           Intent = "OTHER"
)

type RouteResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Keyword tables are data, not code, so the classification stays
// auditable. Evaluated in priority order; confidences are fixed
// constants reflecting the specificity of each category.
var (
	buyerTerms   = []string{"buy", "buyer", "mortgage", "pre-approval"}
	sellerTerms  = []string{"sell", "listing my home", "list my house", "home value"}
	listingTerms = []string{"listing", "bedroom", "bathroom", "sqft", "hoa"}
	faqTerms     = []string{"hours", "where", "what is", "do you offer", "how much"}
)

func includesAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// RouteIntent classifies a message into a coarse intent category.
func RouteIntent(message string) RouteResult {
	normalized := strings.ToLower(message)

	if includesAny(normalized, buyerTerms) {
		return RouteResult{Intent: IntentBuyerLead, Confidence: 0.86, Rationale: "Buyer keywords detected."}
	}
	if includesAny(normalized, sellerTerms) {
		return RouteResult{Intent: IntentSellerLead, Confidence: 0.86, Rationale: "Seller keywords detected."}
	}
	if includesAny(normalized, listingTerms) {
		return RouteResult{Intent: IntentListingQuestion, Confidence: 0.80, Rationale: "Listing-specific property terms detected."}
	}
	if includesAny(normalized, faqTerms) {
		return RouteResult{Intent: IntentFAQ, Confidence: 0.72, Rationale: "General FAQ style phrasing detected."}
	}
	return RouteResult{Intent: IntentOther, Confidence: 0.50, Rationale: "No specific intent keywords detected."}
}
