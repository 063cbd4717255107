package skills

// IntegrationStub is a declared-but-unimplemented integration skill.
// Stubs are listed for discovery but are not executable through the
// registry.
type IntegrationStub struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

func IntegrationStubs() []IntegrationStub {
	return []IntegrationStub{
		{Name: "integrations.mls.searchListings", Status: "stub", Description: "Placeholder for MLS search integration."},
		{Name: "integrations.crm.pushLead", Status: "stub", Description: "Placeholder for CRM lead sync integration."},
		{Name: "integrations.sms.send", Status: "stub", Description: "Placeholder for SMS messaging integration."},
	}
}
