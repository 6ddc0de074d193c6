package service

import "testing"

func TestValidateBusinessEmail(t *testing.T) {
	valid := []string{
		"jane.doe@acmecorp.com",
		"ops@nytro.io",
		"j@startup.dev",
	}
	for _, email := range valid {
		if err := validateBusinessEmail(email); err != nil {
			t.Fatalf("expected %q to be accepted: %v", email, err)
		}
	}

	invalid := []string{
		"jane@gmail.com",         // consumer provider
		"jane@mailinator.com",    // throwaway provider
		"jane@testcompany.com",   // fake domain prefix
		"jane@demo-site.org",     // fake domain prefix
		"info@acmecorp.com",      // generic mailbox
		"admin@acmecorp.com",     // generic mailbox
		"not-an-email",           // no domain
		"@acmecorp.com",          // empty local part
	}
	for _, email := range invalid {
		if err := validateBusinessEmail(email); err == nil {
			t.Fatalf("expected %q to be rejected", email)
		}
	}
}

func TestValidateBusinessEmailCaseInsensitive(t *testing.T) {
	if err := validateBusinessEmail("Jane@GMAIL.com"); err == nil {
		t.Fatal("expected provider check to ignore case")
	}
}
