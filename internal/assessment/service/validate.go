package service

import (
	"regexp"
	"strings"

	"nytro_assessment_backend/platform/apperr"
)

// blockedProviders are consumer and throwaway email domains rejected on
// submit to keep lead quality up.
var blockedProviders = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "hotmail.com": true, "outlook.com": true,
	"live.com": true, "aol.com": true, "icloud.com": true, "me.com": true,
	"mac.com": true, "protonmail.com": true, "tutanota.com": true, "yandex.com": true,
	"mail.ru": true, "gmx.com": true, "web.de": true, "zoho.com": true,
	"fastmail.com": true, "hey.com": true, "temp-mail.org": true, "10minutemail.com": true,
	"guerrillamail.com": true, "mailinator.com": true, "throwaway.email": true,
	"tempmail.net": true, "example.com": true, "test.com": true, "demo.com": true,
	"sample.com": true, "fake.com": true, "noreply.com": true, "no-reply.com": true,
}

var fakeDomainPattern = regexp.MustCompile(`^(test|demo|sample|fake|temp|temporary|example|dummy|placeholder|your|company)`)

var genericLocalParts = map[string]bool{
	"test": true, "demo": true, "sample": true, "fake": true, "temp": true,
	"temporary": true, "example": true, "dummy": true, "placeholder": true,
	"your": true, "company": true, "business": true, "admin": true,
	"info": true, "contact": true, "hello": true, "hi": true,
	"user": true, "guest": true, "visitor": true,
}

// validateBusinessEmail rejects consumer providers, obviously fake domains,
// and generic mailbox names. Format validation happens earlier via the
// request validator.
func validateBusinessEmail(email string) error {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(email)), "@", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return apperr.BadRequest("please enter a valid email address")
	}
	localPart, domain := parts[0], parts[1]

	if blockedProviders[domain] {
		return apperr.BadRequest("please use your company email address instead of a personal email provider")
	}

	if fakeDomainPattern.MatchString(domain) {
		return apperr.BadRequest("please use a real company email address")
	}

	if genericLocalParts[localPart] {
		return apperr.BadRequest("please use your actual name or a professional email address")
	}

	return nil
}
