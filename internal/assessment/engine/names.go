package engine

var moduleDisplayNames = map[ModuleKey]string{
	ModuleInbound:  "Inbound Marketing",
	ModuleOutbound: "Outbound Sales",
	ModuleContent:  "Content Marketing",
	ModulePaid:     "Paid Advertising",
	ModuleNurture:  "Lead Nurturing",
	ModuleInfra:    "Marketing Infrastructure",
	ModuleAttr:     "Attribution & Analytics",
}

var leverDisplayNames = map[ModuleKey]map[LeverKey]string{
	ModuleInbound: {
		"seo":         "SEO & Content Marketing",
		"leadMagnets": "Lead Magnets",
		"webinars":    "Webinars & Events",
	},
	ModuleOutbound: {
		"sequences":      "Cold Email Campaigns",
		"deliverability": "Email Deliverability",
		"linkedin":       "LinkedIn Outreach",
		"phone":          "Phone Outreach",
	},
	ModuleContent: {
		"blog":         "Blog & SEO Content",
		"caseStudies":  "Case Studies & Success Stories",
		"moFuAssets":   "Middle-of-Funnel Content",
		"boFuAssets":   "Bottom-of-Funnel Content",
		"distribution": "Content Distribution",
	},
	ModulePaid: {
		"ppc":             "Google & Bing Ads",
		"linkedinLeadGen": "LinkedIn Lead Generation",
		"retargeting":     "Retargeting Campaigns",
		"socialAds":       "Social Media Ads",
		"abm":             "Account-Based Marketing",
	},
	ModuleNurture: {
		"drip":            "Email Sequences",
		"scoringTriggers": "Lead Scoring",
		"intentSignals":   "Intent Signals",
		"reactivation":    "Lead Reactivation",
	},
	ModuleInfra: {
		"crm":                 "CRM System",
		"marketingAutomation": "Marketing Automation",
		"enrichment":          "Data Enrichment",
		"realtimeSync":        "Real-time Data Sync",
	},
	ModuleAttr: {
		"multiTouch":  "Multi-touch Attribution",
		"dashboards":  "Analytics Dashboard",
		"ctaTracking": "CTA Tracking",
	},
}

// ModuleDisplayName returns the human-readable module name.
func ModuleDisplayName(module ModuleKey) string {
	if name, ok := moduleDisplayNames[module]; ok {
		return name
	}
	return string(module)
}

// LeverDisplayName returns the human-readable lever name.
func LeverDisplayName(module ModuleKey, lever LeverKey) string {
	if name, ok := leverDisplayNames[module][lever]; ok {
		return name
	}
	return string(module) + " - " + string(lever)
}
