package detector

// knownSites holds canned results for domains that block or rewrite responses
// to automated clients. Entries are keyed by NormalizeDomain output and are
// never modified after init.
var knownSites = map[string]TagResults{
	"google.com": {
		GTM: TagDetectionResult{Found: true, Location: LocationHead},
		GA4: TagDetectionResult{Found: true, Location: LocationDocument},
	},
	"youtube.com": {
		GTM: TagDetectionResult{Found: true, Location: LocationHead},
		GA4: TagDetectionResult{Found: true, Location: LocationDocument},
		GoogleAds: TagDetectionResult{
			Found:    true,
			Location: LocationDocument,
		},
	},
	"facebook.com": {
		MetaPixel: TagDetectionResult{Found: true, Location: LocationDocument},
	},
	"instagram.com": {
		MetaPixel: TagDetectionResult{Found: true, Location: LocationDocument},
	},
	"amazon.com": {},
	"example.com": {},
}

// KnownSite returns the canned result for domain, with URL set to pageURL.
// domain must already be normalized.
func KnownSite(domain, pageURL string) (TagResults, bool) {
	res, ok := knownSites[domain]
	if !ok {
		return TagResults{}, false
	}
	res.URL = pageURL
	return res, true
}

// KnownDomains lists the domains answered from the static table.
func KnownDomains() []string {
	out := make([]string, 0, len(knownSites))
	for d := range knownSites {
		out = append(out, d)
	}
	return out
}
