package detector

import "regexp"

// matcher reports whether a document carries a signature.
type matcher func(doc string) bool

// rule is one detection signature. The first rule that matches decides the
// reported location.
type rule struct {
	name     string
	match    matcher
	location string
}

// idExtractor pulls an identifier out of a document. When the pattern has a
// capture group the first group is used, otherwise the whole match.
type idExtractor struct {
	pattern *regexp.Regexp
	idType  string
}

type vendorRules struct {
	vendor Vendor
	rules  []rule
	ids    []idExtractor
}

func contains(expr string) matcher {
	re := regexp.MustCompile(expr)
	return re.MatchString
}

// inside matches expr against the attributes or content of any <tag> element.
func inside(tag, expr string) matcher {
	block := regexp.MustCompile(`(?is)<` + tag + `\b([^>]*)>(.*?)</` + tag + `\s*>`)
	inner := regexp.MustCompile(expr)
	return func(doc string) bool {
		for _, m := range block.FindAllStringSubmatch(doc, -1) {
			if inner.MatchString(m[1]) || inner.MatchString(m[2]) {
				return true
			}
		}
		return false
	}
}

func extract(expr, idType string) idExtractor {
	return idExtractor{pattern: regexp.MustCompile(expr), idType: idType}
}

func (e idExtractor) find(doc string) (string, bool) {
	m := e.pattern.FindStringSubmatch(doc)
	switch {
	case m == nil:
		return "", false
	case len(m) > 1:
		return m[1], m[1] != ""
	default:
		return m[0], true
	}
}

// vendorTable is evaluated top to bottom for every vendor independently.
var vendorTable = []vendorRules{
	{
		vendor: VendorGTM,
		rules: []rule{
			{name: "gtm-script", match: inside("script", `(?i)googletagmanager\.com/gtm\.js`), location: LocationHead},
			{name: "gtm-noscript", match: inside("noscript", `(?i)googletagmanager\.com/ns\.html`), location: LocationBody},
			{name: "gtm-bootstrap", match: contains(`(?i)['"]gtm\.start['"]`), location: LocationDocument},
			{name: "gtm-reference", match: contains(`(?i)googletagmanager\.com/(?:gtm\.js|ns\.html)`), location: LocationDocument},
			{
				name:     "datalayer-init",
				match:    contains(`(?i)\bdataLayer\s*=\s*(?:window\.dataLayer\s*\|\|\s*)?\[`),
				location: LocationDocument,
			},
		},
		ids: []idExtractor{
			extract(`\bGTM-[A-Z0-9]+`, ""),
			extract(`(?i)\bGTM-[A-Z0-9]+`, ""),
		},
	},
	{
		vendor: VendorGA4,
		rules: []rule{
			{name: "ga4-gtag-config", match: contains(`(?i)gtag\(\s*['"]config['"]\s*,\s*['"]G-[A-Z0-9]+['"]`), location: LocationDocument},
			{name: "ga4-gtag-js", match: contains(`(?i)googletagmanager\.com/gtag/js\?id=G-[A-Z0-9]+`), location: LocationDocument},
			{name: "ga4-gtm-query", match: contains(`(?i)googletagmanager\.com[^"'\s<>]*[?&]id=G-[A-Z0-9]+`), location: LocationDocument},
			{name: "ga-analytics-js", match: contains(`(?i)google-analytics\.com/analytics\.js`), location: LocationDocument},
			{name: "ga4-collect", match: contains(`(?i)google-analytics\.com/g/collect`), location: LocationDocument},
		},
		ids: []idExtractor{
			extract(`\bG-[A-Z0-9]{4,}\b`, IDTypeGA4),
			extract(`\bUA-\d{4,10}-\d{1,4}\b`, IDTypeUniversalAnalytics),
		},
	},
	{
		vendor: VendorGoogleAds,
		rules: []rule{
			{name: "ads-gtag-config", match: contains(`(?i)gtag\(\s*['"]config['"]\s*,\s*['"]AW-\d+`), location: LocationDocument},
			{name: "ads-conversion-script", match: contains(`(?i)googleadservices\.com/pagead/conversion`), location: LocationDocument},
			{name: "ads-gtag-js", match: contains(`(?i)gtag/js\?id=AW-\d+`), location: LocationDocument},
			{name: "ads-path-segment", match: contains(`/AW-\d+\b`), location: LocationDocument},
		},
		ids: []idExtractor{
			extract(`\bAW-\d+\b`, ""),
		},
	},
	{
		vendor: VendorMetaPixel,
		rules: []rule{
			{name: "meta-fbevents", match: contains(`(?i)connect\.facebook\.net/[a-z_]+/fbevents\.js`), location: LocationDocument},
			{name: "meta-fbq-init", match: contains(`(?i)fbq\(\s*['"]init['"]\s*,\s*['"]?\d+`), location: LocationDocument},
			{name: "meta-tr-pixel", match: contains(`(?i)facebook\.com/tr/?\?id=\d+`), location: LocationDocument},
		},
		ids: []idExtractor{
			extract(`(?i)fbq\(\s*['"]init['"]\s*,\s*['"]?(\d+)`, ""),
			extract(`(?i)facebook\.com/tr/?\?id=(\d+)`, ""),
			extract(`(?i)\b(?:fb_?)?pixel_?id['"]?\s*[:=]\s*['"]?(\d{6,})`, ""),
		},
	},
}

// detect runs the vendor's rules in order and returns the first hit along with
// the name of the rule that fired.
func (vr vendorRules) detect(doc string) (TagDetectionResult, string) {
	for _, r := range vr.rules {
		if !r.match(doc) {
			continue
		}
		res := TagDetectionResult{Found: true, Location: r.location}
		for _, e := range vr.ids {
			if id, ok := e.find(doc); ok {
				res.ID = id
				res.IDType = e.idType
				break
			}
		}
		return res, r.name
	}
	return TagDetectionResult{}, ""
}
