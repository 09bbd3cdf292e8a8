package detector

// Analyze scans html for every supported vendor. It is a pure function of its
// arguments; pageURL is copied into the result as is.
func Analyze(pageURL string, html []byte) TagResults {
	res, _ := analyze(pageURL, string(html))
	return res
}

// analyze also reports which rule fired per vendor, for logging.
func analyze(pageURL, doc string) (TagResults, map[Vendor]string) {
	res := TagResults{URL: pageURL}
	hits := make(map[Vendor]string, len(vendorTable))
	for _, vr := range vendorTable {
		found, ruleName := vr.detect(doc)
		res.set(vr.vendor, found)
		if ruleName != "" {
			hits[vr.vendor] = ruleName
		}
	}
	return res, hits
}
