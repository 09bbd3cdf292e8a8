package detector

import (
	"net/http"
	"time"
)

// Vendor identifies one of the tracking products the detector looks for.
type Vendor string

// Supported vendors, in the order they appear in TagResults.
const (
	VendorGTM       Vendor = "gtm"
	VendorGA4       Vendor = "ga4"
	VendorGoogleAds Vendor = "googleAds"
	VendorMetaPixel Vendor = "metaPixel"
)

// Vendors lists every supported vendor in result order.
var Vendors = []Vendor{VendorGTM, VendorGA4, VendorGoogleAds, VendorMetaPixel}

// Location values reported on a detection.
const (
	LocationHead     = "head"
	LocationBody     = "body"
	LocationDocument = "document"
)

// ID types reported alongside GA4 identifiers.
const (
	IDTypeGA4                = "ga4"
	IDTypeUniversalAnalytics = "universal-analytics"
)

// TagDetectionResult is the outcome for a single vendor.
type TagDetectionResult struct {
	Found    bool   `json:"found"`
	Location string `json:"location,omitempty"`
	ID       string `json:"id,omitempty"`
	IDType   string `json:"idType,omitempty"`
}

// TagResults is the full answer to one check request.
type TagResults struct {
	URL       string             `json:"url"`
	GTM       TagDetectionResult `json:"gtm"`
	GA4       TagDetectionResult `json:"ga4"`
	GoogleAds TagDetectionResult `json:"googleAds"`
	MetaPixel TagDetectionResult `json:"metaPixel"`
	Error     string             `json:"error,omitempty"`
}

// Result returns the detection for v.
func (r TagResults) Result(v Vendor) TagDetectionResult {
	switch v {
	case VendorGTM:
		return r.GTM
	case VendorGA4:
		return r.GA4
	case VendorGoogleAds:
		return r.GoogleAds
	case VendorMetaPixel:
		return r.MetaPixel
	default:
		return TagDetectionResult{}
	}
}

func (r *TagResults) set(v Vendor, res TagDetectionResult) {
	switch v {
	case VendorGTM:
		r.GTM = res
	case VendorGA4:
		r.GA4 = res
	case VendorGoogleAds:
		r.GoogleAds = res
	case VendorMetaPixel:
		r.MetaPixel = res
	}
}

// Failed reports whether the analysis could not be completed.
func (r TagResults) Failed() bool {
	return r.Error != ""
}

// FailedResults builds the result returned when the page could not be analyzed.
// Every vendor is reported as not found.
func FailedResults(pageURL, errText string) TagResults {
	return TagResults{URL: pageURL, Error: errText}
}

// FetchRequest captures everything needed to fetch a page.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}
