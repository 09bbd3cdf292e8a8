// Package detector decides whether a web page carries Google Tag Manager,
// Google Analytics 4, Google Ads and Meta Pixel snippets.
//
// A check qualifies the submitted URL, answers from a static table of
// well-known domains when possible, and otherwise fetches the page once
// through a Fetcher and runs ordered pattern rules per vendor over the markup.
// Fetch failures come back as a TagResults with Error set; only malformed
// input is returned as a Go error (ErrInvalidURL).
package detector
