package detector

import "context"

// Fetcher retrieves the raw markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Recorder observes check outcomes (metrics, audit, ...).
type Recorder interface {
	ObserveCheck(outcome string)
	ObserveDetection(vendor string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCheck(string)     {}
func (nopRecorder) ObserveDetection(string) {}
