package domain

import "time"

// FetchParams describes one fetch request against the providers.
// Zero values mean "not set".
type FetchParams struct {
	SearchTerm string
	Category   string
	From       *time.Time
	To         *time.Time
	PageSize   int
	Language   string
	Page       int
}

// SourceStats is the outcome of one provider run.
type SourceStats struct {
	Fetched int    `json:"fetched"`
	Stored  int    `json:"stored"`
	Error   string `json:"error,omitempty"`
}

// FetchStatistics aggregates the outcome of one aggregation run.
type FetchStatistics struct {
	TotalFetched int                    `json:"total_fetched"`
	TotalStored  int                    `json:"total_stored"`
	Sources      map[string]SourceStats `json:"sources"`
}

func NewFetchStatistics() FetchStatistics {
	return FetchStatistics{Sources: make(map[string]SourceStats)}
}

// Add records the stats of a single source and updates the totals.
func (s *FetchStatistics) Add(key string, st SourceStats) {
	if s.Sources == nil {
		s.Sources = make(map[string]SourceStats)
	}
	s.Sources[key] = st
	s.TotalFetched += st.Fetched
	s.TotalStored += st.Stored
}

// Failed returns the keys of sources that reported an error.
func (s FetchStatistics) Failed() []string {
	var keys []string
	for k, st := range s.Sources {
		if st.Error != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
