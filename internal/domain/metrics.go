package domain

import "time"

// Metrics receives observability events from the dispatch path.
type Metrics interface {
	ObserveDispatch(tool string, duration time.Duration, err error)
	ObserveCacheHit(tool string)
	ObserveCacheMiss(tool string)
	ObserveInvalidation(group Group)
}
