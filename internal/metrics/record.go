package metrics

import "time"

// RecordFeedGeneration records how long a feed took to build and how many
// posts it held.
func RecordFeedGeneration(feedType string, duration time.Duration, posts int) {
	m := Get()
	m.FeedGenerationTime.WithLabelValues(feedType).Observe(duration.Seconds())
	m.FeedSize.Observe(float64(posts))
}

func RecordPostUploaded(fileType string, size int64) {
	m := Get()
	m.PostsUploadedTotal.WithLabelValues(fileType).Inc()
	m.UploadSize.WithLabelValues(fileType).Observe(float64(size))
}

// RecordUploadFailure counts a failed upload. stage is one of "read",
// "too_large", "store", "rejected", "persist".
func RecordUploadFailure(stage string) {
	Get().UploadFailuresTotal.WithLabelValues(stage).Inc()
}

func RecordPostDeleted() {
	Get().PostsDeletedTotal.Inc()
}

func RecordMediaDeleteError() {
	Get().MediaDeleteErrorsTotal.Inc()
}

// RecordAuthEvent counts an auth flow outcome, e.g. ("login", "failure").
func RecordAuthEvent(event, result string) {
	Get().AuthEventsTotal.WithLabelValues(event, result).Inc()
}

func RecordRateLimitExceeded(endpoint, method string) {
	Get().RateLimitExceededTotal.WithLabelValues(endpoint, method).Inc()
}

func RecordError(code, endpoint string) {
	Get().ErrorsTotal.WithLabelValues(code, endpoint).Inc()
}
