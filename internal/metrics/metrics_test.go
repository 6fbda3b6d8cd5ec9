package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitializeIsSingleton(t *testing.T) {
	assert.Same(t, Initialize(), Get())
}

func TestRecordHelpers(t *testing.T) {
	m := Get()
	m.PostsUploadedTotal.Reset()
	m.UploadFailuresTotal.Reset()
	m.AuthEventsTotal.Reset()

	RecordPostUploaded("video", 4096)
	RecordPostUploaded("image", 10)
	RecordPostUploaded("image", 20)
	RecordUploadFailure("rejected")
	RecordAuthEvent("login", "failure")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PostsUploadedTotal.WithLabelValues("video")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PostsUploadedTotal.WithLabelValues("image")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadFailuresTotal.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login", "failure")))

	before := testutil.ToFloat64(m.PostsDeletedTotal)
	RecordPostDeleted()
	assert.Equal(t, before+1, testutil.ToFloat64(m.PostsDeletedTotal))

	RecordFeedGeneration("global", 5*time.Millisecond, 3)
	assert.Equal(t, 1, testutil.CollectAndCount(m.FeedGenerationTime))
}
