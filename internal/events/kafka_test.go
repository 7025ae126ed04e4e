package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_PublishArticleStored(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "articles")

	article := domain.Article{
		ID:       uuid.New(),
		SourceID: uuid.New(),
		URL:      "https://example.com/a",
		Title:    "Title",
		Category: domain.StringPtr("world"),
	}
	require.NoError(t, p.PublishArticleStored(t.Context(), NewArticleStored("guardian", article)))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "https://example.com/a", string(msg.Key))

	var decoded ArticleStored
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, article.ID, decoded.ArticleID)
	assert.Equal(t, "guardian", decoded.SourceKey)
	assert.Equal(t, "world", *decoded.Category)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := newKafkaPublisher(&fakeWriter{err: boom}, "articles")

	err := p.PublishArticleStored(t.Context(), ArticleStored{URL: "u"})

	assert.ErrorIs(t, err, boom)
}

func TestNewKafkaPublisher_IncompleteConfig(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{Topic: "articles"})
	assert.Error(t, err)
}
