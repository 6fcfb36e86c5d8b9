package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"certificate-api/internal/events/mocks"
	"certificate-api/internal/platform/kafka/producer"
	"certificate-api/internal/presentation/models"
)

func Test_KafkaSinkEmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	sink := NewKafkaSink(publisher, "events", WithKeyFunc(func() string { return "key-1" }))

	event := models.Event{
		Date:   time.Date(2021, 6, 1, 9, 30, 0, 0, time.UTC),
		Source: "9876543210",
		Type:   models.EventEUCertSuccess,
	}

	var got *producer.Message
	publisher.EXPECT().ProduceAsync(gomock.Any()).DoAndReturn(func(msg *producer.Message) error {
		got = msg
		return nil
	})

	require.NoError(t, sink.Emit(context.Background(), event))
	require.NotNil(t, got)
	assert.Equal(t, "events", got.Topic)
	assert.Equal(t, []byte("key-1"), got.Key)
	assert.Equal(t, "eu-cert-success", got.Headers["event_type"])
	assert.JSONEq(t, `{"date":"2021-06-01T09:30:00Z","source":"9876543210","type":"eu-cert-success","extra":""}`, string(got.Value))
}

func Test_KafkaSinkPublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().ProduceAsync(gomock.Any()).Return(producer.ErrClosed)

	err := NewKafkaSink(publisher, "events").Emit(context.Background(), models.Event{Type: models.EventInternalFailed})

	require.Error(t, err)
	assert.True(t, errors.Is(err, producer.ErrClosed))
}

func Test_NoopSink(t *testing.T) {
	assert.NoError(t, NoopSink{}.Emit(context.Background(), models.Event{}))
}
