package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-interview-scheduler/pkg/kafkax"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) Record(ctx context.Context, eventID, consumer, eventType string) (bool, error) {
	args := m.Called(ctx, eventID, consumer, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockInbox) Forget(ctx context.Context, eventID, consumer string) error {
	args := m.Called(ctx, eventID, consumer)
	return args.Error(0)
}

type scriptedReader struct {
	msgs      []kafka.Message
	cancel    context.CancelFunc
	committed []string
	closed    bool
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, eventIDOf(m))
	}
	return nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func eventIDOf(msg kafka.Message) string {
	return string(msg.Headers[0].Value)
}

func newFastConsumer(name string, reader MessageReader, inbox Inbox, handler Handler) *Consumer {
	c := NewWithReader(name, reader, inbox, handler)
	c.backoff = time.Millisecond
	c.maxBackoff = 4 * time.Millisecond
	return c
}

func message(eventID string) kafka.Message {
	return kafka.Message{
		Topic: "notification.interview.scheduled",
		Key:   []byte("42"),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(eventID)},
			{Key: "event_type", Value: []byte("notification.interview.scheduled")},
		},
	}
}

func TestProcessSkipsDuplicates(t *testing.T) {
	inbox := new(MockInbox)
	inbox.On("Record", mock.Anything, "evt-1", "notifier", "notification.interview.scheduled").Return(true, nil).Once()
	inbox.On("Record", mock.Anything, "evt-1", "notifier", "notification.interview.scheduled").Return(false, nil).Once()

	handled := 0
	c := NewWithReader("notifier", nil, inbox, func(ctx context.Context, msg kafka.Message) error {
		handled++
		return nil
	})

	assert.NoError(t, c.Process(context.Background(), message("evt-1")))
	assert.NoError(t, c.Process(context.Background(), message("evt-1")))

	assert.Equal(t, 1, handled)
	inbox.AssertExpectations(t)
}

func TestProcessReleasesInboxOnFailure(t *testing.T) {
	inbox := new(MockInbox)
	inbox.On("Record", mock.Anything, "evt-2", "calendar-sync", mock.Anything).Return(true, nil)
	inbox.On("Forget", mock.Anything, "evt-2", "calendar-sync").Return(nil)

	c := NewWithReader("calendar-sync", nil, inbox, func(ctx context.Context, msg kafka.Message) error {
		return errors.New("calendar unavailable")
	})
	assert.Error(t, c.Process(context.Background(), message("evt-2")))

	inbox.AssertCalled(t, "Forget", mock.Anything, "evt-2", "calendar-sync")
}

func TestProcessDoesNotHandleWhenInboxFails(t *testing.T) {
	inbox := new(MockInbox)
	inbox.On("Record", mock.Anything, "evt-3", "notifier", mock.Anything).Return(false, errors.New("db down"))

	c := NewWithReader("notifier", nil, inbox, func(ctx context.Context, msg kafka.Message) error {
		t.Fatal("handler must not run")
		return nil
	})
	assert.Error(t, c.Process(context.Background(), message("evt-3")))
	inbox.AssertNotCalled(t, "Forget", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inbox := new(MockInbox)
	inbox.On("Record", mock.Anything, mock.Anything, "notifier", mock.Anything).Return(true, nil)

	reader := &scriptedReader{msgs: []kafka.Message{message("a"), message("b")}, cancel: cancel}
	var seen []string
	c := NewWithReader("notifier", reader, inbox, func(ctx context.Context, msg kafka.Message) error {
		seen = append(seen, eventIDOf(msg))
		return nil
	})

	c.Run(ctx)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, []string{"a", "b"}, reader.committed)
	assert.True(t, reader.closed)
}

func TestRunRetriesFailedMessageBeforeCommitting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inbox := new(MockInbox)
	inbox.On("Record", mock.Anything, mock.Anything, "notifier", mock.Anything).Return(true, nil)
	inbox.On("Forget", mock.Anything, "a", "notifier").Return(nil)

	reader := &scriptedReader{msgs: []kafka.Message{message("a"), message("b")}, cancel: cancel}
	attempts := 0
	c := newFastConsumer("notifier", reader, inbox, func(ctx context.Context, msg kafka.Message) error {
		if eventIDOf(msg) == "a" {
			attempts++
			if attempts < 3 {
				assert.Empty(t, reader.committed, "nothing may be committed while a is failing")
				return errors.New("smtp unavailable")
			}
		}
		return nil
	})

	c.Run(ctx)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []string{"a", "b"}, reader.committed)
	inbox.AssertNumberOfCalls(t, "Forget", 2)
}

func TestRunLeavesFailingMessageUncommittedOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inbox := new(MockInbox)
	inbox.On("Record", mock.Anything, "a", "calendar-sync", mock.Anything).Return(true, nil)
	inbox.On("Forget", mock.Anything, "a", "calendar-sync").Return(nil)

	reader := &scriptedReader{msgs: []kafka.Message{message("a")}, cancel: cancel}
	attempts := 0
	c := newFastConsumer("calendar-sync", reader, inbox, func(ctx context.Context, msg kafka.Message) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("calendar unavailable")
	})

	c.Run(ctx)
	assert.GreaterOrEqual(t, attempts, 2)
	assert.Empty(t, reader.committed)
	assert.True(t, reader.closed)
}

func TestRunCommitsPastPermanentFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inbox := new(MockInbox)
	inbox.On("Record", mock.Anything, "a", "notifier", mock.Anything).Return(true, nil)
	inbox.On("Forget", mock.Anything, "a", "notifier").Return(nil)

	reader := &scriptedReader{msgs: []kafka.Message{message("a")}, cancel: cancel}
	attempts := 0
	c := newFastConsumer("notifier", reader, inbox, func(ctx context.Context, msg kafka.Message) error {
		attempts++
		return kafkax.Permanent(errors.New("bad payload"))
	})

	c.Run(ctx)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, []string{"a"}, reader.committed)
}

func TestRunRetriesWhenInboxIsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inbox := new(MockInbox)
	inbox.On("Record", mock.Anything, "a", "notifier", mock.Anything).Return(false, errors.New("db down")).Once()
	inbox.On("Record", mock.Anything, "a", "notifier", mock.Anything).Return(true, nil).Once()

	reader := &scriptedReader{msgs: []kafka.Message{message("a")}, cancel: cancel}
	handled := 0
	c := newFastConsumer("notifier", reader, inbox, func(ctx context.Context, msg kafka.Message) error {
		handled++
		return nil
	})

	c.Run(ctx)
	assert.Equal(t, 1, handled)
	assert.Equal(t, []string{"a"}, reader.committed)
	inbox.AssertExpectations(t)
}
