package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-service/internal/entity"
	"menu-service/internal/updater"
)

// fakeReader replays messages and then blocks until the context ends.
type fakeReader struct {
	messages  []kafka.Message
	fetchErrs []error
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		return kafka.Message{}, err
	}
	if len(r.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		r.committed = append(r.committed, msg.Offset)
	}
	return nil
}

type recordingReconciler struct {
	snapshots []entity.Snapshot
	cancel    context.CancelFunc
	want      int
}

func (r *recordingReconciler) Run(_ context.Context, snapshot entity.Snapshot) (*updater.Plan, error) {
	r.snapshots = append(r.snapshots, snapshot)
	if len(r.snapshots) == r.want {
		r.cancel()
	}
	return &updater.Plan{}, nil
}

func message(t *testing.T, offset int64, snapshot entity.Snapshot) kafka.Message {
	t.Helper()
	value, err := json.Marshal(snapshot)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Key: []byte("menu.xlsx"), Value: value}
}

func TestConsumerAppliesAndCommits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	menuID := uuid.New()
	reader := &fakeReader{
		fetchErrs: []error{errors.New("broker unavailable")},
		messages: []kafka.Message{
			message(t, 1, entity.Snapshot{{ID: menuID, Title: "Lunch"}}),
			{Offset: 2, Value: []byte("not json")},
			message(t, 3, entity.Snapshot{}),
		},
	}
	reconciler := &recordingReconciler{cancel: cancel, want: 2}
	c := NewConsumer(reader, updater.NewRunner(reconciler, time.Millisecond))

	err := c.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, reconciler.snapshots, 2)
	assert.Equal(t, menuID, reconciler.snapshots[0][0].ID)
	assert.Empty(t, reconciler.snapshots[1])
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

// brokenReader fails every fetch.
type brokenReader struct {
	fetches int
}

func (r *brokenReader) FetchMessage(context.Context) (kafka.Message, error) {
	r.fetches++
	return kafka.Message{}, errors.New("broker unavailable")
}

func (r *brokenReader) CommitMessages(context.Context, ...kafka.Message) error {
	return nil
}

func TestConsumerWaitsBetweenFailedFetches(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	reader := &brokenReader{}
	c := NewConsumer(reader, updater.NewRunner(&recordingReconciler{cancel: cancel}, 20*time.Millisecond))

	err := c.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, reader.fetches, 2)
	assert.LessOrEqual(t, reader.fetches, 5)
}
