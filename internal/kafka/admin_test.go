// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
)

// mockClusterAdmin embeds the ClusterAdmin interface so only the methods the
// adapter touches need an implementation.
type mockClusterAdmin struct {
	sarama.ClusterAdmin

	createFn func(topic string, detail *sarama.TopicDetail, validateOnly bool) error
	deleteFn func(topic string) error
	listFn   func() (map[string]sarama.TopicDetail, error)
	closed   bool
}

func (m *mockClusterAdmin) CreateTopic(topic string, detail *sarama.TopicDetail, validateOnly bool) error {
	if m.createFn != nil {
		return m.createFn(topic, detail, validateOnly)
	}
	return nil
}

func (m *mockClusterAdmin) DeleteTopic(topic string) error {
	if m.deleteFn != nil {
		return m.deleteFn(topic)
	}
	return nil
}

func (m *mockClusterAdmin) ListTopics() (map[string]sarama.TopicDetail, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil, nil
}

func (m *mockClusterAdmin) Close() error {
	m.closed = true
	return nil
}

func newTestProvisioner(admin sarama.ClusterAdmin) (*AdminProvisioner, *int) {
	dials := 0
	p := NewAdminProvisioner()
	p.newAdmin = func(addrs []string, conf *sarama.Config) (sarama.ClusterAdmin, error) {
		dials++
		return admin, nil
	}
	return p, &dials
}

func testSpec() kafkav1.KafkaTopicSpec {
	return kafkav1.KafkaTopicSpec{
		BootstrapServer:   "kafka:9092",
		Topic:             "orders",
		Partitions:        3,
		ReplicationFactor: 1,
	}
}

func TestCreateTopic(t *testing.T) {
	ctx := t.Context()

	t.Run("passes the declared layout to the broker", func(t *testing.T) {
		var gotTopic string
		var gotDetail *sarama.TopicDetail

		admin := &mockClusterAdmin{
			createFn: func(topic string, detail *sarama.TopicDetail, validateOnly bool) error {
				gotTopic = topic
				gotDetail = detail
				assert.False(t, validateOnly)
				return nil
			},
		}
		p, _ := newTestProvisioner(admin)

		require.NoError(t, p.CreateTopic(ctx, testSpec()))
		assert.Equal(t, "orders", gotTopic)
		assert.Equal(t, int32(3), gotDetail.NumPartitions)
		assert.Equal(t, int16(1), gotDetail.ReplicationFactor)
	})

	t.Run("treats an existing topic as success", func(t *testing.T) {
		calls := 0
		admin := &mockClusterAdmin{
			createFn: func(string, *sarama.TopicDetail, bool) error {
				calls++
				if calls > 1 {
					return &sarama.TopicError{Err: sarama.ErrTopicAlreadyExists}
				}
				return nil
			},
		}
		p, _ := newTestProvisioner(admin)

		// A retried pass repeats the create; the second attempt reports
		// already-exists and must still succeed.
		require.NoError(t, p.CreateTopic(ctx, testSpec()))
		require.NoError(t, p.CreateTopic(ctx, testSpec()))
		assert.Equal(t, 2, calls)
	})

	t.Run("surfaces genuine broker failures", func(t *testing.T) {
		admin := &mockClusterAdmin{
			createFn: func(string, *sarama.TopicDetail, bool) error {
				return &sarama.TopicError{Err: sarama.ErrTopicAuthorizationFailed}
			},
		}
		p, _ := newTestProvisioner(admin)

		err := p.CreateTopic(ctx, testSpec())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create topic orders")
	})
}

func TestDeleteTopic(t *testing.T) {
	ctx := t.Context()

	t.Run("treats a missing topic as success", func(t *testing.T) {
		admin := &mockClusterAdmin{
			deleteFn: func(string) error {
				return sarama.ErrUnknownTopicOrPartition
			},
		}
		p, _ := newTestProvisioner(admin)

		require.NoError(t, p.DeleteTopic(ctx, testSpec()))
	})

	t.Run("surfaces genuine broker failures", func(t *testing.T) {
		admin := &mockClusterAdmin{
			deleteFn: func(string) error {
				return sarama.ErrRequestTimedOut
			},
		}
		p, _ := newTestProvisioner(admin)

		err := p.DeleteTopic(ctx, testSpec())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete topic orders")
	})
}

func TestTopicExists(t *testing.T) {
	ctx := t.Context()

	admin := &mockClusterAdmin{
		listFn: func() (map[string]sarama.TopicDetail, error) {
			return map[string]sarama.TopicDetail{"orders": {}}, nil
		},
	}
	p, _ := newTestProvisioner(admin)

	exists, err := p.TopicExists(ctx, testSpec())
	require.NoError(t, err)
	assert.True(t, exists)

	other := testSpec()
	other.Topic = "payments"
	exists, err = p.TopicExists(ctx, other)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdminPool(t *testing.T) {
	ctx := t.Context()

	t.Run("reuses the handle for a bootstrap server", func(t *testing.T) {
		admin := &mockClusterAdmin{}
		p, dials := newTestProvisioner(admin)

		require.NoError(t, p.CreateTopic(ctx, testSpec()))
		require.NoError(t, p.DeleteTopic(ctx, testSpec()))
		assert.Equal(t, 1, *dials)
	})

	t.Run("dials separately per bootstrap server", func(t *testing.T) {
		admin := &mockClusterAdmin{}
		p, dials := newTestProvisioner(admin)

		require.NoError(t, p.CreateTopic(ctx, testSpec()))

		other := testSpec()
		other.BootstrapServer = "elsewhere:9092"
		require.NoError(t, p.CreateTopic(ctx, other))

		assert.Equal(t, 2, *dials)
	})

	t.Run("surfaces dial failures", func(t *testing.T) {
		p := NewAdminProvisioner()
		p.newAdmin = func([]string, *sarama.Config) (sarama.ClusterAdmin, error) {
			return nil, sarama.ErrOutOfBrokers
		}

		err := p.CreateTopic(ctx, testSpec())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect admin client to kafka:9092")
	})

	t.Run("respects a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		p, dials := newTestProvisioner(&mockClusterAdmin{})
		err := p.CreateTopic(cancelled, testSpec())
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, *dials)
	})

	t.Run("close releases all handles", func(t *testing.T) {
		admin := &mockClusterAdmin{}
		p, _ := newTestProvisioner(admin)

		require.NoError(t, p.CreateTopic(ctx, testSpec()))
		require.NoError(t, p.Close())
		assert.True(t, admin.closed)
	})
}

func TestHasKafkaErrorCode(t *testing.T) {
	assert.True(t, hasKafkaErrorCode(sarama.ErrTopicAlreadyExists, sarama.ErrTopicAlreadyExists))
	assert.True(t, hasKafkaErrorCode(&sarama.TopicError{Err: sarama.ErrTopicAlreadyExists}, sarama.ErrTopicAlreadyExists))
	assert.False(t, hasKafkaErrorCode(&sarama.TopicError{Err: sarama.ErrRequestTimedOut}, sarama.ErrTopicAlreadyExists))
	assert.False(t, hasKafkaErrorCode(errors.New("boom"), sarama.ErrTopicAlreadyExists))
	assert.False(t, hasKafkaErrorCode(nil, sarama.ErrTopicAlreadyExists))
}
