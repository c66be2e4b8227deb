// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package kafkatopic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
)

func newTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()

	s := runtime.NewScheme()
	require.NoError(t, kafkav1.AddToScheme(s))
	return s
}

func TestFinalizerGuard(t *testing.T) {
	ctx := t.Context()
	key := types.NamespacedName{Name: "orders", Namespace: "default"}

	newTopic := func(finalizers ...string) *kafkav1.KafkaTopic {
		return &kafkav1.KafkaTopic{
			ObjectMeta: metav1.ObjectMeta{
				Name:       key.Name,
				Namespace:  key.Namespace,
				Finalizers: finalizers,
			},
			Spec: kafkav1.KafkaTopicSpec{
				BootstrapServer:   "kafka:9092",
				Topic:             "orders",
				Partitions:        3,
				ReplicationFactor: 1,
			},
		}
	}

	t.Run("attach adds the finalizer", func(t *testing.T) {
		s := newTestScheme(t)
		c := fake.NewClientBuilder().WithScheme(s).WithObjects(newTopic()).Build()
		guard := NewFinalizerGuard(c)

		require.NoError(t, guard.AttachGuard(ctx, key))

		stored := &kafkav1.KafkaTopic{}
		require.NoError(t, c.Get(ctx, key, stored))
		assert.Contains(t, stored.Finalizers, FinalizerName)
	})

	t.Run("attach is a no-op when already attached", func(t *testing.T) {
		s := newTestScheme(t)
		c := fake.NewClientBuilder().WithScheme(s).WithObjects(newTopic(FinalizerName)).Build()
		guard := NewFinalizerGuard(c)

		require.NoError(t, guard.AttachGuard(ctx, key))

		stored := &kafkav1.KafkaTopic{}
		require.NoError(t, c.Get(ctx, key, stored))
		assert.Equal(t, []string{FinalizerName}, stored.Finalizers)
	})

	t.Run("attach preserves unrelated finalizers", func(t *testing.T) {
		s := newTestScheme(t)
		c := fake.NewClientBuilder().WithScheme(s).WithObjects(newTopic("other.io/finalizer")).Build()
		guard := NewFinalizerGuard(c)

		require.NoError(t, guard.AttachGuard(ctx, key))

		stored := &kafkav1.KafkaTopic{}
		require.NoError(t, c.Get(ctx, key, stored))
		assert.ElementsMatch(t, []string{"other.io/finalizer", FinalizerName}, stored.Finalizers)
	})

	t.Run("attach on a missing resource is a GuardError", func(t *testing.T) {
		s := newTestScheme(t)
		c := fake.NewClientBuilder().WithScheme(s).Build()
		guard := NewFinalizerGuard(c)

		err := guard.AttachGuard(ctx, key)
		require.Error(t, err)

		var guardErr *GuardError
		require.True(t, errors.As(err, &guardErr))
		assert.Equal(t, "attach", guardErr.Op)
	})

	t.Run("release removes the finalizer", func(t *testing.T) {
		s := newTestScheme(t)
		c := fake.NewClientBuilder().WithScheme(s).WithObjects(newTopic(FinalizerName)).Build()
		guard := NewFinalizerGuard(c)

		require.NoError(t, guard.ReleaseGuard(ctx, key))

		stored := &kafkav1.KafkaTopic{}
		require.NoError(t, c.Get(ctx, key, stored))
		assert.NotContains(t, stored.Finalizers, FinalizerName)
	})

	t.Run("release is a no-op when absent", func(t *testing.T) {
		s := newTestScheme(t)
		c := fake.NewClientBuilder().WithScheme(s).WithObjects(newTopic()).Build()
		guard := NewFinalizerGuard(c)

		require.NoError(t, guard.ReleaseGuard(ctx, key))
	})
}
