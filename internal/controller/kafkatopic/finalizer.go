// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package kafkatopic

import (
	"context"

	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
)

// FinalizerName marks KafkaTopic resources whose backing topic this
// controller owns. The cluster API will not remove a resource while the
// marker is present.
const FinalizerName = "arnecdn.github.com/finalizer"

// LifecycleGuard is the capability interface for the finalizer protocol.
// Both operations are idempotent: attaching an already attached guard and
// releasing an absent one succeed without a write.
type LifecycleGuard interface {
	AttachGuard(ctx context.Context, key types.NamespacedName) error
	ReleaseGuard(ctx context.Context, key types.NamespacedName) error
}

// finalizerGuard implements LifecycleGuard with optimistic-lock merge
// patches, so a concurrent edit of the resource surfaces as a conflict
// instead of silently clobbering the finalizer set.
type finalizerGuard struct {
	client client.Client
}

// NewFinalizerGuard creates a LifecycleGuard backed by the given cluster
// API client.
func NewFinalizerGuard(c client.Client) LifecycleGuard {
	return &finalizerGuard{client: c}
}

func (g *finalizerGuard) AttachGuard(ctx context.Context, key types.NamespacedName) error {
	topic := &kafkav1.KafkaTopic{}
	if err := g.client.Get(ctx, key, topic); err != nil {
		return &GuardError{Op: "attach", Err: err}
	}

	base := topic.DeepCopy()
	if !controllerutil.AddFinalizer(topic, FinalizerName) {
		// Already attached, nothing to write.
		return nil
	}

	patch := client.MergeFromWithOptions(base, client.MergeFromWithOptimisticLock{})
	if err := g.client.Patch(ctx, topic, patch); err != nil {
		return &GuardError{Op: "attach", Err: err}
	}

	logf.FromContext(ctx).V(1).Info("Attached finalizer", "name", key.Name, "namespace", key.Namespace)
	return nil
}

func (g *finalizerGuard) ReleaseGuard(ctx context.Context, key types.NamespacedName) error {
	topic := &kafkav1.KafkaTopic{}
	if err := g.client.Get(ctx, key, topic); err != nil {
		return &GuardError{Op: "release", Err: err}
	}

	base := topic.DeepCopy()
	if !controllerutil.RemoveFinalizer(topic, FinalizerName) {
		return nil
	}

	patch := client.MergeFromWithOptions(base, client.MergeFromWithOptimisticLock{})
	if err := g.client.Patch(ctx, topic, patch); err != nil {
		return &GuardError{Op: "release", Err: err}
	}

	logf.FromContext(ctx).V(1).Info("Released finalizer", "name", key.Name, "namespace", key.Namespace)
	return nil
}
