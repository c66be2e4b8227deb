// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package kafkatopic

import (
	"context"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
)

// createPass provisions the topic for a newly observed resource. Step order
// is load-bearing: the finalizer must be attached before the topic exists,
// so a crash between steps can never leave an unguarded topic behind.
//
//  1. Validate the declaration; fail with UserInputError before any side
//     effect.
//  2. Attach the finalizer. On failure abort the pass: no topic is created
//     without a guard.
//  3. Create the topic. On failure the guard stays attached; the retried
//     pass skips straight to the idempotent create.
func (r *Reconciler) createPass(ctx context.Context, topic *kafkav1.KafkaTopic) (ctrl.Result, error) {
	log := logf.FromContext(ctx).WithValues("name", topic.Name, "namespace", topic.Namespace)

	if topic.Namespace == "" {
		return ctrl.Result{}, &UserInputError{
			Reason: "expected KafkaTopic resource to be namespaced, can't manage a topic for an unknown namespace",
		}
	}

	spec, err := resolveTopicSpec(topic.Spec, r.DefaultBroker)
	if err != nil {
		return ctrl.Result{}, err
	}

	if err := r.Guard.AttachGuard(ctx, client.ObjectKeyFromObject(topic)); err != nil {
		return ctrl.Result{}, err
	}

	if err := r.Topics.CreateTopic(ctx, spec); err != nil {
		return ctrl.Result{}, &ProvisioningError{Op: "create", Topic: spec.Topic, Err: err}
	}

	log.Info("Created topic", "topic", spec.Topic,
		"partitions", spec.Partitions, "replicationFactor", spec.ReplicationFactor)

	// Re-check shortly to observe the attached guard and settle into steady
	// state.
	return ctrl.Result{RequeueAfter: r.Requeue.DefaultRequeue}, nil
}
