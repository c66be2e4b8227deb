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

// deletePass removes the topic for a resource whose deletion was requested.
// The topic is deleted first; only once that succeeds is the finalizer
// released. On failure the finalizer stays attached, the cluster API keeps
// the resource, and the whole pass is retried.
func (r *Reconciler) deletePass(ctx context.Context, topic *kafkav1.KafkaTopic) (ctrl.Result, error) {
	log := logf.FromContext(ctx).WithValues("name", topic.Name, "namespace", topic.Namespace)

	spec, err := resolveTopicSpec(topic.Spec, r.DefaultBroker)
	if err != nil {
		return ctrl.Result{}, err
	}

	if err := r.Topics.DeleteTopic(ctx, spec); err != nil {
		return ctrl.Result{}, &ProvisioningError{Op: "delete", Topic: spec.Topic, Err: err}
	}

	if err := r.Guard.ReleaseGuard(ctx, client.ObjectKeyFromObject(topic)); err != nil {
		return ctrl.Result{}, err
	}

	log.Info("Deleted topic", "topic", spec.Topic)

	// Nothing further to do: with the finalizer released the resource is
	// removed upstream and never reconciled again.
	return ctrl.Result{}, nil
}
