// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package kafkatopic implements the KafkaTopic reconciliation engine: a
// level-triggered controller that drives a Kafka cluster toward the topics
// declared as custom resources, using a finalizer to sequence
// create-after-guard and delete-before-unguard.
package kafkatopic

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
	"github.com/arnecdn/kafka-topic-operator/internal/kafka"
)

// RequeueSettings defines timing configuration for controller requeue
// operations.
type RequeueSettings struct {
	// DefaultRequeue is the poll interval after a successful Create or NoOp
	// pass. Re-checks are cheap and idempotent, so there is no backoff.
	DefaultRequeue time.Duration

	// ErrorRequeue is the requeue period after a failed pass. Shorter than
	// DefaultRequeue to recover quickly from transient backend errors,
	// without hot-looping against an unavailable backend.
	ErrorRequeue time.Duration
}

// DefaultRequeueSettings provides the standard requeue timing.
func DefaultRequeueSettings() RequeueSettings {
	return RequeueSettings{
		DefaultRequeue: 10 * time.Second,
		ErrorRequeue:   5 * time.Second,
	}
}

// Reconciler reconciles KafkaTopic resources against a Kafka cluster.
//
// The reconciler holds no per-resource state between passes; every pass
// re-derives the required action from the observed resource, so it is safe
// to run passes for different resources concurrently. Per-resource
// serialization is the work queue's job.
type Reconciler struct {
	client.Client
	Scheme *runtime.Scheme

	// Guard drives the finalizer protocol against the cluster API.
	Guard LifecycleGuard

	// Topics drives topic creation and deletion against the Kafka cluster.
	Topics kafka.TopicProvisioner

	// DefaultBroker is used for specs that omit spec.bootstrapServer.
	DefaultBroker string

	Requeue RequeueSettings
}

//+kubebuilder:rbac:groups=arnecdn.github.com,resources=kafkatopics,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=arnecdn.github.com,resources=kafkatopics/finalizers,verbs=update

// Reconcile runs one pass for the resource named by req: classify the
// observed state into an action, execute the action's ordered steps, and
// return a scheduling directive.
//
// Failures never propagate to the manager as errors; they are logged and
// mapped to the fixed error requeue, so one persistently failing resource
// cannot disturb the scheduling of others.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	topic := &kafkav1.KafkaTopic{}
	if err := r.Get(ctx, req.NamespacedName, topic); err != nil {
		// Already gone: the finalizer was released and the resource removed.
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	action := determineAction(topic)
	log.V(1).Info("Reconciling KafkaTopic", "topic", topic.Spec.Topic, "action", action.String())

	var result ctrl.Result
	var err error

	switch action {
	case ActionCreate:
		result, err = r.createPass(ctx, topic)
	case ActionDelete:
		result, err = r.deletePass(ctx, topic)
	default:
		// Steady state: guard attached, topic presumed present. Re-poll to
		// pick up future deletion requests.
		result = ctrl.Result{RequeueAfter: r.Requeue.DefaultRequeue}
	}

	if err != nil {
		return r.onError(ctx, topic, err), nil
	}

	return result, nil
}

// onError logs the failed pass and schedules a short retry. Retry means
// re-invoking the whole pass; no step is retried in place.
func (r *Reconciler) onError(ctx context.Context, topic *kafkav1.KafkaTopic, err error) ctrl.Result {
	logf.FromContext(ctx).Error(err, "Reconciliation failed",
		"name", topic.Name, "namespace", topic.Namespace, "topic", topic.Spec.Topic,
		"requeueAfter", r.Requeue.ErrorRequeue)

	return ctrl.Result{RequeueAfter: r.Requeue.ErrorRequeue}
}

// SetupWithManager sets up the controller with the Manager.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager, maxConcurrent int) error {
	r.Client = mgr.GetClient()
	r.Scheme = mgr.GetScheme()

	if r.Guard == nil {
		r.Guard = NewFinalizerGuard(r.Client)
	}
	if r.Requeue == (RequeueSettings{}) {
		r.Requeue = DefaultRequeueSettings()
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&kafkav1.KafkaTopic{}).
		Named("kafkatopic").
		WithOptions(controller.Options{
			MaxConcurrentReconciles: maxConcurrent,
		}).
		Complete(r)
}
