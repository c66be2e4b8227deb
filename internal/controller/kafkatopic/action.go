// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package kafkatopic

import (
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
)

// Action is what a reconciliation pass has to do for a resource in its
// currently observed state.
type Action int

const (
	// ActionCreate attaches the finalizer and creates the backing topic.
	ActionCreate Action = iota
	// ActionDelete removes the backing topic and releases the finalizer.
	ActionDelete
	// ActionNoOp leaves the resource alone; it is in its desired state.
	ActionNoOp
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "Create"
	case ActionDelete:
		return "Delete"
	default:
		return "NoOp"
	}
}

// determineAction classifies the resource into an action. It is a pure
// function of the deletion timestamp and the finalizer: deletion requested
// wins regardless of guard state, an unguarded live resource is new, and a
// guarded live resource is in steady state.
//
// Nothing else may feed into this decision; re-running it against the same
// resource state must always yield the same action.
func determineAction(topic *kafkav1.KafkaTopic) Action {
	if topic.DeletionTimestamp != nil {
		return ActionDelete
	}

	if !controllerutil.ContainsFinalizer(topic, FinalizerName) {
		return ActionCreate
	}

	return ActionNoOp
}
