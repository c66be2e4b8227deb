// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package kafkatopic

import "fmt"

// The reconciler surfaces three kinds of failures. All of them end the pass
// and are retried through the standard error requeue; none are fatal to the
// process. The types are matchable with errors.As so tests and callers can
// tell them apart.

// UserInputError reports a structurally invalid KafkaTopic declaration,
// typically a missing namespace or an out-of-range spec field. The pass ends
// before any side effect is attempted.
type UserInputError struct {
	Reason string
}

func (e *UserInputError) Error() string {
	return fmt.Sprintf("invalid KafkaTopic resource: %s", e.Reason)
}

// GuardError reports that the cluster API rejected a finalizer attach or
// release (conflict, not-found, transport failure).
type GuardError struct {
	// Op is "attach" or "release".
	Op  string
	Err error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("finalizer %s failed: %v", e.Op, e.Err)
}

func (e *GuardError) Unwrap() error { return e.Err }

// ProvisioningError reports that the Kafka backend rejected a topic create or
// delete. The idempotent outcomes (already exists, not found) never surface
// here; the adapter treats them as success.
type ProvisioningError struct {
	// Op is "create" or "delete".
	Op    string
	Topic string
	Err   error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("topic %s failed for %s: %v", e.Op, e.Topic, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
