// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// config.go contains KafkaTopic spec resolution and validation. Resolution
// merges the operator's default broker into specs that omit one; validation
// enforces the declared invariants before any side effect is attempted.

package kafkatopic

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
)

// topicValidator is a package-level validator instance that is reused across
// all reconciliations. validator.Validate is thread-safe and designed for
// concurrent use, making this safe to share.
var topicValidator = validator.New()

// resolveTopicSpec applies the operator-level default bootstrap server to a
// spec that omits one and validates the result. The spec field takes
// precedence over the default when both are set.
//
// Failures are UserInputError: the declaration cannot succeed as written and
// retrying with the same input is pointless.
func resolveTopicSpec(spec kafkav1.KafkaTopicSpec, defaultBroker string) (kafkav1.KafkaTopicSpec, error) {
	if spec.BootstrapServer == "" {
		spec.BootstrapServer = defaultBroker
	}

	if err := topicValidator.Struct(&spec); err != nil {
		return kafkav1.KafkaTopicSpec{}, &UserInputError{Reason: describeValidationError(err)}
	}

	return spec, nil
}

// describeValidationError flattens validator output into a single message
// naming the offending fields.
func describeValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msg := ""
	for _, fieldErr := range validationErrs {
		if msg != "" {
			msg += "; "
		}

		switch fieldErr.Field() {
		case "BootstrapServer":
			msg += "bootstrapServer is required (set spec.bootstrapServer or APP__KAFKA__BROKER)"
		case "Topic":
			msg += "topic is required"
		case "Partitions":
			msg += "partitions must be at least 1"
		case "ReplicationFactor":
			msg += "replicationFactor must be at least 1"
		default:
			msg += fmt.Sprintf("%s is invalid", fieldErr.Field())
		}
	}

	return msg
}
