// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// KafkaTopicSpec declares the desired state of a Kafka topic. The spec is
// immutable for the duration of a reconciliation pass; the controller never
// writes it back.
type KafkaTopicSpec struct {
	// BootstrapServer is the address of the Kafka cluster that owns the topic.
	// When empty, the operator's APP__KAFKA__BROKER setting is used instead.
	// +optional
	BootstrapServer string `json:"bootstrapServer,omitempty" validate:"required"`

	// Topic is the name of the Kafka topic, unique within the cluster.
	Topic string `json:"topic" validate:"required"`

	// Partitions is the partition count the topic is created with.
	// Changing it after creation is not reconciled.
	// +kubebuilder:validation:Minimum=1
	Partitions int32 `json:"partitions" validate:"min=1"`

	// ReplicationFactor is the replication factor the topic is created with.
	// Changing it after creation is not reconciled.
	// +kubebuilder:validation:Minimum=1
	ReplicationFactor int16 `json:"replicationFactor" validate:"min=1"`
}

//+kubebuilder:object:root=true
//+kubebuilder:resource:path=kafkatopics,scope=Namespaced

// KafkaTopic is the Schema for the kafkatopics API. The controller attaches
// a finalizer before it creates the backing topic, so the topic can never
// outlive the resource unnoticed.
type KafkaTopic struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec KafkaTopicSpec `json:"spec,omitempty"`
}

//+kubebuilder:object:root=true

// KafkaTopicList contains a list of KafkaTopic
type KafkaTopicList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []KafkaTopic `json:"items"`
}

func init() {
	SchemeBuilder.Register(&KafkaTopic{}, &KafkaTopicList{})
}
