// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package kafka provides the topic provisioning adapter over the Kafka admin
// protocol. It is the only part of the operator that talks to the brokers.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
)

const (
	clientID = "kafka-topic-operator"

	// operationTimeout bounds broker-side admin operations so a stalled
	// backend cannot block a reconciliation pass indefinitely.
	operationTimeout = 30 * time.Second
)

// TopicProvisioner is the capability interface the reconciler uses to drive
// the external Kafka cluster. Implementations must make CreateTopic and
// DeleteTopic idempotent: an already existing topic on create and a missing
// topic on delete are both success.
type TopicProvisioner interface {
	CreateTopic(ctx context.Context, spec kafkav1.KafkaTopicSpec) error
	DeleteTopic(ctx context.Context, spec kafkav1.KafkaTopicSpec) error
	TopicExists(ctx context.Context, spec kafkav1.KafkaTopicSpec) (bool, error)
}

// AdminProvisioner implements TopicProvisioner over sarama's ClusterAdmin.
// Admin handles are cached per bootstrap server and shared read-only across
// concurrent reconciliation passes; they hold no per-topic state.
type AdminProvisioner struct {
	mu     sync.Mutex
	admins map[string]sarama.ClusterAdmin

	// newAdmin is swappable so tests can inject a mock ClusterAdmin.
	newAdmin func(addrs []string, conf *sarama.Config) (sarama.ClusterAdmin, error)
}

// NewAdminProvisioner creates a provisioner with an empty admin handle pool.
// Handles are dialed lazily on first use of each bootstrap server.
func NewAdminProvisioner() *AdminProvisioner {
	return &AdminProvisioner{
		admins:   make(map[string]sarama.ClusterAdmin),
		newAdmin: sarama.NewClusterAdmin,
	}
}

// adminFor returns the pooled admin handle for the given bootstrap server,
// dialing it on first use.
func (p *AdminProvisioner) adminFor(ctx context.Context, bootstrapServer string) (sarama.ClusterAdmin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if admin, ok := p.admins[bootstrapServer]; ok {
		return admin, nil
	}

	conf := sarama.NewConfig()
	conf.ClientID = clientID
	conf.Admin.Timeout = operationTimeout

	admin, err := p.newAdmin(strings.Split(bootstrapServer, ","), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect admin client to %s: %w", bootstrapServer, err)
	}

	p.admins[bootstrapServer] = admin

	logf.FromContext(ctx).Info("Connected Kafka admin client", "bootstrapServer", bootstrapServer)
	return admin, nil
}

// CreateTopic creates the topic with the declared partition count and
// replication factor. A topic that already exists is success: the finalizer
// protocol guarantees the previous create was issued by this controller.
func (p *AdminProvisioner) CreateTopic(ctx context.Context, spec kafkav1.KafkaTopicSpec) error {
	admin, err := p.adminFor(ctx, spec.BootstrapServer)
	if err != nil {
		return err
	}

	detail := &sarama.TopicDetail{
		NumPartitions:     spec.Partitions,
		ReplicationFactor: spec.ReplicationFactor,
	}

	err = admin.CreateTopic(spec.Topic, detail, false)
	if err == nil || hasKafkaErrorCode(err, sarama.ErrTopicAlreadyExists) {
		return nil
	}

	return fmt.Errorf("failed to create topic %s: %w", spec.Topic, err)
}

// DeleteTopic removes the topic. A topic that no longer exists is success,
// so retried passes and out-of-band deletions do not wedge finalization.
func (p *AdminProvisioner) DeleteTopic(ctx context.Context, spec kafkav1.KafkaTopicSpec) error {
	admin, err := p.adminFor(ctx, spec.BootstrapServer)
	if err != nil {
		return err
	}

	err = admin.DeleteTopic(spec.Topic)
	if err == nil || hasKafkaErrorCode(err, sarama.ErrUnknownTopicOrPartition) {
		return nil
	}

	return fmt.Errorf("failed to delete topic %s: %w", spec.Topic, err)
}

// TopicExists reports whether the topic is present in the cluster metadata.
// The check is advisory; the reconciler's classification never depends on it.
func (p *AdminProvisioner) TopicExists(ctx context.Context, spec kafkav1.KafkaTopicSpec) (bool, error) {
	admin, err := p.adminFor(ctx, spec.BootstrapServer)
	if err != nil {
		return false, err
	}

	topics, err := admin.ListTopics()
	if err != nil {
		return false, fmt.Errorf("failed to list topics: %w", err)
	}

	_, ok := topics[spec.Topic]
	return ok, nil
}

// Close releases all pooled admin handles. Called once at process shutdown.
func (p *AdminProvisioner) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for bootstrapServer, admin := range p.admins {
		if err := admin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close admin client for %s: %w", bootstrapServer, err))
		}
		delete(p.admins, bootstrapServer)
	}

	return errors.Join(errs...)
}

// hasKafkaErrorCode reports whether err carries the given Kafka protocol
// error code, either directly or wrapped in a per-topic error.
func hasKafkaErrorCode(err error, code sarama.KError) bool {
	if errors.Is(err, code) {
		return true
	}

	var topicErr *sarama.TopicError
	if errors.As(err, &topicErr) {
		return topicErr.Err == code
	}

	return false
}
