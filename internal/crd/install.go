// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package crd installs the KafkaTopic CustomResourceDefinition so the
// operator can run against a fresh cluster without a separate manifest step.
package crd

import (
	"context"
	"fmt"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/rest"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
)

const crdName = "kafkatopics.arnecdn.github.com"

// EnsureKafkaTopicCRD creates the KafkaTopic CRD, or updates it in place
// when it already exists. Safe to run on every startup.
func EnsureKafkaTopicCRD(ctx context.Context, cfg *rest.Config) error {
	log := logf.FromContext(ctx).WithValues("crd", crdName)

	clientset, err := apiextensionsclient.NewForConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create apiextensions client: %w", err)
	}

	desired := kafkaTopicCRD()
	crds := clientset.ApiextensionsV1().CustomResourceDefinitions()

	_, err = crds.Create(ctx, desired, metav1.CreateOptions{})
	if err == nil {
		log.Info("Installed CustomResourceDefinition")
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create CRD %s: %w", crdName, err)
	}

	existing, err := crds.Get(ctx, crdName, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get CRD %s: %w", crdName, err)
	}

	desired.ResourceVersion = existing.ResourceVersion
	if _, err := crds.Update(ctx, desired, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update CRD %s: %w", crdName, err)
	}

	log.Info("Updated CustomResourceDefinition")
	return nil
}

// kafkaTopicCRD builds the CRD matching api/v1.KafkaTopicSpec.
func kafkaTopicCRD() *apiextensionsv1.CustomResourceDefinition {
	minOne := float64(1)

	specSchema := &apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"topic", "partitions", "replicationFactor"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"bootstrapServer":   {Type: "string"},
			"topic":             {Type: "string"},
			"partitions":        {Type: "integer", Format: "int32", Minimum: &minOne},
			"replicationFactor": {Type: "integer", Minimum: &minOne},
		},
	}

	return &apiextensionsv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{
			Name: crdName,
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: kafkav1.GroupVersion.Group,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Kind:     "KafkaTopic",
				ListKind: "KafkaTopicList",
				Plural:   "kafkatopics",
				Singular: "kafkatopic",
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{
					Name:    kafkav1.GroupVersion.Version,
					Served:  true,
					Storage: true,
					Schema: &apiextensionsv1.CustomResourceValidation{
						OpenAPIV3Schema: &apiextensionsv1.JSONSchemaProps{
							Type: "object",
							Properties: map[string]apiextensionsv1.JSONSchemaProps{
								"spec": *specSchema,
							},
						},
					},
				},
			},
		},
	}
}
