// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"os"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	kafkav1 "github.com/arnecdn/kafka-topic-operator/api/v1"
	"github.com/arnecdn/kafka-topic-operator/internal/config"
	"github.com/arnecdn/kafka-topic-operator/internal/controller/kafkatopic"
	"github.com/arnecdn/kafka-topic-operator/internal/crd"
	"github.com/arnecdn/kafka-topic-operator/internal/kafka"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(apiextensionsv1.AddToScheme(scheme))
	utilruntime.Must(kafkav1.AddToScheme(scheme))
}

func main() {
	var metricsAddr string
	var probeAddr string
	var installCRDs bool
	var maxConcurrent int
	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&installCRDs, "install-crds", false, "Install or update the KafkaTopic CRD on startup.")
	flag.IntVar(&maxConcurrent, "max-concurrent-reconciles", 5, "Maximum number of concurrent reconciliation passes.")
	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	cfg, err := config.Load()
	if err != nil {
		setupLog.Error(err, "unable to load operator configuration")
		os.Exit(1)
	}

	restConfig := ctrl.GetConfigOrDie()
	ctx := ctrl.SetupSignalHandler()

	if installCRDs {
		if err := crd.EnsureKafkaTopicCRD(ctx, restConfig); err != nil {
			setupLog.Error(err, "unable to install KafkaTopic CRD")
			os.Exit(1)
		}
	}

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: probeAddr,
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	provisioner := kafka.NewAdminProvisioner()
	defer func() {
		if err := provisioner.Close(); err != nil {
			setupLog.Error(err, "failed to close Kafka admin clients")
		}
	}()

	reconciler := &kafkatopic.Reconciler{
		Topics:        provisioner,
		DefaultBroker: cfg.KafkaBroker,
		Requeue: kafkatopic.RequeueSettings{
			DefaultRequeue: cfg.DefaultRequeue,
			ErrorRequeue:   cfg.ErrorRequeue,
		},
	}
	if err := reconciler.SetupWithManager(mgr, maxConcurrent); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "KafkaTopic")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager", "defaultBroker", cfg.KafkaBroker)
	if err := mgr.Start(ctx); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
