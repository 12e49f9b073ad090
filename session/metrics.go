/*
Copyright © 2021, 2022, 2023 Red Hat, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package session

// File metrics contains all metrics that needs to be exposed to Prometheus and
// indirectly to Grafana.

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/insights-calculator/conf"
	"github.com/RedHatInsights/insights-calculator/utils"
)

// Metrics names
const (
	EventsDispatchedName    = "events_dispatched"
	EvaluationsName         = "evaluations"
	EvaluationErrorsName    = "evaluation_errors"
	JournalWriteErrorsName  = "journal_write_errors"
	MessagesProducedName    = "messages_produced"
	MessagesFilteredOutName = "messages_filtered_out"
	ProducerErrorsName      = "producer_errors"
	ProducerSetupErrorsName = "producer_setup_errors"
	StorageSetupErrorsName  = "storage_setup_errors"
)

// Metrics helps
const (
	EventsDispatchedHelp    = "The total number of input events dispatched to the calculator"
	EvaluationsHelp         = "The total number of evaluated expressions"
	EvaluationErrorsHelp    = "The total number of expressions that could not be evaluated"
	JournalWriteErrorsHelp  = "The total number of errors when writing evaluation into journal"
	MessagesProducedHelp    = "The total number of evaluation messages sent to Kafka"
	MessagesFilteredOutHelp = "The total number of evaluation messages not sent because of event filter"
	ProducerErrorsHelp      = "The total number of evaluation messages not sent because of a Kafka producer error"
	ProducerSetupErrorsHelp = "The total number of errors when setting up Kafka producer"
	StorageSetupErrorsHelp  = "The total number of errors when setting up storage connection"
)

// Metrics labels
const (
	kindLabel = "kind"
)

// PushGatewayClient is a simple wrapper over http.Client so that prometheus
// can do HTTP requests with the given authentication header
type PushGatewayClient struct {
	AuthToken string

	httpClient http.Client
}

// Do is a simple wrapper over http.Client.Do method that includes
// the authentication header configured in the PushGatewayClient instance
func (pgc *PushGatewayClient) Do(request *http.Request) (*http.Response, error) {
	if pgc.AuthToken != "" {
		log.Debug().Msg("Adding authorization header to HTTP request")
		request.Header.Set("Authorization", "Basic "+pgc.AuthToken)
	} else {
		log.Debug().Msg("No authorization token provided. Making HTTP request without credentials.")
	}
	log.Debug().Str("request", request.URL.String()).Str("method", request.Method).Msg("Pushing metrics to Prometheus push gateway")
	resp, err := pgc.httpClient.Do(request)
	if resp != nil {
		log.Debug().Int("code", resp.StatusCode).Msg("Returned status code")
	}
	return resp, err
}

// EventsDispatched shows number of input events per event kind
var EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: EventsDispatchedName,
	Help: EventsDispatchedHelp,
}, []string{kindLabel})

// Evaluations shows number of evaluated expressions
var Evaluations = promauto.NewCounter(prometheus.CounterOpts{
	Name: EvaluationsName,
	Help: EvaluationsHelp,
})

// EvaluationErrors shows number of evaluation errors per error kind
var EvaluationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: EvaluationErrorsName,
	Help: EvaluationErrorsHelp,
}, []string{kindLabel})

// JournalWriteErrors shows number of errors when writing into journal
var JournalWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: JournalWriteErrorsName,
	Help: JournalWriteErrorsHelp,
})

// MessagesProduced shows number of messages sent to the configured Kafka
// topic
var MessagesProduced = promauto.NewCounter(prometheus.CounterOpts{
	Name: MessagesProducedName,
	Help: MessagesProducedHelp,
})

// MessagesFilteredOut shows number of messages not sent because event
// filter evaluated to zero
var MessagesFilteredOut = promauto.NewCounter(prometheus.CounterOpts{
	Name: MessagesFilteredOutName,
	Help: MessagesFilteredOutHelp,
})

// ProducerErrors shows number of messages not sent because of a Kafka
// producer error
var ProducerErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: ProducerErrorsName,
	Help: ProducerErrorsHelp,
})

// ProducerSetupErrors shows number of errors when setting up Kafka producer
var ProducerSetupErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: ProducerSetupErrorsName,
	Help: ProducerSetupErrorsHelp,
})

// StorageSetupErrors shows number of errors when setting up storage
var StorageSetupErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: StorageSetupErrorsName,
	Help: StorageSetupErrorsHelp,
})

// AddMetricsWithNamespaceAndSubsystem register the desired metrics using a
// given namespace and subsystem
func AddMetricsWithNamespaceAndSubsystem(namespace, subsystem string) {
	// Unregister all metrics and registrer them again
	prometheus.Unregister(EventsDispatched)
	prometheus.Unregister(Evaluations)
	prometheus.Unregister(EvaluationErrors)
	prometheus.Unregister(JournalWriteErrors)
	prometheus.Unregister(MessagesProduced)
	prometheus.Unregister(MessagesFilteredOut)
	prometheus.Unregister(ProducerErrors)
	prometheus.Unregister(ProducerSetupErrors)
	prometheus.Unregister(StorageSetupErrors)

	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      EventsDispatchedName,
		Help:      EventsDispatchedHelp,
	}, []string{kindLabel})

	Evaluations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      EvaluationsName,
		Help:      EvaluationsHelp,
	})

	EvaluationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      EvaluationErrorsName,
		Help:      EvaluationErrorsHelp,
	}, []string{kindLabel})

	JournalWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      JournalWriteErrorsName,
		Help:      JournalWriteErrorsHelp,
	})

	MessagesProduced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      MessagesProducedName,
		Help:      MessagesProducedHelp,
	})

	MessagesFilteredOut = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      MessagesFilteredOutName,
		Help:      MessagesFilteredOutHelp,
	})

	ProducerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      ProducerErrorsName,
		Help:      ProducerErrorsHelp,
	})

	ProducerSetupErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      ProducerSetupErrorsName,
		Help:      ProducerSetupErrorsHelp,
	})

	StorageSetupErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      StorageSetupErrorsName,
		Help:      StorageSetupErrorsHelp,
	})
}

// PushCollectedMetrics function pushes the metrics to the configured
// prometheus push gateway
func PushCollectedMetrics(metricsConf conf.MetricsConfiguration) error {
	client := PushGatewayClient{metricsConf.GatewayAuthToken, http.Client{}}

	// Creates a pusher to the gateway "$PUSHGW_URL/metrics/job/$(job_name)
	return push.New(utils.SetHTTPPrefix(metricsConf.GatewayURL), metricsConf.Job).
		Collector(EventsDispatched).
		Collector(Evaluations).
		Collector(EvaluationErrors).
		Collector(JournalWriteErrors).
		Collector(MessagesProduced).
		Collector(MessagesFilteredOut).
		Collector(ProducerErrors).
		Collector(ProducerSetupErrors).
		Collector(StorageSetupErrors).
		Client(&client).
		Push()
}

// PushMetrics function pushes the metrics to the configured prometheus push
// gateway. Push is retried when configured so.
func PushMetrics(metricsConf conf.MetricsConfiguration) error {
	err := PushCollectedMetrics(metricsConf)
	if err == nil {
		log.Info().Msg(metricsPushedMessage)
		return nil
	}

	log.Err(err).Msg(metricsPushFailedMessage)
	if metricsConf.RetryAfter == 0 || metricsConf.Retries == 0 {
		return err
	}

	for i := metricsConf.Retries; i > 0; i-- {
		time.Sleep(metricsConf.RetryAfter)
		log.Info().Msgf("Push metrics. Retrying (%d/%d attempts left)", i, metricsConf.Retries)
		err = PushCollectedMetrics(metricsConf)
		if err == nil {
			log.Info().Msg(metricsPushedMessage)
			return nil
		}
		log.Err(err).Msg(metricsPushFailedMessage)
	}

	return err
}
