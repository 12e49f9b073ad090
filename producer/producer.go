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

// Package producer contains an interface for all producers that can be used
// to publish (that is send) evaluation records to external systems.
package producer

import (
	"github.com/RedHatInsights/insights-calculator/types"
)

// Producer represents any producer
type Producer interface {
	ProduceMessage(msg types.ProducerMessage) (int32, int64, error)
	Close() error
}
