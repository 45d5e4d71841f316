/*
Copyright 2025 Spendtrail Authors.

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

// Package spendtrail implements the ledger service: filtered, paginated
// reads over transaction history and a write path that keeps each user's
// running balance consistent with the transactions recorded against it.
package spendtrail

import (
	"github.com/sirupsen/logrus"

	"github.com/spendtrail/spendtrail/cache"
	"github.com/spendtrail/spendtrail/config"
	"github.com/spendtrail/spendtrail/database"
	"github.com/spendtrail/spendtrail/events"
)

type Spendtrail struct {
	datasource database.IDataSource
	cache      cache.Cache
	publisher  events.Publisher
}

// NewSpendtrail wires the service from configuration. The cache is optional;
// without Redis the write path simply hits postgres for user lookups. The
// event publisher is a no-op unless Kafka brokers are configured.
func NewSpendtrail(db database.IDataSource) (*Spendtrail, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(configuration.Events.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(configuration.Events.Brokers, configuration.Events.Topic)
	}

	userCache, err := cache.NewCache()
	if err != nil {
		logrus.Warnf("cache unavailable, continuing without it: %v", err)
		userCache = nil
	}

	return &Spendtrail{
		datasource: db,
		cache:      userCache,
		publisher:  publisher,
	}, nil
}

// Close releases the event publisher so buffered events are flushed before
// the process exits.
func (s *Spendtrail) Close() error {
	return s.publisher.Close()
}
