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

package spendtrail

import (
	"context"
	"fmt"
	"time"

	"github.com/spendtrail/spendtrail/model"
)

const userCacheTTL = 5 * time.Minute

// CreateUser registers a new user. An empty ID lets the database layer
// assign one.
func (s *Spendtrail) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return s.datasource.CreateUser(ctx, user)
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// GetUserByID resolves a user through the cache, falling back to the
// database. The cached copy is dropped whenever the write path moves the
// user's balance.
func (s *Spendtrail) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if s.cache != nil {
		var cached model.User
		if err := s.cache.Get(ctx, userCacheKey(id), &cached); err == nil && cached.UserID != "" {
			return &cached, nil
		}
	}

	usr, err := s.datasource.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, userCacheKey(id), usr, userCacheTTL)
	}
	return usr, nil
}
