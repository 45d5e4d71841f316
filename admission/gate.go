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

// Package admission decides whether an inbound request may reach the ledger.
// A request passes through an ordered list of checks: attack-signature
// shielding, bot classification, token-bucket rate limiting, then network
// reputation. The first deny wins. Capacity is consumed before the
// reputation lookup so that traffic blocked by reputation still counts
// against its bucket.
package admission

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/spendtrail/spendtrail/config"
)

// Reason explains an admission decision.
type Reason string

const (
	ReasonOK                 Reason = "OK"
	ReasonRateLimited        Reason = "RATE_LIMITED"
	ReasonBot                Reason = "BOT"
	ReasonAttackSignature    Reason = "ATTACK_SIGNATURE"
	ReasonAnonymizingNetwork Reason = "ANONYMIZING_NETWORK"
)

// Decision is computed once per request and discarded after the response.
type Decision struct {
	Allowed   bool   `json:"allowed"`
	Reason    Reason `json:"reason"`
	Remaining int64  `json:"remaining"`
}

// RequestInfo carries the request attributes the checks inspect. IdentityKey
// partitions rate-limit and reputation state per caller, typically the
// source network address.
type RequestInfo struct {
	IdentityKey string
	Path        string
	RawQuery    string
	UserAgent   string
}

// Reputation is the network-reputation verdict for an identity key.
type Reputation struct {
	IsProxy bool
	IsVpn   bool
}

// VerdictProvider produces the raw classification verdicts the gate combines
// into a decision. ConsumeTokens is the only call that mutates provider
// state; it must decrement the identity key's bucket atomically with respect
// to concurrent requests.
type VerdictProvider interface {
	CheckAttackSignature(ctx context.Context, req RequestInfo) (bool, error)
	ClassifyBot(ctx context.Context, req RequestInfo) (string, error)
	ConsumeTokens(ctx context.Context, identityKey string, cost int64) (bool, int64, error)
	CheckNetworkReputation(ctx context.Context, identityKey string) (Reputation, error)
}

// check is a named admission predicate. run returns whether the request is
// denied; reordering the gate's check list is a visible, reviewable change.
type check struct {
	name string
	run  func(ctx context.Context, req RequestInfo) (denied bool, remaining int64, err error)
	// reason reported when this check denies, and when the provider fails
	// during it: a provider outage fails closed, never open.
	reason Reason
}

// Gate evaluates the ordered admission checks against a VerdictProvider.
type Gate struct {
	provider VerdictProvider
	cost     int64
	botAllow map[string]struct{}
	checks   []check
}

// NewGate wires the check sequence. The order is a deliberate design choice:
// cheap structural checks run before the reputation lookup, and capacity is
// charged before reputation so a reputation block is never free.
func NewGate(provider VerdictProvider, cfg config.AdmissionConfig) *Gate {
	allow := make(map[string]struct{}, len(cfg.BotAllow))
	for _, category := range cfg.BotAllow {
		allow[category] = struct{}{}
	}

	g := &Gate{
		provider: provider,
		cost:     cfg.TokenBucket.RequestCost,
		botAllow: allow,
	}
	g.checks = []check{
		{name: "shield", run: g.runShield, reason: ReasonAttackSignature},
		{name: "bot", run: g.runBot, reason: ReasonBot},
		{name: "rate_limit", run: g.runRateLimit, reason: ReasonRateLimited},
		{name: "reputation", run: g.runReputation, reason: ReasonAnonymizingNetwork},
	}
	return g
}

// Evaluate runs every check in order and returns the first deny, or an OK
// decision when all pass.
func (g *Gate) Evaluate(ctx context.Context, req RequestInfo) Decision {
	var remaining int64
	for _, c := range g.checks {
		denied, left, err := c.run(ctx, req)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"check":    c.name,
				"identity": req.IdentityKey,
			}).Errorf("verdict provider failed, denying request: %v", err)
			return Decision{Allowed: false, Reason: c.reason, Remaining: remaining}
		}
		if left >= 0 {
			remaining = left
		}
		if denied {
			return Decision{Allowed: false, Reason: c.reason, Remaining: remaining}
		}
	}
	return Decision{Allowed: true, Reason: ReasonOK, Remaining: remaining}
}

func (g *Gate) runShield(ctx context.Context, req RequestInfo) (bool, int64, error) {
	matched, err := g.provider.CheckAttackSignature(ctx, req)
	return matched, -1, err
}

// runBot denies disallowed bot categories. An allow-listed category is
// exempt from the BOT denial only; it still faces the remaining checks.
func (g *Gate) runBot(ctx context.Context, req RequestInfo) (bool, int64, error) {
	category, err := g.provider.ClassifyBot(ctx, req)
	if err != nil {
		return false, -1, err
	}
	if category == "" {
		return false, -1, nil
	}
	if _, allowed := g.botAllow[category]; allowed {
		return false, -1, nil
	}
	return true, -1, nil
}

func (g *Gate) runRateLimit(ctx context.Context, req RequestInfo) (bool, int64, error) {
	granted, remaining, err := g.provider.ConsumeTokens(ctx, req.IdentityKey, g.cost)
	if err != nil {
		return false, -1, err
	}
	return !granted, remaining, nil
}

func (g *Gate) runReputation(ctx context.Context, req RequestInfo) (bool, int64, error) {
	rep, err := g.provider.CheckNetworkReputation(ctx, req.IdentityKey)
	if err != nil {
		return false, -1, err
	}
	return rep.IsProxy || rep.IsVpn, -1, nil
}
