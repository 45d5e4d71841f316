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

package admission

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spendtrail/spendtrail/config"
)

const (
	proxySetKey = "reputation:proxy"
	vpnSetKey   = "reputation:vpn"
)

// consumeScript performs the bucket read-modify-write in a single eval so
// concurrent requests from the same identity key cannot race. Refill is
// lazy: elapsed whole intervals are credited before the cost is charged.
const consumeScript = `
local key = KEYS[1]
local cost = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local state = redis.call('hmget', key, 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
end

local elapsed = math.floor((now - ts) / interval)
if elapsed > 0 then
  tokens = math.min(capacity, tokens + elapsed * refill)
  ts = ts + elapsed * interval
end

local granted = 0
if tokens >= cost then
  tokens = tokens - cost
  granted = 1
end

redis.call('hmset', key, 'tokens', tokens, 'ts', ts)
redis.call('expire', key, interval * 10)
return {granted, tokens}
`

// defaultShieldPatterns catch common injection payloads in the request line.
// They are deliberately coarse; operators refine them per deployment.
var defaultShieldPatterns = []string{
	`(?i)(union\s+select|select\s.+\sfrom\s|insert\s+into|drop\s+table|or\s+1\s*=\s*1)`,
	`(?i)<script[\s>]`,
	`\.\./\.\./`,
	`(?i)(;|\|\|)\s*(cat|curl|wget|rm)\s`,
}

type botRule struct {
	pattern  *regexp.Regexp
	category string
}

// defaultBotRules classify callers by user agent. Categories feed the gate's
// allow list; SEARCH_ENGINE is allow-listed by default.
var defaultBotRules = []botRule{
	{regexp.MustCompile(`(?i)(googlebot|bingbot|duckduckbot|baiduspider|yandexbot)`), "SEARCH_ENGINE"},
	{regexp.MustCompile(`(?i)(uptimerobot|pingdom|statuscake)`), "MONITOR"},
	{regexp.MustCompile(`(?i)(curl|wget|python-requests|go-http-client|scrapy|java/|libwww)`), "AUTOMATED"},
	{regexp.MustCompile(`(?i)(bot|crawler|spider)`), "AUTOMATED"},
}

// RedisProvider is the built-in VerdictProvider. Signature shielding and bot
// classification are local pattern tables; token buckets and the proxy/VPN
// reputation sets live in Redis so every instance shares the same state.
type RedisProvider struct {
	client   redis.UniversalClient
	shield   []*regexp.Regexp
	bots     []botRule
	capacity int64
	refill   int64
	interval int64
	now      func() time.Time
}

// NewRedisProvider compiles the shield patterns and binds the bucket
// parameters. Configured patterns extend the defaults.
func NewRedisProvider(client redis.UniversalClient, cfg config.AdmissionConfig) (*RedisProvider, error) {
	patterns := append([]string{}, defaultShieldPatterns...)
	patterns = append(patterns, cfg.ShieldPatterns...)

	shield := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid shield pattern %q: %w", p, err)
		}
		shield = append(shield, re)
	}

	return &RedisProvider{
		client:   client,
		shield:   shield,
		bots:     defaultBotRules,
		capacity: cfg.TokenBucket.Capacity,
		refill:   cfg.TokenBucket.RefillRate,
		interval: cfg.TokenBucket.IntervalSec,
		now:      time.Now,
	}, nil
}

// CheckAttackSignature scans the request line and user agent against the
// shield patterns.
func (p *RedisProvider) CheckAttackSignature(_ context.Context, req RequestInfo) (bool, error) {
	target := req.Path
	if req.RawQuery != "" {
		target += "?" + req.RawQuery
	}
	for _, re := range p.shield {
		if re.MatchString(target) || re.MatchString(req.UserAgent) {
			return true, nil
		}
	}
	return false, nil
}

// ClassifyBot returns the bot category of the caller, or an empty string for
// ordinary clients.
func (p *RedisProvider) ClassifyBot(_ context.Context, req RequestInfo) (string, error) {
	ua := strings.TrimSpace(req.UserAgent)
	if ua == "" {
		// Headless clients without a user agent are treated as automated.
		return "AUTOMATED", nil
	}
	for _, rule := range p.bots {
		if rule.pattern.MatchString(ua) {
			return rule.category, nil
		}
	}
	return "", nil
}

// ConsumeTokens charges cost tokens against the identity key's bucket and
// reports whether the charge was granted plus the remaining balance.
func (p *RedisProvider) ConsumeTokens(ctx context.Context, identityKey string, cost int64) (bool, int64, error) {
	key := "bucket:" + identityKey
	res, err := p.client.Eval(ctx, consumeScript, []string{key},
		cost, p.capacity, p.refill, p.interval, p.now().Unix()).Result()
	if err != nil {
		return false, 0, err
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected bucket script result: %v", res)
	}
	granted, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	return granted == 1, remaining, nil
}

// CheckNetworkReputation looks the identity key up in the proxy and VPN
// sets. The sets are maintained out of band by a reputation feed.
func (p *RedisProvider) CheckNetworkReputation(ctx context.Context, identityKey string) (Reputation, error) {
	pipe := p.client.Pipeline()
	proxyCmd := pipe.SIsMember(ctx, proxySetKey, identityKey)
	vpnCmd := pipe.SIsMember(ctx, vpnSetKey, identityKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Reputation{}, err
	}
	return Reputation{IsProxy: proxyCmd.Val(), IsVpn: vpnCmd.Val()}, nil
}
