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

package notification

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/spendtrail/spendtrail/config"
	"github.com/spendtrail/spendtrail/internal/request"
)

// SlackNotification posts an error report to the configured Slack webhook.
func SlackNotification(err error) {
	data := json.RawMessage(fmt.Sprintf(`{
		"blocks": [
			{
				"type": "header",
				"text": {
					"type": "plain_text",
					"text": "Error From Spendtrail 🐞",
					"emoji": true
				}
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Error:*\n%v"
					}
				]
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Time:*\n%v"
					}
				]
			}
		]
	}`, err.Error(), time.Now().Format(time.RFC822)))

	conf, confErr := config.Fetch()
	if confErr != nil {
		log.Println(confErr)
		return
	}

	payload, reqErr := request.ToJsonReq(&data)
	if reqErr != nil {
		log.Println(reqErr)
		return
	}

	req, reqErr := http.NewRequest("POST", conf.Notification.Slack.WebhookUrl, payload)
	if reqErr != nil {
		log.Println(reqErr)
		return
	}

	var response map[string]interface{}
	if _, callErr := request.Call(req, &response); callErr != nil {
		log.Println(callErr)
	}
}

// WebhookNotification delivers the error to the configured generic webhook.
// Delivery is retried with exponential backoff; this runs outside the request
// path, so the no-retries rule for the core does not apply here.
func WebhookNotification(systemError error) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"error": systemError.Error(),
		"time":  time.Now().UTC(),
	}

	operation := func() error {
		payload, err := request.ToJsonReq(&data)
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequest("POST", conf.Notification.Webhook.Url, payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, v := range conf.Notification.Webhook.Headers {
			req.Header.Set(k, v)
		}

		var response map[string]interface{}
		resp, err := request.Call(req, &response)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
}

// NotifyError reports a system error through every configured channel. It
// logs locally and fires the webhooks asynchronously so callers never block
// on notification delivery.
func NotifyError(systemError error) {
	go func(systemError error) {
		logrus.Error(systemError)

		conf, err := config.Fetch()
		if err != nil {
			log.Println(err)
			return
		}

		if conf.Notification.Slack.WebhookUrl != "" {
			SlackNotification(systemError)
		}
		if conf.Notification.Webhook.Url != "" {
			if err := WebhookNotification(systemError); err != nil {
				log.Println(err)
			}
		}
	}(systemError)
}
