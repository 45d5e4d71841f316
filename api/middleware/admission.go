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
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/spendtrail/spendtrail/admission"
)

// AdmissionMiddleware evaluates the admission gate before any routing
// happens. Rate-limit denials answer 429, every other denial 403, both with
// an empty data payload in the standard envelope.
func AdmissionMiddleware(gate *admission.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := gate.Evaluate(c.Request.Context(), admission.RequestInfo{
			IdentityKey: c.ClientIP(),
			Path:        c.Request.URL.Path,
			RawQuery:    c.Request.URL.RawQuery,
			UserAgent:   c.Request.UserAgent(),
		})

		if !decision.Allowed {
			logrus.WithFields(logrus.Fields{
				"identity": c.ClientIP(),
				"reason":   decision.Reason,
			}).Info("request denied by admission gate")

			status := http.StatusForbidden
			message := "Forbidden"
			if decision.Reason == admission.ReasonRateLimited {
				status = http.StatusTooManyRequests
				message = "Rate limit exceeded"
			}
			c.AbortWithStatusJSON(status, gin.H{
				"statusCode": status,
				"message":    message,
				"data":       gin.H{},
			})
			return
		}

		c.Next()
	}
}
