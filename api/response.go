package api

import "github.com/gin-gonic/gin"

// Response is the envelope shared by every endpoint, admission denials
// included.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Response{StatusCode: status, Message: message, Data: data})
}
