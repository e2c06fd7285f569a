// Package lambda serves the gin router from AWS Lambda behind API Gateway.
package lambda

import (
	"context"
	"net"

	"portfolio-backend/internal/domain"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

// Payload versions of the API Gateway proxy integration.
const (
	PayloadV1 = "1.0" // REST API
	PayloadV2 = "2.0" // HTTP API
)

// Adapter proxies API Gateway events to a gin engine.
type Adapter struct {
	v1 *ginadapter.GinLambda
	v2 *ginadapter.GinLambdaV2
}

func NewAdapter(engine *gin.Engine) *Adapter {
	return &Adapter{
		v1: ginadapter.New(engine),
		v2: ginadapter.NewV2(engine),
	}
}

// Handle serves a REST API (payload 1.0) event.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return a.v1.ProxyWithContext(ctx, event)
}

// HandleV2 serves an HTTP API (payload 2.0) event.
func (a *Adapter) HandleV2(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return a.v2.ProxyWithContext(ctx, event)
}

// Handler picks the entrypoint for the given payload version.
func (a *Adapter) Handler(payloadVersion string) interface{} {
	if payloadVersion == PayloadV2 {
		return a.HandleV2
	}
	return a.Handle
}

// GatewayContext copies the caller IP reported by API Gateway into RemoteAddr
// and uses the Lambda request ID when the caller sent none. It must run before
// RequestID and the rate limiter.
func GatewayContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if ip := sourceIP(ctx); ip != "" {
			c.Request.RemoteAddr = net.JoinHostPort(ip, "0")
		}
		if c.GetHeader(domain.RequestIDHeader) == "" {
			if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
				c.Request.Header.Set(domain.RequestIDHeader, lc.AwsRequestID)
			}
		}
		c.Next()
	}
}

func sourceIP(ctx context.Context) string {
	if rc, ok := core.GetAPIGatewayContextFromContext(ctx); ok && rc.Identity.SourceIP != "" {
		return rc.Identity.SourceIP
	}
	if rc, ok := core.GetAPIGatewayV2ContextFromContext(ctx); ok {
		return rc.HTTP.SourceIP
	}
	return ""
}
