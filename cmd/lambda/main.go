// REST API entry point behind API Gateway HTTP API.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"

	"alerta-utec-backend/infrastructure/config"
	"alerta-utec-backend/infrastructure/di"
)

var chiLambda *chiadapter.ChiLambdaV2

// init builds the whole dependency graph once per cold start
func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("container init failed: %v", err)
	}

	chiLambda = chiadapter.NewV2(container.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(handler)
}
