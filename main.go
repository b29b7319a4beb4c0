package main

import (
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/examforge/examforge/internal/container"
	"github.com/examforge/examforge/internal/router"
	"github.com/examforge/examforge/internal/sandbox"
)

func main() {
	// Confined code runs re-execute this binary; hand those off before
	// anything else starts.
	sandbox.MaybeInit()

	c := container.New()

	handler := router.New(router.RouterConfig{
		QuestionHandler: c.QuestionContainer.Handler,
		HistoryHandler:  c.HistoryContainer.Handler,
		ExamHandler:     c.ExamContainer.Handler,
	})

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter := chiadapter.New(handler.(*chi.Mux))
		lambda.Start(adapter.ProxyWithContext)
		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.WithField("port", port).Info("Starting HTTP server")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}
