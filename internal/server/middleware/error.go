package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/gateway"
	"github.com/opacedigital/ai-core/pkg/api"
)

// ErrorHandler renders the last error a handler attached as an RFC 9457
// problem.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		problem := ProblemFor(c.Errors.Last().Err)
		if problem.Status >= http.StatusInternalServerError {
			cause := problem.Log
			if cause == nil {
				cause = problem
			}
			logger.Error("Request failed",
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", problem.Status),
				zap.Error(cause),
			)
		}

		// RFC 9457 dictates the json is at the root
		c.Header("Content-Type", "application/problem+json")
		c.JSON(problem.Status, problem)
		c.Abort()
	}
}

// ProblemFor maps domain errors onto HTTP problems.
func ProblemFor(err error) *api.Problem {
	var (
		problem      *api.Problem
		config       *api.ConfigurationError
		unavailable  *api.ModelUnavailableError
		unsupported  *api.UnsupportedProviderError
		invalidParam *api.InvalidParameterError
		request      *api.ProviderRequestError
		unrecognized *api.UnrecognizedPayloadError
		empty        *api.EmptyContentError
		noImage      *api.NoImageReturnedError
	)

	switch {
	case errors.As(err, &problem):
		return problem

	case errors.As(err, &config):
		return api.NewError(http.StatusServiceUnavailable, "Provider Not Configured", config.Error(),
			api.WithExtension("code", "configuration_error"),
			api.WithExtension("provider", config.Provider),
		)

	case errors.As(err, &unavailable):
		return api.NewError(http.StatusUnprocessableEntity, "Model Unavailable", unavailable.Error(),
			api.WithExtension("code", "model_unavailable"),
			api.WithExtension("provider", unavailable.Provider),
		)

	case errors.As(err, &unsupported):
		return api.NewError(http.StatusBadRequest, "Unsupported Provider", unsupported.Error(),
			api.WithExtension("code", "unsupported_provider"),
			api.WithExtension("supported", api.Providers()),
		)

	case errors.Is(err, gateway.ErrImagesUnsupported):
		return api.NewError(http.StatusBadRequest, "Image Generation Unsupported", err.Error(),
			api.WithExtension("code", "images_unsupported"),
		)

	case errors.As(err, &invalidParam):
		return api.NewError(http.StatusBadRequest, "Invalid Parameter", invalidParam.Error(),
			api.WithExtension("code", "invalid_parameter"),
			api.WithExtension("parameter", invalidParam.Name),
		)

	case timedOut(err):
		opts := []api.ProblemOption{api.WithLog(err)}
		if errors.As(err, &request) {
			opts = append(opts, api.WithExtension("provider", request.Provider))
		}
		return api.NewError(http.StatusGatewayTimeout, "Gateway Timeout", "The provider did not answer in time.", opts...)

	case errors.As(err, &request):
		opts := []api.ProblemOption{
			api.WithExtension("code", "provider_request_failed"),
			api.WithExtension("provider", request.Provider),
			api.WithLog(err),
		}
		if request.StatusCode != 0 {
			opts = append(opts, api.WithExtension("upstream_status", request.StatusCode))
		}
		return api.NewError(http.StatusBadGateway, "Provider Request Failed", request.Error(), opts...)

	case errors.As(err, &unrecognized):
		return api.NewError(http.StatusBadGateway, "Unrecognized Provider Response", unrecognized.Error(),
			api.WithExtension("code", "unrecognized_payload"),
			api.WithExtension("top_level_keys", unrecognized.TopLevelKeys),
			api.WithLog(err),
		)

	case errors.As(err, &empty):
		return api.NewError(http.StatusBadGateway, "Empty Provider Response", empty.Error(),
			api.WithExtension("code", "empty_content"),
			api.WithExtension("provider", empty.Provider),
			api.WithExtension("model", empty.Model),
		)

	case errors.As(err, &noImage):
		return api.NewError(http.StatusBadGateway, "No Image Returned", noImage.Error(),
			api.WithExtension("code", "no_image_returned"),
			api.WithExtension("provider", noImage.Provider),
		)

	}

	return api.NewError(http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred.",
		api.WithLog(err),
	)
}

// timedOut reports deadline expiry anywhere in the chain, including
// http.Client.Timeout errors that only expose Timeout().
func timedOut(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
