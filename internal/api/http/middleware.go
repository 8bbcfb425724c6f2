package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/observability"
	apperrors "github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewIntegrity(nil)
			}
			if err != nil {
				domainErr := classify(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), string(domainErr.Kind))
				}
				errBody := fiber.Map{
					"code":    string(domainErr.Kind),
					"message": domainErr.Message,
				}
				if domainErr.Violation != "" {
					errBody["violation"] = string(domainErr.Violation)
				}
				if len(domainErr.Details) > 0 {
					errBody["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{"error": errBody})
				err = nil
			}
		}()
		return c.Next()
	}
}

// classify keeps the status of fiber errors raised by handlers for bad
// payloads and missing auth, and normalizes everything else.
func classify(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		kind := apperrors.KindValidation
		switch {
		case fiberErr.Code == fiber.StatusUnauthorized:
			kind = apperrors.KindAuthFailed
		case fiberErr.Code == fiber.StatusForbidden:
			kind = apperrors.KindForbidden
		case fiberErr.Code == fiber.StatusNotFound:
			kind = apperrors.KindNotFound
		case fiberErr.Code >= 500:
			kind = apperrors.KindIntegrity
		}
		return apperrors.NewDomainError(kind, fiberErr.Message, fiberErr.Code, nil)
	}
	return apperrors.ToDomainError(err)
}
