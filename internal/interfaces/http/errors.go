package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

// Códigos de error expuestos en dto.ErrorResponse.Code.
const (
	CodeInvalidBody   = "INVALID_BODY"
	CodeValidation    = "VALIDATION"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternal      = "INTERNAL"
)

// writeError traduce un error del núcleo a su respuesta HTTP.
// Unauthorized se responde 401 al anónimo y 403 al autenticado.
func writeError(c *fiber.Ctx, err error) error {
	if de, ok := domain.AsError(err); ok {
		body := dto.ErrorResponse{
			Field:    de.Field,
			Resource: de.Resource,
			Limit:    de.Limit,
			Current:  de.Current,
			Redirect: de.Redirect,
			Message:  de.Error(),
		}
		status := fiber.StatusInternalServerError
		switch de.Kind {
		case domain.KindValidation:
			status, body.Code = fiber.StatusBadRequest, CodeValidation
		case domain.KindNotFound:
			status, body.Code = fiber.StatusNotFound, CodeNotFound
		case domain.KindConflict:
			status, body.Code = fiber.StatusConflict, CodeConflict
		case domain.KindQuotaExceeded:
			status, body.Code = fiber.StatusPaymentRequired, CodeQuotaExceeded
		case domain.KindUnauthorized:
			if GetPrincipal(c).IsAnonymous() {
				status, body.Code = fiber.StatusUnauthorized, CodeUnauthorized
			} else {
				status, body.Code = fiber.StatusForbidden, CodeForbidden
			}
		default:
			body.Code = CodeInternal
		}
		return c.Status(status).JSON(body)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeUnauthorized, Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrInactiveAccount):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: CodeForbidden, Message: "cuenta inactiva o suspendida"})
	}

	logFromCtx(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: CodeInternal, Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores nombran el campo como lo ve el cliente (tag json).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el cuerpo JSON y aplica las reglas `validate`.
// Un fallo de validación se convierte en domain.Validation con el primer campo inválido.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			if i := strings.IndexByte(field, '['); i > 0 {
				field = field[:i]
			}
			return domain.NewValidationError(field)
		}
		return err
	}
	return nil
}

var errInvalidBody = errors.New("cuerpo inválido")

// respondBodyError responde a un error de parseBody.
func respondBodyError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errInvalidBody) {
		return invalidBody(c)
	}
	return writeError(c, err)
}

// logFromCtx logger de la petición; Nop si el router no lo inyectó.
func logFromCtx(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(LocalLogger).(*logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}
