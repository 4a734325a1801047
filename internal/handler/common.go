package handler

import (
	"strconv"
	"time"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"

	"github.com/gofiber/fiber/v2"
)

func parsePagination(c *fiber.Ctx) (dto.Pagination, error) {
	var p dto.Pagination
	if err := c.QueryParser(&p); err != nil {
		return p, domain.ValidationErrors{domain.NewInvalidFormatError("pagination", c.Request().URI().QueryArgs().String())}
	}
	return p.Normalize(), nil
}

func parseKind(c *fiber.Ctx) (domain.ReferenceKind, error) {
	kind, ok := domain.ParseReferenceKind(c.Params("kind"))
	if !ok {
		return "", domain.ValidationErrors{domain.NewInvalidFormatError("kind", c.Params("kind"))}
	}
	return kind, nil
}

// formBool reads an optional boolean form field, keeping def when it is absent.
func formBool(c *fiber.Ctx, key string, def bool) (bool, error) {
	v := c.FormValue(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, domain.ValidationErrors{domain.NewInvalidFormatError(key, v)}
	}
	return b, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Request body is not valid JSON")
	}
	return nil
}

var now = time.Now

func timestamp() string {
	return now().Format("20060102_150405")
}
