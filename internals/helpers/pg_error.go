package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// MapPGError menerjemahkan error Postgres (pgx atau lib/pq) ke fiber.Error.
// Return nil kalau bukan error PG.
func MapPGError(err error) *fiber.Error {
	if err == nil {
		return nil
	}

	var code, constraint, detail string
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code, constraint, detail = pgErr.Code, pgErr.ConstraintName, pgErr.Detail
	case errors.As(err, &pqErr):
		code, constraint, detail = string(pqErr.Code), pqErr.Constraint, pqErr.Detail
	default:
		// sqlite (test) tidak punya tipe error sendiri di sini
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return fiber.NewError(fiber.StatusConflict, "Data duplikat")
		}
		return nil
	}

	switch code {
	case "23505": // unique_violation
		msg := "Data duplikat"
		if constraint != "" {
			msg += " (" + constraint + ")"
		}
		return fiber.NewError(fiber.StatusConflict, msg)
	case "23503": // foreign_key_violation
		return fiber.NewError(fiber.StatusBadRequest, "Referensi data tidak valid")
	case "23514", "23502": // check / not null
		if detail == "" {
			detail = "Data tidak memenuhi constraint"
		}
		return fiber.NewError(fiber.StatusBadRequest, detail)
	case "57014": // statement_timeout
		return fiber.NewError(fiber.StatusGatewayTimeout, "Query timeout")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Database error")
	}
}
