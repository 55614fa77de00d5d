package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMapPGError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int // 0 = bukan error PG
	}{
		{"nil", nil, 0},
		{"pgx unique", &pgconn.PgError{Code: "23505", ConstraintName: "uq_orders_key"}, fiber.StatusConflict},
		{"pgx wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), fiber.StatusConflict},
		{"pq foreign key", &pq.Error{Code: "23503"}, fiber.StatusBadRequest},
		{"pgx not null", &pgconn.PgError{Code: "23502"}, fiber.StatusBadRequest},
		{"pgx timeout", &pgconn.PgError{Code: "57014"}, fiber.StatusGatewayTimeout},
		{"pgx other", &pgconn.PgError{Code: "42P01"}, fiber.StatusInternalServerError},
		{"sqlite unique", errors.New("UNIQUE constraint failed: kindergartens.kindergarten_login_id"), fiber.StatusConflict},
		{"plain error", errors.New("boom"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapPGError(tt.err)
			if tt.want == 0 {
				if got != nil {
					t.Fatalf("want nil, got %v", got)
				}
				return
			}
			if got == nil || got.Code != tt.want {
				t.Fatalf("got %v, want status %d", got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"  Ａ組 ":        "A組",
		"ひまわり　 組":     "ひまわり 組",
		"ｓａｋｕｒａ":      "sakura",
		"":             "",
		"ﾊﾟﾝﾀﾞ":        "パンダ",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
