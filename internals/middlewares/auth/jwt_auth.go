package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Locals keys hydrated from JWT claims.
const (
	LocUserID       = "user_id"
	LocTeacherID    = "teacher_id"
	LocSchoolUnitID = "school_unit_id"
	LocRole         = "role"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // use access_token cookie when no Bearer header
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals("jwt_claims", claims)

		if v := strClaim(claims, "school_unit_id"); v != "" {
			c.Locals(LocSchoolUnitID, v)
		}
		if v := strClaim(claims, "teacher_id"); v != "" {
			c.Locals(LocTeacherID, v)
		}
		if v := strClaim(claims, "role"); v != "" {
			c.Locals(LocRole, v)
		}
		switch {
		case strClaim(claims, "id") != "":
			c.Locals(LocUserID, strClaim(claims, "id"))
		case strClaim(claims, "sub") != "":
			c.Locals(LocUserID, strClaim(claims, "sub"))
		case strClaim(claims, "user_id") != "":
			c.Locals(LocUserID, strClaim(claims, "user_id"))
		}

		return c.Next()
	}
}

func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
