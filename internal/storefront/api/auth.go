package api

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

// TokenTTL is the lifetime of an issued admin token.
const TokenTTL = 24 * time.Hour

// Claims are the claims carried by an admin token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 admin tokens.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

// NewJWTManager creates a manager signing with secret. An empty secret is
// replaced by 32 random bytes, so tokens do not survive a restart.
func NewJWTManager(secret []byte, now func() time.Time) (*JWTManager, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate signing secret: %w", err)
		}
	}
	if now == nil {
		now = time.Now
	}
	return &JWTManager{secret: secret, now: now}, nil
}

// Issue signs a token for u.
func (m *JWTManager) Issue(u store.User) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    "storefront",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token.
func (m *JWTManager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

type claimsKey struct{}

func claimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

// authMiddleware requires a valid, unrevoked bearer token.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			twincore.Error(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := h.jwt.Verify(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			twincore.Error(w, http.StatusUnauthorized, msg)
			return
		}
		if _, revoked := h.store.RevokedTokens.Get(claims.ID); revoked {
			twincore.Error(w, http.StatusUnauthorized, "Token revoked")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		twincore.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, ok := h.store.Users.Get(req.Username)
	if !ok || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		twincore.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwt.Issue(u)
	if err != nil {
		twincore.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	twincore.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userResponse{ID: u.ID, Username: u.Username, Role: u.Role},
	})
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c := claimsFrom(r.Context()); c != nil {
		h.store.RevokedTokens.Set(c.ID, true)
	}
	message(w, "Logged out successfully")
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	c := claimsFrom(r.Context())
	twincore.JSON(w, http.StatusOK, userResponse{ID: c.UserID, Username: c.Username, Role: c.Role})
}
