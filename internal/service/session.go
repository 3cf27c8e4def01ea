package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session")

// Session is the payload bound to the session cookie: the persisted user,
// the provider identity and the provider access token.
type Session struct {
	UserID       string `json:"userId"`
	TikTokUserID string `json:"tiktokUserId"`
	AccessToken  string `json:"accessToken"`
}

// SessionCodec serializes sessions into an opaque cookie value. The cookie
// is the session; there is no server-side store.
type SessionCodec interface {
	Encode(session Session) (string, error)
	Decode(value string) (*Session, error)
	TTL() time.Duration
}

type jwtSessionCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionCodec signs session payloads with HS256 so a tampered cookie is
// rejected rather than trusted as-is.
func NewSessionCodec(secret string, ttl time.Duration) (SessionCodec, error) {
	if secret == "" {
		return nil, errors.New("session secret must be provided")
	}
	return &jwtSessionCodec{secret: []byte(secret), ttl: ttl}, nil
}

func (c *jwtSessionCodec) Encode(session Session) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":            session.UserID,
		"tiktok_user_id": session.TikTokUserID,
		"access_token":   session.AccessToken,
		"iat":            now.Unix(),
		"exp":            now.Add(c.ttl).Unix(),
	})
	return token.SignedString(c.secret)
}

func (c *jwtSessionCodec) Decode(value string) (*Session, error) {
	token, err := jwt.Parse(value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}
	session := &Session{}
	if sub, ok := claims["sub"].(string); ok {
		session.UserID = sub
	}
	if id, ok := claims["tiktok_user_id"].(string); ok {
		session.TikTokUserID = id
	}
	if at, ok := claims["access_token"].(string); ok {
		session.AccessToken = at
	}
	if session.UserID == "" {
		return nil, ErrInvalidSession
	}
	return session, nil
}

func (c *jwtSessionCodec) TTL() time.Duration {
	return c.ttl
}
