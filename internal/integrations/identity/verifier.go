package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier проверяет JWT токены, выданные сервисом аутентификации
type Verifier struct {
	secret []byte
}

// NewVerifier создает новый экземпляр Verifier
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

type actorClaims struct {
	ActorKind string `json:"actor_kind"`
	ActorID   int64  `json:"actor_id"`
	jwt.RegisteredClaims
}

// VerifyActor проверяет подпись и срок действия токена и возвращает субъекта
func (v *Verifier) VerifyActor(token string) (Actor, error) {
	var claims actorClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Actor{}, ErrExpiredToken
		}
		return Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return Actor{}, ErrInvalidToken
	}

	kind := ActorKind(claims.ActorKind)
	if kind != ActorDoctor && kind != ActorPatient {
		return Actor{}, fmt.Errorf("%w: unknown actor kind %q", ErrInvalidToken, claims.ActorKind)
	}
	if claims.ActorID <= 0 {
		return Actor{}, fmt.Errorf("%w: missing actor id", ErrInvalidToken)
	}

	return Actor{Kind: kind, ID: claims.ActorID}, nil
}
