package identity

import "errors"

var (
	// ErrInvalidToken возвращается при некорректном или неподписанном токене
	ErrInvalidToken = errors.New("identity: invalid token")

	// ErrExpiredToken возвращается при истекшем токене
	ErrExpiredToken = errors.New("identity: token expired")
)
