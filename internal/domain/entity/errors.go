package entity

import "errors"

var (
	// ErrAlertNotFound возвращается при обращении к несуществующему алерту
	ErrAlertNotFound = errors.New("alert not found")

	// ErrAlertNotActive возвращается при попытке подтвердить алерт,
	// который уже подтвержден или разрешен
	ErrAlertNotActive = errors.New("alert is not active")
)
