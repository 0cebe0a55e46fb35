package config

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/forestrie/go-sigv4ws/signer"
)

func invalidConfig(message string) error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(signer.ErrorInvalidConfig)
}

func wrapConfig(err error, message string) error {
	if err == nil {
		return nil
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithCode(http.StatusBadRequest).
		WithTextCode(signer.ErrorInvalidConfig)
}
