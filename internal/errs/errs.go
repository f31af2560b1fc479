// internal/errs/errs.go
package errs

import (
	"errors"
	"fmt"
)

// Rodzaje błędów. Fatalne przerywają cały eksport, reszta jest łapana lokalnie.
var (
	ErrAuthentication = errors.New("authentication error")
	ErrConfiguration  = errors.New("configuration error")
	ErrHTTPRequest    = errors.New("HTTP request error")
	ErrHTTPResponse   = errors.New("HTTP response error")
	ErrPagination     = errors.New("pagination error")
	ErrReference      = errors.New("reference data error")
	ErrOutput         = errors.New("output error")
)

// Wrap dokleja rodzaj i opis, errors.Is działa zarówno na rodzaj jak i przyczynę.
func Wrap(err error, kind error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", kind, msg, err)
}

// IsFatal – czy błąd ma przerwać cały przebieg
func IsFatal(err error) bool {
	return errors.Is(err, ErrAuthentication) ||
		errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrReference) ||
		errors.Is(err, ErrOutput)
}
