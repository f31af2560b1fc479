package errs

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("KeepsKindAndCause", func(t *testing.T) {
		err := Wrap(io.ErrUnexpectedEOF, ErrHTTPResponse, "read body")
		assert.ErrorIs(t, err, ErrHTTPResponse)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Contains(t, err.Error(), "read body")
	})

	t.Run("NilStaysNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, ErrHTTPRequest, "noop"))
	})
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"auth", Wrap(errors.New("401"), ErrAuthentication, "login"), true},
		{"config", Wrap(errors.New("bad"), ErrConfiguration, "load"), true},
		{"reference", Wrap(errors.New("gone"), ErrReference, "attributes"), true},
		{"output", Wrap(errors.New("disk"), ErrOutput, "write"), true},
		{"http", Wrap(errors.New("503"), ErrHTTPResponse, "page"), false},
		{"plain", errors.New("x"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.fatal, IsFatal(tc.err))
		})
	}
}
