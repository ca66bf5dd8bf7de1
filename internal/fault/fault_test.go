package fault

import (
	"net/http"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestKindOf_Classified(t *testing.T) {
	err := New(Validation, "bad input")
	assert.Equal(t, Validation, KindOf(err))
	assert.EqualError(t, err, "bad input")
}

func TestKindOf_Unclassified(t *testing.T) {
	err := eris.New("plain failure")
	assert.Equal(t, Internal, KindOf(err))
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := New(NotFound, "record missing")
	outer := eris.Wrap(inner, "lookup")
	assert.Equal(t, NotFound, KindOf(outer))
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(Upstream, nil, "ignored"))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{New(Validation, "v"), http.StatusBadRequest},
		{New(NotFound, "n"), http.StatusNotFound},
		{New(Upstream, "u"), http.StatusBadGateway},
		{eris.New("other"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}
