package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	for _, tc := range []struct {
		err  error
		kind error
		want string
	}{
		{Range("out of range"), ErrRange, "range: out of range"},
		{Type("missing day"), ErrType, "type: missing day"},
		{Syntax("bad input"), ErrSyntax, "syntax: bad input"},
		{Assert("unreachable"), ErrAssert, "assert: unreachable"},
		{Generic("no such month"), ErrGeneric, "generic: no such month"},
		{Rangef("bad %s %d", "unit", 7), ErrRange, "range: bad unit 7"},
	} {
		a.EqualError(tc.err, tc.want)
		a.ErrorIs(tc.err, tc.kind)
		a.NotErrorIs(tc.err, errors.New("other"))
	}
}

func TestWrapping(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	inner := Syntax("expected digit")
	outer := fmt.Errorf("parsing duration: %w", inner)
	a.ErrorIs(outer, ErrSyntax)

	var e *Error
	a.ErrorAs(outer, &e)
	a.Equal("expected digit", e.Message())
}
