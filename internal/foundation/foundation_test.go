package foundation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionSomeAndNone(t *testing.T) {
	some := Some("out")
	require.True(t, some.IsSome())
	v, ok := some.Get()
	require.True(t, ok)
	require.Equal(t, "out", v)

	none := None[string]()
	require.True(t, none.IsNone())
	_, ok = none.Get()
	require.False(t, ok)
	require.Equal(t, "", none.OrZero())
	require.Equal(t, "fallback", none.OrElse("fallback"))
}

func TestOptionDistinguishesAbsentFromEmpty(t *testing.T) {
	empty := Some("")
	require.True(t, empty.IsSome())
	require.False(t, None[string]().IsSome())
}
