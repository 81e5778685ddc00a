package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewKey_Canonical(t *testing.T) {
	k := NewKey("samples", int64(7), time.Unix(100, 0), time.Unix(200, 0))
	assert.Equal(t, "samples|7|100|200", k.String())

	k = NewKey("sensor_names", "CFG-7")
	assert.Equal(t, `sensor_names|"CFG-7"`, k.String())

	k = NewKey("configs")
	assert.Equal(t, "configs", k.String())
}

func TestNewKey_QuotingSeparatesArguments(t *testing.T) {
	a := NewKey("names", "a|b")
	b := NewKey("names", "a", "b")
	assert.NotEqual(t, a.String(), b.String())
}

func TestNewKey_Types(t *testing.T) {
	k := NewKey("mixed", nil, 3, uint64(9), true, []string{"x", "y"}, 1.5)
	assert.Equal(t, []string{"nil", "3", "9", "true", `["x","y"]`, `"1.5"`}, k.Args)
}

func TestNewKey_ParameterChangeChangesKey(t *testing.T) {
	base := NewKey("samples", int64(1), int64(100), int64(200))
	assert.Equal(t, base.String(), NewKey("samples", int64(1), int64(100), int64(200)).String())
	assert.NotEqual(t, base.String(), NewKey("samples", int64(2), int64(100), int64(200)).String())
	assert.NotEqual(t, base.String(), NewKey("samples", int64(1), int64(101), int64(200)).String())
	assert.NotEqual(t, base.String(), NewKey("samples", int64(1), int64(100), int64(201)).String())
}
