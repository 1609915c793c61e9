package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"tlog.app/go/tlog/tlwire"
)

type kind int

func keys(s *Bitmap[kind]) (r []kind) {
	s.Range(func(k kind) bool {
		r = append(r, k)
		return true
	})

	return r
}

func TestBitmap(t *testing.T) {
	var s Bitmap[kind]

	assert.False(t, s.IsSet(3))
	assert.Nil(t, keys(&s))

	s.Set(3)
	s.Set(1)
	s.Set(70)
	s.Set(3)

	assert.True(t, s.IsSet(1))
	assert.True(t, s.IsSet(3))
	assert.True(t, s.IsSet(70))
	assert.False(t, s.IsSet(2))
	assert.False(t, s.IsSet(200))
	assert.Equal(t, []kind{1, 3, 70}, keys(&s))
}

func TestBitmapRangeStop(t *testing.T) {
	var s Bitmap[kind]

	s.Set(5)
	s.Set(6)
	s.Set(7)

	var got []kind

	s.Range(func(k kind) bool {
		got = append(got, k)
		return len(got) < 2
	})

	assert.Equal(t, []kind{5, 6}, got)
}

func TestBitmapTlogAppend(t *testing.T) {
	var e tlwire.LowEncoder
	var s Bitmap[kind]

	assert.Equal(t, e.AppendNil(nil), s.TlogAppend(nil))

	s.Set(2)

	exp := e.AppendTag(nil, tlwire.Array, -1)
	exp = e.AppendInt(exp, 2)
	exp = e.AppendBreak(exp)

	assert.Equal(t, exp, s.TlogAppend(nil))
}

func TestBitmapNegative(t *testing.T) {
	var s Bitmap[kind]

	assert.Panics(t, func() { s.Set(-1) })
}
