package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRegistry_Singletons(t *testing.T) {
	r := NewTypeRegistry()
	for k := KindVoid; k <= KindObjectRef; k++ {
		typ := r.ByKind(k)
		require.NotNil(t, typ)
		assert.Equal(t, k, typ.Kind())
		assert.Equal(t, k.String(), typ.Name())
		assert.Same(t, typ, r.ByKind(k))
	}
	assert.Same(t, r.Int32, r.ByKind(KindInt32))
	assert.Nil(t, r.ByKind(Kind(200)))
}

func TestTypeRegistry_Lookup(t *testing.T) {
	r := NewTypeRegistry()

	tests := []struct {
		name string
		want *ClrType
	}{
		{"int32", r.Int32},
		{"I4", r.Int32},
		{"System.Double", r.Float64},
		{"r4", r.Float32},
		{" native int ", r.NativeInt},
		{"object", r.ObjectRef},
		{"void", r.Void},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Lookup(tt.name)
			require.True(t, ok)
			assert.Same(t, tt.want, got)
		})
	}

	_, ok := r.Lookup("decimal")
	assert.False(t, ok)
}

func TestTypeRegistry_StackType(t *testing.T) {
	r := NewTypeRegistry()
	assert.Same(t, r.Float64, r.StackType(r.Float32))
	assert.Same(t, r.Float64, r.StackType(r.Float64))
	assert.Same(t, r.Int32, r.StackType(r.Int32))
	assert.Nil(t, r.StackType(nil))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := NewTypeRegistry(), NewTypeRegistry()
	assert.NotSame(t, a.Int32, b.Int32)
	assert.Equal(t, a.Int32.String(), b.Int32.String())
}

func TestKind_IsFloat(t *testing.T) {
	assert.True(t, KindFloat32.IsFloat())
	assert.True(t, KindFloat64.IsFloat())
	assert.False(t, KindInt64.IsFloat())
}
