package compiler

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cilsym/internal/ir"
	"github.com/roach88/cilsym/internal/method"
)

var errStub = errors.New("stub backend failure")

// stubBackend counts calls and fails where configured.
type stubBackend struct {
	beginErr  error
	finishErr error
	failAt    int
	processed int
	finished  bool
}

func newStub() *stubBackend { return &stubBackend{failAt: -1} }

func (b *stubBackend) Begin(Method) error { return b.beginErr }

func (b *stubBackend) Process(ir.OperationInfo) error {
	if b.processed == b.failAt {
		return errStub
	}
	b.processed++
	return nil
}

func (b *stubBackend) Finish() (CodeHandle, error) {
	b.finished = true
	if b.finishErr != nil {
		return CodeHandle{}, b.finishErr
	}
	return CodeHandle{Address: 0x1000, Size: SizeUnknown}, nil
}

func build(t *testing.T, types *ir.TypeRegistry, d method.Description) *method.Method {
	t.Helper()
	m, err := d.Build(types)
	require.NoError(t, err)
	return m
}

func addMethod(t *testing.T, types *ir.TypeRegistry) *method.Method {
	return build(t, types, method.Description{
		Name:    "Add",
		Returns: "int32",
		Params:  []string{"int32", "int32"},
		Body:    "ldarg.0; ldarg.1; add; ret",
	})
}

func TestCompile_Listing(t *testing.T) {
	types := ir.NewTypeRegistry()
	backend := NewListingBackend()

	res, err := Compile(addMethod(t, types), backend, WithTypes(types))
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Operations, 4)
	assert.Len(t, res.Digest, 64)
	assert.NoError(t, res.Err)

	assert.Equal(t, []string{
		"IL_0000  t0 = ldarg.0 arg0 : int32",
		"IL_0001  t1 = ldarg.1 arg1 : int32",
		"IL_0002  t2 = add t0, t1 : int32",
		"IL_0003  ret t2",
	}, backend.Lines())
	assert.Equal(t, "// Add\n", backend.Text()[:7])
	assert.Equal(t, len(backend.Text()), res.Code.Size)
}

func TestCompile_ResultTypesAreRegistrySingletons(t *testing.T) {
	types := ir.NewTypeRegistry()
	res, err := Compile(addMethod(t, types), newStub(), WithTypes(types))
	require.NoError(t, err)
	assert.Same(t, types.Int32, res.Operations[2].Result.Type)
}

func TestCompile_DigestIsDeterministic(t *testing.T) {
	types := ir.NewTypeRegistry()
	a, err := Compile(addMethod(t, types), newStub(), WithTypes(types))
	require.NoError(t, err)
	b, err := Compile(addMethod(t, types), NewListingBackend(), WithTypes(types))
	require.NoError(t, err)
	assert.Equal(t, a.Digest, b.Digest)

	other := build(t, types, method.Description{Name: "Sub", Returns: "int32", Params: []string{"int32", "int32"}, Body: "ldarg.0; ldarg.1; sub; ret"})
	c, err := Compile(other, newStub(), WithTypes(types))
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, c.Digest)
}

func TestCompile_VoidReturnOnly(t *testing.T) {
	types := ir.NewTypeRegistry()
	backend := newStub()
	res, err := Compile(build(t, types, method.Description{Name: "Nothing", Body: "ret"}), backend, WithTypes(types))
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Operations, 1)
	assert.Empty(t, res.Operations[0].Operands)
	assert.Nil(t, res.Operations[0].Result)
	assert.Equal(t, SizeUnknown, res.Code.Size)
	assert.Equal(t, uintptr(0x1000), res.Code.Address)
}

func TestCompile_FailureStatuses(t *testing.T) {
	tests := []struct {
		name   string
		d      method.Description
		status Status
		ops    int
	}{
		{
			name:   "unhandled literal",
			d:      method.Description{Name: "M", Returns: "int64", Body: "ldc.i4.1; ldc.i8 2; add; ret"},
			status: StatusUnsupported,
			ops:    1,
		},
		{
			name:   "address load",
			d:      method.Description{Name: "M", Locals: []string{"int32"}, Body: "ldloca.s 0; pop; ret"},
			status: StatusUnsupported,
			ops:    0,
		},
		{
			name:   "mixed widths",
			d:      method.Description{Name: "M", Returns: "int64", Params: []string{"int32", "int64"}, Body: "ldarg.0; ldarg.1; add; ret"},
			status: StatusTypeError,
			ops:    2,
		},
		{
			name:   "underflow",
			d:      method.Description{Name: "M", Returns: "int32", Body: "ldc.i4.0; add; ret"},
			status: StatusInvalidProgram,
			ops:    1,
		},
		{
			name:   "bad slot",
			d:      method.Description{Name: "M", Returns: "int32", Body: "ldarg.3; ret"},
			status: StatusInvalidProgram,
			ops:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types := ir.NewTypeRegistry()
			backend := newStub()
			res, err := Compile(build(t, types, tt.d), backend, WithTypes(types))
			require.Error(t, err)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, err, res.Err)
			assert.Len(t, res.Operations, tt.ops)
			assert.Equal(t, tt.ops, backend.processed)
			assert.Empty(t, res.Digest)
			assert.Equal(t, CodeHandle{}, res.Code)
			assert.False(t, backend.finished, "finish is skipped after a failed translation")
		})
	}
}

func TestCompile_BackendFailures(t *testing.T) {
	types := ir.NewTypeRegistry()

	t.Run("begin", func(t *testing.T) {
		backend := newStub()
		backend.beginErr = errStub
		res, err := Compile(addMethod(t, types), backend, WithTypes(types))
		assert.ErrorIs(t, err, errStub)
		assert.Equal(t, StatusBackendFailed, res.Status)
		assert.Empty(t, res.Operations)
	})

	t.Run("process", func(t *testing.T) {
		backend := newStub()
		backend.failAt = 2
		res, err := Compile(addMethod(t, types), backend, WithTypes(types))
		assert.ErrorIs(t, err, errStub)
		assert.Equal(t, StatusBackendFailed, res.Status)
		assert.Len(t, res.Operations, 2, "rejected record is not collected")
	})

	t.Run("finish", func(t *testing.T) {
		backend := newStub()
		backend.finishErr = errStub
		res, err := Compile(addMethod(t, types), backend, WithTypes(types))
		assert.ErrorIs(t, err, errStub)
		assert.Equal(t, StatusBackendFailed, res.Status)
		assert.Len(t, res.Operations, 4)
		assert.Empty(t, res.Digest)
	})

	t.Run("digest", func(t *testing.T) {
		orig := streamDigest
		streamDigest = func([]ir.OperationInfo) (string, error) { return "", errStub }
		t.Cleanup(func() { streamDigest = orig })

		backend := newStub()
		res, err := Compile(addMethod(t, types), backend, WithTypes(types))
		assert.ErrorIs(t, err, errStub)
		assert.True(t, backend.finished)
		assert.Equal(t, StatusBackendFailed, res.Status)
		assert.Equal(t, CodeHandle{}, res.Code, "code is only reported with StatusOK")
		assert.Empty(t, res.Digest)
	})
}

func TestCompile_Logging(t *testing.T) {
	types := ir.NewTypeRegistry()
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)

	_, err := Compile(addMethod(t, types), newStub(), WithTypes(types), WithLogger(log))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"message":"compile starting"`)
	assert.Contains(t, out, `"message":"compile finished"`)
	assert.Contains(t, out, `"method":"Add"`)
	assert.NotContains(t, out, `"message":"step"`, "step output is debug level")

	buf.Reset()
	_, err = Compile(build(t, types, method.Description{Name: "Bad", Body: "add"}), newStub(), WithTypes(types), WithLogger(log))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"message":"compile failed"`)
	assert.Contains(t, buf.String(), `"status":"INVALID_PROGRAM"`)
}

func TestCompile_DefaultRegistryIsTheMethods(t *testing.T) {
	types := ir.NewTypeRegistry()
	m := build(t, types, method.Description{
		Name:    "Narrow",
		Returns: "int32",
		Params:  []string{"int32"},
		Body:    "ldarg.0; conv.i4; ret",
	})

	res, err := Compile(m, newStub())
	require.NoError(t, err)
	loaded, inferred := res.Operations[0].Result.Type, res.Operations[1].Result.Type
	assert.Same(t, types.Int32, loaded)
	assert.Same(t, loaded, inferred, "one registry per stream")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusOK, StatusOf(nil))
	assert.Equal(t, StatusBackendFailed, StatusOf(errors.New("other")))
}
