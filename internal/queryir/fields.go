package queryir

import "sort"

var compilationFields = map[string]Kind{
	"id":                KindString,
	"seq":               KindInt,
	"method":            KindString,
	"signature":         KindString,
	"status":            KindString,
	"instruction_count": KindInt,
	"digest":            KindString,
	"engine_version":    KindString,
	"stream_version":    KindString,
}

var operationFields = map[string]Kind{
	"idx":         KindInt,
	"il_offset":   KindInt,
	"opcode":      KindString,
	"result_type": KindString,
	"hash":        KindString,
}

// FieldKind returns the kind of field in src. Operations also expose every
// compilation field.
func FieldKind(src Source, field string) (Kind, bool) {
	switch src {
	case Compilations:
		k, ok := compilationFields[field]
		return k, ok
	case Operations:
		if k, ok := operationFields[field]; ok {
			return k, true
		}
		k, ok := compilationFields[field]
		return k, ok
	}
	return 0, false
}

// IsOperationField reports whether field belongs to the operation itself
// rather than to its compilation.
func IsOperationField(field string) bool {
	_, ok := operationFields[field]
	return ok
}

// Fields returns the field names of src in sorted order.
func Fields(src Source) []string {
	var names []string
	switch src {
	case Operations:
		for name := range operationFields {
			names = append(names, name)
		}
		fallthrough
	case Compilations:
		for name := range compilationFields {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
