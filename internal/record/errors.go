package record

import "centauri/internal/txerrors"

func newUnknownField(fieldName string) error {
	return txerrors.NewSchemaError(fieldName)
}
