package cache

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"

	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/models"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a cache key for a query of the given kind.
// The key is the kind alone for parameterless queries, otherwise kind:md5(params).
// Params are hashed from their JSON form, so floats keep their shortest exact
// representation and strings cannot run into the separator.
func (kb *KeyBuilderImpl) Build(kind models.QueryKind, params ...any) (string, error) {
	if kind == "" {
		return "", errors.New("query kind cannot be empty")
	}

	if len(params) == 0 {
		return string(kind), nil
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal params: %w", err)
	}

	hasher := md5.New()
	hasher.Write(paramsJSON)

	return fmt.Sprintf("%s:%x", kind, hasher.Sum(nil)), nil
}
