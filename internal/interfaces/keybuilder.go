package interfaces

import "go-catalog-cache/internal/models"

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes query shapes into deterministic cache keys
type KeyBuilder interface {
	Build(kind models.QueryKind, params ...any) (string, error)
}
