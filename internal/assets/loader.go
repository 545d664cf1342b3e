package assets

// AssetLoader defines the contract for loading assets by kind and name.
type AssetLoader interface {
	// Load returns the content of the named asset (without extension).
	// Returns the kind's not-found error if the asset doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	Load(kind Kind, name string) (string, error)
}
