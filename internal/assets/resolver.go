package assets

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it is tried first; the embedded copy
// is used only when the custom directory lacks the asset.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}
	return resolver, nil
}

// Load returns the custom asset if present, otherwise the embedded one.
// Validation and I/O errors from the custom loader are returned as is.
func (r *AssetResolver) Load(kind Kind, name string) (string, error) {
	if r.custom == nil {
		return r.embedded.Load(kind, name)
	}

	content, err := r.custom.Load(kind, name)
	if err == nil {
		return content, nil
	}
	if !isNotFound(err) {
		return "", err
	}
	return r.embedded.Load(kind, name)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
