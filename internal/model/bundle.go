package model

// Module is the smallest unit of source code tracked by a bundler.
// It corresponds to one resolved import.
type Module struct {
	// ID is the adapter-assigned identifier, unique within one analysis.
	ID string `json:"id"`

	// Path is the resolved source path when the bundler reported one.
	Path string `json:"path,omitempty"`

	// Size is the module size in bytes.
	Size int64 `json:"size"`

	// Chunks holds the IDs of every chunk that contains this module.
	// Each ID resolves to a Chunk of the same analysis and appears once.
	Chunks []string `json:"chunks"`

	// PackageName is the npm package name when it could be read from a vendor path.
	PackageName string `json:"packageName,omitempty"`

	// PackageVersion is only known for flattened-store (pnpm) paths.
	PackageVersion string `json:"packageVersion,omitempty"`

	// IsVendor is true when the module comes from a node_modules tree.
	IsVendor bool `json:"isVendor"`
}

// Label returns the most readable name for the module:
// the package name, then the path, then the ID.
func (m Module) Label() string {
	if m.PackageName != "" {
		return m.PackageName
	}
	if m.Path != "" {
		return m.Path
	}
	return m.ID
}

// Chunk is one bundler output unit.
type Chunk struct {
	// ID is unique within one analysis.
	ID string `json:"id"`

	// Size is the chunk size in bytes as declared by the bundler.
	Size int64 `json:"size"`

	// Modules lists the IDs of modules contained in the chunk.
	Modules []string `json:"modules"`

	// EntryPoints are the entry or route names served by this chunk.
	// An empty list marks a non-entry chunk.
	EntryPoints []string `json:"entryPoints"`

	// IsInitial is true when the chunk is loaded on first page load.
	IsInitial bool `json:"isInitial"`
}

// AnalysisInput is the normalized output of a format adapter.
type AnalysisInput struct {
	Modules []Module `json:"modules"`
	Chunks  []Chunk  `json:"chunks"`
}

// DuplicatePackage describes a package name seen with more than one version.
type DuplicatePackage struct {
	PackageName string `json:"packageName"`

	// Versions holds the distinct versions in first-seen order.
	Versions []string `json:"versions"`

	// TotalSize sums every module carrying the package name, regardless of version.
	TotalSize int64 `json:"totalSize"`
}

// Analysis is the canonical, bundler-independent view of one build.
type Analysis struct {
	// TotalSize is the sum of all chunk sizes.
	TotalSize int64 `json:"totalSize"`

	// InitialSize is the sum of the sizes of initial chunks.
	InitialSize int64 `json:"initialSize"`

	Modules           []Module           `json:"modules"`
	Chunks            []Chunk            `json:"chunks"`
	DuplicatePackages []DuplicatePackage `json:"duplicatePackages"`
	LargeModules      []Module           `json:"largeModules"`
}

// ModuleIndex returns a lookup of modules by ID.
// The returned map is owned by the caller.
func (a *Analysis) ModuleIndex() map[string]Module {
	index := make(map[string]Module, len(a.Modules))
	for _, m := range a.Modules {
		index[m.ID] = m
	}
	return index
}
