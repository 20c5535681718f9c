package analyzer

import (
	"cmp"
	"slices"

	"github.com/nao1215/bundle-advisor/internal/adapter"
	"github.com/nao1215/bundle-advisor/internal/model"
)

// LargeModuleThreshold is the size in bytes above which a module is listed
// in Analysis.LargeModules.
const LargeModuleThreshold int64 = 100 * 1024

// Analyzer turns one stats format into a model.Analysis.
// Each Analyzer is bound to a single adapter.
type Analyzer struct {
	adapter adapter.Adapter
}

// New creates an Analyzer bound to a.
func New(a adapter.Adapter) *Analyzer {
	return &Analyzer{adapter: a}
}

// Adapter returns the adapter the analyzer is bound to.
func (a *Analyzer) Adapter() adapter.Adapter {
	return a.adapter
}

// Analyze normalizes doc with the bound adapter and builds the analysis.
func (a *Analyzer) Analyze(doc adapter.Document) *model.Analysis {
	return Build(a.adapter.ToAnalysisInput(doc))
}

// Build derives aggregate sizes, duplicate packages and large modules from
// a normalized input. It never fails; an empty input yields an empty analysis.
func Build(input *model.AnalysisInput) *model.Analysis {
	if input == nil {
		input = &model.AnalysisInput{}
	}

	modules := input.Modules
	if modules == nil {
		modules = []model.Module{}
	}
	chunks := input.Chunks
	if chunks == nil {
		chunks = []model.Chunk{}
	}

	// Sizes come from chunks; a module shared by several chunks is counted
	// once per chunk the bundler emitted it into.
	var totalSize, initialSize int64
	for _, c := range chunks {
		totalSize += c.Size
		if c.IsInitial {
			initialSize += c.Size
		}
	}

	largeModules := make([]model.Module, 0)
	for _, m := range modules {
		if m.Size > LargeModuleThreshold {
			largeModules = append(largeModules, m)
		}
	}

	return &model.Analysis{
		TotalSize:         totalSize,
		InitialSize:       initialSize,
		Modules:           modules,
		Chunks:            chunks,
		DuplicatePackages: findDuplicatePackages(modules),
		LargeModules:      largeModules,
	}
}

// findDuplicatePackages groups named modules by package and reports the
// packages seen with two or more distinct versions, largest first.
// Modules without a version still count toward the total size.
func findDuplicatePackages(modules []model.Module) []model.DuplicatePackage {
	var order []string
	groups := make(map[string]*model.DuplicatePackage)

	for _, m := range modules {
		if m.PackageName == "" {
			continue
		}

		group, ok := groups[m.PackageName]
		if !ok {
			group = &model.DuplicatePackage{
				PackageName: m.PackageName,
				Versions:    make([]string, 0, 2),
			}
			groups[m.PackageName] = group
			order = append(order, m.PackageName)
		}

		if m.PackageVersion != "" && !slices.Contains(group.Versions, m.PackageVersion) {
			group.Versions = append(group.Versions, m.PackageVersion)
		}
		group.TotalSize += m.Size
	}

	duplicates := make([]model.DuplicatePackage, 0)
	for _, name := range order {
		if group := groups[name]; len(group.Versions) > 1 {
			duplicates = append(duplicates, *group)
		}
	}

	slices.SortStableFunc(duplicates, func(a, b model.DuplicatePackage) int {
		return cmp.Compare(b.TotalSize, a.TotalSize)
	})
	return duplicates
}
