package adapter

import "github.com/nao1215/bundle-advisor/internal/model"

// moduleRegistry accumulates modules by ID while an adapter walks a
// document. It lives only for one ToAnalysisInput call; build copies
// everything out so nothing from the registry escapes.
type moduleRegistry struct {
	order   []string
	modules map[string]*model.Module
	extract func(path string) packageInfo
}

func newModuleRegistry(extract func(path string) packageInfo) *moduleRegistry {
	return &moduleRegistry{
		modules: make(map[string]*model.Module),
		extract: extract,
	}
}

// upsert registers a module on first encounter and merges chunk membership
// on later ones. Path and size from the first encounter win.
func (r *moduleRegistry) upsert(id, path string, size int64, chunkIDs ...string) {
	mod, ok := r.modules[id]
	if !ok {
		info := r.extract(path)
		mod = &model.Module{
			ID:             id,
			Path:           path,
			Size:           size,
			Chunks:         make([]string, 0, len(chunkIDs)),
			PackageName:    info.Name,
			PackageVersion: info.Version,
			IsVendor:       info.IsVendor,
		}
		r.modules[id] = mod
		r.order = append(r.order, id)
	}

	for _, chunkID := range chunkIDs {
		mod.Chunks = appendUnique(mod.Chunks, chunkID)
	}
}

// referencing returns the IDs of modules that list chunkID, in registration order.
func (r *moduleRegistry) referencing(chunkID string) []string {
	ids := make([]string, 0)
	for _, id := range r.order {
		for _, c := range r.modules[id].Chunks {
			if c == chunkID {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

// build produces the AnalysisInput. Module references to chunks that were
// not constructed are pruned, and each chunk's module list is completed
// with the modules that reference it, so both directions agree.
func (r *moduleRegistry) build(chunks []model.Chunk) *model.AnalysisInput {
	known := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		known[c.ID] = struct{}{}
	}

	members := make(map[string][]string, len(chunks))
	modules := make([]model.Module, 0, len(r.order))
	for _, id := range r.order {
		src := r.modules[id]
		mod := *src
		mod.Chunks = make([]string, 0, len(src.Chunks))
		for _, chunkID := range src.Chunks {
			if _, ok := known[chunkID]; !ok {
				continue
			}
			mod.Chunks = append(mod.Chunks, chunkID)
			members[chunkID] = append(members[chunkID], id)
		}
		modules = append(modules, mod)
	}

	out := make([]model.Chunk, 0, len(chunks))
	for _, c := range chunks {
		chunk := c
		chunk.Modules = mergeIDs(c.Modules, members[c.ID])
		chunk.EntryPoints = append(make([]string, 0, len(c.EntryPoints)), c.EntryPoints...)
		out = append(out, chunk)
	}

	return &model.AnalysisInput{
		Modules: modules,
		Chunks:  out,
	}
}

// mergeIDs returns a new list holding base followed by the extra IDs not
// already in base.
func mergeIDs(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	result := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}
	return result
}
