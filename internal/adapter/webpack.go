package adapter

import (
	"encoding/json"

	"github.com/nao1215/bundle-advisor/internal/model"
)

// webpackModule is a module record, either top-level or nested in a chunk.
type webpackModule struct {
	ID         flexString      `json:"id"`
	Name       flexString      `json:"name"`
	Identifier flexString      `json:"identifier"`
	Size       flexSize        `json:"size"`
	Chunks     json.RawMessage `json:"chunks"`
}

// key returns the registry key: the ID, or the name when webpack omitted it
// (concatenated modules are reported with a null id).
func (m webpackModule) key() string {
	switch {
	case m.ID != "":
		return string(m.ID)
	case m.Name != "":
		return string(m.Name)
	default:
		return string(m.Identifier)
	}
}

// path returns the most specific source path available.
// webpack ids are usually source paths themselves, so id is the last resort.
func (m webpackModule) path(id string) string {
	if m.Name != "" {
		return string(m.Name)
	}
	if m.Identifier != "" {
		return string(m.Identifier)
	}
	return id
}

// webpackChunk is a chunk record of stats.json.
type webpackChunk struct {
	ID      flexString      `json:"id"`
	Initial flexBool        `json:"initial"`
	Entry   flexBool        `json:"entry"`
	Names   json.RawMessage `json:"names"`
	Size    flexSize        `json:"size"`
	Modules json.RawMessage `json:"modules"`
}

// WebpackAdapter reads webpack stats.json files.
type WebpackAdapter struct{}

// NewWebpackAdapter creates a WebpackAdapter.
func NewWebpackAdapter() *WebpackAdapter {
	return &WebpackAdapter{}
}

// Name implements Adapter.
func (a *WebpackAdapter) Name() string {
	return "webpack stats.json"
}

// CanHandle accepts documents carrying chunks, modules or assets.
func (a *WebpackAdapter) CanHandle(_ string, doc Document) bool {
	return doc.Has("chunks") || doc.Has("modules") || doc.Has("assets")
}

// ToAnalysisInput implements Adapter.
func (a *WebpackAdapter) ToAnalysisInput(doc Document) *model.AnalysisInput {
	registry := newModuleRegistry(nodeModulesPackage)

	for _, m := range decodeArray[webpackModule](doc["modules"]) {
		id := m.key()
		if id == "" {
			continue
		}
		registry.upsert(id, m.path(id), int64(m.Size), decodeIDs(m.Chunks)...)
	}

	chunks := make([]model.Chunk, 0)
	index := make(map[string]int)
	for _, c := range decodeArray[webpackChunk](doc["chunks"]) {
		names := decodeIDs(c.Names)
		chunkID := string(c.ID)
		if chunkID == "" && len(names) > 0 {
			chunkID = names[0]
		}
		if chunkID == "" {
			continue
		}

		moduleIDs := make([]string, 0)
		for _, m := range decodeArray[webpackModule](c.Modules) {
			id := m.key()
			if id == "" {
				continue
			}
			registry.upsert(id, m.path(id), int64(m.Size), chunkID)
			moduleIDs = append(moduleIDs, id)
		}

		if i, ok := index[chunkID]; ok {
			chunks[i].Modules = mergeIDs(chunks[i].Modules, moduleIDs)
			continue
		}

		index[chunkID] = len(chunks)
		chunks = append(chunks, model.Chunk{
			ID:          chunkID,
			Size:        int64(c.Size),
			Modules:     mergeIDs(moduleIDs, nil),
			EntryPoints: names,
			IsInitial:   bool(c.Initial || c.Entry),
		})
	}

	return registry.build(chunks)
}
