package adapter

import (
	"encoding/json"

	"github.com/nao1215/bundle-advisor/internal/model"
)

// bundleStatsRecord is a keyed record with per-build runs. Index 0 holds the
// latest build; older runs are history and are ignored.
type bundleStatsRecord struct {
	Key  flexString      `json:"key"`
	Runs json.RawMessage `json:"runs"`
}

type bundleStatsModuleRun struct {
	Name     flexString      `json:"name"`
	Value    flexSize        `json:"value"`
	ChunkIDs json.RawMessage `json:"chunkIds"`
}

type bundleStatsAssetRun struct {
	Name      flexString `json:"name"`
	Value     flexSize   `json:"value"`
	IsEntry   flexBool   `json:"isEntry"`
	IsInitial flexBool   `json:"isInitial"`
	IsChunk   flexBool   `json:"isChunk"`
	ChunkID   flexString `json:"chunkId"`
}

// bundleStatsRawData is the optional embedded webpack-compatible chunk list
// found at rawData[0].webpack.chunks.
type bundleStatsRawData struct {
	Webpack struct {
		Chunks json.RawMessage `json:"chunks"`
	} `json:"webpack"`
}

type bundleStatsNamedChunk struct {
	ID   flexString `json:"id"`
	Name flexString `json:"name"`
}

// BundleStatsAdapter reads bundle-stats.json files written by the
// Rollup/Vite bundle-stats plugins.
type BundleStatsAdapter struct{}

// NewBundleStatsAdapter creates a BundleStatsAdapter.
func NewBundleStatsAdapter() *BundleStatsAdapter {
	return &BundleStatsAdapter{}
}

// Name implements Adapter.
func (a *BundleStatsAdapter) Name() string {
	return "bundle-stats.json (Rollup/Vite)"
}

// CanHandle accepts documents whose modules array holds run-based records.
// An empty modules array is accepted only without a top-level chunks key,
// which webpack stats always carry.
func (a *BundleStatsAdapter) CanHandle(_ string, doc Document) bool {
	if !doc.IsArray("modules") {
		return false
	}

	var modules []json.RawMessage
	if err := json.Unmarshal(doc["modules"], &modules); err != nil {
		return false
	}
	if len(modules) == 0 {
		return !doc.Has("chunks")
	}

	var first map[string]json.RawMessage
	if err := json.Unmarshal(modules[0], &first); err != nil {
		return false
	}
	_, ok := first["runs"]
	return ok
}

// ToAnalysisInput implements Adapter.
func (a *BundleStatsAdapter) ToAnalysisInput(doc Document) *model.AnalysisInput {
	chunkNames := a.chunkNames(doc)
	registry := newModuleRegistry(storePackage)

	for _, rec := range decodeArray[bundleStatsRecord](doc["modules"]) {
		run, ok := firstRun[bundleStatsModuleRun](rec.Runs)
		if !ok {
			continue
		}
		id := string(rec.Key)
		if id == "" {
			id = string(run.Name)
		}
		if id == "" {
			continue
		}
		registry.upsert(id, string(run.Name), int64(run.Value), decodeIDs(run.ChunkIDs)...)
	}

	chunks := make([]model.Chunk, 0)
	index := make(map[string]int)
	for _, rec := range decodeArray[bundleStatsRecord](doc["assets"]) {
		run, ok := firstRun[bundleStatsAssetRun](rec.Runs)
		if !ok || !bool(run.IsChunk) || run.ChunkID == "" {
			continue
		}

		chunkID := string(run.ChunkID)
		initial := bool(run.IsInitial || run.IsEntry)
		if i, seen := index[chunkID]; seen {
			chunks[i].Size += int64(run.Value)
			chunks[i].IsInitial = chunks[i].IsInitial || initial
			continue
		}

		entryPoints := make([]string, 0, 1)
		if name := chunkNames[chunkID]; name != "" {
			entryPoints = append(entryPoints, name)
		}

		index[chunkID] = len(chunks)
		chunks = append(chunks, model.Chunk{
			ID:          chunkID,
			Size:        int64(run.Value),
			Modules:     registry.referencing(chunkID),
			EntryPoints: entryPoints,
			IsInitial:   initial,
		})
	}

	return registry.build(chunks)
}

// chunkNames reads the optional rawData[0].webpack.chunks list.
func (a *BundleStatsAdapter) chunkNames(doc Document) map[string]string {
	names := make(map[string]string)

	rawData := decodeArray[json.RawMessage](doc["rawData"])
	if len(rawData) == 0 {
		return names
	}

	var first bundleStatsRawData
	if err := json.Unmarshal(rawData[0], &first); err != nil {
		return names
	}

	for _, c := range decodeArray[bundleStatsNamedChunk](first.Webpack.Chunks) {
		if c.ID == "" {
			continue
		}
		if _, ok := names[string(c.ID)]; !ok {
			names[string(c.ID)] = string(c.Name)
		}
	}
	return names
}
