package postprocessors

import (
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/postprocessors/chunker"
	"github.com/custodia-labs/unisearch/internal/postprocessors/minlength"
	"github.com/custodia-labs/unisearch/internal/postprocessors/normalise"
	"github.com/custodia-labs/unisearch/internal/postprocessors/sections"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("normalise", buildNormalise)
	r.Register("chunker", buildChunker)
	r.Register("minlength", buildMinLength)
	r.Register("sections", buildSections)
}

func buildNormalise(_ map[string]any) (driven.PostProcessor, error) {
	return normalise.New(), nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 2000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
//   - break_threshold (float): Minimum window fraction before a sentence break (default: 0.5)
//   - min_chunk_length (int): Trimmed length a chunk must exceed (default: 50)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
		if threshold, ok := getFloatFromConfig(cfg, "break_threshold"); ok {
			opts = append(opts, chunker.WithBreakThreshold(threshold))
		}
		if _, ok := cfg["min_chunk_length"]; ok {
			opts = append(opts, chunker.WithMinChunkLength(getIntFromConfig(cfg, "min_chunk_length")))
		}
	}

	return chunker.New(opts...), nil
}

// buildMinLength reads min_length (int, default: 100).
func buildMinLength(cfg map[string]any) (driven.PostProcessor, error) {
	return minlength.New(getIntFromConfig(cfg, "min_length")), nil
}

// buildSections reads section_length (int, default: 1000).
func buildSections(cfg map[string]any) (driven.PostProcessor, error) {
	return sections.New(getIntFromConfig(cfg, "section_length")), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getFloatFromConfig extracts a float and reports whether the key held a number.
func getFloatFromConfig(cfg map[string]any, key string) (float64, bool) {
	switch v := cfg[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
