// Package keras normalizes Keras v3 archives (.keras) into the canonical
// graph. A .keras file is a zip holding config.json with the full architecture;
// parameter counts live in the bundled HDF5 weights blob, which has no pure-Go
// reader, so layer params fail soft to 0.
package keras

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

// ErrHDF5Runtime marks legacy .h5 files, which need an HDF5 runtime that is
// not available in a pure-Go build. Re-saving the model as .keras avoids it.
var ErrHDF5Runtime = errors.New("legacy HDF5 model files require an HDF5 runtime; re-save the model in the .keras format")

const configFileName = "config.json"

// Normalizer converts .keras archives and rejects legacy .h5 files.
type Normalizer struct{}

// Format returns the human-readable format name.
func (Normalizer) Format() string { return "Keras" }

// Normalize reads a Keras archive and produces a canonical model graph.
func (Normalizer) Normalize(path string) (*graph.Model, error) {
	if strings.HasSuffix(strings.ToLower(path), ".h5") {
		return nil, ErrHDF5Runtime
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open .keras archive: %w", err)
	}
	defer func() { _ = r.Close() }()

	raw, err := readArchiveFile(&r.Reader, configFileName)
	if err != nil {
		return nil, err
	}
	return buildGraph(raw)
}

func readArchiveFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", name, err)
		}
		data, err := io.ReadAll(rc)
		if cerr := rc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s in archive: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("archive has no %s", name)
}

// buildGraph maps the serialized model config onto the canonical graph. The
// config layout differs between Sequential and Functional models and across
// Keras versions, so every lookup is defensive: a missing attribute yields a
// nil shape or zero value, never an error.
func buildGraph(raw []byte) (*graph.Model, error) {
	var root struct {
		ClassName string          `json:"class_name"`
		Config    json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse config.json: %w", err)
	}

	var cfg map[string]any
	if err := json.Unmarshal(root.Config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse model config: %w", err)
	}

	m := &graph.Model{Name: getString(cfg, "name")}

	rawLayers, _ := cfg["layers"].([]any)
	names := make(map[string]bool, len(rawLayers))
	inputShapes := make(map[string]*graph.Shape, len(rawLayers))

	for _, rl := range rawLayers {
		entry, ok := rl.(map[string]any)
		if !ok {
			continue
		}
		layer := normalizeLayer(entry)
		names[layer.Name] = true
		inputShapes[layer.Name] = layer.InputShape
		m.Layers = append(m.Layers, layer)
	}

	// Connections can only be resolved once all layer names are known.
	for i, rl := range rawLayers {
		entry, ok := rl.(map[string]any)
		if !ok || i >= len(m.Layers) {
			continue
		}
		m.Layers[i].Connections = collectLayerRefs(entry["inbound_nodes"], names, m.Layers[i].Name)
	}

	m.Inputs = boundaryShapes(cfg["input_layers"], inputShapes)
	if m.Inputs == nil && len(m.Layers) > 0 && m.Layers[0].InputShape != nil {
		// Sequential models have no input_layers entry; the first layer
		// carries the input shape.
		m.Inputs = []*graph.Shape{m.Layers[0].InputShape}
	}
	return m, nil
}

func normalizeLayer(entry map[string]any) graph.Layer {
	layer := graph.Layer{Type: getString(entry, "class_name")}

	lcfg, _ := entry["config"].(map[string]any)
	layer.Name = getString(lcfg, "name")
	if layer.Name == "" {
		layer.Name = strings.ToLower(layer.Type)
	}

	if bc, ok := entry["build_config"].(map[string]any); ok {
		layer.InputShape = graph.Resolve(bc["input_shape"])
	}
	if layer.InputShape == nil && lcfg != nil {
		// batch_input_shape is the v2 spelling, batch_shape the v3 one.
		layer.InputShape = graph.Resolve(lcfg["batch_input_shape"])
		if layer.InputShape == nil {
			layer.InputShape = graph.Resolve(lcfg["batch_shape"])
		}
	}
	return layer
}

// collectLayerRefs walks the inbound_nodes value, whose nesting differs across
// Keras versions, and keeps the strings that name other layers of this model.
func collectLayerRefs(v any, names map[string]bool, self string) []string {
	var refs []string
	seen := map[string]bool{}
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			if t != self && names[t] && !seen[t] {
				seen[t] = true
				refs = append(refs, t)
			}
		case []any:
			for _, item := range t {
				walk(item)
			}
		case map[string]any:
			for _, key := range sortedKeys(t) {
				walk(t[key])
			}
		}
	}
	walk(v)
	return refs
}

// boundaryShapes resolves input_layers-style references ([["name", 0, 0]])
// to the named layers' shapes.
func boundaryShapes(refs any, shapes map[string]*graph.Shape) []*graph.Shape {
	list, ok := refs.([]any)
	if !ok {
		return nil
	}
	var out []*graph.Shape
	for _, ref := range list {
		entry, ok := ref.([]any)
		if !ok || len(entry) == 0 {
			continue
		}
		if name, ok := entry[0].(string); ok {
			out = append(out, shapes[name])
		}
	}
	return out
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
