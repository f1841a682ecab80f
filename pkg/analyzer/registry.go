package analyzer

import (
	"sort"
	"strings"

	"github.com/modelaudit/modelaudit/internal/formats/keras"
	"github.com/modelaudit/modelaudit/internal/formats/onnx"
	"github.com/modelaudit/modelaudit/internal/formats/tflite"
	"github.com/modelaudit/modelaudit/internal/formats/torch"
	"github.com/modelaudit/modelaudit/pkg/graph"
)

// Normalizer converts one model file format into the canonical graph.
type Normalizer interface {
	// Format is the human-readable format name.
	Format() string
	// Normalize reads the file at path and returns a canonical model graph.
	Normalize(path string) (*graph.Model, error)
}

// registry maps lower-cased file extensions to their normalizers. The file
// extension alone selects the normalizer; file contents are never sniffed.
var registry = map[string]Normalizer{}

func init() {
	Register(".onnx", onnx.Normalizer{})
	Register(".tflite", tflite.Normalizer{})
	Register(".keras", keras.Normalizer{})
	Register(".h5", keras.Normalizer{})
	Register(".pt", torch.Normalizer{})
	Register(".pth", torch.Normalizer{})
}

// Register adds a normalizer for a file extension (including the leading dot).
func Register(ext string, n Normalizer) {
	registry[strings.ToLower(ext)] = n
}

// Lookup returns the normalizer registered for an extension.
func Lookup(ext string) (Normalizer, bool) {
	n, ok := registry[strings.ToLower(ext)]
	return n, ok
}

// Formats lists the registered extensions with their format names, sorted by
// extension.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for ext, n := range registry {
		out = append(out, ext+" ("+n.Format()+")")
	}
	sort.Strings(out)
	return out
}
