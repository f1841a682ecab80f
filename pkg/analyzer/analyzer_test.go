package analyzer_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/modelaudit/modelaudit/pkg/analyzer"
	"github.com/modelaudit/modelaudit/pkg/report"
)

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// createDummyOnnxFile writes a minimal single-node ONNX model to a temp dir.
func createDummyOnnxFile(t *testing.T) string {
	t.Helper()

	var node []byte
	node = appendString(node, 1, "input")  // NodeProto.input
	node = appendString(node, 2, "output") // NodeProto.output
	node = appendString(node, 3, "relu")   // NodeProto.name
	node = appendString(node, 4, "Relu")   // NodeProto.op_type

	var g []byte
	g = appendMessage(g, 1, node) // GraphProto.node
	g = appendString(g, 2, "tiny")

	data := appendMessage(nil, 7, g) // ModelProto.graph

	path := filepath.Join(t.TempDir(), "tiny.onnx")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAnalyzeOnnxEndToEnd(t *testing.T) {
	doc, err := analyzer.Analyze(createDummyOnnxFile(t))
	require.NoError(t, err)

	r, ok := doc.(*report.Report)
	require.True(t, ok, "expected a full report, got %T", doc)
	assert.Equal(t, "tiny", r.ModelName)
	require.Len(t, r.Layers, 1)
	assert.Equal(t, "relu", r.Layers[0].Name)
	assert.Equal(t, "Relu", r.Layers[0].Type)
	assert.NotEmpty(t, r.Recommendations)
}

func TestAnalyzeUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := analyzer.Analyze(path)
	var ufe *analyzer.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, ".safetensors", ufe.Ext)
	assert.Equal(t, path, ufe.Path)
}

func TestAnalyzeLegacyH5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.h5")
	require.NoError(t, os.WriteFile(path, []byte("\x89HDF"), 0o644))

	_, err := analyzer.Analyze(path)
	var ufe *analyzer.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe, "legacy HDF5 must surface as an unsupported format")
	assert.Contains(t, ufe.Reason, "HDF5")
}

func TestAnalyzeCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.onnx")
	corrupt := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	require.NoError(t, os.WriteFile(path, corrupt, 0o644))

	_, err := analyzer.Analyze(path)
	var fe *analyzer.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "ONNX", fe.Format)
	assert.Error(t, errors.Unwrap(fe))
}

func TestRunWritesReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "model_summary.json")
	_, err := analyzer.Run(createDummyOnnxFile(t), out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"model_name": "tiny"`)
}

func TestRunLeavesNoPartialOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.onnx")
	require.NoError(t, os.WriteFile(in, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0o644))

	out := filepath.Join(dir, "model_summary.json")
	_, err := analyzer.Run(in, out)
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "a failed run must not create the output file")
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	n, ok := analyzer.Lookup(".ONNX")
	require.True(t, ok)
	assert.Equal(t, "ONNX", n.Format())
}

func TestFormats(t *testing.T) {
	formats := analyzer.Formats()
	assert.Equal(t, []string{
		".h5 (Keras)",
		".keras (Keras)",
		".onnx (ONNX)",
		".pt (PyTorch)",
		".pth (PyTorch)",
		".tflite (TFLite)",
	}, formats)
}
