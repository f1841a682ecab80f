package tflite

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

func int32Vector(b *flatbuffers.Builder, vals []int32) flatbuffers.UOffsetT {
	b.StartVector(4, len(vals), 4)
	for i := len(vals) - 1; i >= 0; i-- {
		b.PrependInt32(vals[i])
	}
	return b.EndVector(len(vals))
}

func offsetVector(b *flatbuffers.Builder, offs []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	b.StartVector(4, len(offs), 4)
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offs[i])
	}
	return b.EndVector(len(offs))
}

func buildBuffer(b *flatbuffers.Builder, data []byte) flatbuffers.UOffsetT {
	var dataOff flatbuffers.UOffsetT
	if len(data) > 0 {
		dataOff = b.CreateByteVector(data)
	}
	b.StartObject(1)
	if dataOff != 0 {
		b.PrependUOffsetTSlot(0, dataOff, 0)
	}
	return b.EndObject()
}

func buildTensor(b *flatbuffers.Builder, name string, shape []int32, buffer uint32) flatbuffers.UOffsetT {
	nameOff := b.CreateString(name)
	shapeOff := int32Vector(b, shape)
	b.StartObject(4)
	b.PrependUOffsetTSlot(0, shapeOff, 0)
	b.PrependUint32Slot(2, buffer, 0)
	b.PrependUOffsetTSlot(3, nameOff, 0)
	return b.EndObject()
}

func buildOperator(b *flatbuffers.Builder, opcodeIndex uint32, inputs, outputs []int32) flatbuffers.UOffsetT {
	inOff := int32Vector(b, inputs)
	outOff := int32Vector(b, outputs)
	b.StartObject(3)
	b.PrependUint32Slot(0, opcodeIndex, 0)
	b.PrependUOffsetTSlot(1, inOff, 0)
	b.PrependUOffsetTSlot(2, outOff, 0)
	return b.EndObject()
}

func buildOperatorCode(b *flatbuffers.Builder, builtin int32, custom string) flatbuffers.UOffsetT {
	var customOff flatbuffers.UOffsetT
	if custom != "" {
		customOff = b.CreateString(custom)
	}
	b.StartObject(4)
	if builtin <= 127 {
		b.PrependInt8Slot(0, int8(builtin), 0)
	}
	if customOff != 0 {
		b.PrependUOffsetTSlot(1, customOff, 0)
	}
	b.PrependInt32Slot(3, builtin, 0)
	return b.EndObject()
}

// createDummyTFLite assembles a flatbuffer with one fully connected operator
// over constant weights and bias, plus one custom operator with an omitted
// optional input and no outputs.
func createDummyTFLite(t *testing.T, description string) string {
	t.Helper()
	b := flatbuffers.NewBuilder(1024)

	buffers := offsetVector(b, []flatbuffers.UOffsetT{
		buildBuffer(b, nil),
		buildBuffer(b, make([]byte, 128)), // weights
		buildBuffer(b, make([]byte, 32)),  // bias
	})

	tensors := offsetVector(b, []flatbuffers.UOffsetT{
		buildTensor(b, "input", []int32{1, 4}, 0),
		buildTensor(b, "weights", []int32{4, 8}, 1),
		buildTensor(b, "bias", []int32{8}, 2),
		buildTensor(b, "output", []int32{1, 8}, 0),
	})

	operators := offsetVector(b, []flatbuffers.UOffsetT{
		buildOperator(b, 0, []int32{0, 1, 2}, []int32{3}),
		buildOperator(b, 1, []int32{3, -1}, nil),
	})

	sgInputs := int32Vector(b, []int32{0})
	sgOutputs := int32Vector(b, []int32{3})
	sgName := b.CreateString("main")
	b.StartObject(5)
	b.PrependUOffsetTSlot(0, tensors, 0)
	b.PrependUOffsetTSlot(1, sgInputs, 0)
	b.PrependUOffsetTSlot(2, sgOutputs, 0)
	b.PrependUOffsetTSlot(3, operators, 0)
	b.PrependUOffsetTSlot(4, sgName, 0)
	subgraph := b.EndObject()

	opcodes := offsetVector(b, []flatbuffers.UOffsetT{
		buildOperatorCode(b, 9, ""), // FULLY_CONNECTED
		buildOperatorCode(b, 32, "MyOp"),
	})

	subgraphs := offsetVector(b, []flatbuffers.UOffsetT{subgraph})
	var descOff flatbuffers.UOffsetT
	if description != "" {
		descOff = b.CreateString(description)
	}
	b.StartObject(5)
	b.PrependUint32Slot(0, 3, 0)
	b.PrependUOffsetTSlot(1, opcodes, 0)
	b.PrependUOffsetTSlot(2, subgraphs, 0)
	if descOff != 0 {
		b.PrependUOffsetTSlot(3, descOff, 0)
	}
	b.PrependUOffsetTSlot(4, buffers, 0)
	root := b.EndObject()

	b.FinishWithFileIdentifier(root, []byte(fileIdentifier))

	path := filepath.Join(t.TempDir(), "model.tflite")
	if err := os.WriteFile(path, b.FinishedBytes(), 0o644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}
	return path
}

func TestNormalize(t *testing.T) {
	m, err := Normalizer{}.Normalize(createDummyTFLite(t, "fixture model"))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if m.Name != "fixture model" {
		t.Errorf("name = %q, want fixture model", m.Name)
	}
	if !reflect.DeepEqual(m.Inputs, []*graph.Shape{graph.NewShape(1, 4)}) {
		t.Errorf("inputs = %v", m.Inputs)
	}
	if !reflect.DeepEqual(m.Outputs, []*graph.Shape{graph.NewShape(1, 8)}) {
		t.Errorf("outputs = %v", m.Outputs)
	}
	if len(m.Layers) != 2 {
		t.Fatalf("layer count = %d, want 2", len(m.Layers))
	}

	fc := m.Layers[0]
	if fc.Name != "output" || fc.Type != "FULLY_CONNECTED" {
		t.Errorf("layer 0 = %s/%s, want output/FULLY_CONNECTED", fc.Name, fc.Type)
	}
	// Params come from buffer-backed inputs: 4*8 weights plus 8 bias.
	if fc.Params != 40 {
		t.Errorf("params = %d, want 40", fc.Params)
	}
	if !reflect.DeepEqual(fc.InputShape, graph.NewShape(1, 4)) {
		t.Errorf("input shape = %v", fc.InputShape)
	}
	if !reflect.DeepEqual(fc.OutputShape, graph.NewShape(1, 8)) {
		t.Errorf("output shape = %v", fc.OutputShape)
	}
	if !reflect.DeepEqual(fc.Connections, []string{"input", "weights", "bias"}) {
		t.Errorf("connections = %v", fc.Connections)
	}

	custom := m.Layers[1]
	if custom.Type != "MyOp" {
		t.Errorf("custom operator type = %q, want MyOp", custom.Type)
	}
	if custom.Name != "MyOp_1" {
		t.Errorf("operator without outputs must fall back to a synthetic name, got %q", custom.Name)
	}
	if !reflect.DeepEqual(custom.Connections, []string{"output"}) {
		t.Errorf("omitted optional input must be skipped, connections = %v", custom.Connections)
	}
	if custom.Params != 0 {
		t.Errorf("custom operator params = %d, want 0", custom.Params)
	}
}

func TestNormalizeNameFallsBackToFileName(t *testing.T) {
	m, err := Normalizer{}.Normalize(createDummyTFLite(t, ""))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if m.Name != "model.tflite" {
		t.Errorf("name = %q, want model.tflite", m.Name)
	}
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	tiny := filepath.Join(dir, "tiny.tflite")
	if err := os.WriteFile(tiny, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Normalizer{}).Normalize(tiny); err == nil {
		t.Error("expected an error for a truncated file")
	}

	wrong := filepath.Join(dir, "wrong.tflite")
	if err := os.WriteFile(wrong, []byte("\x00\x00\x00\x00NOPE1234"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Normalizer{}).Normalize(wrong); err == nil {
		t.Error("expected an identifier mismatch error")
	}

	if _, err := (Normalizer{}).Normalize(filepath.Join(dir, "absent.tflite")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestOpcodeName(t *testing.T) {
	tests := []struct {
		code   int32
		custom string
		want   string
	}{
		{0, "", "ADD"},
		{9, "", "FULLY_CONNECTED"},
		{32, "Flex", "Flex"},
		{32, "", "CUSTOM"},
		{9999, "", "BUILTIN_9999"},
	}
	for _, tc := range tests {
		if got := opcodeName(tc.code, tc.custom); got != tc.want {
			t.Errorf("opcodeName(%d, %q) = %q, want %q", tc.code, tc.custom, got, tc.want)
		}
	}
}
