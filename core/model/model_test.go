package model

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sglearn/sglearn/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()

	if s.IsFitted() {
		t.Fatal("new StateManager should be unfitted")
	}
	err := s.RequireFitted("SparseGroupLasso", "Predict")
	if err == nil || !errors.Is(err, errors.ErrNotFitted) {
		t.Fatalf("RequireFitted() = %v, want ErrNotFitted", err)
	}

	s.SetFitted(15, 100)
	if !s.IsFitted() {
		t.Fatal("expected fitted state")
	}
	if err := s.RequireFitted("SparseGroupLasso", "Predict"); err != nil {
		t.Fatalf("RequireFitted() after SetFitted = %v", err)
	}
	nFeatures, nSamples := s.GetDimensions()
	if nFeatures != 15 || nSamples != 100 {
		t.Errorf("GetDimensions() = (%d, %d), want (15, 100)", nFeatures, nSamples)
	}

	if err := s.RequireFeatures("SparseGroupLasso.Predict", 14); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("RequireFeatures(14) = %v, want ErrInvalidInput", err)
	}
	if err := s.RequireFeatures("SparseGroupLasso.Predict", 15); err != nil {
		t.Errorf("RequireFeatures(15) = %v", err)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset should return to the unfitted state")
	}
}

func TestModelWeightsJSONRoundTrip(t *testing.T) {
	mw := &ModelWeights{
		ModelType:       "SparseGroupLasso",
		Version:         "1.0",
		Coefficients:    []float64{1, 0, -2},
		Intercept:       12,
		Hyperparameters: map[string]interface{}{"alpha": 1.0},
		IsFitted:        true,
	}
	if err := mw.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	data, err := mw.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() = %v", err)
	}

	var got ModelWeights
	if err := got.FromJSON(data); err != nil {
		t.Fatalf("FromJSON() = %v", err)
	}
	if got.ModelType != mw.ModelType || got.Intercept != 12 || len(got.Coefficients) != 3 || got.Coefficients[2] != -2 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestModelWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights ModelWeights
	}{
		{"missing type", ModelWeights{Version: "1.0"}},
		{"missing version", ModelWeights{ModelType: "SparseGroupLasso"}},
		{"unfitted with coefficients", ModelWeights{ModelType: "SparseGroupLasso", Version: "1.0", Coefficients: []float64{1}}},
		{"fitted without coefficients", ModelWeights{ModelType: "SparseGroupLasso", Version: "1.0", IsFitted: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if err == nil || !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestModelWeightsClone(t *testing.T) {
	mw := &ModelWeights{
		ModelType:       "SparseGroupLasso",
		Coefficients:    []float64{1, 2},
		Hyperparameters: map[string]interface{}{"gamma": 0.2},
	}
	clone := mw.Clone()
	clone.Coefficients[0] = 99
	clone.Hyperparameters["gamma"] = 0.9

	if mw.Coefficients[0] != 1 || mw.Hyperparameters["gamma"] != 0.2 {
		t.Error("Clone should not share storage with the original")
	}
}

// fakeModel stores whatever weights it is given.
type fakeModel struct {
	weights *ModelWeights
}

func (f *fakeModel) ExportWeights() (*ModelWeights, error) {
	if f.weights == nil {
		return nil, errors.NewNotFittedError("fake", "ExportWeights")
	}
	return f.weights.Clone(), nil
}

func (f *fakeModel) ImportWeights(w *ModelWeights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	f.weights = w
	return nil
}

func TestSaveLoadWeights(t *testing.T) {
	src := &fakeModel{weights: &ModelWeights{
		ModelType:    "SparseGroupLasso",
		Version:      "1.0",
		Coefficients: []float64{1.5, 0, -2},
		Intercept:    12,
		Metadata:     map[string]interface{}{"n_iter": 42},
		IsFitted:     true,
	}}

	path := filepath.Join(t.TempDir(), "weights.json")
	if err := SaveWeights(src, path); err != nil {
		t.Fatalf("SaveWeights() = %v", err)
	}

	dst := &fakeModel{}
	if err := LoadWeights(dst, path); err != nil {
		t.Fatalf("LoadWeights() = %v", err)
	}
	if dst.weights.Intercept != 12 || len(dst.weights.Coefficients) != 3 || dst.weights.Coefficients[2] != -2 {
		t.Errorf("loaded weights = %+v", dst.weights)
	}
	// numbers come back from JSON as float64
	if got := dst.weights.Metadata["n_iter"]; got != 42.0 {
		t.Errorf("n_iter = %v (%T), want 42", got, got)
	}
}

func TestSaveWeightsUnfitted(t *testing.T) {
	var buf bytes.Buffer
	err := SaveWeightsToWriter(&fakeModel{}, &buf)
	if !errors.Is(err, errors.ErrNotFitted) {
		t.Errorf("SaveWeightsToWriter() = %v, want ErrNotFitted", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %q", buf.String())
	}
}

func TestLoadWeightsErrors(t *testing.T) {
	err := LoadWeightsFromReader(&fakeModel{}, strings.NewReader("{not json"))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("malformed JSON: %v, want ErrInvalidInput", err)
	}

	err = LoadWeightsFromReader(&fakeModel{}, strings.NewReader(`{"model_type":"","version":"1.0"}`))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("missing model type: %v, want ErrInvalidInput", err)
	}

	if err := LoadWeights(&fakeModel{}, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadWeights() on a missing file should fail")
	}
}
