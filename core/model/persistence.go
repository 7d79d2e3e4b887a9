package model

import (
	"io"
	"os"

	"github.com/sglearn/sglearn/pkg/errors"
)

// SaveWeights writes the exported weights of a model to filename as JSON.
//
//	if err := model.SaveWeights(sgl, "sgl.json"); err != nil {
//	    return err
//	}
func SaveWeights(m WeightExporter, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", filename)
		}
	}()
	return SaveWeightsToWriter(m, file)
}

// LoadWeights reads weights saved by SaveWeights into m, which becomes fitted.
func LoadWeights(m WeightExporter, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()
	return LoadWeightsFromReader(m, file)
}

// SaveWeightsToWriter writes the exported weights of m to w.
func SaveWeightsToWriter(m WeightExporter, w io.Writer) error {
	weights, err := m.ExportWeights()
	if err != nil {
		return err
	}
	data, err := weights.ToJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write model weights")
	}
	return nil
}

// LoadWeightsFromReader decodes weights from r and imports them into m.
func LoadWeightsFromReader(m WeightExporter, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "read model weights")
	}
	var weights ModelWeights
	if err := weights.FromJSON(data); err != nil {
		return err
	}
	return m.ImportWeights(&weights)
}
