package viz

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sglearn/sglearn/pkg/errors"
	"github.com/sglearn/sglearn/pkg/log"
	"github.com/sglearn/sglearn/sklearn/linear_model"
)

// AxesMode selects how words are placed on the axes of PlotOnAxes.
type AxesMode string

const (
	// ModeCosine uses the cosine similarity between the word and each axis.
	ModeCosine AxesMode = "cosine"
	// ModeOLS uses the slopes of the regression of the word vector on the axes.
	ModeOLS AxesMode = "ols"
)

const (
	figureWidth  = 6.4 * vg.Inch
	figureHeight = 4.8 * vg.Inch
)

var (
	red  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	blue = color.RGBA{R: 31, G: 119, B: 180, A: 255}

	dashes = []vg.Length{vg.Points(5), vg.Points(3)}
)

var logger = log.GetLoggerWithName("viz")

// PlotEmbeddings draws the 2-d embeddings of words as a labelled scatter. Consecutive words
// are paired: (words[0], words[1]), (words[2], words[3]), ... are joined by dashed red
// lines, which makes analogies visible. reduced holds one embedding per row and index maps
// each word to its row; only the first two columns are used.
func PlotEmbeddings(reduced mat.Matrix, index map[string]int, words []string, path string) error {
	rows, cols := reduced.Dims()
	if cols < 2 {
		return errors.NewDimensionError("viz.PlotEmbeddings", 2, cols, 1)
	}

	points := make(plotter.XYs, len(words))
	for i, w := range words {
		row, ok := index[w]
		if !ok || row < 0 || row >= rows {
			return errors.NewValueError("viz.PlotEmbeddings", fmt.Sprintf("word %q has no embedding", w))
		}
		points[i] = plotter.XY{X: reduced.At(row, 0), Y: reduced.At(row, 1)}
	}

	p := plot.New()
	if err := addLabelledScatter(p, points, words); err != nil {
		return errors.Wrap(err, "viz.PlotEmbeddings")
	}

	for i := 0; i+1 < len(points); i += 2 {
		pair, err := plotter.NewLine(points[i : i+2])
		if err != nil {
			return errors.Wrap(err, "viz.PlotEmbeddings")
		}
		pair.Color = red
		pair.Dashes = dashes
		p.Add(pair)
	}
	p.HideAxes()

	return save(p, path, len(words))
}

// PlotOnAxes places words on two interpretable axes. X has one axis per column and one
// embedding dimension per row; the first two columns become the x and y coordinates.
// mode must be ModeCosine or ModeOLS.
func PlotOnAxes(vectors WordVectors, X mat.Matrix, words []string, path string, mode AxesMode) error {
	dim, nAxes := X.Dims()
	if nAxes < 2 {
		return errors.NewDimensionError("viz.PlotOnAxes", 2, nAxes, 1)
	}

	var place func(v []float64) ([]float64, error)
	switch mode {
	case ModeCosine:
		place = func(v []float64) ([]float64, error) { return CosineSimilarity(v, X.T()) }
	case ModeOLS:
		place = func(v []float64) ([]float64, error) { return Projection(X, v) }
	default:
		return errors.NewValueError("viz.PlotOnAxes", fmt.Sprintf("mode must be %q or %q, got %q", ModeCosine, ModeOLS, mode))
	}

	points := make(plotter.XYs, len(words))
	for i, w := range words {
		v, err := vectors.WordVector(w)
		if err != nil {
			return err
		}
		if len(v) != dim {
			return errors.NewDimensionError("viz.PlotOnAxes", dim, len(v), 0)
		}
		coords, err := place(v)
		if err != nil {
			return err
		}
		points[i] = plotter.XY{X: coords[0], Y: coords[1]}
	}

	p := plot.New()
	if err := addOriginLines(p, points); err != nil {
		return errors.Wrap(err, "viz.PlotOnAxes")
	}
	if err := addLabelledScatter(p, points, words); err != nil {
		return errors.Wrap(err, "viz.PlotOnAxes")
	}
	p.HideAxes()

	return save(p, path, len(words))
}

// PlotCoefficients draws fitted coefficients as bars, one colour per group. Features that
// belong to no group are drawn in grey.
func PlotCoefficients(coef []float64, groups [][]int, path string) error {
	if len(coef) == 0 {
		return errors.NewValueError("viz.PlotCoefficients", "no coefficients")
	}
	if err := linear_model.ValidateGroups(groups, len(coef)); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Sparse Group Lasso coefficients"
	p.Y.Label.Text = "coefficient"
	p.Legend.Top = true

	width := vg.Points(math.Max(2, 300/float64(len(coef))))
	grouped := make([]bool, len(coef))
	for g, idx := range groups {
		values := make(plotter.Values, len(coef))
		for _, j := range idx {
			values[j] = coef[j]
			grouped[j] = true
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return errors.Wrap(err, "viz.PlotCoefficients")
		}
		bars.Color = plotutil.Color(g)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("group %d", g), bars)
	}

	rest := make(plotter.Values, len(coef))
	hasRest := false
	for j, in := range grouped {
		if !in {
			rest[j] = coef[j]
			hasRest = true
		}
	}
	if hasRest {
		bars, err := plotter.NewBarChart(rest, width)
		if err != nil {
			return errors.Wrap(err, "viz.PlotCoefficients")
		}
		bars.Color = color.Gray{Y: 128}
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add("ungrouped", bars)
	}

	names := make([]string, len(coef))
	for j := range names {
		names[j] = fmt.Sprintf("w%d", j)
	}
	p.NominalX(names...)

	return save(p, path, len(coef))
}

func addLabelledScatter(p *plot.Plot, points plotter.XYs, words []string) error {
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Color = blue
	scatter.GlyphStyle.Radius = vg.Points(3)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: words})
	if err != nil {
		return err
	}
	labels.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(2)}

	p.Add(scatter, labels)
	return nil
}

// addOriginLines draws dashed lines through x = 0 and y = 0 across the data range.
func addOriginLines(p *plot.Plot, points plotter.XYs) error {
	xmin, xmax, ymin, ymax := plotter.XYRange(points)
	xmin, xmax = math.Min(xmin, 0), math.Max(xmax, 0)
	ymin, ymax = math.Min(ymin, 0), math.Max(ymax, 0)

	for _, seg := range []plotter.XYs{
		{{X: xmin, Y: 0}, {X: xmax, Y: 0}},
		{{X: 0, Y: ymin}, {X: 0, Y: ymax}},
	} {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		line.Color = blue
		line.Dashes = dashes
		p.Add(line)
	}
	return nil
}

func save(p *plot.Plot, path string, n int) error {
	if err := p.Save(figureWidth, figureHeight, path); err != nil {
		return errors.Wrapf(err, "viz: saving %s", path)
	}
	logger.Debug("Plot saved", "path", path, "points", n)
	return nil
}
