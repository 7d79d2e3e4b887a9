package errors

import (
	"fmt"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// indexRow panics like gonum does on an out-of-range row.
func indexRow(m *mat.Dense, i int) (v float64, err error) {
	defer Recover(&err, "indexRow")
	return m.At(i, 0), nil
}

func TestRecoverConvertsPanics(t *testing.T) {
	tests := []struct {
		name      string
		fn        func() error
		wantValue string
	}{
		{
			name: "string panic",
			fn: func() (err error) {
				defer Recover(&err, "Estimator.Fit")
				panic("solver state corrupted")
			},
			wantValue: "solver state corrupted",
		},
		{
			name: "gonum shape panic",
			fn: func() (err error) {
				defer Recover(&err, "Estimator.Fit")
				var c mat.Dense
				c.Mul(mat.NewDense(2, 3, nil), mat.NewDense(2, 3, nil))
				return nil
			},
			wantValue: mat.ErrShape.Error(),
		},
		{
			name: "nil map write",
			fn: func() (err error) {
				defer Recover(&err, "Estimator.Fit")
				var params map[string]float64
				params["alpha"] = 1
				return nil
			},
			wantValue: "assignment to entry in nil map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if err == nil {
				t.Fatal("expected an error from the recovered panic")
			}

			var panicErr *PanicError
			if !As(err, &panicErr) {
				t.Fatalf("expected *PanicError, got %T", err)
			}
			if panicErr.Operation != "Estimator.Fit" {
				t.Errorf("Operation = %q, want %q", panicErr.Operation, "Estimator.Fit")
			}
			if got := fmt.Sprint(panicErr.PanicValue); !strings.Contains(got, tt.wantValue) {
				t.Errorf("PanicValue = %q, want it to contain %q", got, tt.wantValue)
			}
			if !strings.HasPrefix(err.Error(), "panic in Estimator.Fit: ") {
				t.Errorf("Error() = %q", err.Error())
			}
			if panicErr.StackTrace == "" {
				t.Error("expected a stack trace")
			}
		})
	}
}

func TestRecoverReturnsResultsWithoutPanic(t *testing.T) {
	m := mat.NewDense(2, 1, []float64{4, 5})

	v, err := indexRow(m, 1)
	if err != nil {
		t.Fatalf("indexRow(1) error = %v", err)
	}
	if v != 5 {
		t.Errorf("indexRow(1) = %v, want 5", v)
	}

	if _, err := indexRow(m, 7); err == nil {
		t.Error("indexRow(7) should report the recovered index panic")
	}
}

func TestRecoverLeavesReturnedErrorAlone(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "Estimator.Predict")
		return NewNotFittedError("SparseGroupLasso", "Predict")
	}

	err := fn()
	if !Is(err, ErrNotFitted) {
		t.Errorf("expected ErrNotFitted to survive, got %v", err)
	}
	var panicErr *PanicError
	if As(err, &panicErr) {
		t.Error("no panic happened, got a PanicError")
	}
}

func TestRecoverKeepsEarlierError(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "Estimator.Fit")
		defer func() {
			err = NewValueError("Estimator.Fit", "X must not be empty")
			panic("cleanup failed")
		}()
		return nil
	}

	err := fn()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !Is(err, ErrInvalidInput) {
		t.Errorf("the earlier error should stay in the chain: %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "panic in Estimator.Fit: cleanup failed") || !strings.Contains(msg, "X must not be empty") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := NewPanicError("SVD.Fit", 42)

	if got := err.Error(); got != "panic in SVD.Fit: 42" {
		t.Errorf("Error() = %q", got)
	}
	s := err.String()
	if !strings.HasPrefix(s, "panic in SVD.Fit: 42\nStack trace:\n") {
		t.Errorf("String() = %q", s)
	}
	if !strings.Contains(s, "TestPanicErrorString") {
		t.Error("stack trace should name the creating function")
	}
}
