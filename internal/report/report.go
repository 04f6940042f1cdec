package report

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"curvefit/domain/fit"
	"curvefit/internal/families"
	"curvefit/internal/ranking"
)

const (
	// DefaultCurvePoints is the grid size used when plotting a fitted curve
	DefaultCurvePoints = 200
	MaxCurvePoints     = 10_000
)

var (
	// ErrNotFitted is returned when a curve is requested for an entry without a fit
	ErrNotFitted     = errors.New("entry has no fitted model")
	ErrTooManyPoints = fmt.Errorf("curve grid is limited to %d points", MaxCurvePoints)
)

// Point is one sample of a fitted curve
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Formula renders the fitted equation with four decimals, or "" for entries without a fit
func Formula(e fit.Entry) string {
	if !e.OK() {
		return ""
	}
	p := e.Result.Params
	get := func(name string) float64 {
		v, _ := p.Get(name)
		return v
	}

	switch families.Base(e.Model) {
	case fit.ModelLinear:
		return fmt.Sprintf("y = %.4f %sx", get("intercept"), signed(get("slope")))
	case fit.ModelExponential:
		return fmt.Sprintf("y = %.4f * e^(%.4fx)", get("a"), get("b"))
	case fit.ModelPower:
		return fmt.Sprintf("y = %.4f * x^%.4f", get("a"), get("b"))
	case fit.ModelLogarithmic:
		return fmt.Sprintf("y = %.4f %s ln(x)", get("a"), signed(get("b")))
	case fit.ModelQuadratic:
		return fmt.Sprintf("y = %.4f %sx %sx²", get("a"), signed(get("b")), signed(get("c")))
	default:
		return ""
	}
}

// signed formats a coefficient as "+ v" or "- |v|"
func signed(v float64) string {
	if v < 0 {
		return fmt.Sprintf("- %.4f", -v)
	}
	return fmt.Sprintf("+ %.4f", v)
}

// Markdown renders the result set as a table, marking the lowest-RMSE model
func Markdown(rs *fit.ResultSet) string {
	var sb strings.Builder
	sb.WriteString("# Regression results\n\n")

	best, hasBest := ranking.Best(rs)
	if hasBest {
		fmt.Fprintf(&sb, "Best model: **%s** (RMSE %.4f)\n\n", best.Model, best.Result.Metrics.RMSE)
	} else {
		sb.WriteString("No model could be fitted.\n\n")
	}

	fmt.Fprintf(&sb, "Regularization alpha: %g", rs.Alpha())
	if rs.AlphaFallback() {
		sb.WriteString(" (invalid input, default used)")
	}
	sb.WriteString("\n\n")

	sb.WriteString("| Model | Status | R² | RMSE | MSE | Formula |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, e := range rs.Entries() {
		name := string(e.Model)
		if hasBest && e.Model == best.Model {
			name = "**" + name + "**"
		}
		if !e.OK() {
			fmt.Fprintf(&sb, "| %s | %s | - | - | - | %s |\n", name, e.Status, escape(e.Reason))
			continue
		}
		m := e.Result.Metrics
		fmt.Fprintf(&sb, "| %s | %s | %.4f | %.4f | %.4f | %s |\n",
			name, e.Status, m.R2, m.RMSE, m.MSE, escape(Formula(e)))
	}
	return sb.String()
}

// HTML renders the markdown report
func HTML(rs *fit.ResultSet) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(rs)), p, renderer)
}

// Curve samples a fitted model on a uniform grid spanning the observed x range.
// points below 2 selects DefaultCurvePoints; more than MaxCurvePoints is rejected.
// Non-finite values are dropped.
func Curve(e fit.Entry, xs []float64, points int) ([]Point, error) {
	if points > MaxCurvePoints {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyPoints, points)
	}
	if !e.OK() {
		return nil, fmt.Errorf("%w: %s", ErrNotFitted, e.Model)
	}
	if len(xs) == 0 {
		return nil, nil
	}
	if points < 2 {
		points = DefaultCurvePoints
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}

	step := (hi - lo) / float64(points-1)
	out := make([]Point, 0, points)
	for i := 0; i < points; i++ {
		x := lo + float64(i)*step
		if i == points-1 {
			x = hi
		}
		y, err := families.Evaluate(e.Model, e.Result.Params, x)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		out = append(out, Point{X: x, Y: y})
	}
	return out, nil
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
