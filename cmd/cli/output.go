package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"curvefit/app"
	"curvefit/domain/fit"
	"curvefit/internal/profiling"
	"curvefit/internal/report"

	"gopkg.in/yaml.v3"
)

const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatYAML     = "yaml"

	formatUsage = "Output format: table|json|yaml|markdown|html"
)

type jsonEntry struct {
	fit.Entry
	Formula string `json:"formula,omitempty"`
}

type jsonReport struct {
	Alpha         float64       `json:"alpha"`
	AlphaFallback bool          `json:"alpha_fallback"`
	Best          fit.ModelID   `json:"best,omitempty"`
	Ranking       []fit.ModelID `json:"ranking"`
	Results       []jsonEntry   `json:"results"`

	Residuals *profiling.ResidualProfile `json:"residuals,omitempty"`
}

func writeReport(w io.Writer, format string, r *app.FitReport) error {
	switch format {
	case formatTable:
		return writeTable(w, r)
	case formatJSON:
		return writeJSON(w, r)
	case formatYAML:
		return writeYAML(w, r)
	case formatMarkdown:
		_, err := io.WriteString(w, report.Markdown(r.Results))
		return err
	case formatHTML:
		_, err := w.Write(report.HTML(r.Results))
		return err
	default:
		return fmt.Errorf("unknown format %q (use table, json, yaml, markdown or html)", format)
	}
}

func writeTable(w io.Writer, r *app.FitReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tMODEL\tSTATUS\tR2\tRMSE\tMSE\tFORMULA")
	for _, e := range r.Results.Entries() {
		marker := ""
		if r.Best != nil && r.Best.Model == e.Model {
			marker = "*"
		}
		if !e.OK() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t-\t-\t-\t%s\n", marker, e.Model, e.Status, e.Reason)
			continue
		}
		m := e.Result.Metrics
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.6f\t%.6f\t%.6f\t%s\n",
			marker, e.Model, e.Status, m.R2, m.RMSE, m.MSE, report.Formula(e))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.AlphaFallback {
		fmt.Fprintf(w, "\nalpha: invalid input, default %g used\n", r.Results.Alpha())
	}
	if r.Best == nil {
		fmt.Fprintln(w, "\nno model could be fitted")
	}
	if res := r.Residuals; res != nil {
		fmt.Fprintf(w, "\nresiduals of %s: mean %.4g, std %.4g, range [%.4g, %.4g], %d outliers, Jarque-Bera p=%.3f\n",
			res.Model, res.Summary.Mean, res.Summary.StdDev, res.Summary.Min, res.Summary.Max, res.Outliers, res.JarqueBeraP)
	}
	return nil
}

func writeJSON(w io.Writer, r *app.FitReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newJSONReport(r))
}

// writeYAML renders the JSON document as block-style YAML so both formats share field names
func writeYAML(w io.Writer, r *app.FitReport) error {
	data, err := json.Marshal(newJSONReport(r))
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
		n.Style &^= yaml.DoubleQuotedStyle
	}
	for _, child := range n.Content {
		blockStyle(child)
	}
}

func newJSONReport(r *app.FitReport) jsonReport {
	out := jsonReport{
		Alpha:         r.Results.Alpha(),
		AlphaFallback: r.AlphaFallback,
		Ranking:       make([]fit.ModelID, 0, len(r.Order)),
		Residuals:     r.Residuals,
	}
	if r.Best != nil {
		out.Best = r.Best.Model
	}
	for _, e := range r.Order {
		out.Ranking = append(out.Ranking, e.Model)
	}
	for _, e := range r.Results.Entries() {
		out.Results = append(out.Results, jsonEntry{Entry: e, Formula: report.Formula(e)})
	}
	return out
}
