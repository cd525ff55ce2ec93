// Filename: reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/charsift/api/schemas"
)

// Reporter writes analysis reports to an output.
type Reporter interface {
	// Write renders a single report.
	Write(report *schemas.Report) error
	// Close finalizes the report and closes any underlying resources.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for the given format writing to outputPath
// ("" or "stdout" selects standard output).
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "json":
		return &jsonReporter{w: writer}, nil
	case "text":
		return &textReporter{w: writer}, nil
	default:
		if !isStdOut {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// jsonReporter emits one indented JSON document per report.
type jsonReporter struct {
	w io.WriteCloser
}

func (r *jsonReporter) Write(report *schemas.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if _, err := r.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *jsonReporter) Close() error {
	return r.w.Close()
}

// textReporter renders a human-readable summary.
type textReporter struct {
	w io.WriteCloser
}

func (r *textReporter) Write(report *schemas.Report) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "== %s ==\n", report.File)

	fmt.Fprintf(&sb, "\nInferred keys (%d):\n", len(report.Keys))
	for _, key := range report.Keys {
		fmt.Fprintf(&sb, "  %-20s %-14s %s", key.Name, key.Kind, key.Value)
		if key.Provenance != nil {
			fmt.Fprintf(&sb, "   (from %s %s %d)",
				key.Provenance.Origin, key.Provenance.Operator, key.Provenance.Operand)
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "\nNumeric arrays (%d):\n", len(report.Arrays))
	for _, arr := range report.Arrays {
		fmt.Fprintf(&sb, "  #%-3d len=%-5d", arr.Index, arr.Length)
		if arr.Location != "" {
			fmt.Fprintf(&sb, " at %-10s", arr.Location)
		}
		fmt.Fprintf(&sb, " sample=%v\n", arr.Sample)
	}

	fmt.Fprintf(&sb, "\nDecode sites (%d):\n", len(report.Sites))
	for i, site := range report.Sites {
		fmt.Fprintf(&sb, "  site %d", i)
		if site.Location != "" {
			fmt.Fprintf(&sb, " at %s", site.Location)
		}
		if site.Transform != "" {
			fmt.Fprintf(&sb, "  transform %q %s", site.Transform, site.Operand)
		} else {
			fmt.Fprintf(&sb, "  transform absent")
		}
		sb.WriteByte('\n')

		switch site.Status {
		case schemas.StatusDecoded:
			fmt.Fprintf(&sb, "    decoded: %q\n", site.Decoded)
			for _, f := range site.Failures {
				fmt.Fprintf(&sb, "    element %d failed: %d -> %d is not a valid code point\n",
					f.Index, f.Value, f.Result)
			}
		default:
			fmt.Fprintf(&sb, "    not decoded: %s\n", statusText(site.Status))
		}

		for _, entry := range site.Trace {
			fmt.Fprintf(&sb, "    %12d -> %-8d %-4q  v=%s k=%s r=%s\n",
				entry.Original, entry.Transformed, entry.Char,
				entry.BitsValue, entry.BitsKey, entry.BitsResult)
		}
	}

	if _, err := io.WriteString(r.w, sb.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *textReporter) Close() error {
	return r.w.Close()
}

func statusText(status string) string {
	switch status {
	case schemas.StatusNoTransform:
		return "sink argument carries no recognized transform"
	case schemas.StatusUnresolvedArray:
		return "source array could not be resolved"
	case schemas.StatusUnresolvedKey:
		return "key identifier has no inferred numeric value"
	case schemas.StatusUnsupportedTransform:
		return "transform has no known inverse"
	}
	return status
}
