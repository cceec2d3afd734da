package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/antnest/pkg/pipeline"
)

// stdinArg names standard input as the nest argument.
const stdinArg = "-"

// setInput points opts at the nest named by arg. "-" reads the nest from
// standard input.
func setInput(opts *pipeline.Options, arg string, stdin io.Reader) error {
	if arg != stdinArg {
		opts.Path = arg
		return nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	opts.Source = string(data)
	return nil
}

// isText reports whether format is printable on a terminal.
func isText(format string) bool {
	switch format {
	case pipeline.FormatText, pipeline.FormatJSON, pipeline.FormatYAML, pipeline.FormatDOT:
		return true
	}
	return false
}

// toStdout reports whether a single text artifact should be printed instead
// of written to a file.
func toStdout(formats []string, output string) bool {
	if output == stdinArg {
		return true
	}
	return output == "" && len(formats) == 1 && isText(formats[0])
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinArg {
			return pipeline.DefaultName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file one artifact is written to. A single format
// uses output verbatim when it is set.
func outputPath(format, input, output string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// writeArtifacts writes artifacts in formats order and returns the files it
// created. See toStdout for when w is used instead.
func writeArtifacts(w io.Writer, artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if toStdout(formats, output) {
		for _, f := range formats {
			if _, err := w.Write(artifacts[f]); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	var paths []string
	for _, f := range formats {
		path := outputPath(f, input, output, len(formats) == 1)
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
