package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"

	nestio "github.com/matzehuels/antnest/pkg/io"
	"github.com/matzehuels/antnest/pkg/nest"
)

// DefaultName names nests loaded from raw text without a name.
const DefaultName = "nest"

// Load parses the nest named by opts.Path or given in opts.Source.
//
// A nest whose sink is unreachable from the source is loaded anyway, since
// simulating it shows the stall; Strict rejects it instead.
func Load(opts Options) (*nest.Nest, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	var r io.Reader
	name := opts.Name
	if opts.Path != "" {
		f, err := os.Open(opts.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
		if name == "" {
			name = nestio.NameFromPath(opts.Path)
		}
	} else {
		r = strings.NewReader(opts.Source)
		if name == "" {
			name = DefaultName
		}
	}

	n, err := nestio.ReadNest(r, name)
	if err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		if opts.Strict {
			return nil, err
		}
		opts.Logger.Warn("nest will stall", "nest", n.Name(), "reason", err)
	}
	if unreachable := n.UnreachableRooms(); len(unreachable) > 0 {
		opts.Logger.Debug("rooms cannot reach the sink", "rooms", strings.Join(unreachable, ", "))
	}
	return n, nil
}

// LoadString is Load for raw nest text.
func LoadString(source, name string) (*nest.Nest, error) {
	n, err := Load(Options{Source: source, Name: name})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return n, nil
}
