package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/antnest/pkg/nest"
)

// ErrSyntax is returned for a line that matches none of the nest file forms.
var ErrSyntax = errors.New("invalid nest syntax")

var (
	roomName = regexp.MustCompile(`^\w+$`)
	roomCap  = regexp.MustCompile(`^(\w+)\s*\{\s*(\d+)\s*\}$`)
)

// ParseNest decodes nest text from r into a description named name.
//
// Structural problems other than syntax (unknown rooms in tunnels, duplicate
// rooms, a missing ant count) are left to [nest.New].
func ParseNest(r io.Reader, name string) (nest.Description, error) {
	desc := nest.Description{Name: name}
	declared := make(map[string]bool)

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(text, "f="):
			n, err := strconv.Atoi(strings.TrimSpace(text[2:]))
			if err != nil {
				return desc, fmt.Errorf("line %d: %w: ant count %q", line, ErrSyntax, text[2:])
			}
			desc.Agents = n

		case strings.Contains(text, "-"):
			a, b, _ := strings.Cut(text, "-")
			a, b = strings.TrimSpace(a), strings.TrimSpace(b)
			if !roomName.MatchString(a) || !roomName.MatchString(b) {
				return desc, fmt.Errorf("line %d: %w: tunnel %q", line, ErrSyntax, text)
			}
			desc.Edges = append(desc.Edges, nest.Edge{A: a, B: b})

		default:
			node, err := parseRoom(text)
			if err != nil {
				return desc, fmt.Errorf("line %d: %w", line, err)
			}
			desc.Nodes = append(desc.Nodes, node)
			declared[node.ID] = true
		}
	}
	if err := sc.Err(); err != nil {
		return desc, fmt.Errorf("read: %w", err)
	}

	for _, id := range []string{nest.DefaultSource, nest.DefaultSink} {
		if !declared[id] {
			desc.Nodes = append(desc.Nodes, nest.Node{ID: id})
		}
	}
	return desc, nil
}

func parseRoom(text string) (nest.Node, error) {
	if m := roomCap.FindStringSubmatch(text); m != nil {
		c, err := strconv.Atoi(m[2])
		if err != nil {
			return nest.Node{}, fmt.Errorf("%w: capacity %q", ErrSyntax, m[2])
		}
		return nest.Node{ID: m[1], Capacity: c}, nil
	}
	if roomName.MatchString(text) {
		return nest.Node{ID: text, Capacity: 1}, nil
	}
	return nest.Node{}, fmt.Errorf("%w: %q", ErrSyntax, text)
}

// ReadNest decodes nest text from r and builds the nest. The sink need not
// be reachable; call [nest.Nest.Validate] to require it.
func ReadNest(r io.Reader, name string) (*nest.Nest, error) {
	desc, err := ParseNest(r, name)
	if err != nil {
		return nil, err
	}
	return nest.New(desc)
}

// ImportNest reads the nest file at path. The nest is named after the file
// name without its extension.
func ImportNest(path string) (*nest.Nest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n, err := ReadNest(f, NameFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// NameFromPath returns the file name of path without its extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
