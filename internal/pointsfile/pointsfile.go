// Package pointsfile reads recorded pointer positions from JSON, for
// scoring a stroke outside the TUI.
//
// Two layouts are accepted:
//
//	{"points": [[x, y], ...]}
//	[{"x": ..., "y": ...}, ...]
package pointsfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/circlez/internal/stroke"
)

// ErrTooFewPoints is returned when a file holds fewer than two points.
var ErrTooFewPoints = errors.New("points file needs at least two points")

const schemaURL = "mem://circlez/points.json"

const schemaJSON = `{
  "oneOf": [
    {
      "type": "object",
      "required": ["points"],
      "properties": {
        "points": {
          "type": "array",
          "items": {
            "type": "array",
            "prefixItems": [{"type": "number"}, {"type": "number"}],
            "minItems": 2,
            "maxItems": 2
          }
        }
      }
    },
    {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "y"],
        "properties": {
          "x": {"type": "number"},
          "y": {"type": "number"}
        }
      }
    }
  ]
}`

var compile = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Load decodes and validates the points in r, returned unfiltered in file
// order.
func Load(r io.Reader) ([]stroke.Point, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse points: %w", err)
	}
	sch, err := compile()
	if err != nil {
		return nil, fmt.Errorf("compile points schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid points file: %w", err)
	}

	var pts []stroke.Point
	if _, isObject := doc.(map[string]any); isObject {
		var wrapped struct {
			Points [][2]float64 `json:"points"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode points: %w", err)
		}
		pts = make([]stroke.Point, len(wrapped.Points))
		for i, p := range wrapped.Points {
			pts[i] = stroke.Point{X: p[0], Y: p[1]}
		}
	} else if err := json.Unmarshal(raw, &pts); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}

	if len(pts) < 2 {
		return nil, ErrTooFewPoints
	}
	return pts, nil
}

// LoadFile opens path and calls Load. A path of "-" reads stdin.
func LoadFile(path string) ([]stroke.Point, error) {
	if path == "-" {
		return Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Sample runs pts through the jitter filter, or keeps every point when raw
// is set.
func Sample(pts []stroke.Point, raw bool) stroke.Stroke {
	if raw || len(pts) == 0 {
		return stroke.FromPoints(pts)
	}
	s := stroke.Reset(pts[0])
	for _, p := range pts[1:] {
		s, _ = s.Append(p)
	}
	return s
}
