// Package config reads mining configuration files written in HCL:
//
//	solve_face_colors = true
//	highlander        = true
//	database          = "rules.db"
//
//	board "corner" {
//	  type   = "grid"
//	  width  = 2
//	  height = 2
//	  clue {
//	    face  = 0
//	    value = 3
//	  }
//	}
package config

import (
	"errors"
	"fmt"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
	"github.com/agentic-research/patternmine/internal/rules"
	"github.com/agentic-research/patternmine/internal/solve"
)

// ErrUnknownBoard is returned for board blocks of an unknown type.
var ErrUnknownBoard = errors.New("unknown board type")

// Solver names.
const (
	SolverBruteForce = "brute"
	SolverSAT        = "sat"
)

type fileConfig struct {
	SolveEdges      *bool        `hcl:"solve_edges,optional"`
	SolveSectors    *bool        `hcl:"solve_sectors,optional"`
	SolveFaceColors *bool        `hcl:"solve_face_colors,optional"`
	Highlander      *bool        `hcl:"highlander,optional"`
	Verify          *bool        `hcl:"verify,optional"`
	ReportEvery     *int         `hcl:"report_every,optional"`
	CacheSize       *int         `hcl:"cache_size,optional"`
	Database        *string      `hcl:"database,optional"`
	Solver          *string      `hcl:"solver,optional"`
	Boards          []boardBlock `hcl:"board,block"`
}

type boardBlock struct {
	Name     string      `hcl:"name,label"`
	Type     string      `hcl:"type"`
	Width    int         `hcl:"width,optional"`
	Height   int         `hcl:"height,optional"`
	File     string      `hcl:"file,optional"`
	Features []string    `hcl:"features,optional"`
	Clues    []clueBlock `hcl:"clue,block"`
}

type clueBlock struct {
	Face  int `hcl:"face"`
	Value int `hcl:"value"`
}

// Clue pins the number of black edges of a face.
type Clue struct {
	Face  int
	Value int
}

// BoardSpec describes one board to mine and the features assumed on it.
type BoardSpec struct {
	Name     string
	Type     string
	Width    int
	Height   int
	File     string
	Clues    []Clue
	Features []string
}

// Config is a resolved mining configuration.
type Config struct {
	Mining    rules.Options
	CacheSize int
	Database  string
	Solver    string
	Boards    []BoardSpec
}

// Default mines the square board for edges and sectors.
func Default() *Config {
	return &Config{
		Mining:    rules.DefaultOptions(),
		CacheSize: solve.DefaultCacheSize,
		Database:  "rules.db",
		Solver:    SolverBruteForce,
		Boards:    []BoardSpec{{Name: "square", Type: "square"}},
	}
}

// Load reads and parses the configuration at path on fs.
func Load(fs billy.Filesystem, path string) (*Config, error) {
	src, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(path, src)
}

// Parse decodes HCL source. The filename must end in .hcl.
func Parse(filename string, src []byte) (*Config, error) {
	var fc fileConfig
	if err := hclsimple.Decode(filename, src, nil, &fc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg := Default()
	setBool(&cfg.Mining.SolveEdges, fc.SolveEdges)
	setBool(&cfg.Mining.SolveSectors, fc.SolveSectors)
	setBool(&cfg.Mining.SolveFaceColors, fc.SolveFaceColors)
	setBool(&cfg.Mining.Highlander, fc.Highlander)
	setBool(&cfg.Mining.Verify, fc.Verify)
	if fc.ReportEvery != nil {
		cfg.Mining.ReportEvery = *fc.ReportEvery
	}
	if fc.CacheSize != nil {
		cfg.CacheSize = *fc.CacheSize
	}
	if fc.Database != nil {
		cfg.Database = *fc.Database
	}
	if fc.Solver != nil {
		switch *fc.Solver {
		case SolverBruteForce, SolverSAT:
			cfg.Solver = *fc.Solver
		default:
			return nil, fmt.Errorf("unknown solver %q", *fc.Solver)
		}
	}

	if len(fc.Boards) > 0 {
		cfg.Boards = cfg.Boards[:0]
	}
	for _, bb := range fc.Boards {
		spec := BoardSpec{
			Name:     bb.Name,
			Type:     bb.Type,
			Width:    bb.Width,
			Height:   bb.Height,
			File:     bb.File,
			Features: bb.Features,
		}
		for _, c := range bb.Clues {
			spec.Clues = append(spec.Clues, Clue(c))
		}
		cfg.Boards = append(cfg.Boards, spec)
	}
	return cfg, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// NewSolver returns the configured solver wrapped in a cache.
func (c *Config) NewSolver(opts ...solve.CacheOption) (*solve.Cache, error) {
	var s solve.Solver = solve.BruteForce{}
	if c.Solver == SolverSAT {
		s = solve.SAT{}
	}
	return solve.NewCache(s, c.CacheSize, opts...)
}

// Target is a board ready to mine with the features assumed on it.
type Target struct {
	Name  string
	Board *board.Board
	Base  *feature.Set
}

// Targets builds every configured board. Board files are read from fs.
func (c *Config) Targets(fs billy.Filesystem) ([]Target, error) {
	out := make([]Target, 0, len(c.Boards))
	for _, spec := range c.Boards {
		t, err := spec.Build(fs)
		if err != nil {
			return nil, fmt.Errorf("board %q: %w", spec.Name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Build constructs the board and its base features.
func (s BoardSpec) Build(fs billy.Filesystem) (Target, error) {
	var (
		b   *board.Board
		err error
	)
	switch s.Type {
	case "square":
		b = board.Square()
	case "grid":
		b, err = board.Grid(s.Width, s.Height)
	case "file":
		var data []byte
		data, err = util.ReadFile(fs, s.File)
		if err != nil {
			return Target{}, fmt.Errorf("read board %s: %w", s.File, err)
		}
		b, err = board.ParseDocument(data)
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownBoard, s.Type)
	}
	if err != nil {
		return Target{}, err
	}
	if s.Name != "" {
		b = b.Renamed(s.Name)
	}

	base, err := feature.ParseSet(b, s.Features)
	if err != nil {
		return Target{}, err
	}
	for _, c := range s.Clues {
		if c.Face < 0 || c.Face >= len(b.Faces) || b.Faces[c.Face].IsExit {
			return Target{}, fmt.Errorf("clue on face %d: not an interior face", c.Face)
		}
		if err := base.Add(feature.FaceValue{Face: b.Faces[c.Face], Value: c.Value}); err != nil {
			return Target{}, err
		}
	}
	return Target{Name: s.Name, Board: b, Base: base}, nil
}
