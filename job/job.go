// Package job describes caption jobs stored as YAML or TOML files and keeps
// a live preview session in sync with them.
package job

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/memegen"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for job files which are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown job file format")

// Job is a caption job. Every entry of Top and Bottom is a caption line;
// an entry may hold several rows separated by new lines.
type Job struct {
	Top     []string `yaml:"top" toml:"top"`
	Bottom  []string `yaml:"bottom" toml:"bottom"`
	Scale   float64  `yaml:"scale" toml:"scale"`
	Fill    string   `yaml:"fill" toml:"fill"`
	Outline string   `yaml:"outline" toml:"outline"`
	// Font is "bold", "regular" or the path of a TrueType/OpenType file.
	Font  string `yaml:"font" toml:"font"`
	Upper bool   `yaml:"upper" toml:"upper"`
	Blend string `yaml:"blend" toml:"blend"`
	// Composite is the imop composition operator used to draw the glyphs.
	Composite string `yaml:"composite" toml:"composite"`
}

// Load reads a job file. The format is chosen by the file extension.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read job file: %w", err)
	}
	j, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return j, nil
}

// Decode parses a job; format is a file extension (".yaml", ".yml" or ".toml").
func Decode(data []byte, format string) (*Job, error) {
	var j Job

	switch strings.ToLower(format) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("invalid YAML job: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("invalid TOML job: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	j.Normalize()
	return &j, nil
}

// Normalize brings the caption texts to NFC, trims them and upper-cases them if requested.
func (j *Job) Normalize() {
	upper := cases.Upper(language.Und)
	fix := func(lines []string) {
		for i, s := range lines {
			s = strings.TrimSpace(norm.NFC.String(s))
			if j.Upper {
				s = upper.String(s)
			}
			lines[i] = s
		}
	}
	fix(j.Top)
	fix(j.Bottom)
}

// Fontspec builds the font spec described by the job, starting from the default one.
func (j *Job) Fontspec() (memegen.Fontspec, error) {
	fs := memegen.DefaultFontspec()

	switch j.Font {
	case "", "bold":
	case "regular":
		fs = memegen.RegularFontspec()
	default:
		data, err := os.ReadFile(j.Font)
		if err != nil {
			return fs, fmt.Errorf("unable to read font file: %w", err)
		}
		f, err := memegen.ParseFont(data)
		if err != nil {
			return fs, err
		}
		fs.Font = f
	}

	if j.Scale != 0 {
		fs.Scale = j.Scale
	}
	if err := fs.Validate(); err != nil {
		return fs, err
	}

	var err error
	if j.Fill != "" {
		if fs.Fill, err = memegen.ParseHexColor(j.Fill); err != nil {
			return fs, err
		}
	}
	if j.Outline != "" {
		if fs.Outline, err = memegen.ParseHexColor(j.Outline); err != nil {
			return fs, err
		}
	}
	return fs, nil
}

// Captioner returns a Captioner rendering the job.
func (j *Job) Captioner() (*memegen.Captioner, error) {
	fs, err := j.Fontspec()
	if err != nil {
		return nil, err
	}
	return &memegen.Captioner{
		Top:       j.Top,
		Bottom:    j.Bottom,
		Fontspec:  fs,
		Blend:     j.Blend,
		Composite: j.Composite,
	}, nil
}
