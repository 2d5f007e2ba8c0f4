package almanac

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/almanac/pkg/core/remap"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

type tomlFile struct {
	Seeds  []int64     `toml:"seeds"`
	Stages []tomlStage `toml:"stage"`
}

type tomlStage struct {
	Name  string    `toml:"name"`
	Rules [][]int64 `toml:"rules"`
}

// ParseTOML reads the TOML format. Every rule must be a
// [dest, source, length] triple.
func ParseTOML(r io.Reader) (*Almanac, error) {
	var f tomlFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidAlmanac, err, "decode TOML almanac")
	}
	if !md.IsDefined("seeds") {
		return nil, apperrors.New(apperrors.ErrCodeInvalidAlmanac, "missing seeds")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidAlmanac, "unknown key %q", undecoded[0].String())
	}

	a := &Almanac{Seeds: f.Seeds}
	for i, st := range f.Stages {
		rules := make([]remap.Rule, 0, len(st.Rules))
		for j, row := range st.Rules {
			if len(row) != 3 {
				return nil, apperrors.New(apperrors.ErrCodeInvalidAlmanac,
					"stage %d (%s) rule %d: expected [dest, source, length], got %d numbers", i+1, st.Name, j+1, len(row))
			}
			rule, err := remap.NewRule(row[0], row[1], row[2])
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRule, err, "stage %d (%s) rule %d", i+1, st.Name, j+1)
			}
			rules = append(rules, rule)
		}
		a.Stages = append(a.Stages, remap.NewStage(st.Name, rules...))
	}
	return a, nil
}

// EncodeTOML writes a in the TOML format accepted by ParseTOML.
func EncodeTOML(w io.Writer, a *Almanac) error {
	f := tomlFile{Seeds: a.Seeds}
	for _, s := range a.Stages {
		st := tomlStage{Name: s.Name()}
		for _, r := range s.Rules() {
			st.Rules = append(st.Rules, []int64{r.Dest, r.Source, r.Length})
		}
		f.Stages = append(f.Stages, st)
	}
	return toml.NewEncoder(w).Encode(f)
}
