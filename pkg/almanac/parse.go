package almanac

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/almanac/pkg/core/remap"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

// Format identifies an almanac encoding.
type Format string

const (
	FormatText Format = "text"
	FormatTOML Format = "toml"
)

// ParseFormat converts a flag or request value into a Format. The empty
// string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText, "txt":
		return FormatText, nil
	case FormatTOML:
		return FormatTOML, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: text, toml)", s)
}

// DetectFormat picks the format from a file extension: ".toml" is TOML,
// anything else is text.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatText
}

// ParseFile reads and parses the almanac at path, choosing the format with
// DetectFormat.
func ParseFile(path string) (*Almanac, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "almanac file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return ParseBytes(data, DetectFormat(path))
}

// ParseBytes parses data in the given format.
func ParseBytes(data []byte, format Format) (*Almanac, error) {
	switch format {
	case FormatTOML:
		return ParseTOML(bytes.NewReader(data))
	case FormatText, "":
		return Parse(bytes.NewReader(data))
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid format: %q", format)
}

const seedsPrefix = "seeds:"

var headerRegex = regexp.MustCompile(`^([A-Za-z0-9_]+-to-[A-Za-z0-9_]+)\s+map:$`)

// Parse reads the text format. Malformed lines are reported as
// INVALID_ALMANAC errors naming the 1-based line number; rules with a
// non-positive length are rejected with INVALID_RULE.
func Parse(r io.Reader) (*Almanac, error) {
	p := &textParser{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		p.line++
		if err := p.feed(strings.TrimSpace(sc.Text())); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidAlmanac, err, "read almanac")
	}
	return p.finish()
}

// textParser is the line-oriented state machine behind Parse.
type textParser struct {
	line     int
	seen     bool // seeds line consumed
	seeds    []int64
	stages   []*remap.Stage
	curName  string
	curRules []remap.Rule
	inBlock  bool
}

func (p *textParser) feed(line string) error {
	switch {
	case line == "":
		p.flush()
		return nil

	case strings.HasPrefix(line, seedsPrefix):
		if p.seen {
			return p.errorf("duplicate seeds line")
		}
		nums, err := p.ints(strings.TrimPrefix(line, seedsPrefix))
		if err != nil {
			return err
		}
		p.seeds, p.seen = nums, true
		return nil

	case strings.HasSuffix(line, "map:"):
		m := headerRegex.FindStringSubmatch(line)
		if m == nil {
			return p.errorf("malformed map header %q", line)
		}
		p.flush()
		p.curName, p.inBlock = m[1], true
		return nil
	}

	if !p.inBlock {
		return p.errorf("unexpected line %q outside a map block", line)
	}
	nums, err := p.ints(line)
	if err != nil {
		return err
	}
	if len(nums) != 3 {
		return p.errorf("expected 3 numbers (dest source length), got %d", len(nums))
	}
	rule, err := remap.NewRule(nums[0], nums[1], nums[2])
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidRule, err, "line %d", p.line)
	}
	p.curRules = append(p.curRules, rule)
	return nil
}

func (p *textParser) flush() {
	if !p.inBlock {
		return
	}
	p.stages = append(p.stages, remap.NewStage(p.curName, p.curRules...))
	p.curName, p.curRules, p.inBlock = "", nil, false
}

func (p *textParser) finish() (*Almanac, error) {
	p.flush()
	if !p.seen {
		return nil, apperrors.New(apperrors.ErrCodeInvalidAlmanac, "missing seeds line")
	}
	return &Almanac{Seeds: p.seeds, Stages: p.stages}, nil
}

func (p *textParser) ints(s string) ([]int64, error) {
	fields := strings.Fields(s)
	out := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidAlmanac, err, "line %d: invalid number %q", p.line, f)
		}
		out[i] = n
	}
	return out, nil
}

func (p *textParser) errorf(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeInvalidAlmanac, "line %d: %s", p.line, fmt.Sprintf(format, args...))
}
