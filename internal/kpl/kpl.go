// Public domain.

// Package kpl reads the data sections of SPICE text kernels.
//
// Text kernels (leapseconds, frames, PCK, meta-kernels, mkdsk setup files)
// hold assignments between \begindata and \begintext markers.  Text
// outside those sections is commentary.  Within a data section,
//
//	NAME = value
//	NAME = ( value value ... )
//	NAME += value
//
// where values are single quoted strings, with '' standing for a quote,
// numbers, optionally written with a Fortran D exponent, or dates written
// after @, such as @1972-JAN-1 or @2017-JAN-1/00:00:00.  Dates are stored as
// numbers, seconds past J2000 on the formal calendar.  A list may span lines
// and its items may be separated by commas.
package kpl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Value holds the values assigned to one variable.  A variable holds either
// strings or numbers, not both.
type Value struct {
	Strings []string
	Numbers []float64
}

// Vars maps variable names to values.
type Vars map[string]*Value

// Strings returns the string values of variable name, or nil.
func (v Vars) Strings(name string) []string {
	if x, ok := v[name]; ok {
		return x.Strings
	}
	return nil
}

// Numbers returns the numeric values of variable name, or nil.
func (v Vars) Numbers(name string) []float64 {
	if x, ok := v[name]; ok {
		return x.Numbers
	}
	return nil
}

// SyntaxError reports a malformed data section.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("kpl: line %d: %s", e.Line, e.Msg)
}

// Parse reads a text kernel and returns the variables assigned in its data
// sections.
func Parse(r io.Reader) (Vars, error) {
	p := parser{vars: Vars{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	inData := false
	for sc.Scan() {
		p.line++
		l := sc.Text()
		switch strings.TrimSpace(l) {
		case `\begindata`:
			inData = true
			continue
		case `\begintext`:
			if p.st != stName {
				return nil, p.errorf("data section ended inside an assignment")
			}
			inData = false
			continue
		}
		if inData {
			if err := p.scanLine(l); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if p.st != stName {
		return nil, p.errorf("unexpected end of file inside an assignment")
	}
	return p.vars, nil
}

type state int

const (
	stName  state = iota // expecting a variable name
	stOp                 // expecting = or +=
	stValue              // expecting a value or (
	stList               // inside ( )
)

type parser struct {
	vars  Vars
	line  int
	st    state
	name  string
	add   bool
	value Value
}

func (p *parser) errorf(format string, a ...interface{}) error {
	return &SyntaxError{Line: p.line, Msg: fmt.Sprintf(format, a...)}
}

func (p *parser) scanLine(l string) error {
	for i := 0; i < len(l); {
		c := l[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case p.st == stName:
			j := i
			for j < len(l) && !isSep(l[j]) && l[j] != '=' &&
				!(l[j] == '+' && j+1 < len(l) && l[j+1] == '=') {
				j++
			}
			if j == i {
				return p.errorf("expected variable name")
			}
			p.name = l[i:j]
			p.st = stOp
			i = j
		case p.st == stOp:
			switch {
			case c == '=':
				p.add = false
				i++
			case strings.HasPrefix(l[i:], "+="):
				p.add = true
				i += 2
			default:
				return p.errorf("expected = or += after %s", p.name)
			}
			p.value = Value{}
			p.st = stValue
		case c == '(' && p.st == stValue:
			p.st = stList
			i++
		case c == ')' && p.st == stList:
			if err := p.assign(); err != nil {
				return err
			}
			i++
		case c == ',' && p.st == stList:
			i++
		default:
			n, err := p.scanValue(l[i:])
			if err != nil {
				return err
			}
			i += n
			if p.st == stValue {
				if err := p.assign(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// scanValue appends one string or number from the front of s and returns
// the number of bytes consumed.
func (p *parser) scanValue(s string) (int, error) {
	if s[0] == '\'' {
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			if s[i] != '\'' {
				b.WriteByte(s[i])
				continue
			}
			if i+1 < len(s) && s[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			if p.value.Numbers != nil {
				return 0, p.errorf("%s mixes numbers and strings", p.name)
			}
			p.value.Strings = append(p.value.Strings, b.String())
			return i + 1, nil
		}
		return 0, p.errorf("unterminated string in %s", p.name)
	}
	j := 0
	for j < len(s) && !isSep(s[j]) && s[j] != ')' {
		j++
	}
	tok := s[:j]
	var f float64
	var err error
	if strings.HasPrefix(tok, "@") {
		f, err = ParseDate(tok[1:])
	} else {
		f, err = strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(tok), 64)
	}
	if err != nil {
		return 0, p.errorf("invalid value %q for %s", tok, p.name)
	}
	if p.value.Strings != nil {
		return 0, p.errorf("%s mixes numbers and strings", p.name)
	}
	p.value.Numbers = append(p.value.Numbers, f)
	return j, nil
}

// Calendar forms accepted after @.  Month names match in any case.
var dateLayouts = []string{
	"2006-Jan-2",
	"2006-Jan-2/15:04",
	"2006-Jan-2/15:04:05",
	"2-Jan-2006",
	"2-Jan-2006/15:04:05",
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// ParseDate converts the text of a KPL date value, without the leading @, to
// seconds past J2000.  Leap seconds are not counted.
func ParseDate(s string) (float64, error) {
	for _, l := range dateLayouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return float64(t.Unix()-j2000.Unix()) + float64(t.Nanosecond())/1e9, nil
		}
	}
	return 0, fmt.Errorf("kpl: invalid date %q", s)
}

func (p *parser) assign() error {
	v := p.value
	if old, ok := p.vars[p.name]; ok && p.add {
		switch {
		case old.Strings != nil && v.Numbers != nil,
			old.Numbers != nil && v.Strings != nil:
			return p.errorf("%s += changes value type", p.name)
		}
		old.Strings = append(old.Strings, v.Strings...)
		old.Numbers = append(old.Numbers, v.Numbers...)
	} else {
		p.vars[p.name] = &v
	}
	p.st = stName
	return nil
}

func isSep(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == ','
}
