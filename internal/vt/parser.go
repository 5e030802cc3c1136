package vt

import "unicode/utf8"

type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCSI
	stateCSIIgnore
	stateOSC
	stateOSCEscape
	stateString
	stateStringEscape
)

const (
	maxParams     = 32
	maxParamValue = 65535
)

// parser holds decoding state that must survive between Feed calls:
// a partially received UTF-8 sequence and a partially received escape
// sequence.
type parser struct {
	state parserState

	params   []int
	param    int
	hasParam bool
	private  byte
	inter    []byte

	utf8buf [utf8.UTFMax]byte
	utf8n   int
}

func (p *parser) resetSequence() {
	p.params = p.params[:0]
	p.param = 0
	p.hasParam = false
	p.private = 0
	p.inter = p.inter[:0]
}

func (p *parser) pushParam() {
	if len(p.params) < maxParams {
		if p.hasParam {
			p.params = append(p.params, p.param)
		} else {
			p.params = append(p.params, -1)
		}
	}
	p.param = 0
	p.hasParam = false
}

// param returns the i-th parameter, or def when it is absent or zero.
func param(params []int, i, def int) int {
	if i >= len(params) || params[i] <= 0 {
		return def
	}
	return params[i]
}

// Feed decodes p and applies it to the screen. Sequences split across
// calls are carried over. Malformed input is skipped, never rejected.
func (s *Screen) Feed(p []byte) {
	for _, b := range p {
		s.step(b)
	}
}

func (s *Screen) step(b byte) {
	ps := &s.parser

	if ps.utf8n > 0 {
		if b&0xC0 == 0x80 {
			ps.utf8buf[ps.utf8n] = b
			ps.utf8n++
			if utf8.FullRune(ps.utf8buf[:ps.utf8n]) {
				r, _ := utf8.DecodeRune(ps.utf8buf[:ps.utf8n])
				ps.utf8n = 0
				s.print(r)
			}
			return
		}
		ps.utf8n = 0
		s.print(utf8.RuneError)
	}

	switch ps.state {
	case stateGround:
		switch {
		case b < 0x20:
			s.control(b)
		case b == 0x7f:
		case b < 0x80:
			s.print(rune(b))
		case b >= 0xC2 && b <= 0xF4:
			ps.utf8buf[0] = b
			ps.utf8n = 1
		default:
			s.print(utf8.RuneError)
		}

	case stateEscape:
		s.escape(b)

	case stateEscapeIntermediate:
		switch {
		case b < 0x20:
			s.control(b)
		case b < 0x30:
			ps.inter = append(ps.inter, b)
		default:
			s.escapeIntermediate(b)
			ps.state = stateGround
		}

	case stateCSI, stateCSIIgnore:
		s.csiByte(b)

	case stateOSC:
		switch b {
		case 0x07, 0x18, 0x1a:
			ps.state = stateGround
		case 0x1b:
			ps.state = stateOSCEscape
		}

	case stateOSCEscape:
		if b == '\\' {
			ps.state = stateGround
			return
		}
		ps.state = stateEscape
		s.escape(b)

	case stateString:
		switch b {
		case 0x18, 0x1a:
			ps.state = stateGround
		case 0x1b:
			ps.state = stateStringEscape
		}

	case stateStringEscape:
		if b == '\\' {
			ps.state = stateGround
			return
		}
		ps.state = stateString
	}
}

// control executes a C0 control. It is reachable from the ground state
// and from inside escape and CSI sequences.
func (s *Screen) control(b byte) {
	switch b {
	case 0x08:
		s.backspace()
	case 0x09:
		s.tab()
	case 0x0a, 0x0b, 0x0c:
		s.lineFeed()
	case 0x0d:
		s.carriageReturn()
	case 0x18, 0x1a:
		s.parser.state = stateGround
	case 0x1b:
		s.parser.resetSequence()
		s.parser.state = stateEscape
	}
}

func (s *Screen) escape(b byte) {
	ps := &s.parser
	ps.state = stateGround
	switch {
	case b < 0x20:
		s.control(b)
		if b != 0x1b && b != 0x18 && b != 0x1a {
			ps.state = stateEscape
		}
		return
	case b < 0x30:
		ps.inter = append(ps.inter[:0], b)
		ps.state = stateEscapeIntermediate
		return
	}

	switch b {
	case '[':
		ps.resetSequence()
		ps.state = stateCSI
	case ']':
		ps.state = stateOSC
	case 'P', 'X', '^', '_':
		ps.state = stateString
	case '7':
		s.saveCursor()
	case '8':
		s.restoreCursor()
	case 'D':
		s.index()
	case 'E':
		s.carriageReturn()
		s.index()
	case 'M':
		s.reverseIndex()
	case 'H':
		if s.cx < len(s.tabStops) {
			s.tabStops[s.cx] = true
		}
	case 'c':
		s.reset()
	}
}

func (s *Screen) escapeIntermediate(final byte) {
	inter := s.parser.inter
	if len(inter) == 1 && inter[0] == '#' && final == '8' {
		s.alignmentTest()
	}
}

func (s *Screen) csiByte(b byte) {
	ps := &s.parser
	switch {
	case b < 0x20:
		s.control(b)
	case b >= '0' && b <= '9':
		if ps.state == stateCSIIgnore {
			return
		}
		ps.param = ps.param*10 + int(b-'0')
		if ps.param > maxParamValue {
			ps.param = maxParamValue
		}
		ps.hasParam = true
	case b == ';' || b == ':':
		ps.pushParam()
	case b >= '<' && b <= '?':
		if len(ps.params) == 0 && !ps.hasParam && ps.private == 0 {
			ps.private = b
		} else {
			ps.state = stateCSIIgnore
		}
	case b >= 0x20 && b <= 0x2f:
		ps.inter = append(ps.inter, b)
	case b >= 0x40 && b <= 0x7e:
		ignore := ps.state == stateCSIIgnore
		ps.state = stateGround
		if ignore {
			return
		}
		if ps.hasParam || len(ps.params) > 0 {
			ps.pushParam()
		}
		s.dispatchCSI(b, ps.params, ps.private, ps.inter)
	case b == 0x7f:
	default:
		ps.state = stateCSIIgnore
	}
}
