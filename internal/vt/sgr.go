package vt

// selectGraphicRendition applies SGR parameters to the pen. Unknown
// parameters are ignored.
func (s *Screen) selectGraphicRendition(params []int) {
	if len(params) == 0 {
		s.pen = DefaultStyle()
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		if p < 0 {
			p = 0
		}
		switch {
		case p == 0:
			s.pen = DefaultStyle()
		case p == 1:
			s.pen.Bold = true
		case p == 3:
			s.pen.Italic = true
		case p == 4:
			s.pen.Underline = true
		case p == 7:
			s.pen.Reverse = true
		case p == 21 || p == 22:
			s.pen.Bold = false
		case p == 23:
			s.pen.Italic = false
		case p == 24:
			s.pen.Underline = false
		case p == 27:
			s.pen.Reverse = false
		case p >= 30 && p <= 37:
			s.pen.FG = ansiColors[p-30]
		case p == 38:
			c, n := extendedColor(params[i+1:])
			if c != "" {
				s.pen.FG = c
			}
			i += n
		case p == 39:
			s.pen.FG = DefaultColor
		case p >= 40 && p <= 47:
			s.pen.BG = ansiColors[p-40]
		case p == 48:
			c, n := extendedColor(params[i+1:])
			if c != "" {
				s.pen.BG = c
			}
			i += n
		case p == 49:
			s.pen.BG = DefaultColor
		case p >= 90 && p <= 97:
			s.pen.FG = brightColors[p-90]
		case p >= 100 && p <= 107:
			s.pen.BG = brightColors[p-100]
		}
	}
}

// extendedColor decodes the arguments following SGR 38 or 48: "5;n" for
// the 256-color palette or "2;r;g;b" for true color. It returns the color
// (empty when malformed) and how many parameters it consumed.
func extendedColor(args []int) (Color, int) {
	if len(args) == 0 {
		return "", 0
	}
	switch args[0] {
	case 5:
		if len(args) < 2 {
			return "", len(args)
		}
		return IndexedColor(args[1]), 2
	case 2:
		if len(args) < 4 {
			return "", len(args)
		}
		return RGBColor(channel(args[1]), channel(args[2]), channel(args[3])), 4
	}
	return "", 1
}

func channel(v int) uint8 {
	return uint8(clamp(v, 0, 255))
}
