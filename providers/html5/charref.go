package html5

// namedCharRefs is a curated subset of the WHATWG named character reference
// table (the full table runs past 2000 entries; this keeps the commonly
// occurring entities plus everything §4.4 calls out by name). Matching is
// greedy-longest against this map's keys, each written without its leading
// '&'. Keys normally keep their trailing ';'; the legacy entities that are
// also valid without it appear a second time here as a key with no ';'.
var namedCharRefs = map[string]string{
	"amp;":     "&",
	"amp":      "&",
	"lt;":      "<",
	"lt":       "<",
	"gt;":      ">",
	"gt":       ">",
	"quot;":    "\"",
	"quot":     "\"",
	"apos;":    "'",
	"nbsp;":    " ",
	"nbsp":     " ",
	"copy;":    "©",
	"copy":     "©",
	"reg;":     "®",
	"reg":      "®",
	"trade;":   "™",
	"deg;":     "°",
	"deg":      "°",
	"plusmn;":  "±",
	"plusmn":   "±",
	"times;":   "×",
	"times":    "×",
	"divide;":  "÷",
	"divide":   "÷",
	"micro;":   "µ",
	"micro":    "µ",
	"para;":    "¶",
	"para":     "¶",
	"sect;":    "§",
	"sect":     "§",
	"middot;":  "·",
	"middot":   "·",
	"laquo;":   "«",
	"laquo":    "«",
	"raquo;":   "»",
	"raquo":    "»",
	"hellip;":  "…",
	"mdash;":   "—",
	"ndash;":   "–",
	"lsquo;":   "‘",
	"rsquo;":   "’",
	"ldquo;":   "“",
	"rdquo;":   "”",
	"bull;":    "•",
	"dagger;":  "†",
	"Dagger;":  "‡",
	"euro;":    "€",
	"pound;":   "£",
	"pound":    "£",
	"cent;":    "¢",
	"cent":     "¢",
	"yen;":     "¥",
	"yen":      "¥",
	"curren;":  "¤",
	"curren":   "¤",
	"infin;":   "∞",
	"ne;":      "≠",
	"le;":      "≤",
	"ge;":      "≥",
	"larr;":    "←",
	"uarr;":    "↑",
	"rarr;":    "→",
	"darr;":    "↓",
	"harr;":    "↔",
	"alpha;":   "α",
	"beta;":    "β",
	"gamma;":   "γ",
	"delta;":   "δ",
	"pi;":      "π",
	"sigma;":   "σ",
	"omega;":   "ω",
	"forall;":  "∀",
	"exist;":   "∃",
	"empty;":   "∅",
	"isin;":    "∈",
	"notin;":   "∉",
	"sum;":     "∑",
	"prod;":    "∏",
	"radic;":   "√",
	"and;":     "∧",
	"or;":      "∨",
	"sub;":     "⊂",
	"sup;":     "⊃",
	"nsub;":    "⊄",
	"sube;":    "⊆",
	"supe;":    "⊇",
	"oplus;":   "⊕",
	"otimes;":  "⊗",
	"perp;":    "⊥",
	"sdot;":    "⋅",
	"lceil;":   "⌈",
	"rceil;":   "⌉",
	"lfloor;":  "⌊",
	"rfloor;":  "⌋",
	"spades;":  "♠",
	"clubs;":   "♣",
	"hearts;":  "♥",
	"diams;":   "♦",
}

// numericRefReplacements implements the WHATWG "numeric character reference
// end state" remapping table: certain code points (mostly the Windows-1252
// range misused by legacy documents) decode to a different Unicode
// character than their literal numeric value, and the substitution is
// accompanied by a parse error.
var numericRefReplacements = map[rune]rune{
	0x80: 0x20ac, 0x82: 0x201a, 0x83: 0x0192, 0x84: 0x201e,
	0x85: 0x2026, 0x86: 0x2020, 0x87: 0x2021, 0x88: 0x02c6,
	0x89: 0x2030, 0x8a: 0x0160, 0x8b: 0x2039, 0x8c: 0x0152,
	0x8e: 0x017d, 0x91: 0x2018, 0x92: 0x2019, 0x93: 0x201c,
	0x94: 0x201d, 0x95: 0x2022, 0x96: 0x2013, 0x97: 0x2014,
	0x98: 0x02dc, 0x99: 0x2122, 0x9a: 0x0161, 0x9b: 0x203a,
	0x9c: 0x0153, 0x9e: 0x017e, 0x9f: 0x0178,
}

// replacementChar is U+FFFD, substituted for a null byte, an out-of-range
// numeric reference, or a surrogate code point per the same remapping
// table.
const replacementChar = '�'

func isSurrogate(r rune) bool { return r >= 0xd800 && r <= 0xdfff }

func isNoncharacter(r rune) bool {
	if r >= 0xfdd0 && r <= 0xfdef {
		return true
	}
	switch r & 0xffff {
	case 0xfffe, 0xffff:
		return true
	}
	return false
}
