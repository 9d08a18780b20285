package cpu

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	COMMENT_DELIMITER = '/' // Starts a comment that runs to end of line.
	LABEL_DELIMITER   = ',' // Ends a label.
)

// line is a parsed source line. All strings are slices of Text.
type line struct {
	Text     string
	Label    string
	HasLabel bool
	Mnemonic string
	Operand  string
	Marker   string
}

// Empty returns true for blank and comment-only lines.
func (ln *line) Empty() bool {
	return !ln.HasLabel && len(ln.Mnemonic) == 0
}

// Op returns the mnemonic, uppercased.
func (ln *line) Op() string {
	return strings.ToUpper(ln.Mnemonic)
}

// Indirect returns true if the indirect marker is present.
func (ln *line) Indirect() bool {
	return len(ln.Marker) != 0
}

func syntaxError(err error) error {
	return fmt.Errorf("%w: %w", ErrSyntax, err)
}

// expression returns the body of a $(...) word.
func expression(word string) (expr string, ok bool) {
	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return word[2 : len(word)-1], true
	}
	return
}

// validLabel checks that label is an identifier that is not a reserved word.
func validLabel(label string) (err error) {
	for n, r := range label {
		if unicode.IsLetter(r) || r == '_' || (n > 0 && unicode.IsDigit(r)) {
			continue
		}
		return syntaxError(fmt.Errorf("%w '%v'", ErrLabelInvalid, label))
	}

	if len(label) == 0 {
		return syntaxError(ErrLabelInvalid)
	}

	if Reserved(strings.ToUpper(label)) {
		return syntaxError(fmt.Errorf("%w '%v'", ErrLabelReserved, label))
	}

	return
}

// parseLine splits a source line into label, mnemonic, operand and
// indirect marker in a single scan. A $(...) span is a single word, and
// may contain blanks, commas and slashes.
func parseLine(text string) (ln line, err error) {
	ln.Text = text

	var words []string
	start := -1
	depth := 0
	end := len(text)

	flush := func(n int) {
		if start >= 0 {
			words = append(words, text[start:n])
			start = -1
		}
	}

scan:
	for n := 0; n < len(text); n++ {
		c := text[n]
		if depth > 0 {
			switch c {
			case '(':
				depth++
			case ')':
				depth--
			}
			continue
		}

		switch {
		case c == '$' && n+1 < len(text) && text[n+1] == '(':
			if start < 0 {
				start = n
			}
			depth = 1
			n++
		case c == COMMENT_DELIMITER:
			end = n
			break scan
		case c == LABEL_DELIMITER:
			flush(n)
			if ln.HasLabel || len(words) != 1 {
				err = syntaxError(ErrLabelInvalid)
				return
			}
			ln.Label = words[0]
			ln.HasLabel = true
			words = words[:0]
		case c == ' ' || c == '\t' || c == '\r':
			flush(n)
		default:
			if start < 0 {
				start = n
			}
		}
	}

	if depth > 0 {
		err = syntaxError(ErrExpressionClosed)
		return
	}

	flush(end)

	if ln.HasLabel {
		err = validLabel(ln.Label)
		if err != nil {
			return
		}
	}

	if len(words) > 3 {
		err = syntaxError(ErrTokensExtra)
		return
	}

	for n, word := range words {
		switch n {
		case 0:
			ln.Mnemonic = word
		case 1:
			ln.Operand = word
		case 2:
			if word != "I" && word != "i" {
				err = syntaxError(fmt.Errorf("%w '%v'", ErrIndirectInvalid, word))
				return
			}
			ln.Marker = word
		}
	}

	return
}
