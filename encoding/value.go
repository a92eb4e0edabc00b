package encoding

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindInteger Kind = iota
	KindText
)

// Value is a raw set element before field encoding. The integer-vs-text
// decision is made exactly once, when the value is parsed; everything
// downstream dispatches on Kind.
type Value struct {
	Kind Kind
	Int  uint64
	Text string
}

func IntegerValue(v uint64) Value {
	return Value{Kind: KindInteger, Int: v}
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// ParseValue classifies a token as an integer if it parses as an unsigned
// 64-bit decimal and as text otherwise. A digit string too large for uint64
// is treated as text.
func ParseValue(token string) Value {
	if v, err := strconv.ParseUint(token, 10, 64); err == nil {
		return IntegerValue(v)
	}
	return TextValue(token)
}

// ParseSet splits a comma-separated list into values. Tokens are trimmed;
// empty tokens and empty lists are rejected.
func ParseSet(input string) ([]Value, error) {
	tokens := strings.Split(input, ",")
	values := make([]Value, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("empty element in set %q", input)
		}
		values = append(values, ParseValue(token))
	}
	return values, nil
}

// ParseTextSet is ParseSet with every token forced to text, for callers that
// want the literal string "123" rather than the integer.
func ParseTextSet(input string) ([]Value, error) {
	values, err := ParseSet(input)
	if err != nil {
		return nil, err
	}
	for i := range values {
		if values[i].Kind == KindInteger {
			values[i] = TextValue(strconv.FormatUint(values[i].Int, 10))
		}
	}
	return values, nil
}

func (v Value) String() string {
	if v.Kind == KindInteger {
		return strconv.FormatUint(v.Int, 10)
	}
	return v.Text
}
