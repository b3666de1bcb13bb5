package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/mattjoyce/ringclock/internal/paint"
)

// Kind is the encoding a preference value is stored in.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindColor
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindColor:
		return "color"
	case KindJSON:
		return "json"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Check reports whether v is a valid encoding of kind k.
func (k Kind) Check(v string) error {
	switch k {
	case KindString:
		return nil
	case KindBool:
		_, err := strconv.ParseBool(v)
		return err
	case KindNumber:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New("non-finite number")
		}
		return nil
	case KindColor:
		_, err := paint.Decode(v)
		return err
	case KindJSON:
		if !json.Valid([]byte(v)) {
			return errors.New("invalid JSON")
		}
		return nil
	default:
		return fmt.Errorf("unknown kind %d", int(k))
	}
}
