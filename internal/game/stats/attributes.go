// Package stats implements the attribute model: the six base attributes a
// character owns and the combat statistics derived from them.
package stats

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAttribute is returned when an attribute name does not match one of the six attributes.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Attribute names accepted by ParseAttribute in their canonical short form.
const (
	Str = "str"
	Agi = "agi"
	Vit = "vit"
	Int = "int"
	Dex = "dex"
	Luk = "luk"
)

// Names lists the canonical attribute names in display order.
var Names = []string{Str, Agi, Vit, Int, Dex, Luk}

var aliases = map[string]string{
	"strength":     Str,
	"agility":      Agi,
	"vitality":     Vit,
	"intelligence": Int,
	"dexterity":    Dex,
	"luck":         Luk,
}

// Attributes holds the six base attributes.
//
// Invariant: all fields are >= 0 on a persisted character.
type Attributes struct {
	Str int `yaml:"str" json:"str"`
	Agi int `yaml:"agi" json:"agi"`
	Vit int `yaml:"vit" json:"vit"`
	Int int `yaml:"int" json:"int"`
	Dex int `yaml:"dex" json:"dex"`
	Luk int `yaml:"luk" json:"luk"`
}

// ParseAttribute normalises an attribute name, accepting the short form
// ("str") or the long form ("strength") in any case.
//
// Postcondition: returns one of Names, or ErrUnknownAttribute.
func ParseAttribute(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if long, ok := aliases[n]; ok {
		return long, nil
	}
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

// Add returns the field-wise sum of a and b.
func (a Attributes) Add(b Attributes) Attributes {
	return Attributes{
		Str: a.Str + b.Str,
		Agi: a.Agi + b.Agi,
		Vit: a.Vit + b.Vit,
		Int: a.Int + b.Int,
		Dex: a.Dex + b.Dex,
		Luk: a.Luk + b.Luk,
	}
}

// IsZero reports whether every attribute is zero.
func (a Attributes) IsZero() bool {
	return a == Attributes{}
}

// Get returns the value of the named attribute.
//
// Precondition: name is accepted by ParseAttribute.
func (a Attributes) Get(name string) (int, error) {
	p, err := a.field(name)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// Increment adds delta to the named attribute.
//
// Postcondition: on error, a is unchanged.
func (a *Attributes) Increment(name string, delta int) error {
	p, err := a.field(name)
	if err != nil {
		return err
	}
	*p += delta
	return nil
}

func (a *Attributes) field(name string) (*int, error) {
	n, err := ParseAttribute(name)
	if err != nil {
		return nil, err
	}
	switch n {
	case Str:
		return &a.Str, nil
	case Agi:
		return &a.Agi, nil
	case Vit:
		return &a.Vit, nil
	case Int:
		return &a.Int, nil
	case Dex:
		return &a.Dex, nil
	default:
		return &a.Luk, nil
	}
}
