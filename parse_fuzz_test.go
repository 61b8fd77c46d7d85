package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzParse(f *testing.F) {
	f.Add("2*(10-2^3+1)!")
	f.Add("sin -pi/2")
	f.Add(".5^.5")
	f.Add("((1)")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := calc.ParseString(s)
		if err != nil {
			return
		}
		p := e.String()
		b, err := calc.ParseString(p)
		if err != nil {
			// Printed floats need not be valid literals.
			return
		}
		if q := b.String(); q != p {
			t.Fatalf("%q printed as %q which prints as %q", s, p, q)
		}
	})
}
