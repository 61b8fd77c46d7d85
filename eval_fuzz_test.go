package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzEval(f *testing.F) {
	f.Add("2*(10-2^3+1)!")
	f.Add("0/0")
	f.Add("170!")
	f.Add("(-8)^(1/3)")
	f.Fuzz(func(t *testing.T, s string) {
		display, _, err := calc.Calculate(s)
		if err != nil {
			return
		}
		if display == "" {
			t.Fatalf("%q evaluated with no display", s)
		}
	})
}
