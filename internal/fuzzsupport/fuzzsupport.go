// Package fuzzsupport generates randomized State trees and template
// sources for the property tests described in spec.md §8, grounded on
// the teacher's tree_fuzz_test.go / tree_update_fuzz_test.go pattern of
// feeding gofakeit-derived data through testing.F.
package fuzzsupport

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/latticetui/lattice"
)

// RandomState builds a MapState seeded with n random top-level string,
// number, and bool fields plus one list field named "items".
func RandomState(n int, queue *lattice.DirtyQueue) *lattice.MapState {
	st := lattice.NewMapState(queue)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("field%d", i)
		switch i % 3 {
		case 0:
			st.Set(lattice.KeyPath(name), gofakeit.Word())
		case 1:
			st.Set(lattice.KeyPath(name), int64(gofakeit.Number(0, 1000)))
		case 2:
			st.Set(lattice.KeyPath(name), gofakeit.Bool())
		}
	}
	items := make([]any, gofakeit.Number(0, 8))
	for i := range items {
		items[i] = gofakeit.Word()
	}
	st.Set(lattice.KeyPath("items"), items)
	return st
}

// RandomTemplateSource builds a small, well-formed template document
// exercising a node, a for-loop over "items", and an if/else, so fuzz
// runs drive the full lex→parse→optimize→assemble pipeline rather than
// only leaf cases.
func RandomTemplateSource(seed int) string {
	var b strings.Builder
	label := gofakeit.Word()
	fmt.Fprintf(&b, "vstack\n")
	fmt.Fprintf(&b, "  text \"%s\"\n", label)
	fmt.Fprintf(&b, "  for item in items\n")
	fmt.Fprintf(&b, "    span {{item}}\n")
	if seed%2 == 0 {
		fmt.Fprintf(&b, "  if field0\n")
		fmt.Fprintf(&b, "    text \"yes\"\n")
		fmt.Fprintf(&b, "  else\n")
		fmt.Fprintf(&b, "    text \"no\"\n")
	}
	return b.String()
}
