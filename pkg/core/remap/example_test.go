package remap_test

import (
	"fmt"

	"github.com/matzehuels/almanac/pkg/core/interval"
	"github.com/matzehuels/almanac/pkg/core/remap"
)

func ExampleSplit() {
	// Two rules inside [0,50) leave three uncovered gaps.
	rules := []remap.Rule{
		remap.MustRule(200, 30, 10), // [30,40) -> [200,210)
		remap.MustRule(100, 10, 10), // [10,20) -> [100,110)
	}

	for _, p := range remap.SplitDetailed(interval.New(0, 50), rules) {
		src := "identity"
		if p.Mapped() {
			src = fmt.Sprintf("rule %d", p.Rule)
		}
		fmt.Printf("%v -> %v (%s)\n", p.From, p.To, src)
	}
	// Output:
	// [30,40) -> [200,210) (rule 0)
	// [10,20) -> [100,110) (rule 1)
	// [0,10) -> [0,10) (identity)
	// [20,30) -> [20,30) (identity)
	// [40,50) -> [40,50) (identity)
}

func ExampleStage_Apply() {
	stage := remap.NewStage("seed-to-soil",
		remap.MustRule(50, 98, 2),
		remap.MustRule(52, 50, 48),
	)

	fmt.Println(stage.Apply(interval.FromLength(79, 14)))
	fmt.Println(stage.Apply(interval.New(90, 110)))
	// Output:
	// [[81,95)]
	// [[50,52) [92,100) [100,110)]
}

func ExampleMinOutput() {
	p := remap.NewPipeline(
		remap.NewStage("a-to-b", remap.MustRule(0, 10, 5)),
		remap.NewStage("b-to-c", remap.MustRule(100, 0, 3)),
	)

	lo, err := remap.MinOutput([]interval.Range{interval.New(8, 14)}, p)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(lo)
	// Output:
	// 3
}
