package remap

import "github.com/matzehuels/almanac/pkg/core/interval"

// exampleTables is the reference seed→location chain, rows in
// (dest, source, length) order.
var exampleTables = []struct {
	name  string
	rules [][3]int64
}{
	{"seed-to-soil", [][3]int64{{50, 98, 2}, {52, 50, 48}}},
	{"soil-to-fertilizer", [][3]int64{{0, 15, 37}, {37, 52, 2}, {39, 0, 15}}},
	{"fertilizer-to-water", [][3]int64{{49, 53, 8}, {0, 11, 42}, {42, 0, 7}, {57, 7, 4}}},
	{"water-to-light", [][3]int64{{88, 18, 7}, {18, 25, 70}}},
	{"light-to-temperature", [][3]int64{{45, 77, 23}, {81, 45, 19}, {68, 64, 13}}},
	{"temperature-to-humidity", [][3]int64{{0, 69, 1}, {1, 0, 69}}},
	{"humidity-to-location", [][3]int64{{60, 56, 37}, {56, 93, 4}}},
}

var exampleSeeds = []int64{79, 14, 55, 13}

func examplePipeline() *Pipeline {
	stages := make([]*Stage, len(exampleTables))
	for i, tbl := range exampleTables {
		stages[i] = stageOf(tbl.name, tbl.rules...)
	}
	return NewPipeline(stages...)
}

func exampleRanges() []interval.Range {
	var rs []interval.Range
	for i := 0; i+1 < len(exampleSeeds); i += 2 {
		rs = append(rs, interval.FromLength(exampleSeeds[i], exampleSeeds[i+1]))
	}
	return rs
}

func stageOf(name string, rows ...[3]int64) *Stage {
	rules := make([]Rule, len(rows))
	for i, row := range rows {
		rules[i] = MustRule(row[0], row[1], row[2])
	}
	return NewStage(name, rules...)
}
