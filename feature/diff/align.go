package diff

// Align pairs equal contents first. Each base entry takes the first unused
// test entry with the same content; paired entries lead both outputs in base
// order, the unpaired ones follow in their original order. Both outputs keep
// the lengths of their inputs.
func Align(base, test []string) ([]string, []string) {
	used := make([]bool, len(test))
	alignedBase := make([]string, 0, len(base))
	alignedTest := make([]string, 0, len(test))
	var restBase []string

	for _, b := range base {
		matched := false
		for j, t := range test {
			if !used[j] && t == b {
				used[j] = true
				alignedBase = append(alignedBase, b)
				alignedTest = append(alignedTest, t)
				matched = true
				break
			}
		}
		if !matched {
			restBase = append(restBase, b)
		}
	}

	alignedBase = append(alignedBase, restBase...)
	for j, t := range test {
		if !used[j] {
			alignedTest = append(alignedTest, t)
		}
	}
	return alignedBase, alignedTest
}
