package gpucopy

// NumGroups returns the number of execution groups of GroupSize units
// needed to cover workItems work items: the smallest count whose total
// capacity is at least workItems. Integer floor-division avoids any
// floating-point arithmetic in the geometry computation.
//
// workItems must be at least 1. Zero-sized launches are invalid; callers
// skip dispatch entirely for an empty work range.
func NumGroups(workItems int) int {
	return (workItems-1)/GroupSize + 1
}

// geometryFor returns the grid and block dimensions covering workItems
// work items in a single pass, one work item per execution unit.
func geometryFor(workItems int) (grid, block Dim3) {
	grid = Dim3{X: NumGroups(workItems), Y: 1, Z: 1}
	block = Dim3{X: GroupSize, Y: 1, Z: 1}
	return grid, block
}
