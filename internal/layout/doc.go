// Package layout computes the byte layout of a composite allocation block.
//
// A block is a fixed-size header followed by zero or more trailing regions:
//
//	[header][pad][region 0][pad][region 1]...[region N-1]
//
// Every section starts at a multiple of its own alignment and no two sections
// overlap. The planner only does arithmetic; it never touches memory.
package layout
