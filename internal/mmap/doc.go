// Package mmap maps anonymous pages for off-heap allocation blocks.
//
// Pages are private, read-write and zero-filled, and the garbage collector
// never scans them. Map rounds every request up to whole pages; Bytes still
// reports exactly the requested length.
//
// Unix uses mmap(2) with MAP_ANON|MAP_PRIVATE. Windows uses VirtualAlloc and
// VirtualFree.
package mmap
