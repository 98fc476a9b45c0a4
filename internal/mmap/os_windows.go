//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func sysMap(n int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(n),
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}

func sysUnmap(b []byte) error {
	// MEM_RELEASE requires a zero size and frees the whole reservation.
	return windows.VirtualFree(uintptr(unsafe.Pointer(unsafe.SliceData(b))), 0, windows.MEM_RELEASE)
}
