//go:build unix

package mmap

import "golang.org/x/sys/unix"

func sysMap(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func sysUnmap(b []byte) error {
	return unix.Munmap(b)
}
