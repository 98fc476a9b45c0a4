package mem

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}
	aligns := []int{1, 8, 16, 64, 4096}

	for _, align := range aligns {
		for _, size := range sizes {
			buf := AllocAligned(size, align)
			assert.Len(t, buf, size)
			assert.Equal(t, size, cap(buf))
			assert.True(t, IsAligned(buf, align), "size=%d align=%d", size, align)

			for i, b := range buf {
				if b != 0 {
					t.Fatalf("byte %d not zero", i)
				}
			}
		}
	}

	assert.Nil(t, AllocAligned(0, 8))
	assert.Nil(t, AllocAligned(-1, 8))
	assert.Nil(t, AllocAligned(16, 3))
}

func TestAllocAligned_TooLarge(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Nil(t, AllocAligned(1<<60, 8))
		assert.Nil(t, AllocAligned(MaxSize, 64))
	})
}

func TestAllocAligned_MinimumAlignment(t *testing.T) {
	buf := AllocAligned(3, 1)
	assert.True(t, IsAligned(buf, DefaultAlignment))
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size, 64)
			}
		})
	}
}
