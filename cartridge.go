package cartridge

import (
	"sync"

	"github.com/nickkkcc/cartridge-go/mapper"
)

var (
	defaultRegistry *mapper.Registry
	defaultOnce     sync.Once
)

// Default returns a shared registry holding only the default codec set.
// Callers needing custom codecs build their own with mapper.NewDefaultBuilder.
func Default() *mapper.Registry {
	defaultOnce.Do(func() {
		r, err := mapper.NewDefaultBuilder().Build()
		if err != nil {
			panic("cartridge: default registry: " + err.Error())
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
