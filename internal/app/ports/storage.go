package ports

import (
	"iter"
	"time"
)

type RegistryPort[T any] interface {
	Set(key string, val T)
	Get(key string) (T, bool)
	Delete(key string) (T, bool)
	Drain() map[string]T
	All() iter.Seq2[string, T]
	Len() int
	IdleTTL() time.Duration
	CleanUp()
}
