package ports

type DebouncerPort interface {
	Trigger(task func())
	Flush()
	Stop()
}
