package attributes

type Attribute int

const (
	CanForward Attribute = iota
	CanPing
)
