package config

// Version is the current pushkit version.
// Set at build time via -ldflags or by writing to this file.
var Version = "0.1.0"

// MaxNodeDepth is the strict depth cap for expressions popped as children
// during compilation. Nodes at exactly this depth are not reusable.
const MaxNodeDepth = 50

// Built-in type names
const (
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	BoolTypeName   = "Bool"
	StringTypeName = "String"
	ListTypeName   = "List"
	DictTypeName   = "Dict"
	NilTypeName    = "Nil"
)

// LocalInputPrefix is the symbol prefix for positional higher-order
// placeholders (_0, _1, ...).
const LocalInputPrefix = "_"

// Higher-order child names
const (
	HofSeqChildName  = "seq"
	HofFuncChildName = "func"
)
