package paths

// Absolute paths of library items checks commonly look for.
var (
	Box         = []string{"alloc", "boxed", "Box"}
	Clone       = []string{"core", "clone", "Clone"}
	Copy        = []string{"core", "marker", "Copy"}
	Default     = []string{"core", "default", "Default"}
	Iterator    = []string{"core", "iter", "Iterator"}
	Option      = []string{"core", "option", "Option"}
	OptionSome  = []string{"core", "option", "Option", "Some"}
	OptionNone  = []string{"core", "option", "Option", "None"}
	Result      = []string{"core", "result", "Result"}
	ResultOk    = []string{"core", "result", "Result", "Ok"}
	ResultErr   = []string{"core", "result", "Result", "Err"}
	Sized       = []string{"core", "marker", "Sized"}
	Vec         = []string{"alloc", "vec", "Vec"}
	PartialEq   = []string{"core", "cmp", "PartialEq"}
	Debug       = []string{"core", "fmt", "Debug"}
	Display     = []string{"core", "fmt", "Display"}
	Drop        = []string{"core", "ops", "Drop"}
	MemForget   = []string{"core", "mem", "forget"}
	MemReplace  = []string{"core", "mem", "replace"}
	HashMap     = []string{"std", "collections", "hash", "map", "HashMap"}
	String      = []string{"alloc", "string", "String"}
	IntoIter    = []string{"core", "iter", "traits", "IntoIterator"}
	BeginPanic  = []string{"std", "panicking", "begin_panic"}
	RangeStruct = []string{"core", "ops", "Range"}
)

// Known maps the names used by check scripts to the paths above.
var Known = map[string][]string{
	"box":         Box,
	"clone":       Clone,
	"copy":        Copy,
	"default":     Default,
	"iterator":    Iterator,
	"option":      Option,
	"option_some": OptionSome,
	"option_none": OptionNone,
	"result":      Result,
	"result_ok":   ResultOk,
	"result_err":  ResultErr,
	"sized":       Sized,
	"vec":         Vec,
	"partial_eq":  PartialEq,
	"debug":       Debug,
	"display":     Display,
	"drop":        Drop,
	"mem_forget":  MemForget,
	"mem_replace": MemReplace,
	"hashmap":     HashMap,
	"string":      String,
	"into_iter":   IntoIter,
	"begin_panic": BeginPanic,
	"range":       RangeStruct,
}
