package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse     bool
	Serialize bool
	Refs      bool
	Notify    bool
	Registry  bool
	Eval      bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("XMPDOM_DEBUG_PARSE")
	d.Serialize = boolEnv("XMPDOM_DEBUG_SERIALIZE")
	d.Refs = boolEnv("XMPDOM_DEBUG_REFS")
	d.Notify = boolEnv("XMPDOM_DEBUG_NOTIFY")
	d.Registry = boolEnv("XMPDOM_DEBUG_REGISTRY")
	d.Eval = boolEnv("XMPDOM_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Serialize() bool {
	return d.Serialize
}
func Refs() bool {
	return d.Refs
}
func Notify() bool {
	return d.Notify
}
func Registry() bool {
	return d.Registry
}
func Eval() bool {
	return d.Eval
}
