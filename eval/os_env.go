package eval

import (
	"os"
	"strings"
)

func OSEnv() Symbol {
	return Func("getenv", func(_ *State, params ...any) (any, error) {
		return os.Getenv(strings.TrimSpace(params[0].(string))), nil
	}, new(func(string) string))
}
