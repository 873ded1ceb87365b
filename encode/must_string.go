package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/xmpdom/dom"
)

func MustString(n *dom.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(n, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
