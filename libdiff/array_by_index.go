package libdiff

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/mpath"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffArrayByIndex diffs the items of two arrays.
//
//  1. every item is summarised as a string: kind, and for simple items
//     the value and its tags
//  2. each distinct summary is mapped to a rune and the rune sequences
//     are diffed
//  3. equal runs are recursed into with df
//  4. a deletion run followed by an insertion run is paired item by item
//     and recursed into; the rest become Delete and Insert changes
func DiffArrayByIndex(p *mpath.Path, from, to *dom.Node, df DiffFunc) []Change {
	m := map[string]rune{}
	fromItems, toItems := from.Children(), to.Children()
	diffs := diffpatch.New().DiffMainRunes(mapValues(m, fromItems), mapValues(m, toItems), false)

	var res []Change
	fi, ti := 0, 0
	same := func() {
		res = append(res, df(child(p, mpath.Index(fi+1)), fromItems[fi], toItems[ti])...)
		fi++
		ti++
	}
	for i := 0; i < len(diffs); i++ {
		n := utf8.RuneCountInString(diffs[i].Text)
		switch diffs[i].Type {
		case diffpatch.DiffEqual:
			for range n {
				same()
			}
		case diffpatch.DiffDelete:
			ins := 0
			if i+1 < len(diffs) && diffs[i+1].Type == diffpatch.DiffInsert {
				ins = utf8.RuneCountInString(diffs[i+1].Text)
				i++
			}
			paired := min(n, ins)
			for range paired {
				same()
			}
			for range n - paired {
				res = append(res, Change{Op: Delete, Path: child(p, mpath.Index(fi+1)), From: fromItems[fi]})
				fi++
			}
			for range ins - paired {
				res = append(res, Change{Op: Insert, Path: child(p, mpath.Index(ti+1)), To: toItems[ti]})
				ti++
			}
		case diffpatch.DiffInsert:
			for range n {
				res = append(res, Change{Op: Insert, Path: child(p, mpath.Index(ti+1)), To: toItems[ti]})
				ti++
			}
		}
	}
	return res
}

func mapValues(m map[string]rune, items []*dom.Node) []rune {
	rs := make([]rune, len(items))
	for i, v := range items {
		sum := summaryStr(v)
		r, ok := m[sum]
		if !ok {
			r = rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

func summaryStr(n *dom.Node) string {
	switch n.Kind() {
	case dom.SimpleKind:
		if strings.Contains(n.Value(), "\n") {
			return "simple/m"
		}
		return "simple-" + strconv.FormatBool(n.IsURI()) + "-" + n.TypeHint() + "-" + n.Value()
	case dom.ArrayKind:
		return "array-" + n.Form().String()
	default:
		return n.Kind().String()
	}
}
