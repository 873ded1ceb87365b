package libdiff

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

var ErrPatch = errors.New("cannot patch")

// DiffString returns the character diff of from and to, and whether it
// is small: at most half the shorter text changed.
func DiffString(from, to string) ([]diffpatch.Diff, bool) {
	dmp := diffpatch.New()
	doMultiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, doMultiLine))
	diffSize := 0
	for _, d := range diffs {
		if d.Type != diffpatch.DiffEqual {
			diffSize += len(d.Text)
		}
	}
	return diffs, diffSize <= min(len(from), len(to))/2
}

// PatchString applies diffs made against from.
func PatchString(from string, diffs []diffpatch.Diff) (string, error) {
	txt := []rune(from)
	res := []rune{}
	fi := 0
	for _, d := range diffs {
		rs := []rune(d.Text)
		switch d.Type {
		case diffpatch.DiffEqual, diffpatch.DiffDelete:
			if len(txt)-fi < len(rs) || !slices.Equal(txt[fi:fi+len(rs)], rs) {
				return "", fmt.Errorf("%w: unexpected text %q at %d, expected %q", ErrPatch, string(txt[fi:]), fi, d.Text)
			}
			if d.Type == diffpatch.DiffEqual {
				res = append(res, rs...)
			}
			fi += len(rs)
		case diffpatch.DiffInsert:
			res = append(res, rs...)
		}
	}
	if fi != len(txt) {
		return "", fmt.Errorf("%w: %q left over", ErrPatch, string(txt[fi:]))
	}
	return string(res), nil
}
