package mockserver

import (
	"fmt"
	"strings"
)

// PathMatcher はリクエストパスがルールに一致するか判定します。
type PathMatcher interface {
	Match(path string) bool
}

// ExactPath はパスが完全に一致する場合だけ一致します。末尾のスラッシュは無視します。
type ExactPath string

func (p ExactPath) Match(path string) bool {
	return trimSlash(path) == trimSlash(string(p))
}

// PrefixPath はパスが同じか、その下のセグメントである場合に一致します。
// "/todo" は "/todo/1" に一致しますが "/todos" には一致しません。
type PrefixPath string

func (p PrefixPath) Match(path string) bool {
	prefix := trimSlash(string(p))
	path = trimSlash(path)
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// ContainsPath はパスのどこかに文字列を含めば一致します。照合が最も緩いモードです。
type ContainsPath string

func (p ContainsPath) Match(path string) bool {
	return strings.Contains(path, string(p))
}

func trimSlash(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// Match modes accepted by NewMatcher.
const (
	MatchExact    = "exact"
	MatchPrefix   = "prefix"
	MatchContains = "contains"
)

// NewMatcher は設定値のモード名から PathMatcher を作成します。
func NewMatcher(mode, path string) (PathMatcher, error) {
	switch mode {
	case "", MatchExact:
		return ExactPath(path), nil
	case MatchPrefix:
		return PrefixPath(path), nil
	case MatchContains:
		return ContainsPath(path), nil
	default:
		return nil, fmt.Errorf("unknown path match mode %q", mode)
	}
}
