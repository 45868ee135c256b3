package logengine

import (
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
)

// filterEnv is the environment an event filter expression is evaluated against.
type filterEnv struct {
	Kind       string    `expr:"kind"`
	Identifier string    `expr:"identifier"`
	Timestamp  time.Time `expr:"timestamp"`
}

// Filter is a compiled boolean expression deciding which events reach the store.
// Filter 是决定哪些事件进入存储的已编译布尔表达式。
type Filter struct {
	source  string
	program *vm.Program
}

// NewFilter compiles src. An empty source yields a nil filter that accepts everything.
// NewFilter 编译 src。空表达式返回接受所有事件的 nil 过滤器。
func NewFilter(src string) (*Filter, error) {
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, apperrors.NewFilterError(src, err)
	}
	return &Filter{source: src, program: program}, nil
}

// Match reports whether ev passes the filter. A nil filter matches every event.
// Match 报告事件是否通过过滤器。nil 过滤器匹配所有事件。
func (f *Filter) Match(ev Event) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, filterEnv{
		Kind:       string(ev.Kind),
		Identifier: ev.Identifier,
		Timestamp:  ev.Timestamp,
	})
	if err != nil {
		return true, apperrors.NewFilterError(f.source, err)
	}
	matched, _ := out.(bool)
	return matched, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}
