package lang

import (
	"bufio"
	"cmp"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// builtins returns the natives installed in every root frame.
// Natives are immutable, so one set is shared by all executions.
var builtins = sync.OnceValue(func() []*Native {
	return []*Native{
		{Name: "readByLine", Arity: 0, Fn: readByLine},
		{Name: "pop", Arity: 1, Fn: pop},
		{Name: "sortDescending", Arity: 1, Fn: sortDescending},
		{Name: "map", Arity: 1, Fn: mapFn},
		{Name: "reduce", Arity: 1, Fn: reduceFn},
		{Name: "int", Arity: 1, Fn: parseInt},
		{Name: "add", Arity: 1, Fn: add},
		{Name: "groupByLineBreak", Arity: 1, Fn: groupByLineBreak},
	}
})

// Builtins returns the names of the built-in functions, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtins()))
	for _, fn := range builtins() {
		names = append(names, fn.Name)
	}

	slices.Sort(names)

	return names
}

func argError(fn string, want Kind, got Value) error {
	return ErrArgumentType.With(
		slog.String("function", fn),
		slog.String("want", want.String()),
		slog.String("got", kindOf(got).String()),
	)
}

func sequenceArg(fn string, v Value) (*Sequence, error) {
	seq, ok := v.(*Sequence)
	if !ok {
		return nil, argError(fn, KindSequence, v)
	}

	return seq, nil
}

// readByLine returns the lines of the program's input data.
// Line endings are stripped; a final newline does not add an empty line.
func readByLine(c Caller, _ []Value) (Value, error) {
	rc, err := c.Data()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lines := []Value{}

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt32)

	for sc.Scan() {
		lines = append(lines, String(strings.TrimSuffix(sc.Text(), "\r")))
	}

	if err := sc.Err(); err != nil {
		return nil, ErrDataSource.Wrap(err)
	}

	return &Sequence{Items: lines}, nil
}

// pop removes and returns the last item, or absent if there is none.
func pop(_ Caller, args []Value) (Value, error) {
	seq, err := sequenceArg("pop", args[0])
	if err != nil {
		return nil, err
	}

	n := len(seq.Items)
	if n == 0 {
		return nil, nil
	}

	last := seq.Items[n-1]
	seq.Items[n-1] = nil
	seq.Items = seq.Items[:n-1]

	return last, nil
}

// sortDescending returns a sorted copy, largest first. Sequences of numbers
// sort numerically; anything else sorts by formatted text.
func sortDescending(_ Caller, args []Value) (Value, error) {
	seq, err := sequenceArg("sortDescending", args[0])
	if err != nil {
		return nil, err
	}

	items := slices.Clone(seq.Items)
	if items == nil {
		items = []Value{}
	}

	numeric := !slices.ContainsFunc(items, func(v Value) bool {
		_, ok := v.(Number)

		return !ok
	})

	if numeric {
		slices.SortStableFunc(items, func(a, b Value) int {
			return cmp.Compare(b.(Number), a.(Number))
		})
	} else {
		slices.SortStableFunc(items, func(a, b Value) int {
			return strings.Compare(FormatValue(b), FormatValue(a))
		})
	}

	return &Sequence{Items: items}, nil
}

// mapFn returns a native that applies fn to each item of a sequence.
func mapFn(_ Caller, args []Value) (Value, error) {
	fn := args[0]

	return &Native{
		Name:  "map(" + calleeName(fn) + ")",
		Arity: 1,
		Fn: func(c Caller, args []Value) (Value, error) {
			seq, err := sequenceArg("map", args[0])
			if err != nil {
				return nil, err
			}

			out := make([]Value, len(seq.Items))

			for i, item := range seq.Items {
				v, err := c.Call(fn, item)
				if err != nil {
					return nil, err
				}

				out[i] = v
			}

			return &Sequence{Items: out}, nil
		},
	}, nil
}

// reduceFn returns a native that left-folds a sequence with fn, seeded by
// the first item. An empty sequence reduces to absent.
func reduceFn(_ Caller, args []Value) (Value, error) {
	fn := args[0]

	return &Native{
		Name:  "reduce(" + calleeName(fn) + ")",
		Arity: 1,
		Fn: func(c Caller, args []Value) (Value, error) {
			seq, err := sequenceArg("reduce", args[0])
			if err != nil {
				return nil, err
			}

			if len(seq.Items) == 0 {
				return nil, nil
			}

			acc := seq.Items[0]

			for _, item := range seq.Items[1:] {
				acc, err = c.Call(fn, acc, item)
				if err != nil {
					return nil, err
				}
			}

			return acc, nil
		},
	}, nil
}

// parseInt parses the longest integer prefix of a string, after optional
// leading whitespace and sign. Numbers are truncated toward zero.
func parseInt(_ Caller, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case Number:
		return Number(math.Trunc(float64(v))), nil

	case String:
		s := strings.TrimLeft(string(v), " \t\n\r\f\v")

		end := 0
		if end < len(s) && (s[end] == '+' || s[end] == '-') {
			end++
		}

		digits := end
		for end < len(s) && isDigit(s[end]) {
			end++
		}

		if end == digits {
			return nil, ErrArgumentType.With(
				slog.String("function", "int"),
				slog.String("input", string(v)),
			)
		}

		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return nil, ErrArgumentType.Wrap(err).With(
				slog.String("function", "int"),
				slog.String("input", string(v)),
			)
		}

		return Number(f), nil
	}

	return nil, argError("int", KindString, args[0])
}

// add returns a native that adds its argument to x.
func add(_ Caller, args []Value) (Value, error) {
	x := args[0]

	return &Native{
		Name:  "add(" + FormatValue(x) + ")",
		Arity: 1,
		Fn: func(_ Caller, args []Value) (Value, error) {
			y := args[0]

			switch l := x.(type) {
			case Number:
				if r, ok := y.(Number); ok {
					return l + r, nil
				}

			case String:
				if r, ok := y.(String); ok {
					return l + r, nil
				}
			}

			return nil, ErrArgumentType.With(
				slog.String("function", "add"),
				slog.String("left", kindOf(x).String()),
				slog.String("right", kindOf(y).String()),
			)
		},
	}, nil
}

// groupByLineBreak splits lines into groups separated by blank lines.
// Consecutive blank lines form a single break and empty groups are never
// produced.
func groupByLineBreak(_ Caller, args []Value) (Value, error) {
	seq, err := sequenceArg("groupByLineBreak", args[0])
	if err != nil {
		return nil, err
	}

	groups := []Value{}

	var group []Value

	// Lines holding only whitespace are breaks.
	for _, line := range seq.Items {
		if s, ok := line.(String); ok && strings.TrimSpace(string(s)) == "" {
			if len(group) > 0 {
				groups = append(groups, &Sequence{Items: group})
				group = nil
			}

			continue
		}

		group = append(group, line)
	}

	if len(group) > 0 {
		groups = append(groups, &Sequence{Items: group})
	}

	return &Sequence{Items: groups}, nil
}
