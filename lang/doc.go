// Package lang implements aocl, a small expression language for puzzle
// solutions that read a data file and transform it into one or two answers.
//
// # Programs
//
// A program has a required part_1 block and an optional part_2 block. Each
// block is a sequence of expressions; the value of the last one is the
// answer for that part.
//
//	/* Sum each group of numbers and keep the largest. */
//	part_1 {
//	  readByLine() |> groupByLineBreak |> map((group) => {
//	    group |> map(int) |> reduce(add)
//	  }) |> sortDescending |> pop
//	}
//
// # Grammar
//
// Informal EBNF, loosest binding first:
//
//	Program     → part_1 Block [part_2 Block]
//	Block       → '{' (Expr | ';')* '}'
//	Expr        → Equality ('|>' Equality)*
//	Equality    → Comparison (('==' | '!=') Comparison)*
//	Comparison  → Additive (('<' | '<=' | '>' | '>=') Additive)*
//	Additive    → Term (('+' | '-') Term)*
//	Term        → Unary (('*' | '/') Unary)*
//	Unary       → ('-' | '!') Unary | Primary
//	Primary     → Number | String | true | false
//	            | '(' Params ')' '=>' Block
//	            | Identifier ['(' Args ')']
//	            | '(' Expr ')'
//
// Block comments (/* ... */) may appear wherever whitespace may.
//
// # Calls
//
// Every function is curried. An application consumes as many arguments as
// the function declares (at least one) and, while arguments remain and the
// result is itself a function, applies the result to the rest. x |> f is
// the same as f(x).
//
// # Evaluation
//
// [Interpreter.Execute] evaluates a parsed [Program]. Scopes live in an
// [Env] arena addressed by [Scope] index; closures capture the index of the
// scope they were created in. Built-in functions are listed by [Builtins].
package lang
