// Package calc evaluates arithmetic expressions.
//
// An expression is integers, decimals like 1.5 or .5, the constants g, G, pi,
// and e, the operators + - * / ^ and postfix !, parentheses, and the
// functions sin, cos, tan, ln, log, exp, and sqrt. A function applies to the
// term directly after it, so "sin 2^2" is "(sin 2)^2". Exponentiation is
// right-associative and unary minus binds tighter than any binary operator,
// so "-2^2" is 4 and "2^3^2" is 512.
//
// Parsing produces an Expr, which evaluates in float64 with Eval or to
// arbitrary precision with a Context, and prints fully parenthesized with
// String.
package calc
