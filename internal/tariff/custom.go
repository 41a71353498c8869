package tariff

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"batterysim/internal/batteryerr"
)

// Custom evaluates user-supplied buy/sell formulas against the spot price.
// Formulas are restricted arithmetic expressions over the single free
// variable "epex" — no function calls, no identifiers other than "epex",
// no access to host state or I/O. This is the trust boundary spec.md §9
// calls out: a formula is parsed once into an expression tree and walked by
// a closed evaluator, never passed to a general-purpose interpreter.
type Custom struct {
	buyExpr  ast.Expr
	sellExpr ast.Expr
}

// NewCustom compiles the buy and sell formula strings. Each must be a single
// Go-style arithmetic expression using "epex" as the only identifier, the
// four basic operators, unary minus, and parentheses.
func NewCustom(buyFormula, sellFormula string) (*Custom, error) {
	buy, err := compileFormula(buyFormula)
	if err != nil {
		return nil, batteryerr.InvalidParameter(fmt.Sprintf("buy formula: %v", err))
	}
	sell, err := compileFormula(sellFormula)
	if err != nil {
		return nil, batteryerr.InvalidParameter(fmt.Sprintf("sell formula: %v", err))
	}
	return &Custom{buyExpr: buy, sellExpr: sell}, nil
}

func (c *Custom) Buy(epexMWh float64) float64  { return evalExpr(c.buyExpr, epexMWh) }
func (c *Custom) Sell(epexMWh float64) float64 { return evalExpr(c.sellExpr, epexMWh) }

func compileFormula(formula string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(formula)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := validateExpr(expr); err != nil {
		return nil, err
	}
	return expr, nil
}

// validateExpr rejects anything that is not a closed arithmetic expression
// over literals and the identifier "epex": no calls, indexing, selectors,
// composite literals, or other identifiers.
func validateExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return fmt.Errorf("unsupported literal kind")
		}
		return nil
	case *ast.Ident:
		if n.Name != "epex" {
			return fmt.Errorf("unknown identifier %q (only \"epex\" is allowed)", n.Name)
		}
		return nil
	case *ast.ParenExpr:
		return validateExpr(n.X)
	case *ast.UnaryExpr:
		if n.Op != token.SUB && n.Op != token.ADD {
			return fmt.Errorf("unsupported unary operator %s", n.Op)
		}
		return validateExpr(n.X)
	case *ast.BinaryExpr:
		switch n.Op {
		case token.ADD, token.SUB, token.MUL, token.QUO:
		default:
			return fmt.Errorf("unsupported operator %s", n.Op)
		}
		if err := validateExpr(n.X); err != nil {
			return err
		}
		return validateExpr(n.Y)
	default:
		return fmt.Errorf("unsupported expression of type %T", e)
	}
}

// evalExpr assumes expr has already passed validateExpr and never panics on
// a validated tree; literal parsing failures fall back to 0.
func evalExpr(expr ast.Expr, epex float64) float64 {
	switch n := expr.(type) {
	case *ast.BasicLit:
		var f float64
		fmt.Sscanf(n.Value, "%g", &f)
		return f
	case *ast.Ident:
		return epex
	case *ast.ParenExpr:
		return evalExpr(n.X, epex)
	case *ast.UnaryExpr:
		v := evalExpr(n.X, epex)
		if n.Op == token.SUB {
			return -v
		}
		return v
	case *ast.BinaryExpr:
		l := evalExpr(n.X, epex)
		r := evalExpr(n.Y, epex)
		switch n.Op {
		case token.ADD:
			return l + r
		case token.SUB:
			return l - r
		case token.MUL:
			return l * r
		case token.QUO:
			if r == 0 {
				return 0
			}
			return l / r
		}
	}
	return 0
}
