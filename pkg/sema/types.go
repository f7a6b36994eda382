package sema

import "github.com/cadenzalang/cadenzac/pkg/ast"

// Kind is the closed set of shapes the structural type checker reasons
// about (spec.md §4.3, check 8). It is intentionally smaller than ast.TypeExpr:
// inference never needs to recover source spelling, only shape.
type Kind int

const (
	TUnknown Kind = iota
	TInt
	TString
	TBool
	TResult
	TOption
	TList
	TNamed
)

// Type is a resolved type, used internally by the checker; it never
// escapes to the generator, which works from ast.TypeExpr directly.
type Type struct {
	Kind  Kind
	Value *Type  // Result/Option/List element type
	Error *Type  // Result error type
	Name  string // TNamed
}

func Unknown() Type      { return Type{Kind: TUnknown} }
func Int() Type          { return Type{Kind: TInt} }
func String() Type       { return Type{Kind: TString} }
func Bool() Type         { return Type{Kind: TBool} }
func Named(n string) Type { return Type{Kind: TNamed, Name: n} }

func Result(value, err Type) Type {
	v, e := value, err
	return Type{Kind: TResult, Value: &v, Error: &e}
}

func Option(value Type) Type {
	v := value
	return Type{Kind: TOption, Value: &v}
}

func List(elem Type) Type {
	e := elem
	return Type{Kind: TList, Value: &e}
}

func (t Type) String() string {
	switch t.Kind {
	case TInt:
		return "int"
	case TString:
		return "string"
	case TBool:
		return "bool"
	case TResult:
		return "Result<" + t.Value.String() + ", " + t.Error.String() + ">"
	case TOption:
		return "Option<" + t.Value.String() + ">"
	case TList:
		return "List<" + t.Value.String() + ">"
	case TNamed:
		return t.Name
	default:
		return "<unknown>"
	}
}

// Equal reports structural equality. TUnknown is equal to everything: it
// marks a type the checker gave up inferring, and propagating a mismatch
// diagnostic from it would just be noise on top of an earlier one.
func (t Type) Equal(other Type) bool {
	if t.Kind == TUnknown || other.Kind == TUnknown {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case TResult:
		return t.Value.Equal(*other.Value) && t.Error.Equal(*other.Error)
	case TOption, TList:
		return t.Value.Equal(*other.Value)
	case TNamed:
		return t.Name == other.Name
	default:
		return true
	}
}

// fromTypeExpr converts a parsed type reference into the checker's
// internal Type representation (spec.md §3 type reference grammar).
func fromTypeExpr(te ast.TypeExpr) Type {
	switch t := te.(type) {
	case *ast.PrimitiveType:
		switch t.Kind {
		case ast.IntType:
			return Int()
		case ast.StringType:
			return String()
		case ast.BoolType:
			return Bool()
		}
		return Unknown()
	case *ast.ResultType:
		return Result(fromTypeExpr(t.Value), fromTypeExpr(t.Error))
	case *ast.OptionType:
		return Option(fromTypeExpr(t.Value))
	case *ast.ListType:
		return List(fromTypeExpr(t.Elem))
	case *ast.NamedType:
		return Named(t.Name)
	default:
		return Unknown()
	}
}
