package compiler

import (
	"log/slog"

	"github.com/roach88/frbgen/internal/ir"
	"github.com/roach88/frbgen/internal/source"
)

// parseFunction resolves the parameters and the Result success type of fn.
func (p *Parser) parseFunction(fn source.FuncDecl) (ir.ApiFunc, error) {
	p.logger.Debug("parse function", slog.String("name", fn.Name))

	inputs := make([]ir.ApiField, 0, len(fn.Params))
	for _, param := range fn.Params {
		if param.Pattern != source.PatternIdent {
			return ir.ApiFunc{}, newCompileError(KindUnsupportedParamPattern, param.Text, param.Pos,
				"function %q: parameter %q is not a simple named binding", fn.Name, param.Text)
		}

		ty, err := p.parseType(param.Type, param.Pos)
		if err != nil {
			return ir.ApiFunc{}, err
		}
		inputs = append(inputs, ir.ApiField{Name: param.Name, Type: ty})
	}

	output, err := p.parseOutput(fn)
	if err != nil {
		return ir.ApiFunc{}, err
	}

	return ir.ApiFunc{
		Name:   fn.Name,
		Inputs: inputs,
		Output: output,
	}, nil
}

// parseOutput unwraps Result<T> and classifies T. The error type of the
// Result is not represented in the IR.
func (p *Parser) parseOutput(fn source.FuncDecl) (ir.ApiType, error) {
	if !fn.HasReturn {
		return nil, newCompileError(KindUnsupportedReturnShape, "", fn.Pos,
			"function %q has no return type, expected %s<T>", fn.Name, ResultWrapper)
	}

	inner, ok := captureResult.Captures(fn.ReturnType)
	if !ok {
		return nil, newCompileError(KindUnsupportedReturnShape, fn.ReturnType, fn.Pos,
			"function %q returns %q, expected %s<T>", fn.Name, fn.ReturnType, ResultWrapper)
	}

	return p.parseType(inner, fn.Pos)
}
