package codegen

import (
	"legen/internal/ast"
)

// lowerBlock lowers a sequence of statements in the current scope frame,
// stopping early (without lowering the remainder) once a statement
// terminates the current block — mirrors the "terminated" propagation
// rule of §4.5: a terminated block is never appended to again.
func (e *Engine) lowerBlock(stmts []ast.Stmt) (bool, error) {
	for _, s := range stmts {
		terminated, err := e.lowerStmt(s)
		if err != nil {
			return false, err
		}
		if terminated {
			return true, nil
		}
	}
	return false, nil
}

// lowerStmt dispatches on the statement variant and returns whether the
// current block was left terminated by a return or by a control-flow
// construct whose every path returns.
func (e *Engine) lowerStmt(stmt ast.Stmt) (bool, error) {
	switch s := stmt.(type) {
	case *ast.Void:
		return false, nil
	case *ast.ExpressionStmt:
		if _, err := e.lowerExpr(s.Expr); err != nil {
			return false, err
		}
		return false, nil
	case *ast.VariableDefinition:
		return false, e.lowerVariableDefinition(s.Variable)
	case *ast.ReturnStmt:
		return e.lowerReturn(s)
	case *ast.IfStmt:
		return e.lowerIf(s)
	case *ast.WhileLoop:
		return e.lowerWhile(s)
	case *ast.ForLoop:
		return e.lowerFor(s)
	default:
		panic("codegen: unrecognised statement node")
	}
}

// lowerVariableDefinition allocates storage in the entry block, lowers and
// reads the initializer, optionally checks it against an explicit
// declared type, stores the value, and binds the name in the current
// scope frame.
func (e *Engine) lowerVariableDefinition(v *ast.Variable) error {
	val, err := e.readExpr(v.Value)
	if err != nil {
		return err
	}
	declType := val.Type
	if v.Prototype.TypeDeclarator != nil {
		t, err := e.types.Resolve(v.Prototype.TypeDeclarator)
		if err != nil {
			return err
		}
		if !t.Equals(val.Type) {
			return errTypeMismatched(t.String(), val.Type.String(), "variable "+v.Prototype.Name)
		}
		declType = t
	}
	slot := e.allocaInEntry(declType, v.Prototype.Name)
	e.builder.Store(val.Val, slot)
	return e.scopes.InsertLocal(&Symbol{Name: v.Prototype.Name, Kind: SymLocal, Type: declType, Storage: slot})
}

// lowerReturn stores the (optional) return value into the shared return
// slot and branches to the dedicated return block; always terminates.
func (e *Engine) lowerReturn(r *ast.ReturnStmt) (bool, error) {
	if r.Expr != nil {
		if e.current.returnType == nil {
			return false, errTypeMismatched("void", "a value", "return statement")
		}
		val, err := e.readExpr(r.Expr)
		if err != nil {
			return false, err
		}
		if !val.Type.Equals(e.current.returnType) {
			return false, errTypeMismatched(e.current.returnType.String(), val.Type.String(), "return statement")
		}
		e.builder.Store(val.Val, e.current.returnSlot)
	} else if e.current.returnType != nil {
		return false, errTypeMismatched(e.current.returnType.String(), "void", "return statement")
	}
	e.builder.Br(e.current.returnBlock)
	return true, nil
}

// lowerIf builds then/else/merge blocks. The merge block is only reached
// from branches that didn't already terminate; if both branches
// terminate, the statement itself is terminated and merge is left
// unreferenced (and never positioned into).
func (e *Engine) lowerIf(s *ast.IfStmt) (bool, error) {
	cond, err := e.readExpr(s.Condition)
	if err != nil {
		return false, err
	}
	if cond.Type.Kind != KindBool {
		return false, errTypeMismatched("bool", cond.Type.String(), "if condition")
	}

	thenBlock := e.current.function.AppendBlock("if.then")
	var elseBlock = thenBlock
	if s.Else != nil {
		elseBlock = e.current.function.AppendBlock("if.else")
	}
	mergeBlock := e.current.function.AppendBlock("if.merge")
	if s.Else != nil {
		e.builder.CondBr(cond.Val, thenBlock, elseBlock)
	} else {
		e.builder.CondBr(cond.Val, thenBlock, mergeBlock)
	}

	e.scopes.PushScope()
	e.builder.PositionAtEnd(thenBlock)
	thenTerminated, err := e.lowerBlock(s.Then)
	if err != nil {
		return false, err
	}
	if !thenTerminated {
		e.builder.Br(mergeBlock)
	}
	e.scopes.PopScope()

	elseTerminated := false
	if s.Else != nil {
		e.scopes.PushScope()
		e.builder.PositionAtEnd(elseBlock)
		elseTerminated, err = e.lowerBlock(s.Else)
		if err != nil {
			return false, err
		}
		if !elseTerminated {
			e.builder.Br(mergeBlock)
		}
		e.scopes.PopScope()
	}

	bothTerminated := thenTerminated && s.Else != nil && elseTerminated
	if bothTerminated {
		return true, nil
	}
	e.builder.PositionAtEnd(mergeBlock)
	return false, nil
}

// lowerWhile builds cond/body/after blocks. A nil Condition is an
// infinite loop (the cond block unconditionally branches to body).
func (e *Engine) lowerWhile(s *ast.WhileLoop) (bool, error) {
	condBlock := e.current.function.AppendBlock("while.cond")
	bodyBlock := e.current.function.AppendBlock("while.body")
	afterBlock := e.current.function.AppendBlock("while.after")

	e.builder.Br(condBlock)
	e.builder.PositionAtEnd(condBlock)
	if s.Condition != nil {
		cond, err := e.readExpr(s.Condition)
		if err != nil {
			return false, err
		}
		if cond.Type.Kind != KindBool {
			return false, errTypeMismatched("bool", cond.Type.String(), "while condition")
		}
		e.builder.CondBr(cond.Val, bodyBlock, afterBlock)
	} else {
		e.builder.Br(bodyBlock)
	}

	e.scopes.PushScope()
	e.builder.PositionAtEnd(bodyBlock)
	terminated, err := e.lowerBlock(s.Body)
	if err != nil {
		return false, err
	}
	if !terminated {
		e.builder.Br(condBlock)
	}
	e.scopes.PopScope()

	e.builder.PositionAtEnd(afterBlock)
	return false, nil
}

// lowerFor lowers the init statement in the current block (under a scope
// pushed for the loop's lifetime, so the induction variable is visible to
// cond/post/body), then follows the same cond/body/after shape as While
// with an added post-statement executed at the end of each iteration.
func (e *Engine) lowerFor(s *ast.ForLoop) (bool, error) {
	e.scopes.PushScope()

	if s.Init != nil {
		if _, err := e.lowerStmt(s.Init); err != nil {
			e.scopes.PopScope()
			return false, err
		}
	}

	condBlock := e.current.function.AppendBlock("for.cond")
	bodyBlock := e.current.function.AppendBlock("for.body")
	postBlock := e.current.function.AppendBlock("for.post")
	afterBlock := e.current.function.AppendBlock("for.after")

	e.builder.Br(condBlock)
	e.builder.PositionAtEnd(condBlock)
	if s.Cond != nil {
		cond, err := e.readExpr(s.Cond)
		if err != nil {
			e.scopes.PopScope()
			return false, err
		}
		if cond.Type.Kind != KindBool {
			e.scopes.PopScope()
			return false, errTypeMismatched("bool", cond.Type.String(), "for condition")
		}
		e.builder.CondBr(cond.Val, bodyBlock, afterBlock)
	} else {
		e.builder.Br(bodyBlock)
	}

	e.builder.PositionAtEnd(bodyBlock)
	terminated, err := e.lowerBlock(s.Body)
	if err != nil {
		e.scopes.PopScope()
		return false, err
	}
	if !terminated {
		e.builder.Br(postBlock)
	}

	e.builder.PositionAtEnd(postBlock)
	if s.Post != nil {
		if _, err := e.lowerStmt(s.Post); err != nil {
			e.scopes.PopScope()
			return false, err
		}
	}
	e.builder.Br(condBlock)

	e.scopes.PopScope()
	e.builder.PositionAtEnd(afterBlock)
	return false, nil
}
