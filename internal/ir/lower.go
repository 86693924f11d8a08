package ir

import (
	"fmt"

	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// Lowering holds the mutable state threaded through AST->IR lowering of
// a single function body: its temp/label allocators, the function and
// basic block currently being appended to, and the break/continue
// target stacks a loop or switch pushes so nested break/continue
// statements know where to jump. Lowering assumes program has already
// passed semantic.TypeCheckPass — every expression's GetType() is
// populated, and break/continue/return nesting is already known-valid.
// Lowering returns an error for an empty break/continue stack and for
// any statement, expression, assignment target or call target it does
// not handle; a function declaration nested inside a body is one such
// statement and is not lowered.
type Lowering struct {
	temps  *TempAllocator
	labels *LabelAllocator

	currentFn    *Function
	currentBlock *BasicBlock

	breakStack    []Label
	continueStack []Label

	foreachCounter int
}

func newLowering() *Lowering {
	return &Lowering{temps: NewTempAllocator(), labels: NewLabelAllocator()}
}

// LowerProgram lowers every top-level function, every class's
// constructor and methods, and any remaining top-level statements
// (gathered into a synthetic "main" function, since Compiscript allows
// script-level statements alongside declarations).
func LowerProgram(program *ast.Program) (*Program, error) {
	l := newLowering()
	out := &Program{}
	var mainStmts []ast.Statement

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			fn, err := l.lowerFunction(s.Name, paramNames(s.Params), s.Body)
			if err != nil {
				return nil, err
			}
			out.Functions = append(out.Functions, fn)
		case *ast.ClassDecl:
			fns, err := l.lowerClass(s)
			if err != nil {
				return nil, err
			}
			out.Functions = append(out.Functions, fns...)
		default:
			mainStmts = append(mainStmts, stmt)
		}
	}

	if len(mainStmts) > 0 {
		fn, err := l.lowerFunction("main", nil, &ast.Block{Statements: mainStmts})
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, fn)
	}
	return out, nil
}

func paramNames(params []ast.Param) []string {
	if len(params) == 0 {
		return nil
	}
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

func (l *Lowering) lowerClass(decl *ast.ClassDecl) ([]*Function, error) {
	var out []*Function
	if decl.Constructor != nil {
		fn, err := l.lowerFunction(decl.Name+"::new", append([]string{"this"}, paramNames(decl.Constructor.Params)...), decl.Constructor.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, fn)
	}
	for _, m := range decl.Methods {
		fn, err := l.lowerFunction(decl.Name+"::"+m.Name, append([]string{"this"}, paramNames(m.Params)...), m.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, fn)
	}
	return out, nil
}

func (l *Lowering) lowerFunction(name string, params []string, body *ast.Block) (*Function, error) {
	l.temps.Reset()
	l.labels.Reset()
	l.currentFn = &Function{Name: name, Params: params}
	l.newBlock(l.labels.New(""))
	if err := l.lowerStatements(body.Statements); err != nil {
		return nil, err
	}
	return l.currentFn, nil
}

func (l *Lowering) newBlock(label Label) *BasicBlock {
	b := &BasicBlock{Label: label, Instructions: []Instr{LabelInstr{L: label}}}
	l.currentFn.Blocks = append(l.currentFn.Blocks, b)
	l.currentBlock = b
	return b
}

func (l *Lowering) emit(instr Instr) {
	l.currentBlock.Instructions = append(l.currentBlock.Instructions, instr)
}

func (l *Lowering) lowerStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := l.lowerStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowering) lowerStmt(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return l.lowerStatements(s.Statements)

	case *ast.VarDecl:
		if s.Init == nil {
			return nil
		}
		v, err := l.lowerExpr(s.Init)
		if err != nil {
			return err
		}
		l.emit(Assign{Dst: Name{Value: s.Name}, Src: v})
		return nil

	case *ast.Assign:
		return l.lowerAssign(s)

	case *ast.ExprStmt:
		_, err := l.lowerExpr(s.Expr)
		return err

	case *ast.PrintStmt:
		v, err := l.lowerExpr(s.Expr)
		if err != nil {
			return err
		}
		l.emit(Print{Value: v})
		return nil

	case *ast.ReturnStmt:
		if s.Value == nil {
			l.emit(Return{})
			return nil
		}
		v, err := l.lowerExpr(s.Value)
		if err != nil {
			return err
		}
		l.emit(Return{Value: v})
		return nil

	case *ast.BreakStmt:
		if len(l.breakStack) == 0 {
			return fmt.Errorf("ir: break with no enclosing loop or switch")
		}
		l.emit(Goto{L: l.breakStack[len(l.breakStack)-1]})
		return nil

	case *ast.ContinueStmt:
		if len(l.continueStack) == 0 {
			return fmt.Errorf("ir: continue with no enclosing loop")
		}
		l.emit(Goto{L: l.continueStack[len(l.continueStack)-1]})
		return nil

	case *ast.IfStmt:
		return l.lowerIf(s)
	case *ast.WhileStmt:
		return l.lowerWhile(s)
	case *ast.DoWhileStmt:
		return l.lowerDoWhile(s)
	case *ast.ForStmt:
		return l.lowerFor(s)
	case *ast.ForeachStmt:
		return l.lowerForeach(s)
	case *ast.SwitchStmt:
		return l.lowerSwitch(s)

	default:
		return fmt.Errorf("ir: unsupported statement %T", s)
	}
}

func (l *Lowering) lowerAssign(s *ast.Assign) error {
	v, err := l.lowerExpr(s.Value)
	if err != nil {
		return err
	}
	switch target := s.Target.(type) {
	case *ast.Identifier:
		l.emit(Assign{Dst: Name{Value: target.Name}, Src: v})
	case *ast.IndexExpression:
		obj, err := l.lowerExpr(target.Object)
		if err != nil {
			return err
		}
		idx, err := l.lowerExpr(target.Index)
		if err != nil {
			return err
		}
		l.emit(Store{Object: obj, Index: idx, Value: v})
	case *ast.PropertyAccess:
		obj, err := l.lowerExpr(target.Object)
		if err != nil {
			return err
		}
		l.emit(SetProp{Object: obj, Field: target.Name, Value: v})
	default:
		return fmt.Errorf("ir: unsupported assignment target %T", target)
	}
	return nil
}

// lowerIf mirrors the reference lowering's label-reuse trick: when
// there is no else branch, the "else" label and the "end" label are
// the very same label, so the false branch of the conditional jump
// falls straight through to the merge point.
func (l *Lowering) lowerIf(s *ast.IfStmt) error {
	cond, err := l.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	lThen := l.labels.New("then")
	var lElse, lEnd Label
	if s.Else == nil {
		lElse = l.labels.New("end")
		lEnd = lElse
	} else {
		lElse = l.labels.New("else")
		lEnd = l.labels.New("end")
	}
	l.emit(IfGoto{Cond: cond, L: lThen})
	l.emit(Goto{L: lElse})

	l.newBlock(lThen)
	if err := l.lowerStmt(s.Then); err != nil {
		return err
	}
	l.emit(Goto{L: lEnd})

	if s.Else != nil {
		l.newBlock(lElse)
		if err := l.lowerStmt(s.Else); err != nil {
			return err
		}
		l.emit(Goto{L: lEnd})
	}

	l.newBlock(lEnd)
	return nil
}

func (l *Lowering) lowerWhile(s *ast.WhileStmt) error {
	lHead := l.labels.New("head")
	lBody := l.labels.New("body")
	lEnd := l.labels.New("end")

	l.emit(Goto{L: lHead})
	l.newBlock(lHead)
	cond, err := l.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	l.emit(IfGoto{Cond: cond, L: lBody})
	l.emit(Goto{L: lEnd})

	l.pushLoop(lEnd, lHead)
	l.newBlock(lBody)
	if err := l.lowerStmt(s.Body); err != nil {
		return err
	}
	l.emit(Goto{L: lHead})
	l.popLoop()

	l.newBlock(lEnd)
	return nil
}

func (l *Lowering) lowerDoWhile(s *ast.DoWhileStmt) error {
	lBody := l.labels.New("body")
	lHead := l.labels.New("head")
	lEnd := l.labels.New("end")

	l.newBlock(lBody)
	l.pushLoop(lEnd, lHead)
	if err := l.lowerStmt(s.Body); err != nil {
		return err
	}
	l.popLoop()

	l.newBlock(lHead)
	cond, err := l.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	l.emit(IfGoto{Cond: cond, L: lBody})
	l.emit(Goto{L: lEnd})

	l.newBlock(lEnd)
	return nil
}

func (l *Lowering) lowerFor(s *ast.ForStmt) error {
	if s.Init != nil {
		if err := l.lowerStmt(s.Init); err != nil {
			return err
		}
	}
	lHead := l.labels.New("head")
	lBody := l.labels.New("body")
	lEnd := l.labels.New("end")
	lStep := l.labels.New("step")

	l.emit(Goto{L: lHead})
	l.newBlock(lHead)
	if s.Cond != nil {
		cond, err := l.lowerExpr(s.Cond)
		if err != nil {
			return err
		}
		l.emit(IfGoto{Cond: cond, L: lBody})
		l.emit(Goto{L: lEnd})
	} else {
		l.emit(Goto{L: lBody})
	}

	l.pushLoop(lEnd, lStep)
	l.newBlock(lBody)
	if err := l.lowerStmt(s.Body); err != nil {
		return err
	}
	l.emit(Goto{L: lStep})
	l.popLoop()

	l.newBlock(lStep)
	if s.Step != nil {
		if err := l.lowerStmt(s.Step); err != nil {
			return err
		}
	}
	l.emit(Goto{L: lHead})

	l.newBlock(lEnd)
	return nil
}

func (l *Lowering) lowerForeach(s *ast.ForeachStmt) error {
	collection, err := l.lowerExpr(s.Collection)
	if err != nil {
		return err
	}
	idx := Name{Value: fmt.Sprintf("__idx%d", l.foreachCounter)}
	l.foreachCounter++

	length := l.temps.New()
	l.emit(Call{Dst: length, Callee: "__len__", Args: []Operand{collection}})
	l.emit(Assign{Dst: idx, Src: IntConst(0)})

	lHead := l.labels.New("head")
	lBody := l.labels.New("body")
	lEnd := l.labels.New("end")
	lStep := l.labels.New("step")

	l.emit(Goto{L: lHead})
	l.newBlock(lHead)
	cond := l.temps.New()
	l.emit(BinOp{Dst: cond, Op: "<", Left: idx, Right: length})
	l.emit(IfGoto{Cond: cond, L: lBody})
	l.emit(Goto{L: lEnd})

	l.pushLoop(lEnd, lStep)
	l.newBlock(lBody)
	elem := l.temps.New()
	l.emit(Load{Dst: elem, Object: collection, Index: idx})
	l.emit(Assign{Dst: Name{Value: s.VarName}, Src: elem})
	if err := l.lowerStmt(s.Body); err != nil {
		return err
	}
	l.emit(Goto{L: lStep})
	l.popLoop()

	l.newBlock(lStep)
	l.emit(BinOp{Dst: idx, Op: "+", Left: idx, Right: IntConst(1)})
	l.emit(Goto{L: lHead})

	l.newBlock(lEnd)
	return nil
}

// lowerSwitch allocates every case label before emitting any
// comparison (source order), then a default label if present, then the
// end label — matching the reference lowering exactly so case order in
// the pretty-printed IR is always source order regardless of how many
// cases there are.
func (l *Lowering) lowerSwitch(s *ast.SwitchStmt) error {
	cond, err := l.lowerExpr(s.Cond)
	if err != nil {
		return err
	}

	caseLabels := make([]Label, len(s.Cases))
	for i := range s.Cases {
		caseLabels[i] = l.labels.New("case")
	}
	var defaultLabel Label
	hasDefault := s.Default != nil
	if hasDefault {
		defaultLabel = l.labels.New("default")
	}
	lEnd := l.labels.New("end")

	for i, c := range s.Cases {
		caseVal, err := l.lowerExpr(c.Value)
		if err != nil {
			return err
		}
		t := l.temps.New()
		l.emit(BinOp{Dst: t, Op: "==", Left: cond, Right: caseVal})
		l.emit(IfGoto{Cond: t, L: caseLabels[i]})
	}
	if hasDefault {
		l.emit(Goto{L: defaultLabel})
	} else {
		l.emit(Goto{L: lEnd})
	}

	l.breakStack = append(l.breakStack, lEnd)
	for i, c := range s.Cases {
		l.newBlock(caseLabels[i])
		if err := l.lowerStatements(c.Statements); err != nil {
			return err
		}
		l.emit(Goto{L: lEnd})
	}
	if hasDefault {
		l.newBlock(defaultLabel)
		if err := l.lowerStatements(s.Default); err != nil {
			return err
		}
		l.emit(Goto{L: lEnd})
	}
	l.breakStack = l.breakStack[:len(l.breakStack)-1]

	l.newBlock(lEnd)
	return nil
}

func (l *Lowering) pushLoop(brk, cont Label) {
	l.breakStack = append(l.breakStack, brk)
	l.continueStack = append(l.continueStack, cont)
}

func (l *Lowering) popLoop() {
	l.breakStack = l.breakStack[:len(l.breakStack)-1]
	l.continueStack = l.continueStack[:len(l.continueStack)-1]
}

func (l *Lowering) lowerExpr(expr ast.Expression) (Operand, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return IntConst(e.Value), nil
	case *ast.FloatLiteral:
		return FloatConst(e.Value), nil
	case *ast.StringLiteral:
		return StringConst(e.Value), nil
	case *ast.BooleanLiteral:
		return BoolConst(e.Value), nil
	case *ast.NullLiteral:
		return NullConst, nil
	case *ast.Identifier:
		return Name{Value: e.Name}, nil
	case *ast.This:
		return Name{Value: "this"}, nil

	case *ast.ArrayLiteral:
		return l.lowerArrayLiteral(e)

	case *ast.BinaryExpression:
		left, err := l.lowerExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.lowerExpr(e.Right)
		if err != nil {
			return nil, err
		}
		dst := l.temps.New()
		l.emit(BinOp{Dst: dst, Op: string(e.Op), Left: left, Right: right})
		return dst, nil

	case *ast.UnaryExpression:
		operand, err := l.lowerExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		dst := l.temps.New()
		l.emit(UnaryOp{Dst: dst, Op: string(e.Op), Operand: operand})
		return dst, nil

	case *ast.TernaryExpression:
		return l.lowerTernary(e)

	case *ast.CallExpression:
		return l.lowerCall(e)

	case *ast.IndexExpression:
		obj, err := l.lowerExpr(e.Object)
		if err != nil {
			return nil, err
		}
		idx, err := l.lowerExpr(e.Index)
		if err != nil {
			return nil, err
		}
		dst := l.temps.New()
		l.emit(Load{Dst: dst, Object: obj, Index: idx})
		return dst, nil

	case *ast.PropertyAccess:
		obj, err := l.lowerExpr(e.Object)
		if err != nil {
			return nil, err
		}
		dst := l.temps.New()
		l.emit(GetProp{Dst: dst, Object: obj, Field: e.Name})
		return dst, nil

	case *ast.NewExpression:
		args, err := l.lowerExprs(e.Args)
		if err != nil {
			return nil, err
		}
		dst := l.temps.New()
		l.emit(NewObject{Dst: dst, ClassName: e.ClassName, Args: args})
		return dst, nil

	default:
		return nil, fmt.Errorf("ir: unsupported expression %T", e)
	}
}

func (l *Lowering) lowerArrayLiteral(e *ast.ArrayLiteral) (Operand, error) {
	dst := l.temps.New()
	l.emit(Call{Dst: dst, Callee: "__new_array", Args: []Operand{IntConst(int64(len(e.Elements)))}})
	for i, el := range e.Elements {
		v, err := l.lowerExpr(el)
		if err != nil {
			return nil, err
		}
		l.emit(Store{Object: dst, Index: IntConst(int64(i)), Value: v})
	}
	return dst, nil
}

// lowerTernary evaluates each branch only after taking the
// corresponding conditional jump, rather than evaluating both branches
// unconditionally and selecting with a boolop, since a branch may have
// side effects (a call, a field write nested in an expression the
// grammar allows).
func (l *Lowering) lowerTernary(e *ast.TernaryExpression) (Operand, error) {
	cond, err := l.lowerExpr(e.Cond)
	if err != nil {
		return nil, err
	}
	lThen := l.labels.New("then")
	lElse := l.labels.New("else")
	lEnd := l.labels.New("end")
	dst := l.temps.New()

	l.emit(IfGoto{Cond: cond, L: lThen})
	l.emit(Goto{L: lElse})

	l.newBlock(lThen)
	v1, err := l.lowerExpr(e.Then)
	if err != nil {
		return nil, err
	}
	l.emit(Assign{Dst: dst, Src: v1})
	l.emit(Goto{L: lEnd})

	l.newBlock(lElse)
	v2, err := l.lowerExpr(e.Else)
	if err != nil {
		return nil, err
	}
	l.emit(Assign{Dst: dst, Src: v2})
	l.emit(Goto{L: lEnd})

	l.newBlock(lEnd)
	return dst, nil
}

func (l *Lowering) lowerExprs(exprs []ast.Expression) ([]Operand, error) {
	out := make([]Operand, len(exprs))
	for i, e := range exprs {
		v, err := l.lowerExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (l *Lowering) lowerCall(e *ast.CallExpression) (Operand, error) {
	switch callee := e.Callee.(type) {
	case *ast.Identifier:
		args, err := l.lowerExprs(e.Args)
		if err != nil {
			return nil, err
		}
		return l.emitCall(callee.Name, args, e.GetType())

	case *ast.PropertyAccess:
		obj, err := l.lowerExpr(callee.Object)
		if err != nil {
			return nil, err
		}
		args, err := l.lowerExprs(e.Args)
		if err != nil {
			return nil, err
		}
		allArgs := append([]Operand{obj}, args...)
		return l.emitCall("__mcall__"+callee.Name, allArgs, e.GetType())

	default:
		return nil, fmt.Errorf("ir: unsupported call target %T", callee)
	}
}

func (l *Lowering) emitCall(callee string, args []Operand, ret types.Type) (Operand, error) {
	if ret == nil || ret == types.Void {
		l.emit(Call{Callee: callee, Args: args})
		return nil, nil
	}
	dst := l.temps.New()
	l.emit(Call{Dst: dst, Callee: callee, Args: args})
	return dst, nil
}
