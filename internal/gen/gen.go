package gen

import (
	"bytes"
	"fmt"
	"go/token"
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
	"github.com/pkg/errors"
)

const proxyPkgPath = "github.com/CherkashinEvgeny/goproxy/proxy"

type Config struct {
	DstPkgName string
	DstPkgPath string
	SrcPkg     *types.Package
	Proxies    []ProxyConfig
}

type ProxyConfig struct {
	IfaceName string
	Iface     *types.Interface
	ProxyName string
}

// Generate renders proxy adapters, dispatch tables and registrations for
// every configured interface.
func Generate(cfg Config) (string, error) {
	f := jen.NewFilePathName(cfg.DstPkgPath, cfg.DstPkgName)
	f.HeaderComment("Code generated by goproxy. DO NOT EDIT.")
	f.ImportName(proxyPkgPath, "proxy")
	declared := make(map[string]string)
	for _, p := range cfg.Proxies {
		if cfg.DstPkgPath != cfg.SrcPkg.Path() && !token.IsExported(p.IfaceName) {
			return "", errors.Errorf("interface='%s' is unexported and cannot be used from package '%s'", p.IfaceName, cfg.DstPkgPath)
		}
		for _, name := range declaredNames(p) {
			if other, dup := declared[name]; dup {
				return "", errors.Errorf("'%s' is declared for both interface='%s' and interface='%s'", name, other, p.IfaceName)
			}
			declared[name] = p.IfaceName
		}
	}
	for _, p := range cfg.Proxies {
		generateProxy(f, cfg.DstPkgPath, cfg.SrcPkg.Path(), p)
	}
	buf := bytes.NewBuffer(nil)
	err := f.Render(buf)
	if err != nil {
		return "", errors.Wrap(err, "render")
	}
	return buf.String(), nil
}

func generateProxy(f *jen.File, dstPath string, srcPath string, p ProxyConfig) {
	iface := func() *jen.Statement {
		return jen.Qual(srcPath, p.IfaceName)
	}
	descName := p.IfaceName + "Descriptor"

	methodVars := make([]jen.Code, 0, p.Iface.NumMethods())
	reserved := map[string]bool{"p": true, "out": true, "err": true, "nil": true, "panic": true, "proxy": true}
	for i := 0; i < p.Iface.NumMethods(); i++ {
		reserved[methodVarName(p.IfaceName, p.Iface.Method(i).Name())] = true
	}
	for i := 0; i < p.Iface.NumMethods(); i++ {
		m := p.Iface.Method(i)
		varName := methodVarName(p.IfaceName, m.Name())
		f.Var().Id(varName).Op("=").Qual(proxyPkgPath, "NewMethod").Call(
			jen.Lit(m.Name()),
			dispatchFunc(iface(), m),
		)
		methodVars = append(methodVars, jen.Id(varName))
	}

	f.Comment(fmt.Sprintf("%s is the dispatch table of %s.", descName, p.IfaceName))
	f.Var().Id(descName).Op("=").Qual(proxyPkgPath, "MustDescribe").Types(iface()).Call(methodVars...)

	f.Comment(fmt.Sprintf("%s routes every %s call to a proxy.Interceptor.", p.ProxyName, p.IfaceName))
	f.Type().Id(p.ProxyName).Struct(jen.Qual(proxyPkgPath, "Base"))

	f.Func().Id("New" + p.ProxyName).Params(
		jen.Id("interceptor").Qual(proxyPkgPath, "Interceptor"),
	).Id(p.ProxyName).Block(
		jen.Return(jen.Id(p.ProxyName).Values(jen.Dict{
			jen.Id("Base"): jen.Qual(proxyPkgPath, "Bind").Call(jen.Id("interceptor")),
		})),
	)

	for i := 0; i < p.Iface.NumMethods(); i++ {
		m := p.Iface.Method(i)
		f.Add(adapterMethod(p.ProxyName, methodVarName(p.IfaceName, m.Name()), m, bodyNames(reserved, dstPath, m)))
	}

	f.Func().Id("init").Params().Block(
		jen.Qual(proxyPkgPath, "MustRegister").Types(iface()).Call(
			jen.Id(descName),
			jen.Func().Params(jen.Id("base").Qual(proxyPkgPath, "Base")).Add(iface()).Block(
				jen.Return(jen.Id(p.ProxyName).Values(jen.Dict{
					jen.Id("Base"): jen.Id("base"),
				})),
			),
		),
	)
}

// declaredNames lists the package level identifiers generated for p.
func declaredNames(p ProxyConfig) []string {
	names := []string{p.ProxyName, "New" + p.ProxyName, p.IfaceName + "Descriptor"}
	for i := 0; i < p.Iface.NumMethods(); i++ {
		names = append(names, methodVarName(p.IfaceName, p.Iface.Method(i).Name()))
	}
	return names
}

// dispatchFunc renders the proxy.CallFunc that calls m on a target.
func dispatchFunc(iface *jen.Statement, m *types.Func) jen.Code {
	sig := m.Type().(*types.Signature)
	params := sig.Params()
	callArgs := make([]jen.Code, 0, params.Len())
	for i := 0; i < params.Len(); i++ {
		arg := jen.Qual(proxyPkgPath, "Arg").Types(typeCode(params.At(i).Type())).Call(jen.Id("args"), jen.Lit(i))
		if sig.Variadic() && i == params.Len()-1 {
			arg = arg.Op("...")
		}
		callArgs = append(callArgs, arg)
	}
	call := jen.Id("target").Assert(iface).Dot(m.Name()).Call(callArgs...)

	values, hasErr := splitResults(sig)
	lhs := make([]jen.Code, 0, values+1)
	out := make([]jen.Code, 0, values)
	for i := 0; i < values; i++ {
		lhs = append(lhs, jen.Id(fmt.Sprintf("r%d", i)))
		out = append(out, jen.Id(fmt.Sprintf("r%d", i)))
	}
	if hasErr {
		lhs = append(lhs, jen.Err())
	}

	body := make([]jen.Code, 0, 2)
	if len(lhs) == 0 {
		body = append(body, call)
	} else {
		body = append(body, jen.List(lhs...).Op(":=").Add(call))
	}
	var outCode jen.Code = jen.Nil()
	if values > 0 {
		outCode = jen.Index().Interface().Values(out...)
	}
	var errCode jen.Code = jen.Nil()
	if hasErr {
		errCode = jen.Err()
	}
	body = append(body, jen.Return(outCode, errCode))

	return jen.Func().Params(
		jen.Id("target").Interface(),
		jen.Id("args").Index().Interface(),
	).Params(jen.Index().Interface(), jen.Error()).Block(body...)
}

// adapterMethod renders the proxy method that hands the call to
// proxy.Dispatch. Methods without an error result panic on dispatch errors.
func adapterMethod(proxyName string, methodVar string, m *types.Func, reserved map[string]bool) jen.Code {
	sig := m.Type().(*types.Signature)
	params := sig.Params()
	names := paramNames(params, reserved)

	paramCodes := make([]jen.Code, 0, params.Len())
	dispatchArgs := []jen.Code{jen.Id("p").Dot("Base"), jen.Id("p"), jen.Id(methodVar)}
	for i := 0; i < params.Len(); i++ {
		t := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			paramCodes = append(paramCodes, jen.Id(names[i]).Op("...").Add(typeCode(t.(*types.Slice).Elem())))
		} else {
			paramCodes = append(paramCodes, jen.Id(names[i]).Add(typeCode(t)))
		}
		dispatchArgs = append(dispatchArgs, jen.Id(names[i]))
	}

	values, hasErr := splitResults(sig)
	results := sig.Results()
	resultCodes := make([]jen.Code, 0, results.Len())
	for i := 0; i < results.Len(); i++ {
		resultCodes = append(resultCodes, typeCode(results.At(i).Type()))
	}

	outId := "_"
	if values > 0 {
		outId = "out"
	}
	body := []jen.Code{
		jen.List(jen.Id(outId), jen.Err()).Op(":=").Qual(proxyPkgPath, "Dispatch").Call(dispatchArgs...),
	}
	if !hasErr {
		body = append(body, jen.If(jen.Err().Op("!=").Nil()).Block(jen.Panic(jen.Err())))
	}
	ret := make([]jen.Code, 0, results.Len())
	for i := 0; i < values; i++ {
		ret = append(ret, jen.Qual(proxyPkgPath, "Result").Types(typeCode(results.At(i).Type())).Call(jen.Id("out"), jen.Lit(i)))
	}
	if hasErr {
		ret = append(ret, jen.Err())
	}
	if len(ret) > 0 {
		body = append(body, jen.Return(ret...))
	}

	fn := jen.Func().Params(jen.Id("p").Id(proxyName)).Id(m.Name()).Params(paramCodes...)
	switch len(resultCodes) {
	case 0:
	case 1:
		fn = fn.Add(resultCodes[0])
	default:
		fn = fn.Params(resultCodes...)
	}
	return fn.Block(body...)
}

func splitResults(sig *types.Signature) (values int, hasErr bool) {
	results := sig.Results()
	values = results.Len()
	if values > 0 && isError(results.At(values-1).Type()) {
		return values - 1, true
	}
	return values, false
}

var errorType = types.Universe.Lookup("error").Type()

func isError(t types.Type) bool {
	return types.Identical(t, errorType)
}

// bodyNames returns the identifiers an adapter body for m refers to: the
// shared ones plus whatever the result types render as.
func bodyNames(shared map[string]bool, dstPath string, m *types.Func) map[string]bool {
	names := make(map[string]bool, len(shared))
	for name := range shared {
		names[name] = true
	}
	results := m.Type().(*types.Signature).Results()
	for i := 0; i < results.Len(); i++ {
		typeNames(results.At(i).Type(), dstPath, names)
	}
	return names
}

// typeNames collects the file scope identifiers typeCode renders for t.
func typeNames(t types.Type, dstPath string, names map[string]bool) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		names[t.Name()] = true
	case *types.Named:
		obj := t.Obj()
		switch {
		case obj.Pkg() == nil || obj.Pkg().Path() == dstPath:
			names[obj.Name()] = true
		default:
			names[obj.Pkg().Name()] = true
		}
		args := t.TypeArgs()
		for i := 0; i < args.Len(); i++ {
			typeNames(args.At(i), dstPath, names)
		}
	case *types.TypeParam:
		names[t.Obj().Name()] = true
	case *types.Pointer:
		typeNames(t.Elem(), dstPath, names)
	case *types.Slice:
		typeNames(t.Elem(), dstPath, names)
	case *types.Array:
		typeNames(t.Elem(), dstPath, names)
	case *types.Map:
		typeNames(t.Key(), dstPath, names)
		typeNames(t.Elem(), dstPath, names)
	case *types.Chan:
		typeNames(t.Elem(), dstPath, names)
	case *types.Signature:
		for _, tuple := range []*types.Tuple{t.Params(), t.Results()} {
			for i := 0; i < tuple.Len(); i++ {
				typeNames(tuple.At(i).Type(), dstPath, names)
			}
		}
	case *types.Interface:
		for i := 0; i < t.NumMethods(); i++ {
			typeNames(t.Method(i).Type(), dstPath, names)
		}
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			typeNames(t.Field(i).Type(), dstPath, names)
		}
	}
}

// paramNames keeps the declared parameter names unless one of them is missing
// or clashes with a name used by the adapter body.
func paramNames(params *types.Tuple, reserved map[string]bool) []string {
	names := make([]string, params.Len())
	seen := make(map[string]bool, params.Len())
	declared := true
	for i := 0; i < params.Len(); i++ {
		name := params.At(i).Name()
		if name == "" || name == "_" || reserved[name] || seen[name] {
			declared = false
			break
		}
		seen[name] = true
		names[i] = name
	}
	if declared {
		return names
	}
	for i := range names {
		names[i] = fmt.Sprintf("arg%d", i)
	}
	return names
}

func methodVarName(ifaceName string, methodName string) string {
	r, size := utf8.DecodeRuneInString(ifaceName)
	return string(unicode.ToLower(r)) + ifaceName[size:] + methodName + "Method"
}

func typeCode(t types.Type) *jen.Statement {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return jen.Id(t.Name())
	case *types.Named:
		obj := t.Obj()
		var code *jen.Statement
		if obj.Pkg() == nil {
			code = jen.Id(obj.Name())
		} else {
			code = jen.Qual(obj.Pkg().Path(), obj.Name())
		}
		if args := t.TypeArgs(); args.Len() > 0 {
			list := make([]jen.Code, 0, args.Len())
			for i := 0; i < args.Len(); i++ {
				list = append(list, typeCode(args.At(i)))
			}
			code = code.Types(list...)
		}
		return code
	case *types.TypeParam:
		return jen.Id(t.Obj().Name())
	case *types.Pointer:
		return jen.Op("*").Add(typeCode(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(typeCode(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(typeCode(t.Elem()))
	case *types.Map:
		return jen.Map(typeCode(t.Key())).Add(typeCode(t.Elem()))
	case *types.Chan:
		switch t.Dir() {
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(typeCode(t.Elem()))
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(typeCode(t.Elem()))
		default:
			return jen.Chan().Add(typeCode(t.Elem()))
		}
	case *types.Signature:
		return jen.Func().Add(signatureCode(t))
	case *types.Interface:
		methods := make([]jen.Code, 0, t.NumMethods())
		for i := 0; i < t.NumMethods(); i++ {
			m := t.Method(i)
			methods = append(methods, jen.Id(m.Name()).Add(signatureCode(m.Type().(*types.Signature))))
		}
		return jen.Interface(methods...)
	case *types.Struct:
		fields := make([]jen.Code, 0, t.NumFields())
		for i := 0; i < t.NumFields(); i++ {
			field := t.Field(i)
			if field.Embedded() {
				fields = append(fields, typeCode(field.Type()))
				continue
			}
			fields = append(fields, jen.Id(field.Name()).Add(typeCode(field.Type())))
		}
		return jen.Struct(fields...)
	default:
		return jen.Id(strings.TrimSpace(t.String()))
	}
}

func signatureCode(sig *types.Signature) *jen.Statement {
	params := sig.Params()
	paramCodes := make([]jen.Code, 0, params.Len())
	for i := 0; i < params.Len(); i++ {
		t := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			paramCodes = append(paramCodes, jen.Op("...").Add(typeCode(t.(*types.Slice).Elem())))
			continue
		}
		paramCodes = append(paramCodes, typeCode(t))
	}
	results := sig.Results()
	resultCodes := make([]jen.Code, 0, results.Len())
	for i := 0; i < results.Len(); i++ {
		resultCodes = append(resultCodes, typeCode(results.At(i).Type()))
	}
	code := jen.Params(paramCodes...)
	switch len(resultCodes) {
	case 0:
	case 1:
		code = code.Add(resultCodes[0])
	default:
		code = code.Params(resultCodes...)
	}
	return code
}
