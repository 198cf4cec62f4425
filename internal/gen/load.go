package gen

import (
	"bytes"
	"go/importer"
	"go/token"
	"go/types"
	"os/exec"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// LoadPackage type-checks the package with the given import path from source.
func LoadPackage(path string) (*types.Package, error) {
	return importer.ForCompiler(token.NewFileSet(), "source", nil).Import(path)
}

// ResolvePackagePath returns the import path of the package in dir.
func ResolvePackagePath(dir string) (string, error) {
	return goList("{{.ImportPath}}", dir)
}

// ResolvePackageName returns the declared name of the package with the given
// import path.
func ResolvePackageName(path string) (string, error) {
	return goList("{{.Name}}", path)
}

func goList(format string, pattern string) (string, error) {
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	cmd := exec.Command("go", "list", "-f", format, pattern)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.Errorf("go list %s: %s", pattern, msg)
		}
		return "", errors.Wrapf(err, "go list %s", pattern)
	}
	value := strings.TrimSpace(stdout.String())
	if value == "" || strings.Contains(value, "\n") {
		return "", errors.Errorf("go list %s: expected one package, got %q", pattern, value)
	}
	return value, nil
}

// ParseProxyOptions parses "Iface" and "Iface->ProxyName" arguments into a
// map from interface name to proxy name. An empty proxy name means the
// default one.
func ParseProxyOptions(options []string) (map[string]string, error) {
	names := make(map[string]string, len(options))
	for _, option := range options {
		ifaceName, proxyName, renamed := strings.Cut(option, "->")
		if !token.IsIdentifier(ifaceName) {
			return nil, errors.Errorf("option='%s': invalid interface name '%s'", option, ifaceName)
		}
		if renamed && !token.IsIdentifier(proxyName) {
			return nil, errors.Errorf("option='%s': invalid proxy name '%s'", option, proxyName)
		}
		if _, dup := names[ifaceName]; dup {
			return nil, errors.Errorf("option='%s': interface '%s' listed twice", option, ifaceName)
		}
		names[ifaceName] = proxyName
	}
	return names, nil
}

// FindProxies selects the interfaces of pkg to generate proxies for. With no
// options every eligible interface is selected. Unexported interfaces are
// only reachable when the code is generated into pkg itself.
func FindProxies(pkg *types.Package, options map[string]string, dstPkgPath string) ([]ProxyConfig, error) {
	samePkg := dstPkgPath == "" || dstPkgPath == pkg.Path()
	ifaces := findNamedInterfaces(pkg)
	var proxies []ProxyConfig
	if len(options) == 0 {
		for ifaceName, iface := range ifaces {
			if !samePkg && !token.IsExported(ifaceName) {
				continue
			}
			if eligible(iface) != nil {
				continue
			}
			proxies = append(proxies, ProxyConfig{
				IfaceName: ifaceName,
				Iface:     iface.Underlying().(*types.Interface),
				ProxyName: ifaceName + "Proxy",
			})
		}
	} else {
		for ifaceName, proxyName := range options {
			iface, found := ifaces[ifaceName]
			if !found {
				return nil, errors.Errorf("interface='%s' not found", ifaceName)
			}
			if !samePkg && !token.IsExported(ifaceName) {
				return nil, errors.Errorf("interface='%s' is unexported and cannot be used from package '%s'", ifaceName, dstPkgPath)
			}
			if err := eligible(iface); err != nil {
				return nil, errors.Wrapf(err, "interface='%s'", ifaceName)
			}
			if proxyName == "" {
				proxyName = ifaceName + "Proxy"
			}
			proxies = append(proxies, ProxyConfig{
				IfaceName: ifaceName,
				Iface:     iface.Underlying().(*types.Interface),
				ProxyName: proxyName,
			})
		}
	}
	sort.Slice(proxies, func(i, j int) bool {
		return proxies[i].IfaceName < proxies[j].IfaceName
	})
	return proxies, nil
}

func findNamedInterfaces(pkg *types.Package) map[string]*types.Named {
	items := map[string]*types.Named{}
	pkgScope := pkg.Scope()
	names := pkgScope.Names()
	for _, name := range names {
		obj := pkgScope.Lookup(name)
		_, ok := obj.(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		if _, ok = named.Underlying().(*types.Interface); !ok {
			continue
		}
		items[name] = named
	}
	return items
}

func eligible(named *types.Named) error {
	if named.TypeParams().Len() > 0 {
		return errors.New("generic interfaces are not supported")
	}
	iface := named.Underlying().(*types.Interface)
	if !iface.IsMethodSet() {
		return errors.New("constraint interfaces are not supported")
	}
	if iface.NumMethods() == 0 {
		return errors.New("interface has no methods")
	}
	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		if !m.Exported() {
			return errors.Errorf("unexported method %s", m.Name())
		}
		// proxies embed proxy.Base
		if m.Name() == "Base" {
			return errors.New("method Base collides with the embedded proxy.Base")
		}
	}
	return nil
}
